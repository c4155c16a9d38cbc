package models

import "time"

const (
	RecordTypePrescription = "prescription"
	RecordTypeLabReport    = "lab_report"
	RecordTypeScan         = "scan"
	RecordTypeVaccination  = "vaccination"
	RecordTypeOther        = "other"
)

func KnownRecordTypes() []string {
	return []string{
		RecordTypePrescription,
		RecordTypeLabReport,
		RecordTypeScan,
		RecordTypeVaccination,
		RecordTypeOther,
	}
}

type HealthRecord struct {
	ID        string    `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;index"`
	Name      string    `gorm:"not null"`
	Type      string    `gorm:"not null;default:other"`
	Date      time.Time `gorm:"type:date;not null"`
	Notes     string
	FileURL   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
