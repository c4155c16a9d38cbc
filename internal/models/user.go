package models

import "time"

// BloodGroupAll matches every donor regardless of group.
const BloodGroupAll = "ALL"

// KnownBloodGroups lists the groups the donor directory understands.
var KnownBloodGroups = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

type User struct {
	ID              uint   `gorm:"primaryKey"`
	Email           string `gorm:"uniqueIndex;not null"`
	PasswordHash    string `gorm:"not null"`
	DisplayName     string `gorm:"not null"`
	BloodGroup      string
	Location        string
	Phone           string
	WillingToDonate bool      `gorm:"not null;default:false"`
	CreatedAt       time.Time `gorm:"not null"`
}
