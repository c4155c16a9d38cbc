package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/terraincognita07/medira/internal/models"
)

var (
	ErrRecordNameRequired = fmt.Errorf("%w: record name must not be empty", ErrValidation)
	ErrRecordTypeUnknown  = fmt.Errorf("%w: unknown record type", ErrValidation)
	ErrRecordNotFound     = fmt.Errorf("%w: unknown record", ErrNotFound)
)

type HealthRecordStore interface {
	ListByUser(userID uint) ([]models.HealthRecord, error)
	FindByUserAndID(userID uint, recordID string) (models.HealthRecord, bool, error)
	Create(record *models.HealthRecord) error
	DeleteByUserAndID(userID uint, recordID string) (bool, error)
}

// RecordService is the health-record wallet: per-user document CRUD with
// type filtering and name search.
type RecordService struct {
	records HealthRecordStore
}

func NewRecordService(records HealthRecordStore) *RecordService {
	return &RecordService{records: records}
}

type RecordInput struct {
	Name    string
	Type    string
	Date    time.Time
	Notes   string
	FileURL string
}

func (service *RecordService) CreateRecord(userID uint, input RecordInput) (models.HealthRecord, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return models.HealthRecord{}, ErrRecordNameRequired
	}

	recordType := strings.ToLower(strings.TrimSpace(input.Type))
	if recordType == "" {
		recordType = models.RecordTypeOther
	}
	if !knownRecordType(recordType) {
		return models.HealthRecord{}, fmt.Errorf("%w: %q", ErrRecordTypeUnknown, input.Type)
	}

	record := models.HealthRecord{
		ID:      uuid.NewString(),
		UserID:  userID,
		Name:    name,
		Type:    recordType,
		Date:    input.Date,
		Notes:   strings.TrimSpace(input.Notes),
		FileURL: strings.TrimSpace(input.FileURL),
	}
	if err := service.records.Create(&record); err != nil {
		return models.HealthRecord{}, err
	}
	return record, nil
}

type RecordFilter struct {
	Type   string
	Search string
}

func (service *RecordService) ListRecords(userID uint, filter RecordFilter) ([]models.HealthRecord, error) {
	records, err := service.records.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	recordType := strings.ToLower(strings.TrimSpace(filter.Type))
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	matched := make([]models.HealthRecord, 0, len(records))
	for _, record := range records {
		if recordType != "" && record.Type != recordType {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(record.Name), search) {
			continue
		}
		matched = append(matched, record)
	}
	return matched, nil
}

func (service *RecordService) GetRecord(userID uint, recordID string) (models.HealthRecord, error) {
	record, found, err := service.records.FindByUserAndID(userID, recordID)
	if err != nil {
		return models.HealthRecord{}, err
	}
	if !found {
		return models.HealthRecord{}, ErrRecordNotFound
	}
	return record, nil
}

// DeleteRecord removes the record. Deleting an id that does not exist (or
// belongs to someone else) fails with ErrRecordNotFound.
func (service *RecordService) DeleteRecord(userID uint, recordID string) error {
	deleted, err := service.records.DeleteByUserAndID(userID, recordID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrRecordNotFound
	}
	return nil
}

func knownRecordType(recordType string) bool {
	for _, known := range models.KnownRecordTypes() {
		if recordType == known {
			return true
		}
	}
	return false
}
