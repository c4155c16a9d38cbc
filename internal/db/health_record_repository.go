package db

import (
	"github.com/terraincognita07/medira/internal/models"
	"gorm.io/gorm"
)

type HealthRecordRepository struct {
	database *gorm.DB
}

func NewHealthRecordRepository(database *gorm.DB) *HealthRecordRepository {
	return &HealthRecordRepository{database: database}
}

func (repo *HealthRecordRepository) ListByUser(userID uint) ([]models.HealthRecord, error) {
	records := make([]models.HealthRecord, 0)
	if err := repo.database.
		Where("user_id = ?", userID).
		Order("date DESC, id DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (repo *HealthRecordRepository) FindByUserAndID(userID uint, recordID string) (models.HealthRecord, bool, error) {
	record := models.HealthRecord{}
	result := repo.database.
		Where("user_id = ? AND id = ?", userID, recordID).
		Limit(1).
		Find(&record)
	if result.Error != nil {
		return models.HealthRecord{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.HealthRecord{}, false, nil
	}
	return record, true, nil
}

func (repo *HealthRecordRepository) Create(record *models.HealthRecord) error {
	return repo.database.Create(record).Error
}

func (repo *HealthRecordRepository) Save(record *models.HealthRecord) error {
	return repo.database.Save(record).Error
}

func (repo *HealthRecordRepository) DeleteByUserAndID(userID uint, recordID string) (bool, error) {
	result := repo.database.
		Where("user_id = ? AND id = ?", userID, recordID).
		Delete(&models.HealthRecord{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
