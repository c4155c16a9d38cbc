package db

import (
	"github.com/terraincognita07/medira/internal/models"
	"gorm.io/gorm"
)

type ReminderRepository struct {
	database *gorm.DB
}

func NewReminderRepository(database *gorm.DB) *ReminderRepository {
	return &ReminderRepository{database: database}
}

func (repo *ReminderRepository) ListByUser(userID uint) ([]models.Reminder, error) {
	reminders := make([]models.Reminder, 0)
	if err := repo.database.
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&reminders).Error; err != nil {
		return nil, err
	}
	return reminders, nil
}

func (repo *ReminderRepository) ExistsByID(reminderID string) (bool, error) {
	var matched int64
	if err := repo.database.Model(&models.Reminder{}).
		Where("id = ?", reminderID).
		Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

func (repo *ReminderRepository) Create(reminder *models.Reminder) error {
	return repo.database.Create(reminder).Error
}

func (repo *ReminderRepository) Save(reminder *models.Reminder) error {
	return repo.database.Save(reminder).Error
}

// SaveIfExists refuses to resurrect a reminder deleted while the write was
// in flight.
func (repo *ReminderRepository) SaveIfExists(reminder *models.Reminder) error {
	exists, err := repo.ExistsByID(reminder.ID)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	return repo.database.Save(reminder).Error
}

func (repo *ReminderRepository) DeleteByID(reminderID string) error {
	return repo.database.Where("id = ?", reminderID).Delete(&models.Reminder{}).Error
}
