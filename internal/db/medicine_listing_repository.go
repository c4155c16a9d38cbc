package db

import (
	"github.com/terraincognita07/medira/internal/models"
	"gorm.io/gorm"
)

type MedicineListingRepository struct {
	database *gorm.DB
}

func NewMedicineListingRepository(database *gorm.DB) *MedicineListingRepository {
	return &MedicineListingRepository{database: database}
}

func (repo *MedicineListingRepository) ListAll() ([]models.MedicineListing, error) {
	listings := make([]models.MedicineListing, 0)
	if err := repo.database.
		Order("created_at DESC, id DESC").
		Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

func (repo *MedicineListingRepository) FindByID(listingID string) (models.MedicineListing, bool, error) {
	listing := models.MedicineListing{}
	result := repo.database.Where("id = ?", listingID).Limit(1).Find(&listing)
	if result.Error != nil {
		return models.MedicineListing{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.MedicineListing{}, false, nil
	}
	return listing, true, nil
}

func (repo *MedicineListingRepository) Create(listing *models.MedicineListing) error {
	return repo.database.Create(listing).Error
}

func (repo *MedicineListingRepository) DeleteByID(listingID string) error {
	return repo.database.Where("id = ?", listingID).Delete(&models.MedicineListing{}).Error
}
