package db

import "gorm.io/gorm"

type Repositories struct {
	Users     *UserRepository
	Reminders *ReminderRepository
	Records   *HealthRecordRepository
	Listings  *MedicineListingRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:     NewUserRepository(database),
		Reminders: NewReminderRepository(database),
		Records:   NewHealthRecordRepository(database),
		Listings:  NewMedicineListingRepository(database),
	}
}
