package services

import (
	"strings"

	"github.com/terraincognita07/medira/internal/models"
)

type DonorUserRepository interface {
	ListWillingDonors() ([]models.User, error)
}

// DonorService answers blood-donor searches over users who opted in to
// donate.
type DonorService struct {
	users DonorUserRepository
}

func NewDonorService(users DonorUserRepository) *DonorService {
	return &DonorService{users: users}
}

// NormalizeBloodGroup maps free-form input onto one of the known groups, or
// BloodGroupAll. Unrecognized input is uppercased and kept, so an exact
// stored match still works.
func NormalizeBloodGroup(raw string) string {
	group := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(raw), " ", ""))
	if group == "" || group == models.BloodGroupAll {
		return models.BloodGroupAll
	}
	for _, known := range models.KnownBloodGroups {
		if group == known {
			return known
		}
	}
	return group
}

type DonorFilter struct {
	BloodGroup string
	Location   string
	// RequesterID is always excluded from results.
	RequesterID uint
}

func (service *DonorService) FindDonors(filter DonorFilter) ([]models.User, error) {
	donors, err := service.users.ListWillingDonors()
	if err != nil {
		return nil, err
	}

	group := NormalizeBloodGroup(filter.BloodGroup)
	location := strings.ToLower(strings.TrimSpace(filter.Location))

	matched := make([]models.User, 0, len(donors))
	for _, donor := range donors {
		if donor.ID == filter.RequesterID {
			continue
		}
		if location != "" && !strings.Contains(strings.ToLower(donor.Location), location) {
			continue
		}
		if group != models.BloodGroupAll && NormalizeBloodGroup(donor.BloodGroup) != group {
			continue
		}
		matched = append(matched, donor)
	}
	return matched, nil
}
