package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/terraincognita07/medira/internal/models"
)

var (
	ErrListingNameRequired  = fmt.Errorf("%w: tablet name must not be empty", ErrValidation)
	ErrListingExpiryInvalid = fmt.Errorf("%w: expiry date must be a future calendar date", ErrValidation)
	ErrListingPriceInvalid  = fmt.Errorf("%w: price must be positive", ErrValidation)
	ErrListingNotFound      = fmt.Errorf("%w: unknown listing", ErrNotFound)
	ErrListingNotSeller     = fmt.Errorf("%w: only the seller may remove a listing", ErrInvalidState)
)

type MedicineListingStore interface {
	ListAll() ([]models.MedicineListing, error)
	FindByID(listingID string) (models.MedicineListing, bool, error)
	Create(listing *models.MedicineListing) error
	DeleteByID(listingID string) error
}

// RecycleService runs the unused-medicine marketplace.
type RecycleService struct {
	listings MedicineListingStore
	clock    Clock
	location *time.Location
}

func NewRecycleService(listings MedicineListingStore, clock Clock, location *time.Location) *RecycleService {
	if clock == nil {
		clock = SystemClock()
	}
	if location == nil {
		location = time.Local
	}
	return &RecycleService{listings: listings, clock: clock, location: location}
}

type ListingInput struct {
	TabletName string
	ExpiryDate string
	PriceCents int
}

func (service *RecycleService) CreateListing(sellerID uint, input ListingInput) (models.MedicineListing, error) {
	name := strings.TrimSpace(input.TabletName)
	if name == "" {
		return models.MedicineListing{}, ErrListingNameRequired
	}
	if input.PriceCents <= 0 {
		return models.MedicineListing{}, ErrListingPriceInvalid
	}

	expiry, err := time.ParseInLocation(models.DateLayout, strings.TrimSpace(input.ExpiryDate), service.location)
	if err != nil {
		return models.MedicineListing{}, fmt.Errorf("%w: %q", ErrListingExpiryInvalid, input.ExpiryDate)
	}
	today := DateAtLocation(service.clock.Now(), service.location)
	if expiry.Before(today) {
		return models.MedicineListing{}, ErrListingExpiryInvalid
	}

	listing := models.MedicineListing{
		ID:         uuid.NewString(),
		SellerID:   sellerID,
		TabletName: name,
		ExpiryDate: expiry,
		PriceCents: input.PriceCents,
	}
	if err := service.listings.Create(&listing); err != nil {
		return models.MedicineListing{}, err
	}
	return listing, nil
}

func (service *RecycleService) ListListings(search string) ([]models.MedicineListing, error) {
	listings, err := service.listings.ListAll()
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(search))
	if needle == "" {
		return listings, nil
	}

	matched := make([]models.MedicineListing, 0, len(listings))
	for _, listing := range listings {
		if strings.Contains(strings.ToLower(listing.TabletName), needle) {
			matched = append(matched, listing)
		}
	}
	return matched, nil
}

func (service *RecycleService) DeleteListing(sellerID uint, listingID string) error {
	listing, found, err := service.listings.FindByID(listingID)
	if err != nil {
		return err
	}
	if !found {
		return ErrListingNotFound
	}
	if listing.SellerID != sellerID {
		return ErrListingNotSeller
	}
	return service.listings.DeleteByID(listingID)
}
