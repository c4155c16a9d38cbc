package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/medira/internal/models"
	"github.com/terraincognita07/medira/internal/services"
)

type listingView struct {
	ID         string `json:"id"`
	TabletName string `json:"tablet_name"`
	ExpiryDate string `json:"expiry_date"`
	PriceCents int    `json:"price_cents"`
	SellerID   uint   `json:"seller_id"`
	Mine       bool   `json:"mine"`
}

func (handler *Handler) ListListings(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	listings, err := handler.recycleService.ListListings(c.Query("search"))
	if err != nil {
		return serviceError(c, err)
	}

	views := make([]listingView, 0, len(listings))
	for _, listing := range listings {
		views = append(views, listingView{
			ID:         listing.ID,
			TabletName: listing.TabletName,
			ExpiryDate: listing.ExpiryDate.Format(models.DateLayout),
			PriceCents: listing.PriceCents,
			SellerID:   listing.SellerID,
			Mine:       listing.SellerID == user.ID,
		})
	}
	return c.JSON(fiber.Map{"listings": views})
}

type createListingRequest struct {
	TabletName string `json:"tablet_name"`
	ExpiryDate string `json:"expiry_date"`
	PriceCents int    `json:"price_cents"`
}

func (handler *Handler) CreateListing(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	var payload createListingRequest
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	listing, err := handler.recycleService.CreateListing(user.ID, services.ListingInput{
		TabletName: payload.TabletName,
		ExpiryDate: payload.ExpiryDate,
		PriceCents: payload.PriceCents,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(listingView{
		ID:         listing.ID,
		TabletName: listing.TabletName,
		ExpiryDate: listing.ExpiryDate.Format(models.DateLayout),
		PriceCents: listing.PriceCents,
		SellerID:   listing.SellerID,
		Mine:       true,
	})
}

func (handler *Handler) DeleteListing(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	if err := handler.recycleService.DeleteListing(user.ID, c.Params("id")); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"status": "deleted"})
}
