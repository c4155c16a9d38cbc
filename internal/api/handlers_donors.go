package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/medira/internal/models"
	"github.com/terraincognita07/medira/internal/services"
)

type donorView struct {
	ID          uint   `json:"id"`
	DisplayName string `json:"display_name"`
	BloodGroup  string `json:"blood_group"`
	Location    string `json:"location,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

func (handler *Handler) FindDonors(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	donors, err := handler.donorService.FindDonors(services.DonorFilter{
		BloodGroup:  c.Query("blood_group", models.BloodGroupAll),
		Location:    c.Query("location"),
		RequesterID: user.ID,
	})
	if err != nil {
		return serviceError(c, err)
	}

	views := make([]donorView, 0, len(donors))
	for _, donor := range donors {
		views = append(views, donorView{
			ID:          donor.ID,
			DisplayName: donor.DisplayName,
			BloodGroup:  services.NormalizeBloodGroup(donor.BloodGroup),
			Location:    donor.Location,
			Phone:       donor.Phone,
		})
	}
	return c.JSON(fiber.Map{"donors": views})
}
