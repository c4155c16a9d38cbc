package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/medira/internal/models"
	"github.com/terraincognita07/medira/internal/services"
)

type recordView struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Date    string `json:"date"`
	Notes   string `json:"notes,omitempty"`
	FileURL string `json:"file_url,omitempty"`
}

func recordViewOf(record models.HealthRecord) recordView {
	return recordView{
		ID:      record.ID,
		Name:    record.Name,
		Type:    record.Type,
		Date:    record.Date.Format(models.DateLayout),
		Notes:   record.Notes,
		FileURL: record.FileURL,
	}
}

func (handler *Handler) ListRecords(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	records, err := handler.recordService.ListRecords(user.ID, services.RecordFilter{
		Type:   c.Query("type"),
		Search: c.Query("search"),
	})
	if err != nil {
		return serviceError(c, err)
	}

	views := make([]recordView, 0, len(records))
	for _, record := range records {
		views = append(views, recordViewOf(record))
	}
	return c.JSON(fiber.Map{"records": views})
}

type createRecordRequest struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Date    string `json:"date"`
	Notes   string `json:"notes"`
	FileURL string `json:"file_url"`
}

func (handler *Handler) CreateRecord(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	var payload createRecordRequest
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	date := time.Now()
	if payload.Date != "" {
		parsed, err := time.ParseInLocation(models.DateLayout, payload.Date, handler.location)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid date, expected YYYY-MM-DD"})
		}
		date = parsed
	}

	record, err := handler.recordService.CreateRecord(user.ID, services.RecordInput{
		Name:    payload.Name,
		Type:    payload.Type,
		Date:    date,
		Notes:   payload.Notes,
		FileURL: payload.FileURL,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(recordViewOf(record))
}

func (handler *Handler) GetRecord(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	record, err := handler.recordService.GetRecord(user.ID, c.Params("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(recordViewOf(record))
}

func (handler *Handler) DeleteRecord(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	if err := handler.recordService.DeleteRecord(user.ID, c.Params("id")); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"status": "deleted"})
}
