package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/medira/internal/models"
	"github.com/terraincognita07/medira/internal/services"
)

type reminderView struct {
	ID        string               `json:"id"`
	Title     string               `json:"title"`
	Slots     models.ReminderSlots `json:"slots"`
	CreatedAt time.Time            `json:"created_at"`
}

func reminderViews(reminders []models.Reminder) []reminderView {
	views := make([]reminderView, 0, len(reminders))
	for _, reminder := range reminders {
		views = append(views, reminderView{
			ID:        reminder.ID,
			Title:     reminder.Title,
			Slots:     reminder.Slots,
			CreatedAt: reminder.CreatedAt,
		})
	}
	return views
}

type slotConfigRequest struct {
	Enabled bool       `json:"enabled"`
	At      *time.Time `json:"at"`
}

type createReminderRequest struct {
	Title string                       `json:"title"`
	Slots map[string]slotConfigRequest `json:"slots"`
}

func (handler *Handler) trackerFor(c *fiber.Ctx) (*services.ReminderTracker, error) {
	user, ok := currentUser(c)
	if !ok {
		return nil, fiber.ErrUnauthorized
	}
	return handler.reminderService.TrackerFor(user.ID)
}

func (handler *Handler) ListReminders(c *fiber.Ctx) error {
	tracker, err := handler.trackerFor(c)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"reminders": reminderViews(tracker.Snapshot())})
}

func (handler *Handler) CreateReminder(c *fiber.Ctx) error {
	tracker, err := handler.trackerFor(c)
	if err != nil {
		return serviceError(c, err)
	}

	var payload createReminderRequest
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	config := make(map[string]services.SlotConfig, len(payload.Slots))
	for name, slot := range payload.Slots {
		config[name] = services.SlotConfig{Enabled: slot.Enabled, At: slot.At}
	}

	reminder, err := tracker.CreateReminder(payload.Title, config)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(reminderView{
		ID:        reminder.ID,
		Title:     reminder.Title,
		Slots:     reminder.Slots,
		CreatedAt: reminder.CreatedAt,
	})
}

type slotUpdateRequest struct {
	Enabled *bool      `json:"enabled"`
	At      *time.Time `json:"at"`
}

func (handler *Handler) UpdateReminderSlot(c *fiber.Ctx) error {
	tracker, err := handler.trackerFor(c)
	if err != nil {
		return serviceError(c, err)
	}

	var payload slotUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	reminder, err := tracker.UpdateSlot(c.Params("id"), c.Params("slot"), services.SlotUpdate{
		Enabled: payload.Enabled,
		At:      payload.At,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(reminderView{
		ID:        reminder.ID,
		Title:     reminder.Title,
		Slots:     reminder.Slots,
		CreatedAt: reminder.CreatedAt,
	})
}

func (handler *Handler) ToggleReminderSlot(c *fiber.Ctx) error {
	tracker, err := handler.trackerFor(c)
	if err != nil {
		return serviceError(c, err)
	}

	reminder, err := tracker.ToggleTaken(c.Params("id"), c.Params("slot"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(reminderView{
		ID:        reminder.ID,
		Title:     reminder.Title,
		Slots:     reminder.Slots,
		CreatedAt: reminder.CreatedAt,
	})
}

func (handler *Handler) DeleteReminder(c *fiber.Ctx) error {
	tracker, err := handler.trackerFor(c)
	if err != nil {
		return serviceError(c, err)
	}

	if err := tracker.DeleteReminder(c.Params("id")); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"status": "deleted"})
}

// QueryReminders returns the due/taken view for a local date, today when the
// date query parameter is absent.
func (handler *Handler) QueryReminders(c *fiber.Ctx) error {
	tracker, err := handler.trackerFor(c)
	if err != nil {
		return serviceError(c, err)
	}

	date := c.Query("date")
	if date == "" {
		date = handler.reminderService.Today()
	} else if _, parseErr := time.Parse(models.DateLayout, date); parseErr != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid date, expected YYYY-MM-DD"})
	}

	return c.JSON(fiber.Map{
		"date":  date,
		"slots": tracker.Query(date),
	})
}

// ReminderNotices drains pending persistence-failure notices so the client
// can show a non-blocking warning.
func (handler *Handler) ReminderNotices(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	return c.JSON(fiber.Map{"notices": handler.reminderService.ConsumeWriteNotices(user.ID)})
}
