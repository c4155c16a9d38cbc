package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/medira/internal/models"
	"github.com/terraincognita07/medira/internal/services"
)

const (
	loginAttemptLimit  = 10
	loginAttemptWindow = 15 * time.Minute
)

type registerRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	DisplayName     string `json:"display_name"`
	BloodGroup      string `json:"blood_group"`
	Location        string `json:"location"`
	Phone           string `json:"phone"`
	WillingToDonate bool   `json:"willing_to_donate"`
}

type loginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me"`
}

type profileResponse struct {
	ID              uint   `json:"id"`
	Email           string `json:"email"`
	DisplayName     string `json:"display_name"`
	BloodGroup      string `json:"blood_group,omitempty"`
	Location        string `json:"location,omitempty"`
	Phone           string `json:"phone,omitempty"`
	WillingToDonate bool   `json:"willing_to_donate"`
}

func profileView(user *models.User) profileResponse {
	return profileResponse{
		ID:              user.ID,
		Email:           user.Email,
		DisplayName:     user.DisplayName,
		BloodGroup:      user.BloodGroup,
		Location:        user.Location,
		Phone:           user.Phone,
		WillingToDonate: user.WillingToDonate,
	}
}

func (handler *Handler) Register(c *fiber.Ctx) error {
	var payload registerRequest
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	user, err := handler.authService.Register(services.RegistrationInput{
		Email:           payload.Email,
		Password:        payload.Password,
		DisplayName:     payload.DisplayName,
		BloodGroup:      payload.BloodGroup,
		Location:        payload.Location,
		Phone:           payload.Phone,
		WillingToDonate: payload.WillingToDonate,
	})
	if err != nil {
		return serviceError(c, err)
	}

	token, err := handler.buildToken(&user, defaultAuthTokenTTL)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token":   token,
		"profile": profileView(&user),
	})
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	limiterKey := requestLimiterKey(c)
	now := time.Now()
	if handler.loginLimiter.tooManyRecent(limiterKey, now, loginAttemptLimit, loginAttemptWindow) {
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many attempts, try again later"})
	}

	var payload loginRequest
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	user, err := handler.authService.Authenticate(payload.Email, payload.Password)
	if err != nil {
		handler.loginLimiter.add(limiterKey, now, loginAttemptWindow)
		return serviceError(c, err)
	}
	handler.loginLimiter.reset(limiterKey)

	ttl := defaultAuthTokenTTL
	if payload.RememberMe {
		ttl = rememberAuthTokenTTL
	}
	token, err := handler.buildToken(&user, ttl)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"token":   token,
		"profile": profileView(&user),
	})
}

// Logout tears down the server-side session state: the reminder tracker is
// closed and its live subscriptions dropped. The bearer token itself simply
// expires.
func (handler *Handler) Logout(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	handler.reminderService.CloseTracker(user.ID)
	return c.JSON(fiber.Map{"status": "signed out"})
}

func (handler *Handler) GetProfile(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	return c.JSON(profileView(user))
}

type profileUpdateRequest struct {
	DisplayName     *string `json:"display_name"`
	BloodGroup      *string `json:"blood_group"`
	Location        *string `json:"location"`
	Phone           *string `json:"phone"`
	WillingToDonate *bool   `json:"willing_to_donate"`
}

func (handler *Handler) UpdateProfile(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	var payload profileUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	err := handler.authService.UpdateProfile(user.ID, services.ProfileUpdateInput{
		DisplayName:     payload.DisplayName,
		BloodGroup:      payload.BloodGroup,
		Location:        payload.Location,
		Phone:           payload.Phone,
		WillingToDonate: payload.WillingToDonate,
	})
	if err != nil {
		return serviceError(c, err)
	}

	updated, err := handler.authService.FindByID(user.ID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(profileView(&updated))
}

func (handler *Handler) DeleteAccount(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	handler.reminderService.CloseTracker(user.ID)
	if err := handler.authService.DeleteAccount(user.ID); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"status": "account deleted"})
}
