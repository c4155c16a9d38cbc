package services

import (
	"errors"
	"net/mail"
	"strings"

	"github.com/terraincognita07/medira/internal/models"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrAuthCredentialsInvalid = errors.New("auth credentials invalid")
	ErrEmailTaken             = errors.New("email already registered")
)

type AuthUserRepository interface {
	ExistsByNormalizedEmail(email string) (bool, error)
	FindByNormalizedEmail(email string) (models.User, error)
	FindByID(userID uint) (models.User, error)
	Create(user *models.User) error
	UpdateProfile(userID uint, updates map[string]any) error
	DeleteAccountAndRelatedData(userID uint) error
}

type AuthService struct {
	users AuthUserRepository
}

func NewAuthService(users AuthUserRepository) *AuthService {
	return &AuthService{users: users}
}

func NormalizeAuthEmail(raw string) string {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return ""
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ""
	}
	return email
}

type RegistrationInput struct {
	Email           string
	Password        string
	DisplayName     string
	BloodGroup      string
	Location        string
	Phone           string
	WillingToDonate bool
}

func (service *AuthService) Register(input RegistrationInput) (models.User, error) {
	email := NormalizeAuthEmail(input.Email)
	if email == "" {
		return models.User{}, ErrAuthCredentialsInvalid
	}
	if err := ValidatePasswordStrength(input.Password); err != nil {
		return models.User{}, err
	}
	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" {
		return models.User{}, ErrAuthCredentialsInvalid
	}

	taken, err := service.users.ExistsByNormalizedEmail(email)
	if err != nil {
		return models.User{}, err
	}
	if taken {
		return models.User{}, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Email:           email,
		PasswordHash:    string(hash),
		DisplayName:     displayName,
		BloodGroup:      NormalizeBloodGroup(input.BloodGroup),
		Location:        strings.TrimSpace(input.Location),
		Phone:           strings.TrimSpace(input.Phone),
		WillingToDonate: input.WillingToDonate,
	}
	if err := service.users.Create(&user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (service *AuthService) Authenticate(emailRaw string, password string) (models.User, error) {
	email := NormalizeAuthEmail(emailRaw)
	password = strings.TrimSpace(password)
	if email == "" || password == "" {
		return models.User{}, ErrAuthCredentialsInvalid
	}

	user, err := service.users.FindByNormalizedEmail(email)
	if err != nil {
		return models.User{}, ErrAuthCredentialsInvalid
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrAuthCredentialsInvalid
	}
	return user, nil
}

func (service *AuthService) FindByID(userID uint) (models.User, error) {
	return service.users.FindByID(userID)
}

type ProfileUpdateInput struct {
	DisplayName     *string
	BloodGroup      *string
	Location        *string
	Phone           *string
	WillingToDonate *bool
}

func (service *AuthService) UpdateProfile(userID uint, input ProfileUpdateInput) error {
	updates := map[string]any{}
	if input.DisplayName != nil {
		displayName := strings.TrimSpace(*input.DisplayName)
		if displayName == "" {
			return ErrAuthCredentialsInvalid
		}
		updates["display_name"] = displayName
	}
	if input.BloodGroup != nil {
		updates["blood_group"] = NormalizeBloodGroup(*input.BloodGroup)
	}
	if input.Location != nil {
		updates["location"] = strings.TrimSpace(*input.Location)
	}
	if input.Phone != nil {
		updates["phone"] = strings.TrimSpace(*input.Phone)
	}
	if input.WillingToDonate != nil {
		updates["willing_to_donate"] = *input.WillingToDonate
	}
	if len(updates) == 0 {
		return nil
	}
	return service.users.UpdateProfile(userID, updates)
}

func (service *AuthService) DeleteAccount(userID uint) error {
	return service.users.DeleteAccountAndRelatedData(userID)
}
