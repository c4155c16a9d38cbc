package services

import (
	"errors"
	"testing"

	"github.com/terraincognita07/medira/internal/models"
)

type memoryUserRepository struct {
	users  map[uint]models.User
	nextID uint
}

func newMemoryUserRepository() *memoryUserRepository {
	return &memoryUserRepository{users: make(map[uint]models.User)}
}

func (repo *memoryUserRepository) ExistsByNormalizedEmail(email string) (bool, error) {
	for _, user := range repo.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (repo *memoryUserRepository) FindByNormalizedEmail(email string) (models.User, error) {
	for _, user := range repo.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, errors.New("record not found")
}

func (repo *memoryUserRepository) FindByID(userID uint) (models.User, error) {
	user, ok := repo.users[userID]
	if !ok {
		return models.User{}, errors.New("record not found")
	}
	return user, nil
}

func (repo *memoryUserRepository) Create(user *models.User) error {
	repo.nextID++
	user.ID = repo.nextID
	repo.users[user.ID] = *user
	return nil
}

func (repo *memoryUserRepository) UpdateProfile(userID uint, updates map[string]any) error {
	user, ok := repo.users[userID]
	if !ok {
		return errors.New("record not found")
	}
	for column, value := range updates {
		switch column {
		case "display_name":
			user.DisplayName = value.(string)
		case "blood_group":
			user.BloodGroup = value.(string)
		case "location":
			user.Location = value.(string)
		case "phone":
			user.Phone = value.(string)
		case "willing_to_donate":
			user.WillingToDonate = value.(bool)
		}
	}
	repo.users[userID] = user
	return nil
}

func (repo *memoryUserRepository) DeleteAccountAndRelatedData(userID uint) error {
	delete(repo.users, userID)
	return nil
}

func TestRegisterAndAuthenticate(t *testing.T) {
	service := NewAuthService(newMemoryUserRepository())

	user, err := service.Register(RegistrationInput{
		Email:       " Asha@Example.COM ",
		Password:    "medira2026",
		DisplayName: "Asha",
		BloodGroup:  "o+",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "asha@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.BloodGroup != "O+" {
		t.Fatalf("expected normalized blood group, got %q", user.BloodGroup)
	}
	if user.PasswordHash == "medira2026" || user.PasswordHash == "" {
		t.Fatalf("password must be stored hashed")
	}

	authenticated, err := service.Authenticate("ASHA@example.com", "medira2026")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if authenticated.ID != user.ID {
		t.Fatalf("expected user %d, got %d", user.ID, authenticated.ID)
	}

	if _, err := service.Authenticate("asha@example.com", "wrongpass1"); !errors.Is(err, ErrAuthCredentialsInvalid) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, err := service.Authenticate("nobody@example.com", "medira2026"); !errors.Is(err, ErrAuthCredentialsInvalid) {
		t.Fatalf("unknown email must look like bad credentials, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	repo := newMemoryUserRepository()
	service := NewAuthService(repo)

	if _, err := service.Register(RegistrationInput{Email: "not an email", Password: "medira2026", DisplayName: "Asha"}); !errors.Is(err, ErrAuthCredentialsInvalid) {
		t.Fatalf("expected invalid email rejection, got %v", err)
	}
	if _, err := service.Register(RegistrationInput{Email: "asha@example.com", Password: "short1", DisplayName: "Asha"}); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected weak password rejection, got %v", err)
	}
	if _, err := service.Register(RegistrationInput{Email: "asha@example.com", Password: "medira2026", DisplayName: "  "}); !errors.Is(err, ErrAuthCredentialsInvalid) {
		t.Fatalf("expected empty display name rejection, got %v", err)
	}

	if _, err := service.Register(RegistrationInput{Email: "asha@example.com", Password: "medira2026", DisplayName: "Asha"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := service.Register(RegistrationInput{Email: "ASHA@example.com ", Password: "medira2026", DisplayName: "Asha Again"}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected duplicate email rejection, got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	repo := newMemoryUserRepository()
	service := NewAuthService(repo)

	user, err := service.Register(RegistrationInput{Email: "asha@example.com", Password: "medira2026", DisplayName: "Asha"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	location := " Chennai "
	willing := true
	if err := service.UpdateProfile(user.ID, ProfileUpdateInput{Location: &location, WillingToDonate: &willing}); err != nil {
		t.Fatalf("update profile: %v", err)
	}

	updated, err := service.FindByID(user.ID)
	if err != nil {
		t.Fatalf("find user: %v", err)
	}
	if updated.Location != "Chennai" || !updated.WillingToDonate {
		t.Fatalf("unexpected profile: %+v", updated)
	}
	// Untouched fields keep their values.
	if updated.DisplayName != "Asha" {
		t.Fatalf("partial update clobbered display name: %q", updated.DisplayName)
	}

	empty := "  "
	if err := service.UpdateProfile(user.ID, ProfileUpdateInput{DisplayName: &empty}); !errors.Is(err, ErrAuthCredentialsInvalid) {
		t.Fatalf("expected empty display name rejection, got %v", err)
	}
}
