package api

import (
	"time"

	"github.com/terraincognita07/medira/internal/analysis"
	"github.com/terraincognita07/medira/internal/db"
	"github.com/terraincognita07/medira/internal/services"
	"gorm.io/gorm"
)

const (
	contextUserKey = "current_user"

	defaultAuthTokenTTL  = 7 * 24 * time.Hour
	rememberAuthTokenTTL = 30 * 24 * time.Hour
)

type Handler struct {
	secretKey []byte
	location  *time.Location

	repositories    *db.Repositories
	authService     *services.AuthService
	reminderService *services.ReminderService
	donorService    *services.DonorService
	recordService   *services.RecordService
	recycleService  *services.RecycleService
	exerciseService *services.ExerciseService

	imageAnalyzer analysis.ImageProvider
	textAnalyzer  analysis.TextProvider

	loginLimiter    *attemptLimiter
	analysisLimiter *attemptLimiter
}

type Dependencies struct {
	Database        *gorm.DB
	SecretKey       string
	Location        *time.Location
	ReminderService *services.ReminderService
	ImageAnalyzer   analysis.ImageProvider
	TextAnalyzer    analysis.TextProvider
}

func NewHandler(deps Dependencies) *Handler {
	location := deps.Location
	if location == nil {
		location = time.Local
	}

	repositories := db.NewRepositories(deps.Database)
	return &Handler{
		secretKey:       []byte(deps.SecretKey),
		location:        location,
		repositories:    repositories,
		authService:     services.NewAuthService(repositories.Users),
		reminderService: deps.ReminderService,
		donorService:    services.NewDonorService(repositories.Users),
		recordService:   services.NewRecordService(repositories.Records),
		recycleService:  services.NewRecycleService(repositories.Listings, services.SystemClock(), location),
		exerciseService: services.NewExerciseService(),
		imageAnalyzer:   deps.ImageAnalyzer,
		textAnalyzer:    deps.TextAnalyzer,
		loginLimiter:    newAttemptLimiter(),
		analysisLimiter: newAttemptLimiter(),
	}
}
