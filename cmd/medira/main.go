package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/terraincognita07/medira/internal/analysis"
	"github.com/terraincognita07/medira/internal/api"
	"github.com/terraincognita07/medira/internal/config"
	"github.com/terraincognita07/medira/internal/db"
	"github.com/terraincognita07/medira/internal/security"
	"github.com/terraincognita07/medira/internal/services"
)

const secretKeyAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func main() {
	cfg, err := config.Load(os.Getenv("MEDIRA_CONFIG"))
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config invalid: %v", err)
	}

	location := mustLoadLocation(cfg.Server.Timezone)
	time.Local = location

	secretKey := cfg.Auth.SecretKey
	if secretKey == "" {
		// Tokens signed with an ephemeral key die with the process.
		secretKey, err = security.RandomString(48, secretKeyAlphabet)
		if err != nil {
			log.Fatalf("generate ephemeral secret key: %v", err)
		}
		log.Printf("no auth secret key configured, using an ephemeral key; sessions will not survive restarts")
	}

	database, err := db.OpenSQLite(cfg.Database.Path)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	var sink services.ReportSink
	if cfg.Report.Endpoint != "" {
		sink = services.NewHTTPReportSink(cfg.Report.Endpoint)
	}

	reminderService := services.NewReminderService(
		db.NewReminderRepository(database),
		services.SystemClock(),
		location,
		sink,
	)

	var imageAnalyzer analysis.ImageProvider
	if cfg.Analysis.Gemini.APIKey != "" {
		imageAnalyzer, err = analysis.NewGeminiProvider(cfg.Analysis.Gemini.APIKey, cfg.Analysis.Gemini.Model, cfg.Analysis.Gemini.BaseURL)
		if err != nil {
			log.Fatalf("gemini init failed: %v", err)
		}
	}
	var textAnalyzer analysis.TextProvider
	if cfg.Analysis.DeepSeek.APIKey != "" {
		textAnalyzer, err = analysis.NewDeepSeekProvider(cfg.Analysis.DeepSeek.APIKey, cfg.Analysis.DeepSeek.Model)
		if err != nil {
			log.Fatalf("deepseek init failed: %v", err)
		}
	}

	handler := api.NewHandler(api.Dependencies{
		Database:        database,
		SecretKey:       secretKey,
		Location:        location,
		ReminderService: reminderService,
		ImageAnalyzer:   imageAnalyzer,
		TextAnalyzer:    textAnalyzer,
	})

	app := fiber.New(fiber.Config{
		AppName:               "Medira",
		DisableStartupMessage: true,
		BodyLimit:             16 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	api.RegisterRoutes(app, handler)

	lifecycleCtx, cancelLifecycle := context.WithCancel(context.Background())
	defer cancelLifecycle()
	reminderService.Start(lifecycleCtx)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		cancelLifecycle()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Printf("server shutdown failed: %v", err)
		}
	}()

	log.Printf("Medira listening on http://0.0.0.0:%s (db: %s, tz: %s)", cfg.Server.Port, cfg.Database.Path, location.String())
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

func mustLoadLocation(name string) *time.Location {
	if name == "" || name == "Local" {
		return time.Local
	}
	location, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("invalid timezone %q, falling back to UTC", name)
		return time.UTC
	}
	return location
}
