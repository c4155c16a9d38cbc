package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/medira/internal/analysis"
)

const (
	analysisAttemptLimit  = 5
	analysisAttemptWindow = time.Minute
)

type analyzeReportRequest struct {
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// AnalyzeReport sends a lab-report or prescription image to the AI endpoint
// and returns the plain-language explanation. Single shot, no caching.
func (handler *Handler) AnalyzeReport(c *fiber.Ctx) error {
	if handler.imageAnalyzer == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "analysis is not configured"})
	}

	limiterKey := requestLimiterKey(c)
	now := time.Now()
	if handler.analysisLimiter.tooManyRecent(limiterKey, now, analysisAttemptLimit, analysisAttemptWindow) {
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many analysis requests, try again later"})
	}
	handler.analysisLimiter.add(limiterKey, now, analysisAttemptWindow)

	var payload analyzeReportRequest
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if payload.ImageBase64 == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "image_base64 is required"})
	}

	result, err := handler.imageAnalyzer.AnalyzeImage(c.Context(), analysis.ImageRequest{
		ImageBase64: payload.ImageBase64,
		MimeType:    payload.MimeType,
	})
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "analysis failed"})
	}
	return c.JSON(fiber.Map{
		"analysis": result.Text,
		"model":    result.Model,
	})
}

type summarizeRequest struct {
	Text string `json:"text"`
}

func (handler *Handler) SummarizeAnalysis(c *fiber.Ctx) error {
	if handler.textAnalyzer == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "summaries are not configured"})
	}

	var payload summarizeRequest
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if payload.Text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "text is required"})
	}

	result, err := handler.textAnalyzer.Summarize(c.Context(), payload.Text)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "summary failed"})
	}
	return c.JSON(fiber.Map{
		"summary": result.Text,
		"model":   result.Model,
	})
}
