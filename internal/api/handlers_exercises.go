package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/medira/internal/services"
)

func (handler *Handler) ListExercises(c *fiber.Ctx) error {
	exercises := handler.exerciseService.ListExercises(services.ExerciseFilter{
		Kind:   c.Query("kind"),
		Search: c.Query("search"),
		SortBy: c.Query("sort"),
	})

	type exerciseView struct {
		Name        string `json:"name"`
		Kind        string `json:"kind"`
		Description string `json:"description"`
		DurationMin int    `json:"duration_min"`
	}

	views := make([]exerciseView, 0, len(exercises))
	for _, exercise := range exercises {
		views = append(views, exerciseView{
			Name:        exercise.Name,
			Kind:        exercise.Kind,
			Description: exercise.Description,
			DurationMin: exercise.DurationMin,
		})
	}
	return c.JSON(fiber.Map{"exercises": views})
}
