package services

import (
	"sort"
	"strings"

	"github.com/terraincognita07/medira/internal/models"
)

const (
	ExerciseSortName     = "name"
	ExerciseSortDuration = "duration"
)

// ExerciseService serves the static yoga and workout reference catalog.
type ExerciseService struct {
	catalog []models.Exercise
}

func NewExerciseService() *ExerciseService {
	return &ExerciseService{catalog: models.BuiltinExercises()}
}

type ExerciseFilter struct {
	Kind   string
	Search string
	SortBy string
}

func (service *ExerciseService) ListExercises(filter ExerciseFilter) []models.Exercise {
	kind := strings.ToLower(strings.TrimSpace(filter.Kind))
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	matched := make([]models.Exercise, 0, len(service.catalog))
	for _, exercise := range service.catalog {
		if kind != "" && exercise.Kind != kind {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(exercise.Name), search) {
			continue
		}
		matched = append(matched, exercise)
	}

	switch strings.ToLower(strings.TrimSpace(filter.SortBy)) {
	case ExerciseSortDuration:
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].DurationMin < matched[j].DurationMin
		})
	default:
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].Name < matched[j].Name
		})
	}
	return matched
}
