package models

const (
	ExerciseKindYoga    = "yoga"
	ExerciseKindWorkout = "workout"
)

// Exercise is a static reference-catalog entry; the catalog ships with the
// binary and is read-only.
type Exercise struct {
	Name        string
	Kind        string
	Description string
	DurationMin int
}

func BuiltinExercises() []Exercise {
	return []Exercise{
		{Name: "Padmasan", Kind: ExerciseKindYoga, Description: "Seated lotus pose for breathing practice and posture.", DurationMin: 10},
		{Name: "Vrukshasan", Kind: ExerciseKindYoga, Description: "Tree pose improving balance and leg strength.", DurationMin: 8},
		{Name: "Bhujangasan", Kind: ExerciseKindYoga, Description: "Cobra pose stretching the spine and chest.", DurationMin: 6},
		{Name: "Shavasan", Kind: ExerciseKindYoga, Description: "Relaxation pose to close a session.", DurationMin: 5},
		{Name: "Plank twist", Kind: ExerciseKindWorkout, Description: "Core rotation from a plank position.", DurationMin: 7},
		{Name: "Dead bug", Kind: ExerciseKindWorkout, Description: "Opposite arm and leg extension on the back.", DurationMin: 6},
		{Name: "Squat rotation", Kind: ExerciseKindWorkout, Description: "Bodyweight squat with a torso rotation at the top.", DurationMin: 9},
		{Name: "Glute bridge", Kind: ExerciseKindWorkout, Description: "Hip raise strengthening glutes and lower back.", DurationMin: 8},
	}
}
