package workout

import (
	"alcyxob/interval-trainer/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func exercises(durations ...int) []domain.Exercise {
	out := make([]domain.Exercise, len(durations))
	for i, d := range durations {
		out[i] = domain.Exercise{Name: "Exercise", Duration: d}
	}
	return out
}

func sampleWorkout() *domain.GeneratedWorkout {
	return &domain.GeneratedWorkout{
		ID:     primitive.NewObjectID(),
		Name:   "Full Body Blast",
		WarmUp: domain.Section{Exercises: exercises(30, 30)},
		Circuits: []domain.Circuit{
			{
				Name:                 "Circuit A",
				Rounds:               3,
				RestBetweenRounds:    30,
				RestBetweenExercises: 10,
				Exercises:            exercises(40, 50),
			},
			{
				Name:                 "Circuit B",
				Rounds:               2,
				RestBetweenRounds:    0,
				RestBetweenExercises: 15,
				Exercises:            exercises(45, 45, 45),
			},
		},
		CoolDown:          domain.Section{Exercises: exercises(60)},
		EstimatedCalories: 250,
	}
}
