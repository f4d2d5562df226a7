// Package workout holds the pure arithmetic and transforms over a generated
// workout plan: duration aggregation, normalization and flattening into the
// timer item sequence.
package workout

import (
	"math"

	"alcyxob/interval-trainer/internal/domain"
)

// Calorie estimate rates in kcal per minute, used when the generation
// service leaves the figures out.
const (
	defaultCaloriesPerMinute = 8
	lowCaloriesPerMinute     = 5
	highCaloriesPerMinute    = 12
)

// SectionDuration is the plain sum of exercise durations. Warm-up and
// cool-down sections have no rest between exercises.
func SectionDuration(exercises []domain.Exercise) int {
	total := 0
	for _, ex := range exercises {
		total += ex.Duration
	}
	return total
}

// RoundDuration is one pass through a circuit: every exercise plus the rest
// between consecutive exercises (never before the first or after the last).
func RoundDuration(c domain.Circuit) int {
	if len(c.Exercises) == 0 {
		return 0
	}
	return SectionDuration(c.Exercises) + (len(c.Exercises)-1)*c.RestBetweenExercises
}

// CircuitDuration is RoundDuration times the rounds plus the rest between
// consecutive rounds. A circuit with no exercises or no rounds contributes
// nothing, matching the flattener which emits no items for it.
func CircuitDuration(c domain.Circuit) int {
	if len(c.Exercises) == 0 || c.Rounds <= 0 {
		return 0
	}
	return RoundDuration(c)*c.Rounds + (c.Rounds-1)*c.RestBetweenRounds
}

// TotalDuration sums warm-up, every circuit and cool-down. It is derived from
// the plan alone and must equal Flatten(w).TotalDuration.
func TotalDuration(w *domain.GeneratedWorkout) int {
	total := SectionDuration(w.WarmUp.Exercises)
	for _, c := range w.Circuits {
		total += CircuitDuration(c)
	}
	return total + SectionDuration(w.CoolDown.Exercises)
}

// Normalize fills in the derived numeric fields of a workout in place:
// section and circuit totals, the actual duration, and calorie estimates
// when the generation service did not provide them.
func Normalize(w *domain.GeneratedWorkout) {
	w.WarmUp.TotalDuration = SectionDuration(w.WarmUp.Exercises)
	for i := range w.Circuits {
		w.Circuits[i].TotalDuration = CircuitDuration(w.Circuits[i])
	}
	w.CoolDown.TotalDuration = SectionDuration(w.CoolDown.Exercises)
	w.ActualDuration = TotalDuration(w)

	if w.Difficulty == "" {
		w.Difficulty = domain.DifficultyIntermediate
	}
	if w.EstimatedCalories <= 0 {
		w.EstimatedCalories = caloriesFor(w.ActualDuration, defaultCaloriesPerMinute)
	}
	if w.CalorieRange.Low <= 0 && w.CalorieRange.High <= 0 {
		w.CalorieRange = domain.CalorieRange{
			Low:  caloriesFor(w.ActualDuration, lowCaloriesPerMinute),
			High: caloriesFor(w.ActualDuration, highCaloriesPerMinute),
		}
	}
}

func caloriesFor(seconds, perMinute int) int {
	return int(math.Round(float64(seconds) / 60 * float64(perMinute)))
}
