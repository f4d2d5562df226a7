package workout

import (
	"testing"

	"alcyxob/interval-trainer/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestCircuitDuration_RoundsAndRests(t *testing.T) {
	c := domain.Circuit{
		Rounds:               3,
		RestBetweenRounds:    30,
		RestBetweenExercises: 10,
		Exercises:            exercises(40, 50),
	}

	assert.Equal(t, 100, RoundDuration(c))
	assert.Equal(t, 360, CircuitDuration(c))
}

func TestCircuitDuration_SingleRoundHasNoRoundRest(t *testing.T) {
	c := domain.Circuit{Rounds: 1, RestBetweenRounds: 60, RestBetweenExercises: 5, Exercises: exercises(20, 20, 20)}
	assert.Equal(t, 70, CircuitDuration(c))
}

func TestCircuitDuration_EmptyCircuit(t *testing.T) {
	c := domain.Circuit{Rounds: 4, RestBetweenRounds: 60, RestBetweenExercises: 15}
	assert.Equal(t, 0, RoundDuration(c))
	assert.Equal(t, 0, CircuitDuration(c))
}

func TestSectionDuration_NoRest(t *testing.T) {
	assert.Equal(t, 0, SectionDuration(nil))
	assert.Equal(t, 95, SectionDuration(exercises(30, 45, 20)))
}

func TestTotalDuration(t *testing.T) {
	w := sampleWorkout()
	// warm-up 60, circuit A 360, circuit B (135+30)*2 = 330, cool-down 60
	assert.Equal(t, 810, TotalDuration(w))
}

func TestNormalize_FillsTotalsAndDefaults(t *testing.T) {
	w := sampleWorkout()
	w.EstimatedCalories = 0

	Normalize(w)

	assert.Equal(t, 60, w.WarmUp.TotalDuration)
	assert.Equal(t, 360, w.Circuits[0].TotalDuration)
	assert.Equal(t, 330, w.Circuits[1].TotalDuration)
	assert.Equal(t, 60, w.CoolDown.TotalDuration)
	assert.Equal(t, 810, w.ActualDuration)
	assert.Equal(t, domain.DifficultyIntermediate, w.Difficulty)
	assert.Equal(t, 108, w.EstimatedCalories) // 13.5 min * 8
	assert.Equal(t, domain.CalorieRange{Low: 68, High: 162}, w.CalorieRange)
}

func TestNormalize_KeepsProvidedEstimates(t *testing.T) {
	w := sampleWorkout()
	w.Difficulty = domain.DifficultyAdvanced
	w.CalorieRange = domain.CalorieRange{Low: 200, High: 300}

	Normalize(w)

	assert.Equal(t, 250, w.EstimatedCalories)
	assert.Equal(t, domain.DifficultyAdvanced, w.Difficulty)
	assert.Equal(t, domain.CalorieRange{Low: 200, High: 300}, w.CalorieRange)
}
