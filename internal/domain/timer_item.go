package domain

// ItemType identifies what a TimerItem represents in the flattened sequence.
type ItemType string

const (
	ItemWarmupExercise   ItemType = "warmup_exercise"
	ItemCircuitExercise  ItemType = "circuit_exercise"
	ItemExerciseRest     ItemType = "exercise_rest"
	ItemRoundRest        ItemType = "round_rest"
	ItemCooldownExercise ItemType = "cooldown_exercise"
)

// ValidItemTypes returns all valid item type values.
func ValidItemTypes() []ItemType {
	return []ItemType{ItemWarmupExercise, ItemCircuitExercise, ItemExerciseRest, ItemRoundRest, ItemCooldownExercise}
}

// IsValid returns true if the type is a known value.
func (t ItemType) IsValid() bool {
	for _, valid := range ValidItemTypes() {
		if t == valid {
			return true
		}
	}
	return false
}

// TimerItem is one atomic timed unit executed by the timer engine.
// Positional indices are nil when they do not apply to the item's type
// (warm-up items carry no circuit index, rests carry no exercise index).
type TimerItem struct {
	ID            string    `bson:"id" json:"id"`
	Type          ItemType  `bson:"type" json:"type"`
	Name          string    `bson:"name" json:"name"`
	Duration      int       `bson:"duration" json:"duration"` // seconds, > 0
	Exercise      *Exercise `bson:"exercise,omitempty" json:"exercise,omitempty"`
	CircuitIndex  *int      `bson:"circuitIndex,omitempty" json:"circuitIndex,omitempty"`
	RoundIndex    *int      `bson:"roundIndex,omitempty" json:"roundIndex,omitempty"`
	ExerciseIndex *int      `bson:"exerciseIndex,omitempty" json:"exerciseIndex,omitempty"`
}

// FlattenedWorkout is the linear execution plan derived from a GeneratedWorkout.
type FlattenedWorkout struct {
	WorkoutID     string      `json:"workoutId"`
	Items         []TimerItem `json:"items"`
	TotalDuration int         `json:"totalDuration"` // sum of item durations
	TotalItems    int         `json:"totalItems"`
}
