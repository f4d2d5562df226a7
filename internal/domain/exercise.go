// internal/domain/exercise.go
package domain

// Modifications are optional easier/harder variants suggested for an exercise.
type Modifications struct {
	Easier string `bson:"easier,omitempty" json:"easier,omitempty"`
	Harder string `bson:"harder,omitempty" json:"harder,omitempty"`
}

// Exercise is a single timed movement inside a warm-up, circuit or cool-down.
// Duration is in whole seconds and always positive for a validated workout.
type Exercise struct {
	ID           string   `bson:"id" json:"id"`
	Name         string   `bson:"name" json:"name"`
	Duration     int      `bson:"duration" json:"duration"`
	TargetReps   *int     `bson:"targetReps,omitempty" json:"targetReps,omitempty"`
	RepRange     string   `bson:"repRange,omitempty" json:"repRange,omitempty"` // e.g. "8-12"
	Description  string   `bson:"description,omitempty" json:"description,omitempty"`
	MuscleGroups []string `bson:"muscleGroups,omitempty" json:"muscleGroups,omitempty"`
	Equipment    []string `bson:"equipment,omitempty" json:"equipment,omitempty"`

	Modifications *Modifications `bson:"modifications,omitempty" json:"modifications,omitempty"`
}
