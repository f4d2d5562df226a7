package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Difficulty levels a generated workout can be tagged with.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// Section is a warm-up or cool-down block. No rest is modeled inside a section.
type Section struct {
	Exercises     []Exercise `bson:"exercises" json:"exercises"`
	TotalDuration int        `bson:"totalDuration" json:"totalDuration"` // seconds
}

// Circuit is a group of exercises repeated Rounds times. Exercise order is
// the same in every round.
type Circuit struct {
	ID                   string     `bson:"id" json:"id"`
	Name                 string     `bson:"name" json:"name"`
	Rounds               int        `bson:"rounds" json:"rounds"`                             // >= 1
	RestBetweenRounds    int        `bson:"restBetweenRounds" json:"restBetweenRounds"`       // seconds, >= 0
	RestBetweenExercises int        `bson:"restBetweenExercises" json:"restBetweenExercises"` // seconds, >= 0
	Exercises            []Exercise `bson:"exercises" json:"exercises"`
	TotalDuration        int        `bson:"totalDuration" json:"totalDuration"` // seconds
}

// CalorieRange is the low/high calorie estimate for a workout.
type CalorieRange struct {
	Low  int `bson:"low" json:"low"`
	High int `bson:"high" json:"high"`
}

// GeneratedWorkout is the immutable plan produced by the generation service.
// It is never mutated after it has been normalized and stored.
type GeneratedWorkout struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID              primitive.ObjectID `bson:"ownerId" json:"ownerId"` // User who generated it
	Name                 string             `bson:"name" json:"name"`
	Description          string             `bson:"description,omitempty" json:"description,omitempty"`
	Difficulty           string             `bson:"difficulty" json:"difficulty"`
	TargetDuration       int                `bson:"targetDuration" json:"targetDuration"` // seconds requested
	ActualDuration       int                `bson:"actualDuration" json:"actualDuration"` // seconds, aggregated
	EquipmentSetUsed     string             `bson:"equipmentSetUsed,omitempty" json:"equipmentSetUsed,omitempty"`
	EquipmentRequired    []string           `bson:"equipmentRequired,omitempty" json:"equipmentRequired,omitempty"`
	WarmUp               Section            `bson:"warmUp" json:"warmUp"`
	Circuits             []Circuit          `bson:"circuits" json:"circuits"`
	CoolDown             Section            `bson:"coolDown" json:"coolDown"`
	EstimatedCalories    int                `bson:"estimatedCalories" json:"estimatedCalories"`
	CalorieRange         CalorieRange       `bson:"calorieRange" json:"calorieRange"`
	FocusAreas           []string           `bson:"focusAreas,omitempty" json:"focusAreas,omitempty"`
	MuscleGroupsTargeted []string           `bson:"muscleGroupsTargeted,omitempty" json:"muscleGroupsTargeted,omitempty"`
	CreatedAt            time.Time          `bson:"createdAt" json:"createdAt"`
}
