package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionStatus tracks the lifecycle of a workout run.
type SessionStatus string

const (
	SessionInProgress   SessionStatus = "in_progress"
	SessionCompleted    SessionStatus = "completed"
	SessionStoppedEarly SessionStatus = "stopped_early"
)

// IsFinal reports whether the status is one of the terminal values.
func (s SessionStatus) IsFinal() bool {
	return s == SessionCompleted || s == SessionStoppedEarly
}

// StoppedAtItem is a snapshot of the item a run was abandoned on.
type StoppedAtItem struct {
	CircuitIndex  *int   `bson:"circuitIndex,omitempty" json:"circuitIndex,omitempty"`
	RoundIndex    *int   `bson:"roundIndex,omitempty" json:"roundIndex,omitempty"`
	ExerciseIndex *int   `bson:"exerciseIndex,omitempty" json:"exerciseIndex,omitempty"`
	ItemName      string `bson:"itemName" json:"itemName"`
}

// WorkoutSession records one run of a workout. The numeric fields are set
// exactly once at finalization; only RPE and Notes may be attached afterwards.
type WorkoutSession struct {
	ID                      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID                  primitive.ObjectID `bson:"userId" json:"userId"`
	Workout                 GeneratedWorkout   `bson:"workout" json:"workout"` // Denormalized copy of the plan
	Status                  SessionStatus      `bson:"status" json:"status"`
	StartedAt               time.Time          `bson:"startedAt" json:"startedAt"`
	CompletedAt             *time.Time         `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	StoppedAt               *time.Time         `bson:"stoppedAt,omitempty" json:"stoppedAt,omitempty"`
	TotalItems              int                `bson:"totalItems" json:"totalItems"`
	CompletedItems          int                `bson:"completedItems" json:"completedItems"`
	ActualDurationWorked    int                `bson:"actualDurationWorked" json:"actualDurationWorked"` // seconds
	PercentComplete         int                `bson:"percentComplete" json:"percentComplete"`
	EstimatedCaloriesBurned int                `bson:"estimatedCaloriesBurned" json:"estimatedCaloriesBurned"`
	StoppedAtItem           *StoppedAtItem     `bson:"stoppedAtItem,omitempty" json:"stoppedAtItem,omitempty"`

	// Post-session feedback, attached once after finalization.
	RPE   *int   `bson:"rpe,omitempty" json:"rpe,omitempty"` // 1-10
	Notes string `bson:"notes,omitempty" json:"notes,omitempty"`
}
