// Package session derives the finalized workout session record from the
// timer's terminal state. Finalization happens exactly once per run; after
// that only the post-session feedback fields may change.
package session

import (
	"errors"
	"math"
	"math/rand"
	"time"

	"alcyxob/interval-trainer/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFinalized       = errors.New("session has not been finalized")
	ErrFeedbackAlreadySet = errors.New("feedback has already been recorded for this session")
	ErrInvalidRPE         = errors.New("rpe must be between 1 and 10")
	ErrEmptyFeedback      = errors.New("feedback requires an rpe or notes")
)

// RPE bounds (Rate of Perceived Exertion).
const (
	MinRPE = 1
	MaxRPE = 10
)

// Start creates the in-progress record for a run of workout.
func Start(userID primitive.ObjectID, workout domain.GeneratedWorkout, totalItems int, at time.Time) *domain.WorkoutSession {
	return &domain.WorkoutSession{
		UserID:     userID,
		Workout:    workout,
		Status:     domain.SessionInProgress,
		StartedAt:  at.UTC(),
		TotalItems: totalItems,
	}
}

// Complete returns the record for a run that exhausted its item sequence.
// Worked time is the engine's elapsed counter, never recomputed from item
// durations, and the calorie figure is the workout's own estimate.
func Complete(s domain.WorkoutSession, totalItems, worked int, at time.Time) domain.WorkoutSession {
	completedAt := at.UTC()
	s.Status = domain.SessionCompleted
	s.CompletedAt = &completedAt
	s.TotalItems = totalItems
	s.CompletedItems = totalItems
	s.PercentComplete = 100
	s.ActualDurationWorked = worked
	s.EstimatedCaloriesBurned = s.Workout.EstimatedCalories
	s.StoppedAtItem = nil
	return s
}

// StopEarly returns the record for a run aborted while on item index.
// Completion is the item-count ratio; calories are left untouched.
func StopEarly(s domain.WorkoutSession, index, totalItems, worked int, current *domain.TimerItem, at time.Time) domain.WorkoutSession {
	stoppedAt := at.UTC()
	s.Status = domain.SessionStoppedEarly
	s.StoppedAt = &stoppedAt
	s.TotalItems = totalItems
	s.CompletedItems = index
	s.PercentComplete = PercentComplete(index, totalItems)
	s.ActualDurationWorked = worked
	s.StoppedAtItem = nil
	if current != nil {
		s.StoppedAtItem = &domain.StoppedAtItem{
			CircuitIndex:  current.CircuitIndex,
			RoundIndex:    current.RoundIndex,
			ExerciseIndex: current.ExerciseIndex,
			ItemName:      current.Name,
		}
	}
	return s
}

// PercentComplete is round(100 * done / total), 0 when total is 0.
func PercentComplete(done, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(done) / float64(total)))
}

// AttachFeedback records the user's RPE and notes on a finalized session.
// It may succeed only once and never touches the finalized numbers.
func AttachFeedback(s *domain.WorkoutSession, rpe *int, notes string) error {
	if !s.Status.IsFinal() {
		return ErrNotFinalized
	}
	if s.RPE != nil || s.Notes != "" {
		return ErrFeedbackAlreadySet
	}
	if rpe == nil && notes == "" {
		return ErrEmptyFeedback
	}
	if rpe != nil {
		if *rpe < MinRPE || *rpe > MaxRPE {
			return ErrInvalidRPE
		}
		v := *rpe
		s.RPE = &v
	}
	s.Notes = notes
	return nil
}

// Headline is the one-line result shown after a run.
func Headline(s domain.WorkoutSession) string {
	if s.Status == domain.SessionCompleted {
		return "Workout Complete!"
	}
	return "Great Effort!"
}

var motivationalQuotes = []string{
	"The only bad workout is the one that didn't happen.",
	"Every rep brings you closer to your goals.",
	"Consistency beats perfection every time.",
	"You're stronger than you think.",
	"Today's workout is tomorrow's strength.",
	"Progress, not perfection.",
	"The pain you feel today is the strength you feel tomorrow.",
	"Your body can do it, it's your mind you have to convince.",
}

// Picker selects an index in [0, n).
type Picker func(n int) int

// RandomPicker picks uniformly at random.
func RandomPicker(n int) int {
	return rand.Intn(n)
}

// CompletionMessage returns a motivational line chosen by pick. It has no
// bearing on the session numbers.
func CompletionMessage(pick Picker) string {
	if pick == nil {
		pick = RandomPicker
	}
	return motivationalQuotes[pick(len(motivationalQuotes))]
}
