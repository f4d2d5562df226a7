package session

import (
	"testing"
	"time"

	"alcyxob/interval-trainer/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var now = time.Date(2026, 3, 14, 7, 30, 0, 0, time.UTC)

func started() domain.WorkoutSession {
	return *Start(primitive.NewObjectID(), domain.GeneratedWorkout{Name: "Legs", EstimatedCalories: 320}, 10, now)
}

func intPtr(v int) *int { return &v }

func TestStart(t *testing.T) {
	s := started()
	assert.Equal(t, domain.SessionInProgress, s.Status)
	assert.Equal(t, 10, s.TotalItems)
	assert.Equal(t, now, s.StartedAt)
	assert.False(t, s.Status.IsFinal())
}

func TestComplete(t *testing.T) {
	at := now.Add(20 * time.Minute)
	s := Complete(started(), 10, 1185, at)

	assert.Equal(t, domain.SessionCompleted, s.Status)
	assert.Equal(t, 10, s.CompletedItems)
	assert.Equal(t, 100, s.PercentComplete)
	assert.Equal(t, 1185, s.ActualDurationWorked)
	assert.Equal(t, 320, s.EstimatedCaloriesBurned)
	require.NotNil(t, s.CompletedAt)
	assert.Equal(t, at, *s.CompletedAt)
	assert.Nil(t, s.StoppedAt)
	assert.Equal(t, "Workout Complete!", Headline(s))
}

func TestStopEarly(t *testing.T) {
	item := &domain.TimerItem{Name: "Burpees", CircuitIndex: intPtr(0), RoundIndex: intPtr(1), ExerciseIndex: intPtr(2)}
	s := StopEarly(started(), 2, 10, 95, item, now)

	assert.Equal(t, domain.SessionStoppedEarly, s.Status)
	assert.Equal(t, 2, s.CompletedItems)
	assert.Equal(t, 20, s.PercentComplete)
	assert.Equal(t, 95, s.ActualDurationWorked)
	assert.Equal(t, 0, s.EstimatedCaloriesBurned, "calories are not recomputed on early stop")
	require.NotNil(t, s.StoppedAtItem)
	assert.Equal(t, "Burpees", s.StoppedAtItem.ItemName)
	assert.Equal(t, 1, *s.StoppedAtItem.RoundIndex)
	require.NotNil(t, s.StoppedAt)
	assert.Equal(t, "Great Effort!", Headline(s))
}

func TestPercentComplete(t *testing.T) {
	assert.Equal(t, 0, PercentComplete(0, 10))
	assert.Equal(t, 20, PercentComplete(2, 10))
	assert.Equal(t, 33, PercentComplete(1, 3))
	assert.Equal(t, 67, PercentComplete(2, 3))
	assert.Equal(t, 50, PercentComplete(1, 2))
	assert.Equal(t, 0, PercentComplete(3, 0))
}

func TestAttachFeedback(t *testing.T) {
	s := Complete(started(), 10, 600, now)

	require.NoError(t, AttachFeedback(&s, intPtr(7), "tough last round"))
	assert.Equal(t, 7, *s.RPE)
	assert.Equal(t, "tough last round", s.Notes)
	assert.Equal(t, 600, s.ActualDurationWorked)
	assert.Equal(t, 100, s.PercentComplete)

	err := AttachFeedback(&s, intPtr(3), "")
	assert.ErrorIs(t, err, ErrFeedbackAlreadySet)
	assert.Equal(t, 7, *s.RPE)
}

func TestAttachFeedback_Validation(t *testing.T) {
	inProgress := started()
	assert.ErrorIs(t, AttachFeedback(&inProgress, intPtr(5), ""), ErrNotFinalized)

	s := StopEarly(started(), 1, 10, 30, nil, now)
	assert.ErrorIs(t, AttachFeedback(&s, intPtr(0), ""), ErrInvalidRPE)
	assert.ErrorIs(t, AttachFeedback(&s, intPtr(11), ""), ErrInvalidRPE)
	assert.ErrorIs(t, AttachFeedback(&s, nil, ""), ErrEmptyFeedback)
	assert.Nil(t, s.RPE)

	require.NoError(t, AttachFeedback(&s, nil, "knee felt off"))
	assert.Nil(t, s.RPE)
	assert.Equal(t, "knee felt off", s.Notes)
}

func TestCompletionMessage(t *testing.T) {
	first := CompletionMessage(func(int) int { return 0 })
	assert.Equal(t, "The only bad workout is the one that didn't happen.", first)

	var seen int
	CompletionMessage(func(n int) int { seen = n; return n - 1 })
	assert.Equal(t, len(motivationalQuotes), seen)

	assert.NotEmpty(t, CompletionMessage(nil))
}
