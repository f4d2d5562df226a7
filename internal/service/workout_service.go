package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"alcyxob/interval-trainer/internal/domain"
	"alcyxob/interval-trainer/internal/generation"
	"alcyxob/interval-trainer/internal/repository"
	"alcyxob/interval-trainer/internal/workout"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrWorkoutNotFound     = errors.New("workout not found")
	ErrWorkoutAccessDenied = errors.New("access denied to this workout")
	ErrInvalidWorkout      = errors.New("workout validation failed")
)

type WorkoutService interface {
	CreateWorkout(ctx context.Context, ownerID primitive.ObjectID, resp generation.Response, requestedMinutes int) (*domain.GeneratedWorkout, error)
	GetWorkout(ctx context.Context, ownerID, workoutID primitive.ObjectID) (*domain.GeneratedWorkout, error)
	ListWorkouts(ctx context.Context, ownerID primitive.ObjectID) ([]domain.GeneratedWorkout, error)
	GetPlan(ctx context.Context, ownerID, workoutID primitive.ObjectID) (domain.FlattenedWorkout, error)
}

// workoutService implements the WorkoutService interface.
type workoutService struct {
	workoutRepo repository.WorkoutRepository
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(workoutRepo repository.WorkoutRepository) WorkoutService {
	return &workoutService{workoutRepo: workoutRepo}
}

// CreateWorkout normalizes a generation response and stores it for ownerID.
func (s *workoutService) CreateWorkout(ctx context.Context, ownerID primitive.ObjectID, resp generation.Response, requestedMinutes int) (*domain.GeneratedWorkout, error) {
	if ownerID == primitive.NilObjectID {
		return nil, errors.New("owner ID is required to create a workout")
	}

	w, err := generation.Transform(resp, requestedMinutes, ownerID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidWorkout, err)
	}

	id, err := s.workoutRepo.Create(ctx, w)
	if err != nil {
		return nil, err
	}
	w.ID = id
	log.Printf("INFO: Workout %s '%s' created for user %s (%ds)", id.Hex(), w.Name, ownerID.Hex(), w.ActualDuration)
	return w, nil
}

// GetWorkout retrieves a workout owned by ownerID.
func (s *workoutService) GetWorkout(ctx context.Context, ownerID, workoutID primitive.ObjectID) (*domain.GeneratedWorkout, error) {
	w, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	if w.OwnerID != ownerID {
		return nil, ErrWorkoutAccessDenied
	}
	return w, nil
}

// ListWorkouts retrieves all workouts of ownerID.
func (s *workoutService) ListWorkouts(ctx context.Context, ownerID primitive.ObjectID) ([]domain.GeneratedWorkout, error) {
	workouts, err := s.workoutRepo.GetByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if workouts == nil {
		workouts = []domain.GeneratedWorkout{}
	}
	return workouts, nil
}

// GetPlan returns the timer item sequence of a workout.
func (s *workoutService) GetPlan(ctx context.Context, ownerID, workoutID primitive.ObjectID) (domain.FlattenedWorkout, error) {
	w, err := s.GetWorkout(ctx, ownerID, workoutID)
	if err != nil {
		return domain.FlattenedWorkout{}, err
	}
	return workout.Flatten(w), nil
}
