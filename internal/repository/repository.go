package repository

import (
	"context"

	"alcyxob/interval-trainer/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound         = RepositoryError("not found")
	ErrDuplicate        = RepositoryError("already exists")
	ErrUpdateFailed     = RepositoryError("update failed")
	ErrAlreadyFinalized = RepositoryError("session already finalized")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// WorkoutRepository stores generated workouts. A stored workout is never
// updated.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.GeneratedWorkout) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.GeneratedWorkout, error)
	GetByOwnerID(ctx context.Context, ownerID primitive.ObjectID) ([]domain.GeneratedWorkout, error)
}

// SessionRepository stores workout sessions. Finalize succeeds once per
// session; UpdateFeedback succeeds once per finalized session.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.WorkoutSession) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutSession, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutSession, error)
	Finalize(ctx context.Context, session *domain.WorkoutSession) error
	UpdateFeedback(ctx context.Context, id primitive.ObjectID, rpe *int, notes string) error
}

// ExportRepository stores metadata of session exports.
type ExportRepository interface {
	Create(ctx context.Context, export *domain.SessionExport) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.SessionExport, error)
	GetBySessionID(ctx context.Context, sessionID primitive.ObjectID) ([]domain.SessionExport, error)
}
