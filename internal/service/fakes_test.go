package service

import (
	"context"
	"errors"
	"io"
	"log"
	"sort"
	"sync"

	"alcyxob/interval-trainer/internal/domain"
	"alcyxob/interval-trainer/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	r.users[user.ID] = *user
	return user.ID, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

type fakeWorkoutRepo struct {
	mu       sync.Mutex
	workouts map[primitive.ObjectID]domain.GeneratedWorkout
}

func newFakeWorkoutRepo() *fakeWorkoutRepo {
	return &fakeWorkoutRepo{workouts: make(map[primitive.ObjectID]domain.GeneratedWorkout)}
}

func (r *fakeWorkoutRepo) Create(_ context.Context, w *domain.GeneratedWorkout) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w.ID = primitive.NewObjectID()
	r.workouts[w.ID] = *w
	return w.ID, nil
}

func (r *fakeWorkoutRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.GeneratedWorkout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.workouts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &w, nil
}

func (r *fakeWorkoutRepo) GetByOwnerID(_ context.Context, ownerID primitive.ObjectID) ([]domain.GeneratedWorkout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.GeneratedWorkout
	for _, w := range r.workouts {
		if w.OwnerID == ownerID {
			out = append(out, w)
		}
	}
	return out, nil
}

type fakeSessionRepo struct {
	mu        sync.Mutex
	sessions  map[primitive.ObjectID]domain.WorkoutSession
	finalized int
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[primitive.ObjectID]domain.WorkoutSession)}
}

func (r *fakeSessionRepo) Create(_ context.Context, s *domain.WorkoutSession) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.ID = primitive.NewObjectID()
	r.sessions[s.ID] = *s
	return s.ID, nil
}

func (r *fakeSessionRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.WorkoutSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (r *fakeSessionRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) ([]domain.WorkoutSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.WorkoutSession
	for _, s := range r.sessions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	return out, nil
}

func (r *fakeSessionRepo) Finalize(_ context.Context, s *domain.WorkoutSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.sessions[s.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if stored.Status != domain.SessionInProgress {
		return repository.ErrAlreadyFinalized
	}
	r.sessions[s.ID] = *s
	r.finalized++
	return nil
}

func (r *fakeSessionRepo) UpdateFeedback(_ context.Context, id primitive.ObjectID, rpe *int, notes string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok || !s.Status.IsFinal() || s.RPE != nil || s.Notes != "" {
		return repository.ErrUpdateFailed
	}
	s.RPE = rpe
	s.Notes = notes
	r.sessions[id] = s
	return nil
}

func (r *fakeSessionRepo) get(id primitive.ObjectID) domain.WorkoutSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[id]
}

func (r *fakeSessionRepo) finalizedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.finalized
}

type fakeExportRepo struct {
	mu      sync.Mutex
	exports []domain.SessionExport
}

func (r *fakeExportRepo) Create(_ context.Context, e *domain.SessionExport) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = primitive.NewObjectID()
	r.exports = append(r.exports, *e)
	return e.ID, nil
}

func (r *fakeExportRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.SessionExport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.exports {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeExportRepo) GetBySessionID(_ context.Context, sessionID primitive.ObjectID) ([]domain.SessionExport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.SessionExport
	for _, e := range r.exports {
		if e.SessionID == sessionID {
			out = append(out, e)
		}
	}
	return out, nil
}

// flakySessionRepo fails the first failFinalize calls to Finalize.
type flakySessionRepo struct {
	*fakeSessionRepo
	failFinalize int
}

func (r *flakySessionRepo) Finalize(ctx context.Context, s *domain.WorkoutSession) error {
	r.mu.Lock()
	if r.failFinalize > 0 {
		r.failFinalize--
		r.mu.Unlock()
		return errors.New("connection reset")
	}
	r.mu.Unlock()
	return r.fakeSessionRepo.Finalize(ctx, s)
}

// slowCreateSessionRepo blocks Create until release is closed.
type slowCreateSessionRepo struct {
	*fakeSessionRepo
	entered chan struct{}
	release chan struct{}
}

func (r *slowCreateSessionRepo) Create(ctx context.Context, s *domain.WorkoutSession) (primitive.ObjectID, error) {
	close(r.entered)
	<-r.release
	return r.fakeSessionRepo.Create(ctx, s)
}
