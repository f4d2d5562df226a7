package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path"
	"sync"
	"time"

	"alcyxob/interval-trainer/internal/domain"
	"alcyxob/interval-trainer/internal/export"
	"alcyxob/interval-trainer/internal/logging"
	"alcyxob/interval-trainer/internal/repository"
	"alcyxob/interval-trainer/internal/session"
	"alcyxob/interval-trainer/internal/storage"
	"alcyxob/interval-trainer/internal/timer"
	"alcyxob/interval-trainer/internal/workout"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrRunInProgress   = errors.New("a workout run is already in progress")
	ErrNoActiveRun     = errors.New("no active workout run")
	ErrUnknownAction   = errors.New("unknown run action")
	ErrExportFailed    = errors.New("failed to export session")
)

// Run control actions accepted by Control.
const (
	ActionPause  = "pause"
	ActionResume = "resume"
	ActionSkip   = "skip"
	ActionBack   = "back"
	ActionStop   = "stop"
)

// ValidActions returns the actions accepted by Control.
func ValidActions() []string {
	return []string{ActionPause, ActionResume, ActionSkip, ActionBack, ActionStop}
}

// persistTimeout bounds writes made outside of a request.
const persistTimeout = 10 * time.Second

// ExportResult carries the stored export and a temporary download link.
type ExportResult struct {
	Export      domain.SessionExport `json:"export"`
	DownloadURL string               `json:"downloadUrl"`
}

type SessionService interface {
	// Live run
	StartRun(ctx context.Context, userID, workoutID primitive.ObjectID) (timer.State, error)
	CurrentRun(ctx context.Context, userID primitive.ObjectID) (timer.State, error)
	Control(ctx context.Context, userID primitive.ObjectID, action string) (timer.State, error)
	DiscardRun(ctx context.Context, userID primitive.ObjectID) error

	// History
	ListSessions(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutSession, error)
	GetSession(ctx context.Context, userID, sessionID primitive.ObjectID) (*domain.WorkoutSession, error)
	SubmitFeedback(ctx context.Context, userID, sessionID primitive.ObjectID, rpe *int, notes string) (*domain.WorkoutSession, error)
	ExportSession(ctx context.Context, userID, sessionID primitive.ObjectID) (*ExportResult, error)

	// Shutdown stops every live run, finalizing unfinished ones as stopped early.
	Shutdown()
}

// liveRun is one user's run held in memory while it is driven.
type liveRun struct {
	runner    *timer.Runner
	sessionID primitive.ObjectID

	mu        sync.Mutex // guards finalized
	finalized bool       // terminal session stored
}

// sessionService implements the SessionService interface.
type sessionService struct {
	workoutRepo  repository.WorkoutRepository
	sessionRepo  repository.SessionRepository
	exportRepo   repository.ExportRepository
	fileStorage  storage.FileStorage
	tickInterval time.Duration
	logger       *log.Logger

	mu       sync.Mutex
	runs     map[primitive.ObjectID]*liveRun // keyed by user
	starting map[primitive.ObjectID]struct{} // users whose run is being created
}

// NewSessionService creates a new instance of sessionService.
func NewSessionService(
	workoutRepo repository.WorkoutRepository,
	sessionRepo repository.SessionRepository,
	exportRepo repository.ExportRepository,
	fileStorage storage.FileStorage,
	tickInterval time.Duration,
	logger *log.Logger,
) SessionService {
	if logger == nil {
		panic("SessionService: logger cannot be nil")
	}
	return &sessionService{
		workoutRepo:  workoutRepo,
		sessionRepo:  sessionRepo,
		exportRepo:   exportRepo,
		fileStorage:  fileStorage,
		tickInterval: tickInterval,
		logger:       logger,
		runs:         make(map[primitive.ObjectID]*liveRun),
		starting:     make(map[primitive.ObjectID]struct{}),
	}
}

// === Live run ===

// StartRun flattens the workout, records an in-progress session and starts
// the lead-in countdown. A finished run of the same user is replaced.
func (s *sessionService) StartRun(ctx context.Context, userID, workoutID primitive.ObjectID) (timer.State, error) {
	w, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return timer.State{}, ErrWorkoutNotFound
		}
		return timer.State{}, err
	}
	if w.OwnerID != userID {
		return timer.State{}, ErrWorkoutAccessDenied
	}

	flat := workout.Flatten(w)
	if len(flat.Items) == 0 {
		return timer.State{}, fmt.Errorf("%w: workout has no timed items", ErrInvalidWorkout)
	}

	prev, err := s.reserve(userID)
	if err != nil {
		return timer.State{}, err
	}
	if prev != nil {
		prev.runner.Shutdown()
	}

	record := session.Start(userID, *w, len(flat.Items), time.Now())
	sessionID, err := s.sessionRepo.Create(ctx, record)
	if err != nil {
		s.mu.Lock()
		delete(s.starting, userID)
		s.mu.Unlock()
		return timer.State{}, err
	}
	record.ID = sessionID

	engine := timer.NewEngine(s.logger)
	run := &liveRun{
		runner:    timer.NewRunner(engine, s.tickInterval, s.logger),
		sessionID: sessionID,
	}
	state := run.runner.Do(func(e *timer.Engine) {
		e.Initialize(flat.Items, record)
		e.StartCountdown()
	})
	s.mu.Lock()
	delete(s.starting, userID)
	s.runs[userID] = run
	s.mu.Unlock()

	run.runner.Start()
	logging.SafeGo(s.logger, func() {
		select {
		case <-run.runner.Finished():
			s.finalize(run)
		case <-run.runner.Done():
		}
	})

	s.logger.Printf("INFO: Run started for user %s, session %s, %d items", userID.Hex(), sessionID.Hex(), len(flat.Items))
	return state, nil
}

// CurrentRun returns the state of the user's run, finished or not.
func (s *sessionService) CurrentRun(_ context.Context, userID primitive.ObjectID) (timer.State, error) {
	run, ok := s.lookup(userID)
	if !ok {
		return timer.State{}, ErrNoActiveRun
	}
	return run.runner.State(), nil
}

// Control applies a user action to the live run. Actions that do not apply
// to the current status leave the state unchanged.
func (s *sessionService) Control(_ context.Context, userID primitive.ObjectID, action string) (timer.State, error) {
	var apply func(e *timer.Engine)
	switch action {
	case ActionPause:
		apply = (*timer.Engine).Pause
	case ActionResume:
		apply = (*timer.Engine).Resume
	case ActionSkip:
		apply = (*timer.Engine).SkipToNext
	case ActionBack:
		apply = (*timer.Engine).GoToPrevious
	case ActionStop:
		apply = (*timer.Engine).Stop
	default:
		return timer.State{}, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	run, ok := s.lookup(userID)
	if !ok {
		return timer.State{}, ErrNoActiveRun
	}

	state := run.runner.Do(apply)
	if timer.IsTerminal(state) {
		s.finalize(run)
	}
	return state, nil
}

// DiscardRun stops the user's run if it is still going and forgets it.
func (s *sessionService) DiscardRun(_ context.Context, userID primitive.ObjectID) error {
	s.mu.Lock()
	run, ok := s.runs[userID]
	delete(s.runs, userID)
	s.mu.Unlock()

	if !ok {
		return ErrNoActiveRun
	}
	s.closeRun(run)
	return nil
}

// reserve claims the user's run slot for a new run. A finished previous run
// is removed from the registry and returned for shutdown.
func (s *sessionService) reserve(userID primitive.ObjectID) (*liveRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.starting[userID]; ok {
		return nil, ErrRunInProgress
	}
	prev, ok := s.runs[userID]
	if ok {
		if !timer.IsTerminal(prev.runner.State()) {
			return nil, ErrRunInProgress
		}
		delete(s.runs, userID)
	}
	s.starting[userID] = struct{}{}
	return prev, nil
}

func (s *sessionService) lookup(userID primitive.ObjectID) (*liveRun, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[userID]
	return run, ok
}

// closeRun stops an unfinished run, persists its outcome and stops ticking.
func (s *sessionService) closeRun(run *liveRun) {
	state := run.runner.Do((*timer.Engine).Stop)
	if timer.IsTerminal(state) {
		s.finalize(run)
	}
	run.runner.Shutdown()
}

// finalize writes the terminal session of a run. A failed write leaves the
// run unfinalized so the next stop, discard or shutdown retries it.
func (s *sessionService) finalize(run *liveRun) {
	run.mu.Lock()
	defer run.mu.Unlock()
	if run.finalized {
		return
	}

	state := run.runner.State()
	if state.Session == nil || !state.Session.Status.IsFinal() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	err := s.sessionRepo.Finalize(ctx, state.Session)
	switch {
	case err == nil:
		s.logger.Printf("INFO: Session %s finalized as %s (%ds worked, %d%%)",
			run.sessionID.Hex(), state.Session.Status, state.Session.ActualDurationWorked, state.Session.PercentComplete)
	case errors.Is(err, repository.ErrAlreadyFinalized):
		s.logger.Printf("WARN: Session %s was already finalized", run.sessionID.Hex())
	default:
		s.logger.Printf("ERROR: Failed to finalize session %s: %v", run.sessionID.Hex(), err)
		return
	}
	run.finalized = true
}

// Shutdown stops every live run.
func (s *sessionService) Shutdown() {
	s.mu.Lock()
	runs := s.runs
	s.runs = make(map[primitive.ObjectID]*liveRun)
	s.mu.Unlock()

	for _, run := range runs {
		s.closeRun(run)
	}
}

// === History ===

// ListSessions retrieves the user's sessions, most recent first.
func (s *sessionService) ListSessions(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutSession, error) {
	sessions, err := s.sessionRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sessions == nil {
		sessions = []domain.WorkoutSession{}
	}
	return sessions, nil
}

// GetSession retrieves a session owned by userID. Sessions of other users
// are reported as not found.
func (s *sessionService) GetSession(ctx context.Context, userID, sessionID primitive.ObjectID) (*domain.WorkoutSession, error) {
	ws, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if ws.UserID != userID {
		return nil, ErrSessionNotFound
	}
	return ws, nil
}

// SubmitFeedback attaches RPE and notes to a finalized session, once.
func (s *sessionService) SubmitFeedback(ctx context.Context, userID, sessionID primitive.ObjectID, rpe *int, notes string) (*domain.WorkoutSession, error) {
	ws, err := s.GetSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := session.AttachFeedback(ws, rpe, notes); err != nil {
		return nil, err
	}

	if err := s.sessionRepo.UpdateFeedback(ctx, sessionID, ws.RPE, ws.Notes); err != nil {
		if errors.Is(err, repository.ErrUpdateFailed) {
			// Lost a race with another submission.
			return nil, session.ErrFeedbackAlreadySet
		}
		return nil, err
	}
	return ws, nil
}

// ExportSession writes the session as Parquet to object storage and records
// the export.
func (s *sessionService) ExportSession(ctx context.Context, userID, sessionID primitive.ObjectID) (*ExportResult, error) {
	ws, err := s.GetSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	data, rows, err := export.Session(*ws)
	if err != nil {
		if errors.Is(err, export.ErrSessionNotFinal) {
			return nil, session.ErrNotFinalized
		}
		return nil, fmt.Errorf("%w: %w", ErrExportFailed, err)
	}

	fileName := uuid.NewString() + ".parquet"
	objectKey := path.Join("exports", userID.Hex(), sessionID.Hex(), fileName)
	if err := s.fileStorage.PutObject(ctx, objectKey, export.ContentType, data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExportFailed, err)
	}

	record := &domain.SessionExport{
		SessionID:   sessionID,
		UserID:      userID,
		S3ObjectKey: objectKey,
		FileName:    fileName,
		ContentType: export.ContentType,
		Size:        int64(len(data)),
		RowCount:    rows,
	}
	if _, err := s.exportRepo.Create(ctx, record); err != nil {
		if delErr := s.fileStorage.DeleteObject(ctx, objectKey); delErr != nil {
			s.logger.Printf("WARN: Failed to clean up orphaned export %s: %v", objectKey, delErr)
		}
		return nil, err
	}

	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, objectKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExportFailed, err)
	}

	s.logger.Printf("INFO: Session %s exported to %s (%d rows, %d bytes)", sessionID.Hex(), objectKey, rows, len(data))
	return &ExportResult{Export: *record, DownloadURL: url}, nil
}
