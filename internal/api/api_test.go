package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"alcyxob/interval-trainer/internal/domain"
	"alcyxob/interval-trainer/internal/generation"
	"alcyxob/interval-trainer/internal/service"
	"alcyxob/interval-trainer/internal/session"
	"alcyxob/interval-trainer/internal/timer"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "api-test-secret"

// --- stubs ---

type stubAuth struct {
	register func(name, email, password string) (*domain.User, error)
	login    func(email, password string) (string, *domain.User, error)
}

func (s *stubAuth) Register(_ context.Context, name, email, password string) (*domain.User, error) {
	return s.register(name, email, password)
}

func (s *stubAuth) Login(_ context.Context, email, password string) (string, *domain.User, error) {
	return s.login(email, password)
}

func (s *stubAuth) GetJWTSecret() string { return testSecret }

type stubWorkouts struct {
	service.WorkoutService
	created *domain.GeneratedWorkout
	err     error
	plan    domain.FlattenedWorkout
}

func (s *stubWorkouts) CreateWorkout(_ context.Context, ownerID primitive.ObjectID, resp generation.Response, minutes int) (*domain.GeneratedWorkout, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.GeneratedWorkout{ID: primitive.NewObjectID(), OwnerID: ownerID, Name: resp.Name, TargetDuration: minutes * 60}, nil
}

func (s *stubWorkouts) GetWorkout(_ context.Context, _, _ primitive.ObjectID) (*domain.GeneratedWorkout, error) {
	return s.created, s.err
}

func (s *stubWorkouts) ListWorkouts(_ context.Context, _ primitive.ObjectID) ([]domain.GeneratedWorkout, error) {
	return []domain.GeneratedWorkout{}, s.err
}

func (s *stubWorkouts) GetPlan(_ context.Context, _, _ primitive.ObjectID) (domain.FlattenedWorkout, error) {
	return s.plan, s.err
}

type stubSessions struct {
	service.SessionService
	state      timer.State
	err        error
	lastAction string
	feedback   *int
}

func (s *stubSessions) StartRun(_ context.Context, _, _ primitive.ObjectID) (timer.State, error) {
	return s.state, s.err
}

func (s *stubSessions) CurrentRun(_ context.Context, _ primitive.ObjectID) (timer.State, error) {
	return s.state, s.err
}

func (s *stubSessions) Control(_ context.Context, _ primitive.ObjectID, action string) (timer.State, error) {
	s.lastAction = action
	return s.state, s.err
}

func (s *stubSessions) DiscardRun(_ context.Context, _ primitive.ObjectID) error {
	return s.err
}

func (s *stubSessions) GetSession(_ context.Context, userID, sessionID primitive.ObjectID) (*domain.WorkoutSession, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.WorkoutSession{ID: sessionID, UserID: userID, Status: domain.SessionCompleted}, nil
}

func (s *stubSessions) SubmitFeedback(_ context.Context, _, sessionID primitive.ObjectID, rpe *int, notes string) (*domain.WorkoutSession, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.feedback = rpe
	return &domain.WorkoutSession{ID: sessionID, RPE: rpe, Notes: notes}, nil
}

// --- helpers ---

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(auth service.AuthService, workouts service.WorkoutService, sessions service.SessionService) *gin.Engine {
	router := gin.New()
	SetupRoutes(router, testSecret, auth, workouts, sessions)
	return router
}

func tokenFor(t *testing.T, userID primitive.ObjectID, secret string, ttl time.Duration) string {
	t.Helper()
	claims := &service.TokenClaims{
		UserID: userID.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func do(router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// --- tests ---

func TestAuthMiddleware(t *testing.T) {
	router := newRouter(&stubAuth{}, &stubWorkouts{}, &stubSessions{})
	user := primitive.NewObjectID()

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"bad signature", "Bearer " + tokenFor(t, user, "other-secret", time.Hour), http.StatusUnauthorized},
		{"expired", "Bearer " + tokenFor(t, user, testSecret, -time.Minute), http.StatusUnauthorized},
		{"valid", "Bearer " + tokenFor(t, user, testSecret, time.Hour), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestAuthHandler(t *testing.T) {
	user := &domain.User{ID: primitive.NewObjectID(), Name: "Ana", Email: "ana@example.com"}
	auth := &stubAuth{
		register: func(name, email, password string) (*domain.User, error) {
			if email == "taken@example.com" {
				return nil, service.ErrUserAlreadyExists
			}
			return user, nil
		},
		login: func(email, password string) (string, *domain.User, error) {
			if password != "password123" {
				return "", nil, service.ErrAuthenticationFailed
			}
			return "signed-token", user, nil
		},
	}
	router := newRouter(auth, &stubWorkouts{}, &stubSessions{})

	rec := do(router, http.MethodPost, "/api/v1/auth/register", "", RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "password123"})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, user.ID.Hex(), decode[UserResponse](t, rec).ID)

	rec = do(router, http.MethodPost, "/api/v1/auth/register", "", RegisterRequest{Name: "Ana", Email: "taken@example.com", Password: "password123"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(router, http.MethodPost, "/api/v1/auth/register", "", RegisterRequest{Name: "Ana", Email: "not-an-email", Password: "short"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(router, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Email: "ana@example.com", Password: "password123"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "signed-token", decode[LoginResponse](t, rec).Token)

	rec = do(router, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Email: "ana@example.com", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWorkoutHandler(t *testing.T) {
	user := primitive.NewObjectID()
	token := tokenFor(t, user, testSecret, time.Hour)
	circuit, round, exercise := 0, 0, 1
	stub := &stubWorkouts{
		created: &domain.GeneratedWorkout{ID: primitive.NewObjectID(), Name: "Stored"},
		plan: domain.FlattenedWorkout{
			WorkoutID:     "abc",
			TotalDuration: 40,
			TotalItems:    2,
			Items: []domain.TimerItem{
				{ID: "1", Type: domain.ItemCircuitExercise, Name: "Squat", Duration: 30, CircuitIndex: &circuit, RoundIndex: &round, ExerciseIndex: &exercise},
				{ID: "2", Type: domain.ItemExerciseRest, Name: "Rest", Duration: 10, CircuitIndex: &circuit, RoundIndex: &round},
			},
		},
	}
	router := newRouter(&stubAuth{}, stub, &stubSessions{})

	rec := do(router, http.MethodPost, "/api/v1/workouts", token, CreateWorkoutRequest{DurationMinutes: 20, Workout: generation.Response{Name: "New"}})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[domain.GeneratedWorkout](t, rec)
	assert.Equal(t, "New", created.Name)
	assert.Equal(t, 1200, created.TargetDuration)
	assert.Equal(t, user, created.OwnerID)

	rec = do(router, http.MethodGet, "/api/v1/workouts/"+stub.created.ID.Hex(), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Stored", decode[domain.GeneratedWorkout](t, rec).Name)

	rec = do(router, http.MethodGet, "/api/v1/workouts/not-an-id", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(router, http.MethodGet, "/api/v1/workouts/"+stub.created.ID.Hex()+"/plan", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	plan := decode[PlanResponse](t, rec)
	require.Len(t, plan.Items, 2)
	assert.Equal(t, "WORK", plan.Items[0].Label)
	assert.False(t, plan.Items[0].IsRest)
	assert.Equal(t, "REST", plan.Items[1].Label)
	assert.True(t, plan.Items[1].IsRest)

	rec = do(router, http.MethodGet, "/api/v1/workouts", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", rec.Body.String())
}

func TestWorkoutHandler_Errors(t *testing.T) {
	token := tokenFor(t, primitive.NewObjectID(), testSecret, time.Hour)
	tests := []struct {
		err  error
		want int
	}{
		{service.ErrWorkoutNotFound, http.StatusNotFound},
		{service.ErrWorkoutAccessDenied, http.StatusForbidden},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		router := newRouter(&stubAuth{}, &stubWorkouts{err: tt.err}, &stubSessions{})
		rec := do(router, http.MethodGet, "/api/v1/workouts/"+primitive.NewObjectID().Hex(), token, nil)
		assert.Equal(t, tt.want, rec.Code, tt.err.Error())
	}

	router := newRouter(&stubAuth{}, &stubWorkouts{err: service.ErrInvalidWorkout}, &stubSessions{})
	rec := do(router, http.MethodPost, "/api/v1/workouts", token, CreateWorkoutRequest{Workout: generation.Response{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func runningState() timer.State {
	idx := 0
	return timer.State{
		Status: timer.StatusRunning,
		Items: []domain.TimerItem{
			{ID: "a", Type: domain.ItemWarmupExercise, Name: "March", Duration: 30, ExerciseIndex: &idx},
			{ID: "b", Type: domain.ItemCooldownExercise, Name: "Stretch", Duration: 20, ExerciseIndex: &idx},
		},
		TimeRemaining:  12,
		TotalElapsed:   18,
		CountdownValue: 3,
		Session:        &domain.WorkoutSession{Status: domain.SessionInProgress},
	}
}

func TestSessionHandler_Run(t *testing.T) {
	token := tokenFor(t, primitive.NewObjectID(), testSecret, time.Hour)
	stub := &stubSessions{state: runningState()}
	router := newRouter(&stubAuth{}, &stubWorkouts{}, stub)

	rec := do(router, http.MethodPost, "/api/v1/run", token, StartRunRequest{WorkoutID: primitive.NewObjectID().Hex()})
	require.Equal(t, http.StatusCreated, rec.Code)
	run := decode[RunResponse](t, rec)
	assert.Equal(t, timer.StatusRunning, run.Status)
	assert.Equal(t, 2, run.TotalItems)
	require.NotNil(t, run.CurrentItem)
	assert.Equal(t, "March", run.CurrentItem.Name)
	assert.Equal(t, "WARM UP", run.CurrentItem.Label)
	require.NotNil(t, run.NextItem)
	assert.Equal(t, "Stretch", run.NextItem.Name)
	assert.Empty(t, run.Headline)

	rec = do(router, http.MethodPost, "/api/v1/run", token, StartRunRequest{WorkoutID: "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(router, http.MethodPost, "/api/v1/run/pause", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pause", stub.lastAction)

	rec = do(router, http.MethodGet, "/api/v1/run", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(router, http.MethodDelete, "/api/v1/run", token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestSessionHandler_FinishedRunHasHeadline(t *testing.T) {
	token := tokenFor(t, primitive.NewObjectID(), testSecret, time.Hour)
	state := runningState()
	state.Status = timer.StatusCompleted
	state.CurrentItemIndex = 1
	state.Session = &domain.WorkoutSession{Status: domain.SessionCompleted, PercentComplete: 100}
	router := newRouter(&stubAuth{}, &stubWorkouts{}, &stubSessions{state: state})

	rec := do(router, http.MethodGet, "/api/v1/run", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	run := decode[RunResponse](t, rec)
	assert.Equal(t, "Workout Complete!", run.Headline)
	assert.NotEmpty(t, run.Message)
	assert.Nil(t, run.NextItem)
}

func TestSessionHandler_ErrorMapping(t *testing.T) {
	token := tokenFor(t, primitive.NewObjectID(), testSecret, time.Hour)
	tests := []struct {
		err  error
		want int
	}{
		{service.ErrNoActiveRun, http.StatusNotFound},
		{service.ErrRunInProgress, http.StatusConflict},
		{service.ErrUnknownAction, http.StatusBadRequest},
		{session.ErrNotFinalized, http.StatusConflict},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		router := newRouter(&stubAuth{}, &stubWorkouts{}, &stubSessions{err: tt.err})
		rec := do(router, http.MethodPost, "/api/v1/run/skip", token, nil)
		assert.Equal(t, tt.want, rec.Code, tt.err.Error())
	}
}

func TestSessionHandler_Feedback(t *testing.T) {
	token := tokenFor(t, primitive.NewObjectID(), testSecret, time.Hour)
	stub := &stubSessions{}
	router := newRouter(&stubAuth{}, &stubWorkouts{}, stub)
	path := "/api/v1/sessions/" + primitive.NewObjectID().Hex() + "/feedback"

	rpe := 8
	rec := do(router, http.MethodPost, path, token, FeedbackRequest{RPE: &rpe, Notes: "tough"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, stub.feedback)
	assert.Equal(t, 8, *stub.feedback)

	tooHigh := 12
	rec = do(router, http.MethodPost, path, token, FeedbackRequest{RPE: &tooHigh})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	stub.err = session.ErrFeedbackAlreadySet
	rec = do(router, http.MethodPost, path, token, FeedbackRequest{RPE: &rpe})
	assert.Equal(t, http.StatusConflict, rec.Code)

	stub.err = service.ErrSessionNotFound
	rec = do(router, http.MethodGet, "/api/v1/sessions/"+primitive.NewObjectID().Hex(), token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
