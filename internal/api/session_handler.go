package api

import (
	"errors"
	"log"
	"net/http"

	"alcyxob/interval-trainer/internal/domain"
	"alcyxob/interval-trainer/internal/service"
	"alcyxob/interval-trainer/internal/session"
	"alcyxob/interval-trainer/internal/timer"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SessionHandler struct {
	sessionService service.SessionService
	pick           session.Picker
}

func NewSessionHandler(sessionService service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService, pick: session.RandomPicker}
}

// --- DTOs ---

type StartRunRequest struct {
	WorkoutID string `json:"workoutId" binding:"required"`
}

// RunResponse is the live view of a run: the timer state plus the current
// and upcoming item. Headline and Message are set once the run has ended.
type RunResponse struct {
	Status           timer.Status           `json:"status"`
	CurrentItemIndex int                    `json:"currentItemIndex"`
	TotalItems       int                    `json:"totalItems"`
	TimeRemaining    int                    `json:"timeRemaining"`
	TotalElapsed     int                    `json:"totalElapsed"`
	CountdownValue   int                    `json:"countdownValue"`
	ShowCountdown    bool                   `json:"showCountdown"`
	CurrentItem      *ItemResponse          `json:"currentItem,omitempty"`
	NextItem         *ItemResponse          `json:"nextItem,omitempty"`
	Session          *domain.WorkoutSession `json:"session,omitempty"`
	Headline         string                 `json:"headline,omitempty"`
	Message          string                 `json:"message,omitempty"`
}

type FeedbackRequest struct {
	RPE   *int   `json:"rpe" binding:"omitempty,min=1,max=10"`
	Notes string `json:"notes" binding:"max=2000"`
}

// --- Live run ---

// StartRun godoc
// @Summary Start running a workout
// @Tags Run
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param run body StartRunRequest true "Workout to run"
// @Success 201 {object} RunResponse
// @Failure 409 {object} gin.H "A run is already in progress"
// @Router /run [post]
func (h *SessionHandler) StartRun(c *gin.Context) {
	var req StartRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	workoutID, err := primitive.ObjectIDFromHex(req.WorkoutID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workoutId format.")
		return
	}
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	state, err := h.sessionService.StartRun(c.Request.Context(), userID, workoutID)
	if err != nil {
		h.abortWithSessionError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.MapStateToResponse(state))
}

// GetRun godoc
// @Summary Get the state of the current run
// @Tags Run
// @Produce json
// @Security BearerAuth
// @Success 200 {object} RunResponse
// @Failure 404 {object} gin.H "No active run"
// @Router /run [get]
func (h *SessionHandler) GetRun(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}
	state, err := h.sessionService.CurrentRun(c.Request.Context(), userID)
	if err != nil {
		h.abortWithSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.MapStateToResponse(state))
}

// ControlRun godoc
// @Summary Pause, resume, skip, go back or stop the current run
// @Tags Run
// @Produce json
// @Security BearerAuth
// @Param action path string true "pause | resume | skip | back | stop"
// @Success 200 {object} RunResponse
// @Router /run/{action} [post]
func (h *SessionHandler) ControlRun(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}
	state, err := h.sessionService.Control(c.Request.Context(), userID, c.Param("action"))
	if err != nil {
		h.abortWithSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.MapStateToResponse(state))
}

// DiscardRun godoc
// @Summary Stop (if needed) and forget the current run
// @Tags Run
// @Security BearerAuth
// @Success 204
// @Router /run [delete]
func (h *SessionHandler) DiscardRun(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}
	if err := h.sessionService.DiscardRun(c.Request.Context(), userID); err != nil {
		h.abortWithSessionError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- History ---

// GetSessions godoc
// @Summary List the user's sessions
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.WorkoutSession
// @Router /sessions [get]
func (h *SessionHandler) GetSessions(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}
	sessions, err := h.sessionService.ListSessions(c.Request.Context(), userID)
	if err != nil {
		h.abortWithSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// GetSession godoc
// @Summary Get one session
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} domain.WorkoutSession
// @Failure 404 {object} gin.H "Session not found"
// @Router /sessions/{id} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}
	sessionID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	ws, err := h.sessionService.GetSession(c.Request.Context(), userID, sessionID)
	if err != nil {
		h.abortWithSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, ws)
}

// SubmitFeedback godoc
// @Summary Attach RPE and notes to a finished session
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Param feedback body FeedbackRequest true "Feedback"
// @Success 200 {object} domain.WorkoutSession
// @Failure 409 {object} gin.H "Feedback already recorded or session still running"
// @Router /sessions/{id}/feedback [post]
func (h *SessionHandler) SubmitFeedback(c *gin.Context) {
	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}
	sessionID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	ws, err := h.sessionService.SubmitFeedback(c.Request.Context(), userID, sessionID, req.RPE, req.Notes)
	if err != nil {
		h.abortWithSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, ws)
}

// ExportSession godoc
// @Summary Export a finished session as Parquet
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 201 {object} service.ExportResult
// @Router /sessions/{id}/export [post]
func (h *SessionHandler) ExportSession(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}
	sessionID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	result, err := h.sessionService.ExportSession(c.Request.Context(), userID, sessionID)
	if err != nil {
		h.abortWithSessionError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *SessionHandler) abortWithSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrWorkoutNotFound),
		errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrNoActiveRun):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrWorkoutAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrRunInProgress),
		errors.Is(err, session.ErrFeedbackAlreadySet),
		errors.Is(err, session.ErrNotFinalized):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrUnknownAction),
		errors.Is(err, service.ErrInvalidWorkout),
		errors.Is(err, session.ErrInvalidRPE),
		errors.Is(err, session.ErrEmptyFeedback):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		log.Printf("ERROR: Session request %s %s failed: %v", c.Request.Method, c.FullPath(), err)
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred.")
	}
}

// MapStateToResponse converts a timer snapshot to its DTO.
func (h *SessionHandler) MapStateToResponse(s timer.State) RunResponse {
	resp := RunResponse{
		Status:           s.Status,
		CurrentItemIndex: s.CurrentItemIndex,
		TotalItems:       len(s.Items),
		TimeRemaining:    s.TimeRemaining,
		TotalElapsed:     s.TotalElapsed,
		CountdownValue:   s.CountdownValue,
		ShowCountdown:    s.ShowCountdown,
		CurrentItem:      MapItemToResponse(s.CurrentItem()),
		Session:          s.Session,
	}
	if next := s.CurrentItemIndex + 1; next < len(s.Items) {
		resp.NextItem = MapItemToResponse(&s.Items[next])
	}
	if timer.IsTerminal(s) && s.Session != nil {
		resp.Headline = session.Headline(*s.Session)
		resp.Message = session.CompletionMessage(h.pick)
	}
	return resp
}
