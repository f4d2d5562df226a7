package api

import (
	"errors"
	"log"
	"net/http"

	"alcyxob/interval-trainer/internal/domain"
	"alcyxob/interval-trainer/internal/generation"
	"alcyxob/interval-trainer/internal/service"
	"alcyxob/interval-trainer/internal/workout"

	"github.com/gin-gonic/gin"
)

type WorkoutHandler struct {
	workoutService service.WorkoutService
}

func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// --- DTOs ---

// CreateWorkoutRequest carries the generation service output for a workout
// of DurationMinutes.
type CreateWorkoutRequest struct {
	DurationMinutes int                 `json:"durationMinutes" binding:"omitempty,min=1,max=180"`
	Workout         generation.Response `json:"workout"`
}

type ItemResponse struct {
	ID            string           `json:"id"`
	Type          domain.ItemType  `json:"type"`
	Label         string           `json:"label"`
	Name          string           `json:"name"`
	Duration      int              `json:"duration"`
	IsRest        bool             `json:"isRest"`
	CircuitIndex  *int             `json:"circuitIndex,omitempty"`
	RoundIndex    *int             `json:"roundIndex,omitempty"`
	ExerciseIndex *int             `json:"exerciseIndex,omitempty"`
	Exercise      *domain.Exercise `json:"exercise,omitempty"`
}

type PlanResponse struct {
	WorkoutID     string         `json:"workoutId"`
	TotalDuration int            `json:"totalDuration"`
	TotalItems    int            `json:"totalItems"`
	Items         []ItemResponse `json:"items"`
}

// --- Handler Methods ---

// CreateWorkout godoc
// @Summary Store a generated workout
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workout body CreateWorkoutRequest true "Generated workout"
// @Success 201 {object} domain.GeneratedWorkout
// @Failure 400 {object} gin.H "Invalid workout"
// @Router /workouts [post]
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	var req CreateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	w, err := h.workoutService.CreateWorkout(c.Request.Context(), userID, req.Workout, req.DurationMinutes)
	if err != nil {
		if errors.Is(err, service.ErrInvalidWorkout) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			log.Printf("ERROR: Creating workout for user %s: %v", userID.Hex(), err)
			abortWithError(c, http.StatusInternalServerError, "Failed to create workout.")
		}
		return
	}

	c.JSON(http.StatusCreated, w)
}

// GetWorkouts godoc
// @Summary List the user's workouts
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.GeneratedWorkout
// @Router /workouts [get]
func (h *WorkoutHandler) GetWorkouts(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	workouts, err := h.workoutService.ListWorkouts(c.Request.Context(), userID)
	if err != nil {
		log.Printf("ERROR: Listing workouts for user %s: %v", userID.Hex(), err)
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve workouts.")
		return
	}
	c.JSON(http.StatusOK, workouts)
}

// GetWorkout godoc
// @Summary Get one workout
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Success 200 {object} domain.GeneratedWorkout
// @Failure 403 {object} gin.H "Not the owner"
// @Failure 404 {object} gin.H "Workout not found"
// @Router /workouts/{id} [get]
func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}
	workoutID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	w, err := h.workoutService.GetWorkout(c.Request.Context(), userID, workoutID)
	if err != nil {
		abortWithWorkoutError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

// GetPlan godoc
// @Summary Get the timer item sequence of a workout
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Success 200 {object} PlanResponse
// @Router /workouts/{id}/plan [get]
func (h *WorkoutHandler) GetPlan(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}
	workoutID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	plan, err := h.workoutService.GetPlan(c.Request.Context(), userID, workoutID)
	if err != nil {
		abortWithWorkoutError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapPlanToResponse(plan))
}

func abortWithWorkoutError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrWorkoutNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrWorkoutAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidWorkout):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		log.Printf("ERROR: Workout request failed: %v", err)
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve workout.")
	}
}

// MapItemToResponse converts a timer item to its DTO.
func MapItemToResponse(item *domain.TimerItem) *ItemResponse {
	if item == nil {
		return nil
	}
	return &ItemResponse{
		ID:            item.ID,
		Type:          item.Type,
		Label:         workout.ItemTypeLabel(item.Type),
		Name:          item.Name,
		Duration:      item.Duration,
		IsRest:        workout.IsRest(item.Type),
		CircuitIndex:  item.CircuitIndex,
		RoundIndex:    item.RoundIndex,
		ExerciseIndex: item.ExerciseIndex,
		Exercise:      item.Exercise,
	}
}

// MapPlanToResponse converts a flattened workout to its DTO.
func MapPlanToResponse(plan domain.FlattenedWorkout) PlanResponse {
	resp := PlanResponse{
		WorkoutID:     plan.WorkoutID,
		TotalDuration: plan.TotalDuration,
		TotalItems:    plan.TotalItems,
		Items:         make([]ItemResponse, 0, len(plan.Items)),
	}
	for i := range plan.Items {
		resp.Items = append(resp.Items, *MapItemToResponse(&plan.Items[i]))
	}
	return resp
}
