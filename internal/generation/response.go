// Package generation turns the structured output of the workout generation
// service into a normalized GeneratedWorkout. The service is an external
// collaborator; only its response shape is known here.
package generation

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"alcyxob/interval-trainer/internal/domain"
	"alcyxob/interval-trainer/internal/workout"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrMissingField      = errors.New("missing required field")
	ErrInvalidValue      = errors.New("invalid value")
	ErrUnsupportedFormat = errors.New("unsupported plan file format")
)

// DefaultEquipmentSet is assumed when the response does not name one.
const DefaultEquipmentSet = "Bodyweight"

type ModificationsResponse struct {
	Easier string `json:"easier,omitempty" toml:"easier"`
	Harder string `json:"harder,omitempty" toml:"harder"`
}

type ExerciseResponse struct {
	ID            string                 `json:"id,omitempty" toml:"id"`
	Name          string                 `json:"name" toml:"name"`
	Duration      int                    `json:"duration" toml:"duration"`
	TargetReps    *int                   `json:"targetReps,omitempty" toml:"targetReps"`
	RepRange      string                 `json:"repRange,omitempty" toml:"repRange"`
	Description   string                 `json:"description,omitempty" toml:"description"`
	MuscleGroups  []string               `json:"muscleGroups,omitempty" toml:"muscleGroups"`
	Equipment     []string               `json:"equipment,omitempty" toml:"equipment"`
	Modifications *ModificationsResponse `json:"modifications,omitempty" toml:"modifications"`
}

type SectionResponse struct {
	Exercises []ExerciseResponse `json:"exercises" toml:"exercises"`
}

type CircuitResponse struct {
	ID                   string             `json:"id,omitempty" toml:"id"`
	Name                 string             `json:"name" toml:"name"`
	Rounds               int                `json:"rounds" toml:"rounds"`
	RestBetweenRounds    int                `json:"restBetweenRounds" toml:"restBetweenRounds"`
	RestBetweenExercises int                `json:"restBetweenExercises" toml:"restBetweenExercises"`
	Exercises            []ExerciseResponse `json:"exercises" toml:"exercises"`
}

type CalorieRangeResponse struct {
	Low  int `json:"low" toml:"low"`
	High int `json:"high" toml:"high"`
}

// Response is the workout as returned by the generation service, before any
// derived fields are computed. DurationMinutes is the length that was
// requested, when known.
type Response struct {
	Name                 string                `json:"name" toml:"name"`
	Description          string                `json:"description,omitempty" toml:"description"`
	Difficulty           string                `json:"difficulty,omitempty" toml:"difficulty"`
	DurationMinutes      int                   `json:"durationMinutes,omitempty" toml:"durationMinutes"`
	EquipmentSetUsed     string                `json:"equipmentSetUsed,omitempty" toml:"equipmentSetUsed"`
	EquipmentRequired    []string              `json:"equipmentRequired,omitempty" toml:"equipmentRequired"`
	WarmUp               SectionResponse       `json:"warmUp" toml:"warmUp"`
	Circuits             []CircuitResponse     `json:"circuits" toml:"circuits"`
	CoolDown             SectionResponse       `json:"coolDown" toml:"coolDown"`
	EstimatedCalories    int                   `json:"estimatedCalories,omitempty" toml:"estimatedCalories"`
	CalorieRange         *CalorieRangeResponse `json:"calorieRange,omitempty" toml:"calorieRange"`
	FocusAreas           []string              `json:"focusAreas,omitempty" toml:"focusAreas"`
	MuscleGroupsTargeted []string              `json:"muscleGroupsTargeted,omitempty" toml:"muscleGroupsTargeted"`
}

// Validate checks the parts of a response the timer depends on.
func Validate(resp Response) error {
	if strings.TrimSpace(resp.Name) == "" {
		return fmt.Errorf("%w: name", ErrMissingField)
	}

	timed := 0
	check := func(path string, exercises []ExerciseResponse) error {
		for i, ex := range exercises {
			if strings.TrimSpace(ex.Name) == "" {
				return fmt.Errorf("%w: %s[%d].name", ErrMissingField, path, i)
			}
			if ex.Duration <= 0 {
				return fmt.Errorf("%w: %s[%d].duration must be positive, got %d", ErrInvalidValue, path, i, ex.Duration)
			}
			timed++
		}
		return nil
	}

	if err := check("warmUp.exercises", resp.WarmUp.Exercises); err != nil {
		return err
	}
	for ci, c := range resp.Circuits {
		if c.Rounds < 1 {
			return fmt.Errorf("%w: circuits[%d].rounds must be at least 1, got %d", ErrInvalidValue, ci, c.Rounds)
		}
		if c.RestBetweenRounds < 0 || c.RestBetweenExercises < 0 {
			return fmt.Errorf("%w: circuits[%d] rest must not be negative", ErrInvalidValue, ci)
		}
		if err := check(fmt.Sprintf("circuits[%d].exercises", ci), c.Exercises); err != nil {
			return err
		}
	}
	if err := check("coolDown.exercises", resp.CoolDown.Exercises); err != nil {
		return err
	}

	if timed == 0 {
		return fmt.Errorf("%w: at least one exercise", ErrMissingField)
	}
	return nil
}

// Transform validates resp and builds the normalized workout. A positive
// requestedMinutes overrides resp.DurationMinutes as the target.
func Transform(resp Response, requestedMinutes int, ownerID primitive.ObjectID, now time.Time) (*domain.GeneratedWorkout, error) {
	if err := Validate(resp); err != nil {
		return nil, err
	}
	if requestedMinutes <= 0 {
		requestedMinutes = resp.DurationMinutes
	}

	w := &domain.GeneratedWorkout{
		OwnerID:              ownerID,
		Name:                 strings.TrimSpace(resp.Name),
		Description:          resp.Description,
		Difficulty:           strings.ToLower(strings.TrimSpace(resp.Difficulty)),
		TargetDuration:       requestedMinutes * 60,
		EquipmentSetUsed:     resp.EquipmentSetUsed,
		EquipmentRequired:    resp.EquipmentRequired,
		WarmUp:               domain.Section{Exercises: exercises(resp.WarmUp.Exercises)},
		CoolDown:             domain.Section{Exercises: exercises(resp.CoolDown.Exercises)},
		EstimatedCalories:    resp.EstimatedCalories,
		FocusAreas:           resp.FocusAreas,
		MuscleGroupsTargeted: resp.MuscleGroupsTargeted,
		CreatedAt:            now.UTC(),
	}
	if w.EquipmentSetUsed == "" {
		w.EquipmentSetUsed = DefaultEquipmentSet
	}
	if resp.CalorieRange != nil {
		w.CalorieRange = domain.CalorieRange{Low: resp.CalorieRange.Low, High: resp.CalorieRange.High}
	}

	w.Circuits = make([]domain.Circuit, 0, len(resp.Circuits))
	for _, c := range resp.Circuits {
		id := c.ID
		if id == "" {
			id = uuid.NewString()
		}
		w.Circuits = append(w.Circuits, domain.Circuit{
			ID:                   id,
			Name:                 c.Name,
			Rounds:               c.Rounds,
			RestBetweenRounds:    c.RestBetweenRounds,
			RestBetweenExercises: c.RestBetweenExercises,
			Exercises:            exercises(c.Exercises),
		})
	}

	workout.Normalize(w)
	return w, nil
}

func exercises(in []ExerciseResponse) []domain.Exercise {
	out := make([]domain.Exercise, 0, len(in))
	for _, ex := range in {
		id := ex.ID
		if id == "" {
			id = uuid.NewString()
		}
		e := domain.Exercise{
			ID:           id,
			Name:         strings.TrimSpace(ex.Name),
			Duration:     ex.Duration,
			TargetReps:   ex.TargetReps,
			RepRange:     ex.RepRange,
			Description:  ex.Description,
			MuscleGroups: ex.MuscleGroups,
			Equipment:    ex.Equipment,
		}
		if ex.Modifications != nil {
			e.Modifications = &domain.Modifications{Easier: ex.Modifications.Easier, Harder: ex.Modifications.Harder}
		}
		out = append(out, e)
	}
	return out
}

// Decode reads a response encoded as "json" or "toml".
func Decode(data []byte, format string) (Response, error) {
	var resp Response
	switch strings.ToLower(format) {
	case "json":
		if err := json.Unmarshal(data, &resp); err != nil {
			return Response{}, fmt.Errorf("failed to decode json plan: %w", err)
		}
	case "toml":
		if _, err := toml.Decode(string(data), &resp); err != nil {
			return Response{}, fmt.Errorf("failed to decode toml plan: %w", err)
		}
	default:
		return Response{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return resp, nil
}

// LoadFile reads a response from a .json or .toml file.
func LoadFile(path string) (Response, error) {
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	if format != "json" && format != "toml" {
		return Response{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Response{}, fmt.Errorf("failed to read plan file: %w", err)
	}
	return Decode(data, format)
}
