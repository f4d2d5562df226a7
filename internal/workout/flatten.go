package workout

import (
	"fmt"

	"alcyxob/interval-trainer/internal/domain"

	"github.com/google/uuid"
)

// Rest item names shown to the user.
const restItemName = "Rest"

// itemNamespace seeds the name-based item ids so that flattening the same
// workout twice yields identical sequences.
var itemNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("interval-trainer/timer-item"))

// Flatten expands a workout into the ordered sequence the timer executes:
// warm-up exercises, then each circuit round by round with exercise and
// round rests inserted only between items, then cool-down exercises.
// Rest items are omitted entirely when the configured rest is zero.
func Flatten(w *domain.GeneratedWorkout) domain.FlattenedWorkout {
	b := flattener{workoutID: w.ID.Hex()}

	for i := range w.WarmUp.Exercises {
		ex := w.WarmUp.Exercises[i]
		b.add(domain.TimerItem{
			Type:          domain.ItemWarmupExercise,
			Name:          ex.Name,
			Duration:      ex.Duration,
			Exercise:      &ex,
			ExerciseIndex: intPtr(i),
		})
	}

	for ci, c := range w.Circuits {
		for round := 0; round < c.Rounds; round++ {
			for ei := range c.Exercises {
				ex := c.Exercises[ei]
				b.add(domain.TimerItem{
					Type:          domain.ItemCircuitExercise,
					Name:          ex.Name,
					Duration:      ex.Duration,
					Exercise:      &ex,
					CircuitIndex:  intPtr(ci),
					RoundIndex:    intPtr(round),
					ExerciseIndex: intPtr(ei),
				})

				if ei < len(c.Exercises)-1 && c.RestBetweenExercises > 0 {
					b.add(domain.TimerItem{
						Type:         domain.ItemExerciseRest,
						Name:         restItemName,
						Duration:     c.RestBetweenExercises,
						CircuitIndex: intPtr(ci),
						RoundIndex:   intPtr(round),
					})
				}
			}

			if round < c.Rounds-1 && c.RestBetweenRounds > 0 && len(c.Exercises) > 0 {
				b.add(domain.TimerItem{
					Type:         domain.ItemRoundRest,
					Name:         fmt.Sprintf("Round %d Complete", round+1),
					Duration:     c.RestBetweenRounds,
					CircuitIndex: intPtr(ci),
					RoundIndex:   intPtr(round),
				})
			}
		}
	}

	for i := range w.CoolDown.Exercises {
		ex := w.CoolDown.Exercises[i]
		b.add(domain.TimerItem{
			Type:          domain.ItemCooldownExercise,
			Name:          ex.Name,
			Duration:      ex.Duration,
			Exercise:      &ex,
			ExerciseIndex: intPtr(i),
		})
	}

	return domain.FlattenedWorkout{
		WorkoutID:     b.workoutID,
		Items:         b.items,
		TotalDuration: b.total,
		TotalItems:    len(b.items),
	}
}

type flattener struct {
	workoutID string
	items     []domain.TimerItem
	total     int
}

// add appends an item, dropping it when its duration is not positive.
func (b *flattener) add(item domain.TimerItem) {
	if item.Duration <= 0 {
		return
	}
	position := len(b.items)
	item.ID = uuid.NewSHA1(itemNamespace, []byte(fmt.Sprintf("%s/%d", b.workoutID, position))).String()
	b.items = append(b.items, item)
	b.total += item.Duration
}

// ItemTypeLabel returns the short heading shown for an item type.
func ItemTypeLabel(t domain.ItemType) string {
	switch t {
	case domain.ItemWarmupExercise:
		return "WARM UP"
	case domain.ItemCircuitExercise:
		return "WORK"
	case domain.ItemCooldownExercise:
		return "COOL DOWN"
	case domain.ItemExerciseRest:
		return "REST"
	case domain.ItemRoundRest:
		return "ROUND REST"
	default:
		return ""
	}
}

// IsRest reports whether the item type is a rest period.
func IsRest(t domain.ItemType) bool {
	return t == domain.ItemExerciseRest || t == domain.ItemRoundRest
}

func intPtr(v int) *int {
	return &v
}
