package timer

import "alcyxob/interval-trainer/internal/domain"

// Status is the timer engine's state machine position.
type Status string

const (
	StatusIdle       Status = "idle"       // no active run
	StatusCountdown  Status = "countdown"  // lead-in before the first item
	StatusRunning    Status = "running"    // current item counting down
	StatusPaused     Status = "paused"     // suspended mid-item
	StatusTransition Status = "transition" // lead-in before the next item
	StatusCompleted  Status = "completed"  // item sequence exhausted
)

// ValidStatuses returns all valid status values.
func ValidStatuses() []Status {
	return []Status{StatusIdle, StatusCountdown, StatusRunning, StatusPaused, StatusTransition, StatusCompleted}
}

// IsValid returns true if the status is a known value.
func (s Status) IsValid() bool {
	for _, valid := range ValidStatuses() {
		if s == valid {
			return true
		}
	}
	return false
}

// LeadInSeconds is the countdown shown before the first item and between items.
const LeadInSeconds = 3

// State is a snapshot of the engine. Items are shared with the engine and
// must be treated as read-only; Session is a private copy.
type State struct {
	Status           Status                 `json:"status"`
	Items            []domain.TimerItem     `json:"items"`
	CurrentItemIndex int                    `json:"currentItemIndex"`
	TimeRemaining    int                    `json:"timeRemaining"` // seconds left in the current item
	TotalElapsed     int                    `json:"totalElapsed"`  // worked seconds
	CountdownValue   int                    `json:"countdownValue"`
	ShowCountdown    bool                   `json:"showCountdown"`
	Session          *domain.WorkoutSession `json:"session,omitempty"`
}

// CurrentItem returns the item at CurrentItemIndex, or nil when there is none.
func (s State) CurrentItem() *domain.TimerItem {
	if s.CurrentItemIndex < 0 || s.CurrentItemIndex >= len(s.Items) {
		return nil
	}
	item := s.Items[s.CurrentItemIndex]
	return &item
}

// IsLastItem reports whether the current item is the final one.
func (s State) IsLastItem() bool {
	return len(s.Items) > 0 && s.CurrentItemIndex == len(s.Items)-1
}

func initialState() State {
	return State{
		Status:         StatusIdle,
		Items:          []domain.TimerItem{},
		CountdownValue: LeadInSeconds,
	}
}
