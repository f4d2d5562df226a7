// Package timer implements the tick-driven state machine that executes a
// flattened workout, and the Runner that feeds it a one-second cadence.
package timer

import (
	"log"
	"time"

	"alcyxob/interval-trainer/internal/domain"
	"alcyxob/interval-trainer/internal/events"
	"alcyxob/interval-trainer/internal/session"
)

// Engine holds the single live timer state for one run. Every transition is
// synchronous. Calls made from a state where the transition does not apply
// are silent no-ops: a missed transition is recoverable, a crash mid-workout
// is not.
//
// Engine is not safe for concurrent use; Runner serializes access to it.
type Engine struct {
	state   State
	now     func() time.Time
	logger  *log.Logger
	changed *events.CallbackEvent[State]
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the clock used to timestamp session finalization.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates an idle engine.
func NewEngine(logger *log.Logger, opts ...Option) *Engine {
	if logger == nil {
		panic("Engine: logger cannot be nil")
	}
	e := &Engine{
		state:   initialState(),
		now:     time.Now,
		logger:  logger,
		changed: events.NewCallbackEvent[State](false),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Listen registers a callback receiving a snapshot after every effective
// transition. It returns a deregistration function.
func (e *Engine) Listen(callback func(State)) func() {
	return e.changed.Listen(callback)
}

// State returns a snapshot of the current state.
func (e *Engine) State() State {
	snap := e.state
	if e.state.Session != nil {
		s := *e.state.Session
		snap.Session = &s
	}
	return snap
}

// Initialize loads the item sequence and the in-progress session. The engine
// stays idle until StartCountdown. An empty sequence is ignored.
func (e *Engine) Initialize(items []domain.TimerItem, s *domain.WorkoutSession) {
	if len(items) == 0 {
		e.logger.Printf("TimerEngine: Initialize ignored, no items")
		return
	}

	e.state = initialState()
	e.state.Items = items
	e.state.TimeRemaining = items[0].Duration
	if s != nil {
		cp := *s
		e.state.Session = &cp
	}
	e.logger.Printf("TimerEngine: Initialized with %d items", len(items))
	e.emit()
}

// StartCountdown enters the lead-in before the run starts.
func (e *Engine) StartCountdown() {
	if !e.active() {
		return
	}
	e.state.Status = StatusCountdown
	e.state.ShowCountdown = true
	e.state.CountdownValue = LeadInSeconds
	e.logger.Printf("TimerEngine: Countdown started")
	e.emit()
}

// StartTimer begins counting the current item once the lead-in is over.
func (e *Engine) StartTimer() {
	if e.state.Status != StatusCountdown {
		return
	}
	e.state.Status = StatusRunning
	e.state.ShowCountdown = false
	e.logger.Printf("TimerEngine: Running item %d (%s)", e.state.CurrentItemIndex, e.currentName())
	e.emit()
}

// Pause suspends a running item. Ticks are no-ops until Resume.
func (e *Engine) Pause() {
	if e.state.Status != StatusRunning {
		return
	}
	e.state.Status = StatusPaused
	e.logger.Printf("TimerEngine: Paused at item %d with %ds remaining", e.state.CurrentItemIndex, e.state.TimeRemaining)
	e.emit()
}

// Resume continues a paused item.
func (e *Engine) Resume() {
	if e.state.Status != StatusPaused {
		return
	}
	e.state.Status = StatusRunning
	e.logger.Printf("TimerEngine: Resumed")
	e.emit()
}

// Tick consumes one wall-clock second. Only effective while running.
// The last second of an item is consumed by the move to the next item,
// never by counting down to zero.
func (e *Engine) Tick() {
	if e.state.Status != StatusRunning {
		return
	}
	if e.state.TimeRemaining <= 1 {
		e.advance(1)
		return
	}
	e.state.TimeRemaining--
	e.state.TotalElapsed++
	e.emit()
}

// advance credits the given worked seconds and moves past the current item:
// to completion when it was the last one, otherwise into the transition
// lead-in for the next item.
func (e *Engine) advance(credit int) {
	e.state.TotalElapsed += credit

	if e.state.IsLastItem() {
		e.complete()
		return
	}

	e.state.CurrentItemIndex++
	e.state.TimeRemaining = e.state.Items[e.state.CurrentItemIndex].Duration
	e.state.Status = StatusTransition
	e.state.ShowCountdown = true
	e.state.CountdownValue = LeadInSeconds
	e.logger.Printf("TimerEngine: Transition to item %d (%s)", e.state.CurrentItemIndex, e.currentName())
	e.emit()
}

func (e *Engine) complete() {
	e.state.Status = StatusCompleted
	e.state.ShowCountdown = false
	if s := e.state.Session; s != nil && !s.Status.IsFinal() {
		done := session.Complete(*s, len(e.state.Items), e.state.TotalElapsed, e.now())
		e.state.Session = &done
	}
	e.logger.Printf("TimerEngine: Workout complete, %ds worked", e.state.TotalElapsed)
	e.emit()
}

// StartTransitionCountdown re-enters the lead-in for the current item.
func (e *Engine) StartTransitionCountdown() {
	if e.state.Status != StatusRunning && e.state.Status != StatusPaused {
		return
	}
	e.state.Status = StatusTransition
	e.state.ShowCountdown = true
	e.state.CountdownValue = LeadInSeconds
	e.emit()
}

// FinishTransition starts the next item once its lead-in has elapsed.
func (e *Engine) FinishTransition() {
	if e.state.Status != StatusTransition {
		return
	}
	e.state.Status = StatusRunning
	e.state.ShowCountdown = false
	e.logger.Printf("TimerEngine: Running item %d (%s)", e.state.CurrentItemIndex, e.currentName())
	e.emit()
}

// SkipToNext jumps to the following item. Only the seconds actually spent
// on the skipped item count as worked; the remainder is not credited.
// Skipping the last item completes the run. Status is otherwise unchanged.
func (e *Engine) SkipToNext() {
	if !e.active() {
		return
	}
	current := e.state.Items[e.state.CurrentItemIndex]
	spent := max(current.Duration-e.state.TimeRemaining, 0)

	if e.state.IsLastItem() {
		e.state.TotalElapsed += spent
		e.complete()
		return
	}

	e.state.TotalElapsed += spent
	e.state.CurrentItemIndex++
	e.state.TimeRemaining = e.state.Items[e.state.CurrentItemIndex].Duration
	e.logger.Printf("TimerEngine: Skipped to item %d (%s), credited %ds", e.state.CurrentItemIndex, e.currentName(), spent)
	e.emit()
}

// GoToPrevious steps back one item and restarts it from its full duration.
// Worked time already credited is left as is.
func (e *Engine) GoToPrevious() {
	if !e.active() || e.state.CurrentItemIndex == 0 {
		return
	}
	e.state.CurrentItemIndex--
	e.state.TimeRemaining = e.state.Items[e.state.CurrentItemIndex].Duration
	e.logger.Printf("TimerEngine: Back to item %d (%s)", e.state.CurrentItemIndex, e.currentName())
	e.emit()
}

// Stop aborts the run: the engine returns to idle and the session is
// finalized as stopped early. Without a live session, or outside an active
// run, it does nothing.
func (e *Engine) Stop() {
	s := e.state.Session
	if s == nil || s.Status.IsFinal() {
		return
	}
	if e.state.Status == StatusIdle || e.state.Status == StatusCompleted {
		return
	}

	stopped := session.StopEarly(*s, e.state.CurrentItemIndex, len(e.state.Items), e.state.TotalElapsed, e.state.CurrentItem(), e.now())
	e.state.Session = &stopped
	e.state.Status = StatusIdle
	e.state.ShowCountdown = false
	e.logger.Printf("TimerEngine: Stopped early at item %d (%d%% complete)", e.state.CurrentItemIndex, stopped.PercentComplete)
	e.emit()
}

// SetCountdownValue updates the lead-in value shown to the user.
func (e *Engine) SetCountdownValue(v int) {
	e.state.CountdownValue = max(v, 0)
	e.emit()
}

// SetShowCountdown toggles lead-in visibility.
func (e *Engine) SetShowCountdown(show bool) {
	e.state.ShowCountdown = show
	e.emit()
}

// Reset discards all run state and the session reference.
func (e *Engine) Reset() {
	e.state = initialState()
	e.logger.Printf("TimerEngine: Reset")
	e.emit()
}

// active reports whether a run is loaded and has not finished.
func (e *Engine) active() bool {
	if len(e.state.Items) == 0 || e.state.Status == StatusCompleted {
		return false
	}
	return e.state.Session == nil || !e.state.Session.Status.IsFinal()
}

func (e *Engine) currentName() string {
	if item := e.state.CurrentItem(); item != nil {
		return item.Name
	}
	return ""
}

func (e *Engine) emit() {
	e.changed.Notify(e.State())
}
