package timer

import (
	"log"
	"sync"
	"time"

	"alcyxob/interval-trainer/internal/events"
	"alcyxob/interval-trainer/internal/logging"
)

// Runner drives an Engine on a fixed cadence and serializes every access to
// it. Each step consumes one lead-in second while counting down, or one tick
// while running. Ticks while paused are no-ops.
type Runner struct {
	mu       sync.Mutex
	engine   *Engine
	interval time.Duration
	logger   *log.Logger
	dirty    bool

	changed *events.CallbackEvent[State]

	doneChan     chan struct{} // Closed by Shutdown
	finishedChan chan struct{} // Closed once the run reaches a terminal state
	wg           sync.WaitGroup
	startOnce    sync.Once
	shutdownOnce sync.Once
	finishOnce   sync.Once
}

// NewRunner wraps engine. The ticking goroutine is not started until Start.
func NewRunner(engine *Engine, interval time.Duration, logger *log.Logger) *Runner {
	if engine == nil {
		panic("Runner: engine cannot be nil")
	}
	if logger == nil {
		panic("Runner: logger cannot be nil")
	}
	if interval <= 0 {
		interval = time.Second
	}
	r := &Runner{
		engine:       engine,
		interval:     interval,
		logger:       logger,
		changed:      events.NewCallbackEvent[State](true),
		doneChan:     make(chan struct{}),
		finishedChan: make(chan struct{}),
	}
	engine.Listen(func(State) { r.dirty = true })
	return r
}

// Listen registers a callback for state changes. The latest state is
// replayed to new listeners.
func (r *Runner) Listen(callback func(State)) func() {
	return r.changed.Listen(callback)
}

// Do runs fn against the engine under the runner's lock and returns the
// resulting snapshot. Listeners are notified after the lock is released.
func (r *Runner) Do(fn func(e *Engine)) State {
	r.mu.Lock()
	r.dirty = false
	fn(r.engine)
	snap := r.engine.State()
	dirty := r.dirty
	r.mu.Unlock()

	if dirty {
		r.changed.Notify(snap)
	}
	if IsTerminal(snap) {
		r.finishOnce.Do(func() { close(r.finishedChan) })
	}
	return snap
}

// State returns the current snapshot.
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.engine.State()
}

// Step advances the run by one interval.
func (r *Runner) Step() State {
	return r.Do(func(e *Engine) {
		s := e.state
		switch s.Status {
		case StatusCountdown:
			if s.CountdownValue > 1 {
				e.SetCountdownValue(s.CountdownValue - 1)
			} else {
				e.StartTimer()
			}
		case StatusTransition:
			if s.CountdownValue > 1 {
				e.SetCountdownValue(s.CountdownValue - 1)
			} else {
				e.FinishTransition()
			}
		case StatusRunning:
			e.Tick()
		}
	})
}

// Start launches the ticking goroutine. Subsequent calls do nothing.
func (r *Runner) Start() {
	r.startOnce.Do(func() {
		r.wg.Add(1)
		logging.SafeGo(r.logger, r.loop)
	})
}

func (r *Runner) loop() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.doneChan:
			r.logger.Printf("Runner: Goroutine exiting")
			return
		case <-r.finishedChan:
			r.logger.Printf("Runner: Run finished, goroutine exiting")
			return
		case <-ticker.C:
			r.Step()
		}
	}
}

// Finished is closed once the run completes or its session is finalized.
func (r *Runner) Finished() <-chan struct{} {
	return r.finishedChan
}

// Done is closed by Shutdown.
func (r *Runner) Done() <-chan struct{} {
	return r.doneChan
}

// Shutdown stops the ticking goroutine and waits for it to exit.
// It must not be called from a listener callback.
func (r *Runner) Shutdown() {
	r.shutdownOnce.Do(func() {
		close(r.doneChan)
		r.wg.Wait()
	})
}

// IsTerminal reports whether no further transition can change the run's
// outcome: the sequence is exhausted or the session has been finalized.
func IsTerminal(s State) bool {
	if s.Status == StatusCompleted {
		return true
	}
	return s.Session != nil && s.Session.Status.IsFinal()
}
