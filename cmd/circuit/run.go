package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"alcyxob/interval-trainer/internal/domain"
	"alcyxob/interval-trainer/internal/session"
	"alcyxob/interval-trainer/internal/timer"
	"alcyxob/interval-trainer/internal/workout"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var runCmd = &cobra.Command{
	Use:   "run FILE",
	Short: "Run a plan file with a live countdown (Ctrl-C stops early)",
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

var (
	runTick    time.Duration
	runVerbose bool
	runJSON    bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().DurationVar(&runTick, "tick", time.Second, "Timer cadence (shorten to fast-forward)")
	runCmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Log engine transitions to stderr")
	runCmd.Flags().BoolVar(&runJSON, "json", false, "Print the finished session record as JSON")
}

var errEmptyPlan = errors.New("plan has no timed items")

func runRun(cmd *cobra.Command, args []string) error {
	w, err := loadWorkout(args[0], planMinutes)
	if err != nil {
		return err
	}

	logger := log.New(io.Discard, "", 0)
	if runVerbose {
		logger = log.New(os.Stderr, "", log.LstdFlags|log.Lmicroseconds)
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	final, err := runWorkout(cmd.OutOrStdout(), w, runTick, logger, interrupt)
	if err != nil {
		return err
	}
	return printSummary(cmd.OutOrStdout(), final, runJSON, session.RandomPicker)
}

// runWorkout drives w to completion, stopping early when stop fires. It
// returns the finalized session.
func runWorkout(out io.Writer, w *domain.GeneratedWorkout, tick time.Duration, logger *log.Logger, stop <-chan os.Signal) (domain.WorkoutSession, error) {
	flat := workout.Flatten(w)
	if len(flat.Items) == 0 {
		return domain.WorkoutSession{}, errEmptyPlan
	}

	runner := timer.NewRunner(timer.NewEngine(logger), tick, logger)
	defer runner.Shutdown()

	record := session.Start(primitive.NilObjectID, *w, len(flat.Items), time.Now())
	runner.Do(func(e *timer.Engine) {
		e.Initialize(flat.Items, record)
	})

	var (
		mu   sync.Mutex
		last string
	)
	unlisten := runner.Listen(func(s timer.State) {
		mu.Lock()
		defer mu.Unlock()
		if line := stateLine(s); line != "" && line != last {
			fmt.Fprintln(out, line)
			last = line
		}
	})
	defer unlisten()

	runner.Do(func(e *timer.Engine) {
		e.StartCountdown()
	})
	runner.Start()

	select {
	case <-runner.Finished():
	case <-stop:
		fmt.Fprintln(out)
		runner.Do(func(e *timer.Engine) {
			e.Stop()
		})
	}

	final := runner.State()
	if final.Session == nil || !final.Session.Status.IsFinal() {
		return domain.WorkoutSession{}, fmt.Errorf("run ended without a final session (status %s)", final.Status)
	}
	return *final.Session, nil
}

// stateLine renders one line of live progress, or "" when there is nothing
// to show.
func stateLine(s timer.State) string {
	switch s.Status {
	case timer.StatusCountdown, timer.StatusTransition:
		next := s.CurrentItem()
		if next == nil {
			return ""
		}
		return fmt.Sprintf("      %s %d  %s", mutedStyle.Render("next up"), s.CountdownValue, next.Name)
	case timer.StatusRunning, timer.StatusPaused:
		item := s.CurrentItem()
		if item == nil {
			return ""
		}
		line := fmt.Sprintf("%3d/%d %s %-24s %5s  %s",
			s.CurrentItemIndex+1, len(s.Items), itemLabel(item.Type), item.Name,
			clock(s.TimeRemaining), mutedStyle.Render("worked "+clock(s.TotalElapsed)))
		if s.Status == timer.StatusPaused {
			line += " " + stoppedStyle.Render("paused")
		}
		return line
	default:
		return ""
	}
}

func printSummary(out io.Writer, s domain.WorkoutSession, asJSON bool, pick session.Picker) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}

	style := successStyle
	if s.Status != domain.SessionCompleted {
		style = stoppedStyle
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, style.Render(session.Headline(s)))
	fmt.Fprintf(out, "%s %d/%d items (%d%%)\n", labelStyle.Render("Completed:"), s.CompletedItems, s.TotalItems, s.PercentComplete)
	fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Worked:"), clock(s.ActualDurationWorked))
	if s.StoppedAtItem != nil {
		fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Stopped at:"), s.StoppedAtItem.ItemName)
	}
	if s.Status == domain.SessionCompleted {
		fmt.Fprintf(out, "%s ~%d kcal\n", labelStyle.Render("Burned:"), s.EstimatedCaloriesBurned)
	}
	fmt.Fprintln(out, mutedStyle.Render(session.CompletionMessage(pick)))
	return nil
}
