package main

import (
	"fmt"
	"io"
	"time"

	"alcyxob/interval-trainer/internal/domain"
	"alcyxob/interval-trainer/internal/generation"
	"alcyxob/interval-trainer/internal/workout"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var planCmd = &cobra.Command{
	Use:   "plan FILE",
	Short: "Print the timer sequence of a plan file",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	w, err := loadWorkout(args[0], planMinutes)
	if err != nil {
		return err
	}
	printPlan(cmd.OutOrStdout(), w, workout.Flatten(w))
	return nil
}

// loadWorkout reads and normalizes a plan file. CLI workouts have no owner.
func loadWorkout(path string, minutes int) (*domain.GeneratedWorkout, error) {
	resp, err := generation.LoadFile(path)
	if err != nil {
		return nil, err
	}
	w, err := generation.Transform(resp, minutes, primitive.NilObjectID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("invalid plan %s: %w", path, err)
	}
	return w, nil
}

func printPlan(out io.Writer, w *domain.GeneratedWorkout, flat domain.FlattenedWorkout) {
	fmt.Fprintln(out, titleStyle.Render(w.Name))
	if w.Description != "" {
		fmt.Fprintln(out, mutedStyle.Render(w.Description))
	}
	fmt.Fprintf(out, "%s  %s  %s\n",
		labelStyle.Render("Difficulty:"), w.Difficulty,
		mutedStyle.Render(fmt.Sprintf("(%s)", w.EquipmentSetUsed)))
	fmt.Fprintln(out)

	for i, item := range flat.Items {
		fmt.Fprintf(out, "%3d  %s  %-28s %s\n", i+1, itemLabel(item.Type), item.Name, clock(item.Duration))
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s %d items, %s", labelStyle.Render("Total:"), flat.TotalItems, clock(flat.TotalDuration))
	if w.TargetDuration > 0 {
		fmt.Fprintf(out, " %s", mutedStyle.Render("(target "+clock(w.TargetDuration)+")"))
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s ~%d kcal\n", labelStyle.Render("Estimated:"), w.EstimatedCalories)
}
