package main

import (
	"fmt"

	"alcyxob/interval-trainer/internal/domain"
	"alcyxob/interval-trainer/internal/workout"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
	labelStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	workStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2")).Width(10)
	restStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Width(10)
	warmCoolStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Width(10)

	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	stoppedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
)

func itemLabel(t domain.ItemType) string {
	label := workout.ItemTypeLabel(t)
	switch {
	case workout.IsRest(t):
		return restStyle.Render(label)
	case t == domain.ItemCircuitExercise:
		return workStyle.Render(label)
	default:
		return warmCoolStyle.Render(label)
	}
}

// clock formats seconds as m:ss.
func clock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
