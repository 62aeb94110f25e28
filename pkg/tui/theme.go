package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/helmcode/ticketctl/pkg/model"
)

// Theme is the color palette used by every tab. Colors are ANSI 256
// codes so the UI renders the same on most terminals.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	PriorityCritical lipgloss.Color
	PriorityHigh     lipgloss.Color
	PriorityMedium   lipgloss.Color
	PriorityLow      lipgloss.Color

	StatusOpen       lipgloss.Color
	StatusInProgress lipgloss.Color
	StatusResolved   lipgloss.Color
	StatusClosed     lipgloss.Color

	Accent  lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Success lipgloss.Color
	Border  lipgloss.Color
}

// DefaultTheme is the built-in dark-terminal palette.
var DefaultTheme = Theme{
	NormalText:         lipgloss.Color("252"),
	FaintText:          lipgloss.Color("243"),
	SelectedBackground: lipgloss.Color("237"),
	SelectedForeground: lipgloss.Color("255"),
	PriorityCritical:   lipgloss.Color("196"),
	PriorityHigh:       lipgloss.Color("208"),
	PriorityMedium:     lipgloss.Color("220"),
	PriorityLow:        lipgloss.Color("114"),
	StatusOpen:         lipgloss.Color("220"),
	StatusInProgress:   lipgloss.Color("75"),
	StatusResolved:     lipgloss.Color("114"),
	StatusClosed:       lipgloss.Color("243"),
	Accent:             lipgloss.Color("86"),
	Warning:            lipgloss.Color("214"),
	Error:              lipgloss.Color("203"),
	Success:            lipgloss.Color("78"),
	Border:             lipgloss.Color("240"),
}

// PriorityColor returns the color for a priority; unknown values use
// NormalText.
func (theme Theme) PriorityColor(priority model.Priority) lipgloss.Color {
	switch priority {
	case model.PriorityCritical:
		return theme.PriorityCritical
	case model.PriorityHigh:
		return theme.PriorityHigh
	case model.PriorityMedium:
		return theme.PriorityMedium
	case model.PriorityLow:
		return theme.PriorityLow
	}
	return theme.NormalText
}

// StatusColor returns the color for a status; unknown values use
// FaintText.
func (theme Theme) StatusColor(status model.Status) lipgloss.Color {
	switch status {
	case model.StatusOpen:
		return theme.StatusOpen
	case model.StatusInProgress:
		return theme.StatusInProgress
	case model.StatusResolved:
		return theme.StatusResolved
	case model.StatusClosed:
		return theme.StatusClosed
	}
	return theme.FaintText
}

func (theme Theme) faint() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.FaintText)
}

func (theme Theme) heading() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(theme.Accent)
}
