package tui

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

var (
	colorPrimary = lipgloss.Color("#7D56F4")
	colorSuccess = lipgloss.Color("#04B575")
	colorError   = lipgloss.Color("#FF0000")
	colorMuted   = lipgloss.Color("#888888")
)

// NewHuhTheme returns the prompt theme matching the output styles.
func NewHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Base = t.Focused.Base.BorderForeground(colorPrimary)
	t.Focused.Title = t.Focused.Title.Foreground(colorPrimary).Bold(true)
	t.Focused.FocusedButton = t.Focused.FocusedButton.Background(colorPrimary)
	t.Focused.SelectedPrefix = t.Focused.SelectedPrefix.Foreground(colorSuccess)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(colorError)
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(colorError)
	t.Focused.Description = t.Focused.Description.Foreground(colorMuted)

	t.Blurred.Base = t.Blurred.Base.BorderForeground(colorMuted)
	t.Blurred.Title = t.Blurred.Title.Foreground(colorMuted)

	return t
}
