// Package style provides small rendering helpers on top of lipgloss.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/ruvdl/ruvdl/color"
)

// New returns an empty lipgloss.Style.
func New() lipgloss.Style {
	return lipgloss.NewStyle()
}

// Fg returns a renderer applying the foreground color c.
func Fg(c lipgloss.Color) func(string) string {
	return func(s string) string { return New().Foreground(c).Render(s) }
}

var (
	Faint  = func(s string) string { return New().Faint(true).Render(s) }
	Bold   = func(s string) string { return New().Bold(true).Render(s) }
)

// Tag renders s as a padded label, e.g. the series title above a run summary.
func Tag(s string) string {
	return New().Foreground(color.New("230")).Background(color.Purple).Padding(0, 1).Render(s)
}

// Box renders content inside a rounded border tinted with c.
func Box(c lipgloss.Color, content string) string {
	return New().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(c).
		Padding(1, 2).
		Margin(1, 0).
		Render(content)
}
