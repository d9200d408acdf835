package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Theme holds the colors used by --human output. Colors are dropped
// automatically when stdout is not a terminal.
type Theme struct {
	Heading lipgloss.Color
	Count   lipgloss.Color
	Dim     lipgloss.Color
}

var defaultTheme = Theme{
	Heading: lipgloss.Color("#5FAFD7"), // light blue
	Count:   lipgloss.Color("#00D787"), // green
	Dim:     lipgloss.Color("#6C6C6C"), // gray
}

func (t Theme) headingStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Heading).Bold(true)
}

func (t Theme) countStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Count)
}

func (t Theme) dimStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Dim)
}

func heading(s string) string { return defaultTheme.headingStyle().Render(s) }

// count right-aligns n in a four-column field.
func count(n int) string { return defaultTheme.countStyle().Render(fmt.Sprintf("%4d", n)) }

func dim(s string) string { return defaultTheme.dimStyle().Render(s) }

