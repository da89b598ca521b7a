package main

import (
	"fmt"
	"strings"

	"shelf-go/internal/shelf"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorOrange = lipgloss.Color("#f97316")
	colorGreen  = lipgloss.Color("#22c55e")
	colorGray   = lipgloss.Color("#666666")
	colorRed    = lipgloss.Color("#ef4444")
)

var (
	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorOrange)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorRed)

	barFilledStyle = lipgloss.NewStyle().
			Foreground(colorOrange)

	barDoneStyle = lipgloss.NewStyle().
			Foreground(colorGreen)
)

func heading(s string) string {
	return headingStyle.Render(s)
}

const barWidth = 20

// progressBar draws a book's reading progress, green once it is finished.
func progressBar(b shelf.Book) string {
	pct := shelf.ProgressPercentage(b.CurrentPage, b.TotalPages)
	filled := min(pct*barWidth/100, barWidth)

	style := barFilledStyle
	if filled == barWidth {
		style = barDoneStyle
	}
	bar := style.Render(strings.Repeat("█", filled)) + dimStyle.Render(strings.Repeat("░", barWidth-filled))
	return fmt.Sprintf("%s %3d%%", bar, pct)
}
