// Package formatter renders onboarding data for the terminal with lipgloss.
package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/onboarding/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// PillarStyle returns the accent style of a pillar.
func PillarStyle(id domain.PillarID) lipgloss.Style {
	switch id {
	case domain.PillarEnvironment:
		return StyleGreen
	case domain.PillarSocial:
		return StyleBlue
	case domain.PillarGovernance:
		return StylePurple
	default:
		return StyleFg
	}
}

// TargetStatusPill returns a colored indicator for a target status.
func TargetStatusPill(status string) string {
	switch status {
	case domain.TargetAchieved:
		return StyleGreen.Render("✔ " + status)
	case domain.TargetInProgress:
		return StyleYellow.Render("● " + status)
	case domain.TargetNotStarted, "":
		return StyleDim.Render("○ " + domain.TargetNotStarted)
	default:
		return StyleFg.Render("○ " + status)
	}
}

// Header renders an upper-cased section header with an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}

// ErrorBanner renders the single wizard error message.
func ErrorBanner(msg string) string {
	if msg == "" {
		return ""
	}
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(ColorRed).
		PaddingLeft(1).
		Foreground(ColorRed).
		Render("✖ " + msg)
}
