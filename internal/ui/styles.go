package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette for the console
var (
	PrimaryColor = lipgloss.Color("#7D56F4") // Purple - key hints, QR frame
	SuccessColor = lipgloss.Color("#43BF6D") // Green - confirmations
	ErrorColor   = lipgloss.Color("#FF5555") // Red - failures
	WarningColor = lipgloss.Color("#FFA500") // Orange - mode notices
	MutedColor   = lipgloss.Color("#626262") // Gray - secondary info
	TextColor    = lipgloss.Color("#FFFFFF") // White - main content
)

var (
	// KeyStyle highlights the key in "Press X to ..." lines
	KeyStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Bold(true)

	// BulletStyle is for the leading "›" of legend lines
	BulletStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	// StatusStyle is for transient "doing X" lines
	StatusStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	// SuccessStyle is for confirmations
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	// ErrorStyle is for inline failures
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	// NoticeStyle is for mode notices such as the current build mode
	NoticeStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	// URLStyle is for the project URL
	URLStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Underline(true)

	// HeadingStyle is for banner headings
	HeadingStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Bold(true)

	// PromptStyle is for the question above the prompt line
	PromptStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)
)

// Markers
const (
	LegendMarker  = "›"
	SuccessMarker = "✓"
	FailureMarker = "✗"
	ItemMarker    = "•"
)
