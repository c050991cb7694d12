package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jetdock/rentalwatch/internal/countdown"
	"github.com/jetdock/rentalwatch/internal/notify"
)

var (
	// Colors
	colorNormal   = lipgloss.Color("2")  // green
	colorWarning  = lipgloss.Color("3")  // yellow
	colorCritical = lipgloss.Color("9")  // bright red
	colorExpired  = lipgloss.Color("1")  // red
	colorHeader   = lipgloss.Color("12") // bright blue
	colorMuted    = lipgloss.Color("8")  // dim
	colorCursor   = lipgloss.Color("6")  // cyan

	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorHeader)

	subheaderStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	cursorStyle = lipgloss.NewStyle().
			Foreground(colorCursor).
			Bold(true)

	columnHeaderStyle = lipgloss.NewStyle().
				Foreground(colorMuted).
				Underline(true)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	toastBarStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)

	warningCountStyle = lipgloss.NewStyle().
				Foreground(colorWarning).
				Bold(true)

	expiredCountStyle = lipgloss.NewStyle().
				Foreground(colorExpired).
				Bold(true)

	flagStyle = lipgloss.NewStyle().
			Foreground(colorWarning).
			Bold(true)

	staticBadgeStyle = lipgloss.NewStyle().
				Foreground(colorMuted)
)

// badgeStyle returns the style for a countdown reading. Expired badges
// alternate between two styles to blink.
func badgeStyle(r countdown.Reading, blink bool) lipgloss.Style {
	switch {
	case r.Urgency == countdown.Expired && blink:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(colorExpired).Bold(true)
	case r.Urgency == countdown.Expired:
		return lipgloss.NewStyle().Foreground(colorExpired).Bold(true)
	case r.Critical():
		return lipgloss.NewStyle().Foreground(colorCritical).Bold(true)
	case r.Urgency == countdown.Warning:
		return lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(colorNormal)
	}
}

// toastStyle returns the style for a toast severity.
func toastStyle(sev notify.Severity) lipgloss.Style {
	switch sev {
	case notify.SeverityError:
		return toastBarStyle.Foreground(colorExpired).Italic(false)
	case notify.SeverityWarning:
		return toastBarStyle.Foreground(colorWarning).Italic(false)
	default:
		return toastBarStyle
	}
}
