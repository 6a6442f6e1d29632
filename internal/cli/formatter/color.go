package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/waypoint/internal/curriculum"
	"github.com/alexanderramin/waypoint/internal/domain"
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
	StyleGreen      = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow     = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleYellowBold = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
	StyleRed        = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue       = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple     = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim        = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg         = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader     = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold       = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// StatusStyle returns the style for a resolved item status.
func StatusStyle(status curriculum.VerdictStatus) lipgloss.Style {
	switch status {
	case curriculum.StatusComplete:
		return StyleGreen
	case curriculum.StatusBlocked:
		return StyleYellow
	default:
		return StyleFg
	}
}

// StatusMark returns the checkbox glyph for an item status.
func StatusMark(status curriculum.VerdictStatus) string {
	switch status {
	case curriculum.StatusComplete:
		return StyleGreen.Render("[x]")
	case curriculum.StatusBlocked:
		return StyleYellow.Render("[~]")
	default:
		return StyleDim.Render("[ ]")
	}
}

// CategoryBadge renders a short colored category tag.
func CategoryBadge(c domain.Category) string {
	switch c {
	case domain.CategoryContent:
		return StyleBlue.Render("content")
	case domain.CategoryCoaching:
		return StylePurple.Render("coaching")
	case domain.CategoryCommunity:
		return StyleGreen.Render("community")
	case domain.CategoryForm:
		return StyleYellow.Render("form")
	case domain.CategoryCertificate:
		return StyleHeader.Render("certificate")
	case "":
		return StyleDim.Render("--")
	default:
		return StyleDim.Render(string(c))
	}
}

// RegistrationPill returns a colored indicator for a registration status.
func RegistrationPill(status domain.RegistrationStatus) string {
	switch status {
	case domain.RegistrationRegistered:
		return StyleBlue.Render("○ Registered")
	case domain.RegistrationAttended:
		return StyleYellow.Render("● Attended")
	case domain.RegistrationCertified:
		return StyleGreen.Render("✔ Certified")
	case domain.RegistrationCancelled:
		return StyleDim.Render("✖ Cancelled")
	default:
		return StyleDim.Render(string(status))
	}
}

// Header renders a section header with the orange header style and an underline.
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
