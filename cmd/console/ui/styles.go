// Package ui provides the interactive terminal shell for the game console:
// the top-level app model, page routing, theming, toasts, and the help page.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Greenheart/hathora/internal/edit"
	"github.com/Greenheart/hathora/internal/forms"
	"github.com/Greenheart/hathora/internal/inspect"
)

// Color palette, light and dark variants plus semantic colors shared by both.
var (
	// Light mode colors (default)
	LightBackground = lipgloss.Color("#f4f5f6")
	LightForeground = lipgloss.Color("#1b2733")
	LightPrimary    = lipgloss.Color("#2d5f8a")
	LightAccent     = lipgloss.Color("#b07d2b")
	LightMuted      = lipgloss.Color("#8a939c")
	LightBorder     = lipgloss.Color("#d6dae0")
	LightCard       = lipgloss.Color("#ffffff")

	// Dark mode colors
	DarkBackground = lipgloss.Color("#141d2b")
	DarkForeground = lipgloss.Color("#e8e8e8")
	DarkPrimary    = lipgloss.Color("#6aa9dc")
	DarkAccent     = lipgloss.Color("#e0b35a")
	DarkMuted      = lipgloss.Color("#5d6a7a")
	DarkBorder     = lipgloss.Color("#2a3850")
	DarkCard       = lipgloss.Color("#1a2536")

	// Semantic colors (same in both modes)
	Destructive = lipgloss.Color("#e53935")
	Success     = lipgloss.Color("#8BC34A")
	Warning     = lipgloss.Color("#FFC107")
	Info        = lipgloss.Color("#2196F3")
)

// Theme holds the current color scheme
type Theme struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Card       lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme
func LightTheme() Theme {
	return Theme{
		Background: LightBackground,
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Muted:      LightMuted,
		Border:     LightBorder,
		Card:       LightCard,
		IsDark:     false,
	}
}

// DarkTheme returns the dark mode theme
func DarkTheme() Theme {
	return Theme{
		Background: DarkBackground,
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		Card:       DarkCard,
		IsDark:     true,
	}
}

// ThemeByName resolves a configured theme name, falling back to detection
// for unknown names.
func ThemeByName(name string) Theme {
	switch name {
	case "light":
		return LightTheme()
	case "dark":
		return DarkTheme()
	default:
		return DetectTheme()
	}
}

// DetectTheme guesses the terminal background from COLORFGBG.
func DetectTheme() Theme {
	colorTerm := os.Getenv("COLORFGBG")
	if colorTerm != "" {
		// Format is usually "foreground;background".
		parts := strings.Split(colorTerm, ";")
		if len(parts) == 2 {
			if bgIdx, err := strconv.Atoi(parts[1]); err == nil {
				if (bgIdx >= 0 && bgIdx <= 6) || bgIdx == 8 {
					return DarkTheme()
				}
				return LightTheme()
			}
		}
	}

	if os.Getenv("HATHORA_CONSOLE_LIGHT") == "1" {
		return LightTheme()
	}

	// Most terminals running a debug console are dark.
	return DarkTheme()
}

// Styles holds all the styled components of the shell
type Styles struct {
	Theme Theme

	// Layout
	Header  lipgloss.Style
	Footer  lipgloss.Style
	Content lipgloss.Style
	Panel   lipgloss.Style

	// Text
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Muted    lipgloss.Style
	Bold     lipgloss.Style

	// Status
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	// Components
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style
	Toast       lipgloss.Style
	ToastError  lipgloss.Style
	Divider     lipgloss.Style
}

// NewStyles creates a new Styles instance with the given theme
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Header: lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 2).
			Bold(true),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 2),

		Content: lipgloss.NewStyle().
			Padding(1, 2),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Subtitle: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Bold: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		Success: lipgloss.NewStyle().
			Foreground(Success).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(Destructive).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true),

		Info: lipgloss.NewStyle().
			Foreground(Info),

		TabActive: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true).
			Underline(true),

		TabInactive: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Toast: lipgloss.NewStyle().
			Background(theme.Card).
			Foreground(theme.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Accent).
			Padding(0, 1),

		ToastError: lipgloss.NewStyle().
			Background(theme.Card).
			Foreground(Destructive).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Destructive).
			Padding(0, 1),

		Divider: lipgloss.NewStyle().
			Foreground(theme.Border),
	}
}

// DefaultStyles returns styles with the detected theme
func DefaultStyles() Styles {
	return NewStyles(DetectTheme())
}

// TreeStyles derives the inspector tree styles from the theme.
func (s Styles) TreeStyles() inspect.Styles {
	return inspect.Styles{
		Key:    lipgloss.NewStyle().Foreground(s.Theme.Primary).Bold(true),
		String: lipgloss.NewStyle().Foreground(s.Theme.Foreground),
		Number: lipgloss.NewStyle().Foreground(s.Theme.Accent),
		Bool:   lipgloss.NewStyle().Foreground(s.Theme.Accent),
		Enum:   lipgloss.NewStyle().Foreground(s.Theme.Accent).Italic(true),
		Ref:    lipgloss.NewStyle().Foreground(Info).Underline(true),
		Header: lipgloss.NewStyle().Foreground(s.Theme.Primary).Bold(true),
		Cursor: lipgloss.NewStyle().Bold(true).Reverse(true),
		Muted:  lipgloss.NewStyle().Foreground(s.Theme.Muted),
	}
}

// EditorStyles derives the form editor styles from the theme.
func (s Styles) EditorStyles() edit.Styles {
	return edit.Styles{
		Label:   lipgloss.NewStyle().Foreground(s.Theme.Primary).Bold(true),
		Value:   lipgloss.NewStyle().Foreground(s.Theme.Foreground),
		Focused: lipgloss.NewStyle().Foreground(s.Theme.Accent).Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(s.Theme.Muted),
	}
}

// FormStyles derives the form chrome styles from the theme.
func (s Styles) FormStyles() forms.Styles {
	return forms.Styles{
		Title:  lipgloss.NewStyle().Foreground(s.Theme.Primary).Bold(true),
		Hint:   lipgloss.NewStyle().Foreground(s.Theme.Muted),
		Active: lipgloss.NewStyle().Foreground(s.Theme.Accent).Bold(true),
	}
}

// RenderDivider returns a horizontal divider
func (s Styles) RenderDivider(width int) string {
	if width <= 0 {
		return ""
	}
	return s.Divider.Render(strings.Repeat("─", width))
}
