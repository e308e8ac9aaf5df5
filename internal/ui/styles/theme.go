package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/projexis/internal/models"
	"github.com/tgienger/projexis/internal/progress"
)

// Theme is the color scheme shared by every view
type Theme struct {
	Name string

	// Surfaces and text
	Background    lipgloss.Color
	Surface       lipgloss.Color
	Foreground    lipgloss.Color
	ForegroundDim lipgloss.Color

	// Brand gradient endpoints
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color

	// Progress and priority bands
	Success lipgloss.Color
	Info    lipgloss.Color
	Warning lipgloss.Color
	Caution lipgloss.Color
	Error   lipgloss.Color

	// Project status chips
	Planning lipgloss.Color
	Review   lipgloss.Color

	Border      lipgloss.Color
	BorderFocus lipgloss.Color
	Selection   lipgloss.Color
}

// Midnight is the default dark theme
var Midnight = Theme{
	Name: "Midnight",

	Background:    lipgloss.Color("#0a0a0f"),
	Surface:       lipgloss.Color("#1a1a24"),
	Foreground:    lipgloss.Color("#e5e7eb"),
	ForegroundDim: lipgloss.Color("#6b7280"),

	Primary:   lipgloss.Color("#00d4ff"),
	Secondary: lipgloss.Color("#a855f7"),
	Accent:    lipgloss.Color("#14b8a6"),

	Success: lipgloss.Color("#10b981"),
	Info:    lipgloss.Color("#3b82f6"),
	Warning: lipgloss.Color("#f59e0b"),
	Caution: lipgloss.Color("#f97316"),
	Error:   lipgloss.Color("#ef4444"),

	Planning: lipgloss.Color("#6366f1"),
	Review:   lipgloss.Color("#8b5cf6"),

	Border:      lipgloss.Color("#2a2a35"),
	BorderFocus: lipgloss.Color("#00d4ff"),
	Selection:   lipgloss.Color("#13131a"),
}

// Current holds the active theme
var Current = Midnight

// MaxWidth is the maximum content width for the app (classic terminal width)
const MaxWidth = 80

// ContentWidth returns the actual content width to use (min of terminal width and MaxWidth)
func ContentWidth(terminalWidth int) int {
	if terminalWidth > MaxWidth {
		return MaxWidth
	}
	return terminalWidth
}

// CenterView centers content horizontally if terminal is wider than MaxWidth
func CenterView(content string, terminalWidth, terminalHeight int) string {
	if terminalWidth <= MaxWidth {
		return content
	}
	return lipgloss.Place(terminalWidth, terminalHeight,
		lipgloss.Center, lipgloss.Top,
		content,
	)
}

// ProgressColor maps a progress band to a theme color
func ProgressColor(c progress.Color) lipgloss.Color {
	t := Current
	switch c {
	case progress.ColorComplete:
		return t.Success
	case progress.ColorGood:
		return t.Info
	case progress.ColorWarning:
		return t.Warning
	case progress.ColorPoor:
		return t.Caution
	default:
		return t.Error
	}
}

// StatusColor maps a project status to its chip color
func StatusColor(st models.Status) lipgloss.Color {
	t := Current
	switch st {
	case models.StatusPlanning:
		return t.Planning
	case models.StatusInProgress:
		return t.Info
	case models.StatusOnHold:
		return t.Warning
	case models.StatusReview:
		return t.Review
	case models.StatusCompleted:
		return t.Success
	default:
		return t.ForegroundDim
	}
}

// PriorityColor maps a project priority to a theme color
func PriorityColor(p models.Priority) lipgloss.Color {
	t := Current
	switch p {
	case models.PriorityCritical:
		return t.Error
	case models.PriorityHigh:
		return t.Caution
	case models.PriorityMedium:
		return t.Warning
	default:
		return t.Success
	}
}

// ProgressBar renders a bar of width cells filled to pct, colored by band
func ProgressBar(pct, width int) string {
	if width < 1 {
		width = 1
	}
	pct = max(0, min(pct, 100))
	filled := pct * width / 100

	color := ProgressColor(progress.ColorFor(pct))
	bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled))
	rest := lipgloss.NewStyle().Foreground(Current.Border).Render(strings.Repeat("░", width-filled))
	return bar + rest
}

// Styles holds all the pre-computed styles for the UI
type Styles struct {
	// Header
	Header      lipgloss.Style
	Brand       lipgloss.Style
	Badge       lipgloss.Style
	BadgeActive lipgloss.Style

	// Titles
	Title      lipgloss.Style
	TitleMuted lipgloss.Style

	// Lists
	ListItem     lipgloss.Style
	ListSelected lipgloss.Style
	Unread       lipgloss.Style

	// Containers
	Panel lipgloss.Style

	// Buttons
	Button        lipgloss.Style
	ButtonFocused lipgloss.Style
	ButtonPrimary lipgloss.Style

	// Input fields
	Input        lipgloss.Style
	InputFocused lipgloss.Style

	// Help text
	Help     lipgloss.Style
	HelpKey  lipgloss.Style
	HelpDesc lipgloss.Style

	// Status line
	StatusBar   lipgloss.Style
	StatusError lipgloss.Style
}

// NewStyles creates styles based on the current theme
func NewStyles() *Styles {
	t := Current

	return &Styles{
		Header: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Border),

		Brand: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		Badge: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(0, 1),

		BadgeActive: lipgloss.NewStyle().
			Foreground(t.Background).
			Background(t.Error).
			Padding(0, 1).
			Bold(true),

		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		TitleMuted: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		ListItem: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Padding(0, 2),

		ListSelected: lipgloss.NewStyle().
			Foreground(t.Primary).
			Background(t.Selection).
			Padding(0, 2).
			Bold(true),

		Unread: lipgloss.NewStyle().
			Foreground(t.Accent).
			Bold(true),

		Panel: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border),

		Button: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 2),

		ButtonFocused: lipgloss.NewStyle().
			Foreground(t.Primary).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 2).
			Bold(true),

		ButtonPrimary: lipgloss.NewStyle().
			Foreground(t.Background).
			Background(t.Primary).
			Padding(0, 2).
			Bold(true),

		Input: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		InputFocused: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 1),

		Help: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(1, 2),

		HelpKey: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		HelpDesc: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		StatusBar: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(0, 1),

		StatusError: lipgloss.NewStyle().
			Foreground(t.Error).
			Padding(0, 1).
			Bold(true),
	}
}
