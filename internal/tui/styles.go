package tui

import "github.com/charmbracelet/lipgloss"

// Palette.
const (
	primaryColor   = "#4F46E5" // Indigo
	secondaryColor = "#10B981" // Green
	warningColor   = "#F59E0B" // Amber
	errorColor     = "#EF4444" // Red
	dimColor       = "#6B7280" // Gray
)

// Style variables for consistent TUI rendering.
var (
	// BoxStyle provides a rounded border box with primary color.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(primaryColor)).
			Padding(0, 1)

	// CardStyle frames cards attached to assistant messages.
	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color(dimColor)).
			Padding(0, 1)

	// TitleStyle renders titles in primary color with bold.
	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(primaryColor)).
			Bold(true)

	// UserStyle renders the operator's name tag.
	UserStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(secondaryColor)).
			Bold(true)

	// AssistantStyle renders the assistant's name tag.
	AssistantStyle = TitleStyle

	// DimStyle renders dim/muted text.
	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(dimColor))

	// SuccessStyle renders success messages in green.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(secondaryColor))

	// ErrorStyle renders error messages in red.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(errorColor))

	// WarningStyle renders warning messages in amber.
	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(warningColor))

	// TagStyle renders audience tags.
	TagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(primaryColor)).
			Background(lipgloss.Color("#EEF2FF")).
			Padding(0, 1)

	// ButtonStyle renders action buttons; PrimaryButtonStyle the default one.
	ButtonStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(dimColor)).
			Padding(0, 1)

	PrimaryButtonStyle = ButtonStyle.
				BorderForeground(lipgloss.Color(primaryColor)).
				Foreground(lipgloss.Color(primaryColor)).
				Bold(true)

	// ControlBarStyle renders the demo control bar.
	ControlBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#EEF2FF")).
			Foreground(lipgloss.Color("#4338CA")).
			Padding(0, 1)

	// StatusBarStyle provides styling for the status bar.
	StatusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1F2937")).
			Foreground(lipgloss.Color("#9CA3AF")).
			Padding(0, 1)

	// ProgressFullStyle renders filled progress indicators.
	ProgressFullStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(secondaryColor))

	// ProgressEmptyStyle renders empty progress indicators.
	ProgressEmptyStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(dimColor))
)

// Task status icons (pre-rendered strings).
var (
	TaskDone       = SuccessStyle.Render("✓")
	TaskProcessing = WarningStyle.Render("▸")
	TaskPending    = DimStyle.Render("○")
	TaskFailed     = ErrorStyle.Render("✗")
)
