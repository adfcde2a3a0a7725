// Package styles provides Lip Gloss styles for the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/hy4ri/todolists-tui/internal/api"
)

// Terminal-adaptive colors that work in both light and dark terminals.
var (
	// Subtle is a muted color for secondary text
	Subtle = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#999999"}

	// Highlight is the accent color for selected items
	Highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}

	// Special colors
	ErrorColor   = lipgloss.AdaptiveColor{Light: "#FF0000", Dark: "#FF6666"}
	SuccessColor = lipgloss.AdaptiveColor{Light: "#00AA00", Dark: "#66FF66"}
	WarningColor = lipgloss.AdaptiveColor{Light: "#FFAA00", Dark: "#FFCC66"}

	// ProgressColor fills the completion bar of a list
	ProgressColor = lipgloss.Color("#5A56E0")
)

// Priority colors, from Later (none) up to Urgently (red).
var (
	PriorityUrgentlyColor = lipgloss.Color("#D0473D")
	PriorityHiColor       = lipgloss.Color("#EA8811")
	PriorityMiddleColor   = lipgloss.Color("#296FDF")
)

// Base styles
var (
	// Title is the style for section titles
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Highlight)

	// Subtitle is for secondary headings
	Subtitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Subtle)
)

// Task styles
var (
	// TaskItem is the base style for a task row
	TaskItem = lipgloss.NewStyle().
			PaddingLeft(2)

	// TaskSelected is the style for the row under the cursor
	TaskSelected = lipgloss.NewStyle().
			PaddingLeft(1).
			BorderLeft(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeftForeground(Highlight).
			Bold(true).
			Background(lipgloss.AdaptiveColor{Light: "#EEEEEE", Dark: "#2A2A2A"})

	// TaskCompleted is the style for completed tasks
	TaskCompleted = lipgloss.NewStyle().
			Faint(true).
			Strikethrough(true)

	// TaskDue is for deadline display
	TaskDue = lipgloss.NewStyle().
		Foreground(Subtle).
		PaddingLeft(1)

	// TaskDueOverdue is for overdue tasks
	TaskDueOverdue = lipgloss.NewStyle().
			Foreground(ErrorColor).
			PaddingLeft(1)

	// TaskDueToday is for tasks due today
	TaskDueToday = lipgloss.NewStyle().
			Foreground(WarningColor).
			PaddingLeft(1)

	// TaskDescription is for the description under the selected task
	TaskDescription = lipgloss.NewStyle().
			Foreground(Subtle).
			Faint(true).
			Italic(true).
			PaddingLeft(6)
)

// Priority styles
var (
	TaskPriorityUrgently = lipgloss.NewStyle().Foreground(PriorityUrgentlyColor)
	TaskPriorityHi       = lipgloss.NewStyle().Foreground(PriorityHiColor)
	TaskPriorityMiddle   = lipgloss.NewStyle().Foreground(PriorityMiddleColor)
	TaskPriorityLater    = lipgloss.NewStyle().Foreground(Subtle).Faint(true)
	TaskPriorityDefault  = lipgloss.NewStyle()
)

// GetPriorityStyle returns the appropriate style for a task priority.
func GetPriorityStyle(priority api.TaskPriority) lipgloss.Style {
	switch priority {
	case api.PriorityUrgently:
		return TaskPriorityUrgently
	case api.PriorityHi:
		return TaskPriorityHi
	case api.PriorityMiddle:
		return TaskPriorityMiddle
	case api.PriorityLater:
		return TaskPriorityLater
	default:
		return TaskPriorityDefault
	}
}

// Panel styles
var (
	// Panel is the frame of a todo list
	Panel = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Subtle).
		Padding(0, 1)

	// PanelFocused is for the list holding the cursor
	PanelFocused = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Highlight).
			Padding(0, 1)

	// PanelDisabled is for a list with an operation in flight
	PanelDisabled = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Subtle).
			Faint(true).
			Padding(0, 1)

	// PanelDate is for the creation date under the title
	PanelDate = lipgloss.NewStyle().
			Foreground(Subtle).
			Faint(true)

	// PanelEmpty is shown when no task matches the filter
	PanelEmpty = lipgloss.NewStyle().
			Foreground(Subtle).
			Italic(true).
			PaddingLeft(2)

	// ProgressLabel is the "done/total" count next to the bar
	ProgressLabel = lipgloss.NewStyle().
			Foreground(Subtle)
)

// StatusBar styles
var (
	// StatusBar is the base style for the status bar
	StatusBar = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#DDDDDD"}).
			Background(lipgloss.AdaptiveColor{Light: "#E8E8E8", Dark: "#1F1F1F"}).
			Padding(0, 1)

	// StatusBarKey is for keyboard shortcut hints
	StatusBarKey = lipgloss.NewStyle().
			Bold(true).
			Foreground(Highlight).
			Background(lipgloss.AdaptiveColor{Light: "#E8E8E8", Dark: "#1F1F1F"})

	// StatusBarText is for status bar descriptions
	StatusBarText = lipgloss.NewStyle().
			Foreground(Subtle).
			Background(lipgloss.AdaptiveColor{Light: "#E8E8E8", Dark: "#1F1F1F"})

	// StatusBarError is for error messages
	StatusBarError = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Background(lipgloss.AdaptiveColor{Light: "#E8E8E8", Dark: "#1F1F1F"}).
			Bold(true)

	// StatusBarSuccess is for success messages
	StatusBarSuccess = lipgloss.NewStyle().
				Foreground(SuccessColor).
				Background(lipgloss.AdaptiveColor{Light: "#E8E8E8", Dark: "#1F1F1F"}).
				Bold(true)
)

// Help styles
var (
	// HelpKey is for key bindings in help
	HelpKey = lipgloss.NewStyle().
		Bold(true).
		Foreground(Highlight)

	// HelpDesc is for key binding descriptions
	HelpDesc = lipgloss.NewStyle().
			Foreground(Subtle)
)

// Input styles
var (
	// Input is the style for text inputs
	Input = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Subtle).
		Padding(0, 1)

	// InputFocused is for focused inputs
	InputFocused = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Highlight).
			Padding(0, 1)

	// InputDisabled is for inputs that ignore typing
	InputDisabled = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Subtle).
			Faint(true).
			Padding(0, 1)

	// InputLabel is for input labels
	InputLabel = lipgloss.NewStyle().
			Bold(true)

	// InputError is the validation message under an input
	InputError = lipgloss.NewStyle().
			Foreground(ErrorColor)
)

// Dialog styles
var (
	// Dialog is the base style for dialog boxes
	Dialog = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Highlight).
		Padding(1, 2)

	// DialogTitle is for dialog titles
	DialogTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Highlight).
			MarginBottom(1)
)

// Spinner style
var (
	Spinner = lipgloss.NewStyle().
		Foreground(Highlight)
)

// SectionHeader is for help section titles.
var (
	SectionHeader = lipgloss.NewStyle().
		Bold(true).
		Foreground(Subtle).
		Underline(true)
)

// Filter tab styles
var (
	// Tab is for inactive filters
	Tab = lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(Subtle)

	// TabActive is for the selected filter
	TabActive = lipgloss.NewStyle().
			Padding(0, 1).
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(Highlight)
)

// Checkbox styles
const (
	CheckboxUnchecked = "[ ]"
	CheckboxChecked   = "[x]"
)
