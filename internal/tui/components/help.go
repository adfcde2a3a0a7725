package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/hy4ri/todolists-tui/internal/tui/styles"
)

// HelpModel renders the help view with keyboard shortcuts. Items are
// key/description pairs; a pair with an empty description starts a section
// and an empty pair is a blank line.
type HelpModel struct {
	width, height int
	keymap        [][]string
	leftSections  map[string]bool
}

// NewHelp creates a new HelpModel. Sections named in left go to the first
// column, the rest to the second.
func NewHelp(left ...string) *HelpModel {
	h := &HelpModel{leftSections: make(map[string]bool, len(left))}
	for _, s := range left {
		h.leftSections[s] = true
	}
	return h
}

// Init implements Component.
func (h *HelpModel) Init() tea.Cmd {
	return nil
}

// Update implements Component.
func (h *HelpModel) Update(msg tea.Msg) (Component, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc", "?", "q":
			return h, func() tea.Msg { return HelpClosedMsg{} }
		}
	}
	return h, nil
}

// View implements Component.
func (h *HelpModel) View() string {
	if len(h.keymap) == 0 {
		return styles.Dialog.Render("No keybindings registered")
	}

	var b strings.Builder
	b.WriteString(styles.Title.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")

	var col1, col2 strings.Builder
	current := &col1

	keyStyle := styles.HelpKey.Width(12).Align(lipgloss.Right).PaddingRight(2)
	for _, item := range h.keymap {
		if len(item) < 2 {
			continue
		}
		key, desc := item[0], item[1]

		if desc == "" && key != "" {
			if h.leftSections[key] {
				current = &col1
			} else {
				current = &col2
			}
			current.WriteString("\n" + styles.SectionHeader.Render(" "+key+" ") + "\n")
			continue
		}

		if key == "" && desc == "" {
			current.WriteString("\n")
			continue
		}

		current.WriteString(keyStyle.Render(key) + styles.HelpDesc.Render(desc) + "\n")
	}

	colWidth := h.width / 2
	if colWidth > 50 {
		colWidth = 50
	}

	columnStyle := lipgloss.NewStyle().Width(colWidth).PaddingLeft(2).PaddingRight(2)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		columnStyle.Render(col1.String()),
		columnStyle.Render(col2.String()),
	))
	b.WriteString("\n\n")

	footer := styles.HelpDesc.Render("Press ESC or ? to close")
	b.WriteString(lipgloss.NewStyle().Width(h.width).Align(lipgloss.Center).Render(footer))

	return b.String()
}

// SetSize implements Component.
func (h *HelpModel) SetSize(width, height int) {
	h.width = width
	h.height = height
}

// SetKeymap sets the help items.
func (h *HelpModel) SetKeymap(items [][]string) {
	h.keymap = items
}
