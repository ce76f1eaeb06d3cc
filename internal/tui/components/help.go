package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dbmrq/globe/internal/tui/styles"
)

// ShortcutGroup represents a group of related shortcuts.
type ShortcutGroup struct {
	Title     string
	Shortcuts []ShortcutDef
}

// HelpOverlay displays keyboard shortcuts.
type HelpOverlay struct {
	visible bool
	width   int
	title   string
	footer  string
	groups  []ShortcutGroup
}

// NewHelpOverlay creates a hidden HelpOverlay.
func NewHelpOverlay() *HelpOverlay {
	return &HelpOverlay{width: 60}
}

// SetContent sets the title, footer and shortcut groups.
func (h *HelpOverlay) SetContent(title, footer string, groups []ShortcutGroup) {
	h.title = title
	h.footer = footer
	h.groups = groups
}

// Groups returns the shortcut groups.
func (h *HelpOverlay) Groups() []ShortcutGroup {
	return h.groups
}

// SetSize sets the overlay width.
func (h *HelpOverlay) SetSize(width int) {
	h.width = width
}

// Show makes the overlay visible.
func (h *HelpOverlay) Show() {
	h.visible = true
}

// Hide hides the overlay.
func (h *HelpOverlay) Hide() {
	h.visible = false
}

// Toggle toggles visibility.
func (h *HelpOverlay) Toggle() {
	h.visible = !h.visible
}

// IsVisible returns whether the overlay is visible.
func (h *HelpOverlay) IsVisible() bool {
	return h.visible
}

// Update closes the overlay on any key.
func (h *HelpOverlay) Update(msg tea.Msg) tea.Cmd {
	if !h.visible {
		return nil
	}
	if _, ok := msg.(tea.KeyMsg); ok {
		h.Hide()
	}
	return nil
}

// View renders the help overlay.
func (h *HelpOverlay) View() string {
	if !h.visible {
		return ""
	}

	var b strings.Builder

	b.WriteString(styles.TitleStyle.Width(h.width - 4).Render(h.title))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().
		Foreground(styles.Foreground).
		Bold(true).
		Width(8)
	descStyle := lipgloss.NewStyle().Foreground(styles.MutedLight)
	groupStyle := lipgloss.NewStyle().Foreground(styles.Secondary).Bold(true)

	for i, group := range h.groups {
		b.WriteString(groupStyle.Render(group.Title))
		b.WriteString("\n")
		for _, sc := range group.Shortcuts {
			b.WriteString("  ")
			b.WriteString(keyStyle.Render(sc.Key))
			b.WriteString(" ")
			b.WriteString(descStyle.Render(sc.Desc))
			b.WriteString("\n")
		}
		if i < len(h.groups)-1 {
			b.WriteString("\n")
		}
	}

	if h.footer != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(styles.Muted).Italic(true).Render(h.footer))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(styles.Primary).
		Padding(1, 2).
		Render(b.String())
}
