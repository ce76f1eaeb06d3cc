package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dbmrq/globe/internal/tui/styles"
)

// ConfirmAction represents the action being confirmed.
type ConfirmAction string

const (
	// ConfirmActionLogout signs the user out.
	ConfirmActionLogout ConfirmAction = "logout"
)

// ConfirmDialog displays a yes/no prompt.
type ConfirmDialog struct {
	visible     bool
	action      ConfirmAction
	title       string
	message     string
	yes         string
	no          string
	width       int
	destructive bool
}

// NewConfirmDialog creates a new ConfirmDialog component.
func NewConfirmDialog() *ConfirmDialog {
	return &ConfirmDialog{
		yes:   "Yes",
		no:    "No",
		width: 50,
	}
}

// Show displays the dialog.
func (c *ConfirmDialog) Show(action ConfirmAction, title, message string, destructive bool) {
	c.visible = true
	c.action = action
	c.title = title
	c.message = message
	c.destructive = destructive
}

// SetLabels sets the yes and no button labels.
func (c *ConfirmDialog) SetLabels(yes, no string) {
	c.yes = yes
	c.no = no
}

// Hide hides the dialog.
func (c *ConfirmDialog) Hide() {
	c.visible = false
}

// IsVisible returns whether the dialog is visible.
func (c *ConfirmDialog) IsVisible() bool {
	return c.visible
}

// Action returns the current action being confirmed.
func (c *ConfirmDialog) Action() ConfirmAction {
	return c.action
}

// SetSize sets the dialog width.
func (c *ConfirmDialog) SetSize(width int) {
	c.width = width
}

// Update handles input messages.
func (c *ConfirmDialog) Update(msg tea.Msg) tea.Cmd {
	if !c.visible {
		return nil
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch strings.ToLower(key.String()) {
	case "y", "s", "enter":
		action := c.action
		c.Hide()
		return func() tea.Msg { return ConfirmYesMsg{Action: action} }
	case "n", "esc":
		c.Hide()
		return func() tea.Msg { return ConfirmNoMsg{} }
	}
	return nil
}

// View renders the confirmation dialog.
func (c *ConfirmDialog) View() string {
	if !c.visible {
		return ""
	}

	accent := styles.Warning
	if c.destructive {
		accent = styles.Error
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().
		Foreground(styles.Foreground).
		Background(accent).
		Bold(true).
		Padding(0, 1).
		Width(c.width - 4).
		Render(c.title))
	b.WriteString("\n\n")

	if c.message != "" {
		b.WriteString(lipgloss.NewStyle().
			Foreground(styles.Foreground).
			Width(c.width - 8).
			Render(c.message))
		b.WriteString("\n\n")
	}

	b.WriteString(RenderButton(c.yes, accent, true))
	b.WriteString("  ")
	b.WriteString(RenderButton(c.no, styles.Muted, false))

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(accent).
		Padding(1, 2).
		Render(b.String())
}

// ConfirmYesMsg is sent when the user confirms.
type ConfirmYesMsg struct {
	Action ConfirmAction
}

// ConfirmNoMsg is sent when the user cancels.
type ConfirmNoMsg struct{}
