package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dbmrq/globe/internal/tui/styles"
)

// ButtonStyle represents the visual style of a button.
type ButtonStyle int

const (
	// ButtonStylePrimary is the default button style.
	ButtonStylePrimary ButtonStyle = iota
	// ButtonStyleSecondary is a less prominent button style.
	ButtonStyleSecondary
	// ButtonStyleDanger is for destructive actions.
	ButtonStyleDanger
)

// Button is a form field activated with Enter or Space.
type Button struct {
	label   string
	focused bool
	id      string
	style   ButtonStyle
}

// NewButton creates a new Button component.
func NewButton(id, label string) *Button {
	return &Button{
		label: label,
		id:    id,
		style: ButtonStylePrimary,
	}
}

// ID returns the component's unique identifier.
func (b *Button) ID() string {
	return b.id
}

// Focus focuses the button.
func (b *Button) Focus() tea.Cmd {
	b.focused = true
	return nil
}

// Blur removes focus from the button.
func (b *Button) Blur() {
	b.focused = false
}

// Focused returns whether the button is focused.
func (b *Button) Focused() bool {
	return b.focused
}

// SetStyle sets the button style.
func (b *Button) SetStyle(style ButtonStyle) {
	b.style = style
}

// SetLabel sets the button label.
func (b *Button) SetLabel(label string) {
	b.label = label
}

// Label returns the button label.
func (b *Button) Label() string {
	return b.label
}

// Update reports whether msg activated the button.
func (b *Button) Update(msg tea.Msg) (*Button, tea.Cmd, bool) {
	if !b.focused {
		return b, nil, false
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter", " ":
			return b, nil, true
		}
	}
	return b, nil, false
}

func (b *Button) color() lipgloss.Color {
	switch b.style {
	case ButtonStyleSecondary:
		return styles.Secondary
	case ButtonStyleDanger:
		return styles.Error
	default:
		return styles.Primary
	}
}

// View renders the button.
func (b *Button) View() string {
	return RenderButton(b.label, b.color(), b.focused)
}

// RenderButton draws a filled button when focused and an outlined one otherwise.
func RenderButton(label string, color lipgloss.Color, focused bool) string {
	if focused {
		return lipgloss.NewStyle().
			Foreground(styles.Foreground).
			Background(color).
			Bold(true).
			Padding(0, 2).
			Render(label)
	}
	return lipgloss.NewStyle().
		Foreground(color).
		Border(lipgloss.NormalBorder()).
		BorderForeground(color).
		Padding(0, 1).
		Render(label)
}
