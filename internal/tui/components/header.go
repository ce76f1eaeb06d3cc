package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dbmrq/globe/internal/tui/styles"
)

// HeaderData contains the data to display in the header.
type HeaderData struct {
	Title string
	// Search is the rendered search input.
	Search string
	// Theme is the label of the theme toggle.
	Theme string
	Email string
}

// Header is the catalogue's top bar.
type Header struct {
	data  HeaderData
	width int
}

// NewHeader creates a new Header component.
func NewHeader() *Header {
	return &Header{}
}

// SetData updates the header data.
func (h *Header) SetData(data HeaderData) {
	h.data = data
}

// Data returns the header data.
func (h *Header) Data() HeaderData {
	return h.data
}

// SetWidth sets the width for the header.
func (h *Header) SetWidth(width int) {
	h.width = width
}

// View renders the header.
func (h *Header) View() string {
	sep := lipgloss.NewStyle().
		Foreground(styles.MutedLight).
		Render(" │ ")

	left := styles.TitleStyle.Render(h.data.Title)
	if h.data.Search != "" {
		left += " " + h.data.Search
	}

	var right []string
	if h.data.Theme != "" {
		right = append(right, styles.KeyStyle.Render("t")+" "+styles.HeaderLabelStyle.Render(h.data.Theme))
	}
	if h.data.Email != "" {
		right = append(right, styles.HeaderValueStyle.Render(h.data.Email))
	}
	rightContent := strings.Join(right, sep)

	style := lipgloss.NewStyle().Padding(0, 1)
	if h.width > 0 {
		style = style.Width(h.width)
		gap := h.width - lipgloss.Width(left) - lipgloss.Width(rightContent) - 2
		if gap > 0 {
			return style.Render(left + strings.Repeat(" ", gap) + rightContent)
		}
	}
	if rightContent == "" {
		return style.Render(left)
	}
	return style.Render(left + sep + rightContent)
}
