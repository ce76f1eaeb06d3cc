package components

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestNewButton(t *testing.T) {
	b := NewButton("submit", "Sign in")

	if b.ID() != "submit" {
		t.Errorf("ID should be 'submit', got %s", b.ID())
	}
	if b.Label() != "Sign in" {
		t.Errorf("Label should be 'Sign in', got %s", b.Label())
	}
	if b.Focused() {
		t.Error("Button should not be focused by default")
	}
	if b.style != ButtonStylePrimary {
		t.Error("Default style should be primary")
	}
}

func TestButtonFocus(t *testing.T) {
	b := NewButton("submit", "Sign in")

	b.Focus()
	if !b.Focused() {
		t.Error("Button should be focused")
	}
	b.Blur()
	if b.Focused() {
		t.Error("Button should not be focused after Blur")
	}
}

func TestButtonActivation(t *testing.T) {
	b := NewButton("submit", "Sign in")

	if _, _, activated := b.Update(tea.KeyMsg{Type: tea.KeyEnter}); activated {
		t.Error("Unfocused button should not activate")
	}

	b.Focus()
	if _, _, activated := b.Update(tea.KeyMsg{Type: tea.KeyEnter}); !activated {
		t.Error("Enter should activate a focused button")
	}
	if _, _, activated := b.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}); !activated {
		t.Error("Space should activate a focused button")
	}
	if _, _, activated := b.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}}); activated {
		t.Error("Other keys should not activate")
	}
}

func TestButtonView(t *testing.T) {
	b := NewButton("retry", "Try again")
	b.SetStyle(ButtonStyleDanger)
	b.SetLabel("Retry")

	if !strings.Contains(b.View(), "Retry") {
		t.Error("View should contain the label")
	}
	b.Focus()
	if !strings.Contains(b.View(), "Retry") {
		t.Error("Focused view should contain the label")
	}
}
