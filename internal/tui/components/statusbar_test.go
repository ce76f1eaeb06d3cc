package components

import (
	"strings"
	"testing"
)

func TestStatusBarView(t *testing.T) {
	s := NewStatusBar(NewSpinner())
	s.SetData(StatusBarData{
		Count:     "Page 1 of 3",
		Shortcuts: []ShortcutDef{{Key: "?", Desc: "Help"}},
	})
	s.SetWidth(80)

	view := s.View()
	for _, want := range []string{"Page 1 of 3", "Help"} {
		if !strings.Contains(view, want) {
			t.Errorf("View should contain %q", want)
		}
	}
}

func TestStatusBarMessage(t *testing.T) {
	s := NewStatusBar(NewSpinner())
	s.SetData(StatusBarData{Count: "Page 1 of 3", Busy: true})
	s.SetMessage("Loading more…")

	if s.Data().Message != "Loading more…" {
		t.Errorf("Message should be set, got %q", s.Data().Message)
	}
	if !strings.Contains(s.View(), "Loading more…") {
		t.Error("View should contain the message")
	}
}

func TestStatusBarNarrow(t *testing.T) {
	s := NewStatusBar(nil)
	s.SetData(StatusBarData{Count: "A very long count text", Message: "busy", Busy: true})
	s.SetWidth(5)

	if !strings.Contains(s.View(), "busy") {
		t.Error("A nil spinner should still render the message")
	}
}
