package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dbmrq/globe/internal/tui/styles"
)

// FormField is the interface that all form fields must implement.
type FormField interface {
	ID() string
	Focus() tea.Cmd
	Blur()
	Focused() bool
	View() string
}

// FormSubmittedMsg is sent when a form is submitted.
type FormSubmittedMsg struct {
	FormID string
	Values map[string]string
}

// FormCanceledMsg is sent when a form is canceled.
type FormCanceledMsg struct {
	FormID string
}

// Form is a container for form fields with navigation support. Enter
// submits from any field, like an HTML form.
type Form struct {
	id         string
	title      string
	fields     []FormField
	focusIndex int
	width      int
	busy       bool
	errText    string
	notice     string
	help       []ShortcutDef
	footer     string
}

// NewForm creates a new Form container.
func NewForm(id, title string) *Form {
	return &Form{
		id:     id,
		title:  title,
		fields: []FormField{},
	}
}

// ID returns the form's unique identifier.
func (f *Form) ID() string {
	return f.id
}

// AddFields adds fields to the form.
func (f *Form) AddFields(fields ...FormField) {
	f.fields = append(f.fields, fields...)
}

// SetWidth sets the form width.
func (f *Form) SetWidth(width int) {
	f.width = width
	for _, field := range f.fields {
		if ti, ok := field.(*TextInput); ok {
			ti.SetWidth(width - 4)
		}
	}
}

// SetHelp sets the shortcut hints shown under the fields.
func (f *Form) SetHelp(help ...ShortcutDef) {
	f.help = help
}

// SetFooter sets a line shown below the help, e.g. a link to another form.
func (f *Form) SetFooter(footer string) {
	f.footer = footer
}

// SetBusy marks a submission in flight; input is ignored meanwhile.
func (f *Form) SetBusy(busy bool) {
	f.busy = busy
}

// Busy reports whether a submission is in flight.
func (f *Form) Busy() bool {
	return f.busy
}

// SetError shows err under the fields and clears any notice.
func (f *Form) SetError(err string) {
	f.errText = err
	if err != "" {
		f.notice = ""
	}
}

// Error returns the error text.
func (f *Form) Error() string {
	return f.errText
}

// SetNotice shows a success notice and clears any error.
func (f *Form) SetNotice(notice string) {
	f.notice = notice
	if notice != "" {
		f.errText = ""
	}
}

// Notice returns the notice text.
func (f *Form) Notice() string {
	return f.notice
}

// FocusIndex returns the current focus index.
func (f *Form) FocusIndex() int {
	return f.focusIndex
}

// GetField returns a field by ID.
func (f *Form) GetField(id string) FormField {
	for _, field := range f.fields {
		if field.ID() == id {
			return field
		}
	}
	return nil
}

// Values returns the text input values keyed by field ID.
func (f *Form) Values() map[string]string {
	values := make(map[string]string)
	for _, field := range f.fields {
		if ti, ok := field.(*TextInput); ok {
			values[ti.ID()] = ti.Value()
		}
	}
	return values
}

// Focus focuses the first field.
func (f *Form) Focus() tea.Cmd {
	return f.FocusField(0)
}

// Blur blurs all fields in the form.
func (f *Form) Blur() {
	for _, field := range f.fields {
		field.Blur()
	}
}

// NextField moves focus to the next field, wrapping around.
func (f *Form) NextField() tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	return f.FocusField((f.focusIndex + 1) % len(f.fields))
}

// PrevField moves focus to the previous field, wrapping around.
func (f *Form) PrevField() tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	return f.FocusField((f.focusIndex - 1 + len(f.fields)) % len(f.fields))
}

// FocusField focuses a specific field by index.
func (f *Form) FocusField(index int) tea.Cmd {
	if index < 0 || index >= len(f.fields) {
		return nil
	}
	if f.focusIndex >= 0 && f.focusIndex < len(f.fields) {
		f.fields[f.focusIndex].Blur()
	}
	f.focusIndex = index
	return f.fields[f.focusIndex].Focus()
}

// Reset clears every value and message and focuses the first field.
func (f *Form) Reset() tea.Cmd {
	for _, field := range f.fields {
		if ti, ok := field.(*TextInput); ok {
			ti.Reset()
		}
	}
	f.busy = false
	f.errText = ""
	f.notice = ""
	f.Blur()
	return f.Focus()
}

func (f *Form) submit() tea.Cmd {
	values := f.Values()
	id := f.id
	return func() tea.Msg {
		return FormSubmittedMsg{FormID: id, Values: values}
	}
}

// Update handles Tab/Shift+Tab navigation, Enter and Esc, and delegates
// other messages to the focused field.
func (f *Form) Update(msg tea.Msg) (*Form, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		if f.busy {
			return f, nil
		}
		switch key.String() {
		case "tab", "down":
			return f, f.NextField()
		case "shift+tab", "up":
			return f, f.PrevField()
		case "esc":
			id := f.id
			return f, func() tea.Msg { return FormCanceledMsg{FormID: id} }
		case "enter":
			return f, f.submit()
		}
	}

	if f.focusIndex < 0 || f.focusIndex >= len(f.fields) {
		return f, nil
	}
	switch field := f.fields[f.focusIndex].(type) {
	case *TextInput:
		_, cmd := field.Update(msg)
		return f, cmd
	case *Button:
		_, cmd, activated := field.Update(msg)
		if activated {
			return f, tea.Batch(cmd, f.submit())
		}
		return f, cmd
	}
	return f, nil
}

// View renders the form.
func (f *Form) View() string {
	var b strings.Builder

	if f.title != "" {
		b.WriteString(styles.TitleStyle.Render(f.title))
		b.WriteString("\n\n")
	}

	for i, field := range f.fields {
		b.WriteString("  ")
		b.WriteString(field.View())
		if i < len(f.fields)-1 {
			b.WriteString("\n")
		}
	}

	if f.errText != "" {
		b.WriteString("\n\n  ")
		b.WriteString(styles.ErrorTextStyle.Render(f.errText))
	}
	if f.notice != "" {
		b.WriteString("\n\n  ")
		b.WriteString(styles.SuccessTextStyle.Render(f.notice))
	}

	if len(f.help) > 0 {
		b.WriteString("\n\n  ")
		b.WriteString(NewShortcutBar(f.help...).View())
	}
	if f.footer != "" {
		b.WriteString("\n  ")
		b.WriteString(styles.MutedTextStyle.Render(f.footer))
	}

	box := styles.FocusedBoxStyle.Padding(1, 2)
	if f.width > 0 {
		box = box.Width(f.width)
	}
	return box.Render(lipgloss.NewStyle().Render(b.String()))
}
