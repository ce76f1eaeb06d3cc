package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dbmrq/globe/internal/country"
	"github.com/dbmrq/globe/internal/tui/styles"
)

// CountryList is a scrollable list of country summaries.
type CountryList struct {
	items       []country.Summary
	selected    int
	height      int
	width       int
	scrollStart int
	capital     string
	emptyTitle  string
	emptyHint   string
}

// NewCountryList creates a new CountryList component.
func NewCountryList() *CountryList {
	return &CountryList{height: 10}
}

// SetLabels sets the capital label and the empty-result texts.
func (l *CountryList) SetLabels(capital, emptyTitle, emptyHint string) {
	l.capital = capital
	l.emptyTitle = emptyTitle
	l.emptyHint = emptyHint
}

// SetItems replaces the items, keeping the cursor in range.
func (l *CountryList) SetItems(items []country.Summary) {
	l.items = items
	if l.selected >= len(items) {
		l.selected = len(items) - 1
	}
	if l.selected < 0 {
		l.selected = 0
	}
	l.updateScroll()
}

// Items returns the items.
func (l *CountryList) Items() []country.Summary {
	return l.items
}

// SetSize sets both width and height.
func (l *CountryList) SetSize(width, height int) {
	l.width = width
	if height < 1 {
		height = 1
	}
	l.height = height
	l.updateScroll()
}

// Selected returns the cursor index.
func (l *CountryList) Selected() int {
	return l.selected
}

// SelectedItem returns the item under the cursor, or nil if empty.
func (l *CountryList) SelectedItem() *country.Summary {
	if l.selected < 0 || l.selected >= len(l.items) {
		return nil
	}
	return &l.items[l.selected]
}

// Window returns the first visible row, the visible row count and the
// total row count.
func (l *CountryList) Window() (offset, viewport, content int) {
	return l.scrollStart, l.height, len(l.items)
}

// MoveUp moves selection up.
func (l *CountryList) MoveUp() {
	if l.selected > 0 {
		l.selected--
		l.updateScroll()
	}
}

// MoveDown moves selection down.
func (l *CountryList) MoveDown() {
	if l.selected < len(l.items)-1 {
		l.selected++
		l.updateScroll()
	}
}

// PageDown moves selection one screen down.
func (l *CountryList) PageDown() {
	l.selected = min(l.selected+l.height, len(l.items)-1)
	if l.selected < 0 {
		l.selected = 0
	}
	l.updateScroll()
}

// PageUp moves selection one screen up.
func (l *CountryList) PageUp() {
	l.selected = max(l.selected-l.height, 0)
	l.updateScroll()
}

// GoToTop moves selection to the first item.
func (l *CountryList) GoToTop() {
	l.selected = 0
	l.updateScroll()
}

// GoToBottom moves selection to the last item.
func (l *CountryList) GoToBottom() {
	if len(l.items) > 0 {
		l.selected = len(l.items) - 1
		l.updateScroll()
	}
}

// updateScroll keeps the selected item visible.
func (l *CountryList) updateScroll() {
	if l.selected < l.scrollStart {
		l.scrollStart = l.selected
	}
	if l.selected >= l.scrollStart+l.height {
		l.scrollStart = l.selected - l.height + 1
	}
	if maxStart := len(l.items) - l.height; l.scrollStart > maxStart {
		l.scrollStart = maxStart
	}
	if l.scrollStart < 0 {
		l.scrollStart = 0
	}
}

// Update handles keyboard navigation. It reports whether the cursor moved.
func (l *CountryList) Update(msg tea.Msg) bool {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return false
	}
	before := l.selected
	switch key.String() {
	case "up", "k":
		l.MoveUp()
	case "down", "j":
		l.MoveDown()
	case "pgdown", "ctrl+d":
		l.PageDown()
	case "pgup", "ctrl+u":
		l.PageUp()
	case "home", "g":
		l.GoToTop()
	case "end", "G":
		l.GoToBottom()
	default:
		return false
	}
	return l.selected != before
}

// View renders the visible rows.
func (l *CountryList) View() string {
	if len(l.items) == 0 {
		if l.emptyTitle == "" {
			return ""
		}
		title := lipgloss.NewStyle().Bold(true).Foreground(styles.Foreground).Render("🌍 " + l.emptyTitle)
		hint := styles.MutedTextStyle.Render(l.emptyHint)
		return lipgloss.NewStyle().Padding(1, 2).Render(title + "\n" + hint)
	}

	end := min(l.scrollStart+l.height, len(l.items))
	lines := make([]string, 0, end-l.scrollStart)
	for i := l.scrollStart; i < end; i++ {
		lines = append(lines, l.renderItem(l.items[i], i == l.selected))
	}
	return strings.Join(lines, "\n")
}

func (l *CountryList) renderItem(c country.Summary, selected bool) string {
	cursor := " "
	if selected {
		cursor = styles.KeyStyle.Render("▶")
	}

	codes := lipgloss.NewStyle().Foreground(styles.Primary).Render(fmt.Sprintf("%-2s", c.Alpha2Code)) + " " +
		lipgloss.NewStyle().Foreground(styles.Secondary).Render(fmt.Sprintf("%-3s", c.Alpha3Code))

	name := lipgloss.NewStyle().Foreground(styles.Foreground).Width(32).Render(truncate(c.Name, 31))

	capital := ""
	if c.Capital != "" {
		capital = styles.MutedTextStyle.Render(l.capital + ": " + c.Capital)
	}

	line := fmt.Sprintf("%s %s  %s %s %s", cursor, FlagEmoji(c.Alpha2Code), codes, name, capital)

	style := lipgloss.NewStyle()
	if selected {
		style = styles.SelectedRowStyle
	}
	if l.width > 0 {
		style = style.Width(l.width).MaxHeight(1)
	}
	return style.Render(line)
}

// FlagEmoji returns the regional-indicator flag for a two-letter code,
// or two spaces when the code is not two ASCII letters.
func FlagEmoji(alpha2 string) string {
	if len(alpha2) != 2 {
		return "  "
	}
	var b strings.Builder
	for _, r := range strings.ToUpper(alpha2) {
		if r < 'A' || r > 'Z' {
			return "  "
		}
		b.WriteRune(0x1F1E6 + r - 'A')
	}
	return b.String()
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 1 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-1]) + "…"
}
