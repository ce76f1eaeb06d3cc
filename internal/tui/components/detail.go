package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/dbmrq/globe/internal/country"
	"github.com/dbmrq/globe/internal/i18n"
	"github.com/dbmrq/globe/internal/logging"
	"github.com/dbmrq/globe/internal/tui/styles"
)

// DetailClosedMsg is sent when the detail overlay is dismissed.
type DetailClosedMsg struct{}

// DetailOverlay shows one country record as rendered markdown in a
// scrollable viewport.
type DetailOverlay struct {
	detail   *country.Detail
	tr       *i18n.Translator
	viewport viewport.Model
	width    int
	height   int
}

// NewDetailOverlay creates a hidden DetailOverlay.
func NewDetailOverlay(tr *i18n.Translator) *DetailOverlay {
	return &DetailOverlay{
		tr:       tr,
		viewport: viewport.New(70, 20),
		width:    70,
		height:   20,
	}
}

// SetSize sets the overlay dimensions.
func (d *DetailOverlay) SetSize(width, height int) {
	d.width = width
	d.height = height
	d.viewport.Width = width - 4
	d.viewport.Height = height - 4
	d.render()
}

// Show displays detail.
func (d *DetailOverlay) Show(detail *country.Detail) {
	d.detail = detail
	d.render()
	d.viewport.GotoTop()
}

// Hide hides the overlay.
func (d *DetailOverlay) Hide() {
	d.detail = nil
}

// IsVisible returns whether the overlay is visible.
func (d *DetailOverlay) IsVisible() bool {
	return d.detail != nil
}

// Rerender redraws the content, e.g. after a theme change.
func (d *DetailOverlay) Rerender() {
	d.render()
}

func (d *DetailOverlay) render() {
	if d.detail == nil {
		return
	}
	md := DetailMarkdown(d.detail, d.tr)
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(styles.Current().Glamour),
		glamour.WithWordWrap(max(d.viewport.Width-2, 20)),
	)
	if err != nil {
		logging.Debug("markdown renderer unavailable", "error", err)
		d.viewport.SetContent(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		logging.Debug("markdown render failed", "error", err)
		out = md
	}
	d.viewport.SetContent(out)
}

// Update scrolls the content and closes on Esc, q or Enter.
func (d *DetailOverlay) Update(msg tea.Msg) tea.Cmd {
	if !d.IsVisible() {
		return nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc", "q", "enter":
			d.Hide()
			return func() tea.Msg { return DetailClosedMsg{} }
		}
	}
	var cmd tea.Cmd
	d.viewport, cmd = d.viewport.Update(msg)
	return cmd
}

// View renders the overlay.
func (d *DetailOverlay) View() string {
	if !d.IsVisible() {
		return ""
	}
	bar := NewShortcutBar(
		ShortcutDef{"↑↓", d.tr.T("help.navigate", nil)},
		ShortcutDef{"Esc", d.tr.T("countries.close", nil)},
	)
	bar.SetWidth(d.viewport.Width)
	bar.SetCentered(true)
	footer := bar.View()
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Primary).
		Padding(0, 1).
		Render(d.viewport.View() + "\n" + footer)
}

// DetailMarkdown lays out a country record as markdown. Missing values
// show the localized "not available" text.
func DetailMarkdown(c *country.Detail, tr *i18n.Translator) string {
	na := tr.T("countries.notAvailable", nil)
	orNA := func(s string) string {
		if s == "" {
			return na
		}
		return s
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s %s\n\n", FlagEmoji(c.Alpha2Code), c.Name)
	fmt.Fprintf(&b, "## %s\n\n", c.DisplayName())

	population := na
	if c.Population != nil {
		population = tr.Number(*c.Population)
	}
	area := na
	if c.Area != nil {
		area = tr.Number(*c.Area) + " km²"
	}
	fmt.Fprintf(&b, "- **%s:** %s\n", tr.T("countries.population", nil), population)
	fmt.Fprintf(&b, "- **%s:** %s\n\n", tr.T("countries.area", nil), area)

	fmt.Fprintf(&b, "### %s\n\n", tr.T("countries.countryInformation", nil))
	fmt.Fprintf(&b, "| | |\n|---|---|\n")
	rows := [][2]string{
		{"countries.capital", c.Capital},
		{"countries.region", c.Region},
		{"countries.subregion", c.Subregion},
		{"countries.alpha2Code", c.Alpha2Code},
		{"countries.alpha3Code", c.Alpha3Code},
		{"countries.callingCode", string(c.CallingCode)},
	}
	for _, r := range rows {
		fmt.Fprintf(&b, "| **%s** | %s |\n", tr.T(r[0], nil), orNA(r[1]))
	}

	if c.HasAdditional() {
		fmt.Fprintf(&b, "\n### %s\n\n", tr.T("countries.additionalDetails", nil))
		lists := []struct {
			key  string
			list country.StringList
		}{
			{"countries.currencies", c.Currencies},
			{"countries.languages", c.LanguageList()},
			{"countries.timeZones", c.TimeZones},
		}
		for _, l := range lists {
			if len(l.list) == 0 {
				continue
			}
			fmt.Fprintf(&b, "- **%s:** `%s`\n", tr.T(l.key, nil), strings.Join(l.list, "` `"))
		}
	}
	return b.String()
}
