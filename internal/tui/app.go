// Package tui provides the terminal user interface for globe.
package tui

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dbmrq/globe/internal/account"
	"github.com/dbmrq/globe/internal/browse"
	"github.com/dbmrq/globe/internal/country"
	gerrors "github.com/dbmrq/globe/internal/errors"
	"github.com/dbmrq/globe/internal/i18n"
	"github.com/dbmrq/globe/internal/logging"
	"github.com/dbmrq/globe/internal/session"
	"github.com/dbmrq/globe/internal/storage"
	"github.com/dbmrq/globe/internal/tui/components"
	"github.com/dbmrq/globe/internal/tui/styles"
)

// ThemeKey is the storage key holding the chosen theme.
const ThemeKey = "theme"

// redirectDelay is how long the registration notice stays up before
// the login form is shown.
const redirectDelay = 2 * time.Second

// Screen identifies the active screen.
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenRegister
	ScreenCatalogue
)

func (s Screen) String() string {
	switch s {
	case ScreenLogin:
		return "login"
	case ScreenRegister:
		return "register"
	case ScreenCatalogue:
		return "catalogue"
	default:
		return "unknown"
	}
}

// Options wires the model to the rest of the application.
type Options struct {
	Session *session.Store
	Account *account.Service
	Fetcher browse.Fetcher
	// Storage persists the theme. Nil disables persistence.
	Storage    storage.Storage
	Translator *i18n.Translator
	// Theme is used when no theme has been persisted.
	Theme           string
	ScrollThreshold int
}

// loginRedirect records a redirect requested by the browse controller
// from a command goroutine; Update applies it.
type loginRedirect struct {
	pending atomic.Bool
}

func (r *loginRedirect) ToLogin() { r.pending.Store(true) }

func (r *loginRedirect) take() bool { return r.pending.Swap(false) }

// Model is the Bubble Tea model for the globe TUI.
type Model struct {
	opts   Options
	tr     *i18n.Translator
	ctx    context.Context
	browse *browse.Controller
	nav    *loginRedirect

	// Components
	header      *components.Header
	statusBar   *components.StatusBar
	spinner     *components.Spinner
	search      *components.TextInput
	list        *components.CountryList
	detail      *components.DetailOverlay
	helpOverlay *components.HelpOverlay
	confirmDlg  *components.ConfirmDialog
	login       *components.Form
	register    *components.Form

	// State
	screen    Screen
	searching bool
	theme     string

	// Window dimensions
	width  int
	height int

	quitting bool
}

// New creates a new TUI model.
func New(ctx context.Context, opts Options) *Model {
	tr := opts.Translator
	if tr == nil {
		tr = i18n.Default()
	}
	nav := &loginRedirect{}

	var bopts []browse.Option
	if opts.ScrollThreshold > 0 {
		bopts = append(bopts, browse.WithThreshold(opts.ScrollThreshold))
	}

	spin := components.NewSpinner()
	m := &Model{
		opts:        opts,
		tr:          tr,
		ctx:         ctx,
		browse:      browse.New(opts.Fetcher, opts.Session, nav, bopts...),
		nav:         nav,
		header:      components.NewHeader(),
		statusBar:   components.NewStatusBar(spin),
		spinner:     spin,
		search:      components.NewTextInput("search", ""),
		list:        components.NewCountryList(),
		detail:      components.NewDetailOverlay(tr),
		helpOverlay: components.NewHelpOverlay(),
		confirmDlg:  components.NewConfirmDialog(),
		screen:      ScreenLogin,
	}
	m.search.SetPlaceholder(tr.T("countries.searchCountries", nil))
	m.search.SetCharLimit(64)
	m.confirmDlg.SetLabels(tr.T("app.yes", nil), tr.T("app.no", nil))
	m.buildForms()
	m.buildHelp()

	m.theme = m.loadTheme()
	styles.Use(styles.ForTheme(m.theme))
	return m
}

func (m *Model) buildForms() {
	t := m.tr.T

	email := components.NewTextInput("email", t("auth.email", nil))
	email.SetPlaceholder(t("auth.enterEmail", nil))
	password := components.NewPasswordInput("password", t("auth.password", nil))
	password.SetPlaceholder(t("auth.enterPassword", nil))
	m.login = components.NewForm("login", t("auth.welcomeBack", nil))
	m.login.AddFields(email, password, components.NewButton("submit", t("auth.signIn", nil)))
	m.login.SetHelp(
		components.ShortcutDef{Key: "Tab", Desc: t("help.nextField", nil)},
		components.ShortcutDef{Key: "Enter", Desc: t("help.submit", nil)},
		components.ShortcutDef{Key: "Ctrl+N", Desc: t("auth.createAccount", nil)},
	)
	m.login.SetFooter(t("auth.signInToExplore", nil) + " · " + t("auth.dontHaveAccount", nil) + " Ctrl+N")

	regEmail := components.NewTextInput("email", t("auth.email", nil))
	regEmail.SetPlaceholder(t("auth.enterEmail", nil))
	regPassword := components.NewPasswordInput("password", t("auth.password", nil))
	regPassword.SetPlaceholder(t("auth.enterPassword", nil))
	confirm := components.NewPasswordInput("password_confirmation", t("auth.confirmPassword", nil))
	confirm.SetPlaceholder(t("auth.confirmYourPassword", nil))
	m.register = components.NewForm("register", t("auth.createAccount", nil))
	m.register.AddFields(regEmail, regPassword, confirm, components.NewButton("submit", t("auth.createAccount", nil)))
	m.register.SetHelp(
		components.ShortcutDef{Key: "Tab", Desc: t("help.nextField", nil)},
		components.ShortcutDef{Key: "Enter", Desc: t("help.submit", nil)},
		components.ShortcutDef{Key: "Esc", Desc: t("auth.signIn", nil)},
	)
	m.register.SetFooter(t("auth.joinUsToExplore", nil) + " · " + t("auth.alreadyHaveAccount", nil) + " Esc")
}

func (m *Model) buildHelp() {
	t := m.tr.T
	m.helpOverlay.SetContent(t("help.title", nil), "Esc "+t("help.close", nil), []components.ShortcutGroup{
		{
			Title: t("countries.worldCountries", nil),
			Shortcuts: []components.ShortcutDef{
				{Key: "↑↓ j/k", Desc: t("help.navigate", nil)},
				{Key: "Enter", Desc: t("help.select", nil)},
				{Key: "/", Desc: t("help.search", nil)},
				{Key: "Esc", Desc: t("help.clearSearch", nil)},
			},
		},
		{
			Title: t("app.help", nil),
			Shortcuts: []components.ShortcutDef{
				{Key: "t", Desc: t("help.toggleTheme", nil)},
				{Key: "r", Desc: t("help.retry", nil)},
				{Key: "L", Desc: t("help.logout", nil)},
				{Key: "?", Desc: t("app.help", nil)},
				{Key: "q", Desc: t("help.quit", nil)},
			},
		},
	})
}

// loadTheme returns the persisted theme, falling back to the configured one.
func (m *Model) loadTheme() string {
	if m.opts.Storage != nil {
		v, ok, err := m.opts.Storage.Get(ThemeKey)
		if err != nil {
			logging.Debug("could not read theme", "error", err)
		}
		if ok && (v == "dark" || v == "light") {
			return v
		}
	}
	if m.opts.Theme == "light" {
		return "light"
	}
	return "dark"
}

func (m *Model) toggleTheme() {
	if m.theme == "dark" {
		m.theme = "light"
	} else {
		m.theme = "dark"
	}
	styles.Use(styles.ForTheme(m.theme))
	m.detail.Rerender()
	if m.opts.Storage == nil {
		return
	}
	if err := m.opts.Storage.Set(ThemeKey, m.theme); err != nil {
		logging.Warn("could not persist theme", "error", err)
	}
}

// Init restores the session in the background, or mounts the list right
// away when the caller already restored it.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Init()}
	if m.opts.Session.Restored() {
		cmds = append(cmds, m.afterRestore())
	} else {
		m.screen = ScreenCatalogue
		_ = m.browse.Mount(m.ctx)
		s := m.opts.Session
		cmds = append(cmds, func() tea.Msg {
			s.Restore()
			return SessionRestoredMsg{}
		})
	}
	return tea.Batch(cmds...)
}

func (m *Model) afterRestore() tea.Cmd {
	if m.opts.Session.IsAuthenticated() {
		m.screen = ScreenCatalogue
		return m.mountCmd()
	}
	return m.toLogin()
}

// reqCtx tags outgoing calls with the screen that issued them.
func (m *Model) reqCtx() context.Context {
	return logging.WithScreen(m.ctx, m.screen.String())
}

func (m *Model) mountCmd() tea.Cmd {
	c, ctx := m.browse, m.reqCtx()
	return func() tea.Msg {
		return ListLoadedMsg{Err: c.Mount(ctx)}
	}
}

func (m *Model) retryCmd() tea.Cmd {
	c, ctx := m.browse, m.reqCtx()
	return func() tea.Msg {
		return ListLoadedMsg{Err: c.Retry(ctx)}
	}
}

func (m *Model) selectCmd(id country.ID) tea.Cmd {
	c, ctx := m.browse, m.reqCtx()
	return func() tea.Msg {
		return DetailLoadedMsg{Err: c.Select(ctx, id)}
	}
}

// maybeLoadMore fetches the next page when the list window is near its end.
func (m *Model) maybeLoadMore() tea.Cmd {
	offset, viewport, content := m.list.Window()
	pos := browse.ScrollPosition{Offset: offset, Viewport: viewport, Content: content}
	if !m.browse.NearEnd(pos) {
		return nil
	}
	c, ctx := m.browse, m.reqCtx()
	return func() tea.Msg {
		fetched, err := c.OnScroll(ctx, pos)
		if !fetched {
			return nil
		}
		return ListLoadedMsg{Err: err}
	}
}

// toLogin shows the login form and forgets catalogue state.
func (m *Model) toLogin() tea.Cmd {
	m.screen = ScreenLogin
	m.detail.Hide()
	m.confirmDlg.Hide()
	m.searching = false
	m.search.Blur()
	m.search.Reset()
	m.browse.SetQuery("")
	m.browse.CloseDetail()
	m.list.SetItems(nil)
	m.register.Blur()
	return m.login.Reset()
}

func (m *Model) toRegister() tea.Cmd {
	m.screen = ScreenRegister
	m.login.Blur()
	return m.register.Reset()
}

// syncList copies the visible records into the list component.
func (m *Model) syncList() {
	v := m.browse.Snapshot()
	m.list.SetItems(v.Items)
	if v.Query != "" {
		m.list.SetLabels(m.tr.T("countries.capital", nil),
			m.tr.T("countries.noCountriesFound", nil), m.tr.T("countries.adjustSearchTerms", nil))
	} else {
		m.list.SetLabels(m.tr.T("countries.capital", nil), "", "")
	}
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		_, cmd := m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case SessionRestoredMsg:
		return m, m.afterRestore()

	case SessionChangedMsg:
		return m, m.handleSessionChanged()

	case ListLoadedMsg:
		if m.nav.take() {
			return m, m.toLogin()
		}
		m.syncList()
		return m, nil

	case DetailLoadedMsg:
		if m.nav.take() {
			return m, m.toLogin()
		}
		if msg.Err == nil {
			if d := m.browse.Snapshot().Detail; d != nil {
				m.detail.Show(d)
			}
		}
		return m, nil

	case components.DetailClosedMsg:
		m.browse.CloseDetail()
		return m, nil

	case components.FormSubmittedMsg:
		return m, m.handleSubmit(msg)

	case components.FormCanceledMsg:
		if msg.FormID == "register" {
			return m, m.toLogin()
		}
		return m, nil

	case SignInDoneMsg:
		m.setBusy(m.login, false, "auth.signIn")
		if msg.Err != nil {
			m.login.SetError(gerrors.Message(msg.Err))
			return m, nil
		}
		m.login.Reset()
		m.login.Blur()
		m.screen = ScreenCatalogue
		return m, m.mountCmd()

	case SignUpDoneMsg:
		m.setBusy(m.register, false, "auth.createAccount")
		if msg.Err != nil {
			m.register.SetError(gerrors.Message(msg.Err))
			return m, nil
		}
		cmd := m.register.Reset()
		m.register.SetNotice(msg.Notice)
		return m, tea.Batch(cmd, tea.Tick(redirectDelay, func(time.Time) tea.Msg {
			return RegisteredRedirectMsg{}
		}))

	case RegisteredRedirectMsg:
		if m.screen == ScreenRegister {
			return m, m.toLogin()
		}
		return m, nil

	case components.ConfirmYesMsg:
		if msg.Action == components.ConfirmActionLogout {
			acct, ctx := m.opts.Account, m.reqCtx()
			return m, func() tea.Msg {
				acct.SignOut(ctx)
				return SignedOutMsg{}
			}
		}
		return m, nil

	case components.ConfirmNoMsg:
		return m, nil

	case SignedOutMsg:
		return m, m.toLogin()
	}

	// Cursor blinks and other component messages.
	return m, m.updateFocused(msg)
}

func (m *Model) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.screen {
	case ScreenLogin:
		_, cmd = m.login.Update(msg)
	case ScreenRegister:
		_, cmd = m.register.Update(msg)
	case ScreenCatalogue:
		if m.detail.IsVisible() {
			cmd = m.detail.Update(msg)
		} else if m.searching {
			_, cmd = m.search.Update(msg)
		}
	}
	return cmd
}

func (m *Model) handleSessionChanged() tea.Cmd {
	authed := m.opts.Session.IsAuthenticated()
	switch {
	case authed && m.screen != ScreenCatalogue:
		logging.Info("session picked up from another process")
		m.login.Blur()
		m.register.Blur()
		m.screen = ScreenCatalogue
		return m.mountCmd()
	case !authed && m.screen == ScreenCatalogue:
		logging.Info("session ended in another process")
		return m.toLogin()
	}
	return nil
}

func (m *Model) setBusy(f *components.Form, busy bool, labelKey string) {
	f.SetBusy(busy)
	if b, ok := f.GetField("submit").(*components.Button); ok {
		b.SetLabel(m.tr.T(labelKey, nil))
	}
}

func (m *Model) handleSubmit(msg components.FormSubmittedMsg) tea.Cmd {
	acct, ctx := m.opts.Account, m.reqCtx()
	v := msg.Values
	switch msg.FormID {
	case "login":
		m.login.SetError("")
		m.setBusy(m.login, true, "auth.signingIn")
		return func() tea.Msg {
			return SignInDoneMsg{Err: acct.SignIn(ctx, strings.TrimSpace(v["email"]), v["password"])}
		}
	case "register":
		m.register.SetError("")
		m.register.SetNotice("")
		m.setBusy(m.register, true, "auth.creatingAccount")
		return func() tea.Msg {
			notice, err := acct.SignUp(ctx, strings.TrimSpace(v["email"]), v["password"], v["password_confirmation"])
			return SignUpDoneMsg{Notice: notice, Err: err}
		}
	}
	return nil
}

// handleKeyPress handles keyboard input.
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	// Overlays capture input when visible.
	if m.confirmDlg.IsVisible() {
		return m, m.confirmDlg.Update(msg)
	}
	if m.helpOverlay.IsVisible() {
		return m, m.helpOverlay.Update(msg)
	}
	if m.detail.IsVisible() {
		return m, m.detail.Update(msg)
	}

	switch m.screen {
	case ScreenLogin:
		if msg.String() == "ctrl+n" && !m.login.Busy() {
			return m, m.toRegister()
		}
		_, cmd := m.login.Update(msg)
		return m, cmd
	case ScreenRegister:
		_, cmd := m.register.Update(msg)
		return m, cmd
	}
	return m.handleCatalogueKey(msg)
}

func (m *Model) handleCatalogueKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		switch msg.String() {
		case "esc", "enter", "down":
			m.searching = false
			m.search.Blur()
			return m, nil
		}
		_, cmd := m.search.Update(msg)
		m.browse.SetQuery(m.search.Value())
		m.syncList()
		return m, cmd
	}

	v := m.browse.Snapshot()
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "?", "h":
		m.helpOverlay.Toggle()
		return m, nil

	case "/":
		m.searching = true
		return m, m.search.Focus()

	case "esc":
		if v.Query != "" {
			m.search.Reset()
			m.browse.SetQuery("")
			m.syncList()
		}
		return m, nil

	case "t":
		m.toggleTheme()
		return m, nil

	case "r":
		if v.State == browse.StateError {
			return m, m.retryCmd()
		}
		return m, nil

	case "L":
		m.confirmDlg.Show(components.ConfirmActionLogout, m.tr.T("auth.logout", nil), m.tr.T("app.confirmLogout", nil), true)
		return m, nil

	case "enter":
		if v.State == browse.StateError {
			return m, nil
		}
		if item := m.list.SelectedItem(); item != nil {
			return m, m.selectCmd(item.ID)
		}
		return m, nil
	}

	if m.list.Update(msg) {
		return m, m.maybeLoadMore()
	}
	return m, nil
}

// resize lays out every component for a new terminal size.
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.header.SetWidth(width)
	m.statusBar.SetWidth(width)
	m.spinner.SetWidth(width)
	m.search.SetWidth(min(48, max(width/3, 20)))
	m.list.SetSize(width, height-catalogueChrome)
	m.detail.SetSize(min(width-4, 96), height-2)
	m.helpOverlay.SetSize(min(60, width-4))
	m.confirmDlg.SetSize(min(50, width-4))
	formWidth := min(64, width-4)
	m.login.SetWidth(formWidth)
	m.register.SetWidth(formWidth)
}

// catalogueChrome is the number of rows around the list: header, blank,
// subtitle, results line, blank, status bar.
const catalogueChrome = 6

// Screen returns the active screen.
func (m *Model) Screen() Screen {
	return m.screen
}

// Theme returns the active theme name.
func (m *Model) Theme() string {
	return m.theme
}

// View renders the TUI.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var view string
	switch m.screen {
	case ScreenLogin:
		view = m.center(m.login.View())
	case ScreenRegister:
		view = m.center(m.register.View())
	default:
		view = m.catalogueView()
	}

	switch {
	case m.confirmDlg.IsVisible():
		view = m.center(m.confirmDlg.View())
	case m.helpOverlay.IsVisible():
		view = m.center(m.helpOverlay.View())
	case m.detail.IsVisible():
		view = m.center(m.detail.View())
	}
	return view
}

func (m *Model) center(s string) string {
	if m.width <= 0 || m.height <= 0 {
		return s
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, s)
}

func (m *Model) catalogueView() string {
	t := m.tr.T
	v := m.browse.Snapshot()

	themeLabel := t("app.themeDark", nil)
	if m.theme == "light" {
		themeLabel = t("app.themeLight", nil)
	}
	m.header.SetData(components.HeaderData{
		Title:  "🌍 " + t("countries.worldCountries", nil),
		Search: m.search.View(),
		Theme:  themeLabel,
		Email:  m.opts.Session.Email(),
	})

	var body string
	switch v.State {
	case browse.StateAuthLoading, browse.StateLoading:
		m.spinner.SetStatusText(t("app.loading", nil))
		body = m.spinner.Skeleton(max(m.height-catalogueChrome, 3))
	case browse.StateError:
		banner := styles.ErrorTextStyle.Bold(true).Render("✗ " + t("app.error", nil) + ": " + v.Err)
		retry := components.RenderButton(t("app.retry", nil)+" (r)", styles.Primary, true)
		body = lipgloss.NewStyle().Padding(1, 2).Render(banner + "\n\n" + retry)
	default:
		subtitle := styles.MutedTextStyle.Render("  " + t("countries.clickFlagForDetails", nil))
		results := ""
		if v.Query != "" {
			results = "  " + styles.MutedTextStyle.Render(t("countries.showingResults", i18n.Params{
				"count": len(v.Items),
				"total": v.Total,
			}))
		}
		body = subtitle + "\n" + results + "\n" + m.list.View()
	}

	status := components.StatusBarData{Shortcuts: m.shortcuts(v)}
	if v.Last > 0 {
		status.Count = t("app.page", i18n.Params{"page": v.Page, "last": v.Last})
	}
	if v.LoadingMore {
		status.Message = t("app.loadingMore", nil)
		status.Busy = true
	}
	m.statusBar.SetData(status)

	used := lipgloss.Height(body) + 2
	gap := ""
	if m.height > used+1 {
		gap = strings.Repeat("\n", m.height-used-1)
	}
	return m.header.View() + "\n" + body + "\n" + gap + m.statusBar.View()
}

func (m *Model) shortcuts(v browse.View) []components.ShortcutDef {
	t := m.tr.T
	if m.searching {
		return []components.ShortcutDef{
			{Key: "Enter", Desc: t("help.close", nil)},
			{Key: "Esc", Desc: t("app.back", nil)},
		}
	}
	if v.State == browse.StateError {
		return []components.ShortcutDef{
			{Key: "r", Desc: t("help.retry", nil)},
			{Key: "q", Desc: t("help.quit", nil)},
		}
	}
	return []components.ShortcutDef{
		{Key: "/", Desc: t("help.search", nil)},
		{Key: "Enter", Desc: t("help.select", nil)},
		{Key: "t", Desc: t("help.toggleTheme", nil)},
		{Key: "?", Desc: t("app.help", nil)},
		{Key: "q", Desc: t("help.quit", nil)},
	}
}
