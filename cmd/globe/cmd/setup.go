package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/dbmrq/globe/internal/account"
	"github.com/dbmrq/globe/internal/api"
	"github.com/dbmrq/globe/internal/config"
	gerrors "github.com/dbmrq/globe/internal/errors"
	"github.com/dbmrq/globe/internal/i18n"
	"github.com/dbmrq/globe/internal/logging"
	"github.com/dbmrq/globe/internal/session"
	"github.com/dbmrq/globe/internal/storage"
)

// env holds everything a command needs, built from config and flags.
type env struct {
	cfg     *config.Config
	tr      *i18n.Translator
	store   storage.Storage
	session *session.Store
	client  *api.Client
	account *account.Service
	logging bool
}

// loadConfig reads the config file named by --config and applies the
// persistent flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if v, _ := cmd.Flags().GetString("api-url"); v != "" {
		cfg.API.URL = v
	}
	if v, _ := cmd.Flags().GetString("locale"); v != "" {
		cfg.Locale.Name = v
	}
	if v, _ := cmd.Flags().GetBool("ephemeral"); v {
		cfg.Storage.Backend = config.StorageMemory
	}
	return cfg, nil
}

// setup builds the command environment. Interactive commands never log to
// the console. When restore is false the caller restores the session itself.
func setup(cmd *cobra.Command, interactive, restore bool) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	verbose, _ := cmd.Flags().GetBool("verbose")

	e := &env{cfg: cfg}

	logLevel := logging.LevelInfo
	if verbose {
		logLevel = logging.LevelDebug
	}
	logConfig := &logging.Config{
		Level:       logLevel,
		LogDir:      cfg.Log.Dir,
		MaxLogFiles: cfg.Log.MaxFiles,
		MaxLogAge:   cfg.Log.MaxAge,
		Console:     verbose && !interactive,
		JSONFormat:  cfg.Log.JSON,
	}
	if err := logging.InitGlobal(logConfig); err != nil {
		// Non-fatal: warn but continue without file logging
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to initialize logging: %v\n", err)
	} else {
		e.logging = true
		logging.Info("globe starting", "version", Version, "command", cmd.Name(), "api", cfg.API.URL)
	}

	e.tr = i18n.New(i18n.Options{Locale: cfg.Locale.Name, File: cfg.Locale.File})
	i18n.SetDefault(e.tr)

	e.store, err = storage.Open(cfg.Storage)
	if err != nil {
		e.Close()
		return nil, gerrors.StorageFailure(cfg.Storage.Path, err)
	}
	e.session = session.New(e.store)
	if restore {
		e.session.Restore()
	}

	e.client = api.New(cfg.API.URL,
		api.WithAuth(e.session),
		api.WithTimeout(cfg.API.Timeout),
		api.WithLogger(logging.With("component", "api")),
	)
	e.account = account.New(e.client, e.session, e.tr)
	return e, nil
}

// Close releases storage and flushes the log file.
func (e *env) Close() {
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			logging.Warn("failed to close storage", "error", err)
		}
	}
	if e.logging {
		_ = logging.CloseGlobal()
	}
}

// requireSession fails unless a session is active.
func (e *env) requireSession() error {
	if !e.session.IsAuthenticated() {
		return gerrors.NotSignedIn()
	}
	return nil
}

// checkUnauthorized ends the local session when the backend rejected it.
func (e *env) checkUnauthorized(err error) error {
	if api.IsUnauthorized(err) {
		logging.Info("session rejected by backend, signing out")
		e.session.Logout()
	}
	return err
}

// prompter reads answers from the command's input.
type prompter struct {
	in     io.Reader
	out    io.Writer
	reader *bufio.Reader
}

func newPrompter(cmd *cobra.Command) *prompter {
	in := cmd.InOrStdin()
	return &prompter{in: in, out: cmd.ErrOrStderr(), reader: bufio.NewReader(in)}
}

// Line asks for a visible value.
func (p *prompter) Line(label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)
	line, err := p.reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", gerrors.Validation(strings.ToLower(label), "no input for "+label)
	}
	return strings.TrimSpace(line), nil
}

// Secret asks for a value without echo when reading from a terminal.
func (p *prompter) Secret(label string) (string, error) {
	f, ok := p.in.(*os.File)
	if !ok || !term.IsTerminal(f.Fd()) {
		return p.Line(label)
	}
	fmt.Fprintf(p.out, "%s: ", label)
	b, err := term.ReadPassword(f.Fd())
	fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
