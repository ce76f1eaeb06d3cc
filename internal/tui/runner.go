package tui

import (
	"context"
	"errors"
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dbmrq/globe/internal/logging"
)

// Runner runs the program alongside the session file watcher.
type Runner struct {
	model   *Model
	program *tea.Program
}

// NewRunner creates a Runner. Extra program options (e.g. input and
// output for tests) are appended after the alt-screen option.
func NewRunner(ctx context.Context, opts Options, popts ...tea.ProgramOption) *Runner {
	model := New(ctx, opts)
	popts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, popts...)
	return &Runner{
		model:   model,
		program: tea.NewProgram(model, popts...),
	}
}

// Run blocks until the user quits or ctx is canceled. Sign-ins and
// sign-outs made by other globe processes are forwarded to the model.
func (r *Runner) Run(ctx context.Context) error {
	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		err := r.model.opts.Session.Watch(watchCtx, func() {
			r.program.Send(SessionChangedMsg{})
		})
		if err != nil {
			logging.Debug("session watch stopped", "error", err)
		}
	}()

	_, err := r.program.Run()
	cancel()
	wg.Wait()

	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Program returns the tea.Program.
func (r *Runner) Program() *tea.Program {
	return r.program
}

// Model returns the TUI model.
func (r *Runner) Model() *Model {
	return r.model
}

// Headless returns program options that read keys from in and discard
// rendering, for driving the TUI without a terminal.
func Headless(in io.Reader) []tea.ProgramOption {
	return []tea.ProgramOption{tea.WithInput(in), tea.WithOutput(io.Discard), tea.WithoutRenderer()}
}
