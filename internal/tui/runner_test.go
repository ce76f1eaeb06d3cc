package tui

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbmrq/globe/internal/i18n"
	"github.com/dbmrq/globe/internal/session"
	"github.com/dbmrq/globe/internal/storage"
)

func newTestRunner(t *testing.T, ctx context.Context, in io.Reader) *Runner {
	t.Helper()
	opts := Options{
		Session:    session.New(storage.NewMemory()),
		Fetcher:    &stubFetcher{},
		Translator: i18n.New(i18n.Options{Locale: "en"}),
	}
	return NewRunner(ctx, opts, Headless(in)...)
}

func TestRunner_QuitsOnCtrlC(t *testing.T) {
	r := newTestRunner(t, context.Background(), strings.NewReader("\x03"))
	require.NotNil(t, r.Program())
	require.NotNil(t, r.Model())

	done := make(chan error, 1)
	go func() { done <- r.Run(context.Background()) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		r.Program().Kill()
		t.Fatal("runner did not quit on ctrl+c")
	}
}

func TestRunner_StopsWhenContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })

	r := newTestRunner(t, ctx, pr)
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err, "a canceled context is a normal shutdown")
	case <-time.After(5 * time.Second):
		t.Fatal("runner did not stop after cancel")
	}
}
