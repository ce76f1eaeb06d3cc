// Package main runs countryd, an in-memory countries backend for local
// development of globe.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dbmrq/globe/internal/devserver"
	gerrors "github.com/dbmrq/globe/internal/errors"
	"github.com/dbmrq/globe/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "countryd",
	Short: "Serve the countries API from memory",
	Long: `countryd serves the countries backend that globe talks to, with
users, tokens and the bundled country dataset held in memory.

Examples:
  countryd
  countryd --addr :8080 --seed-user ana@example.com:secret1
  globe --api-url http://localhost:3000 login`,
	Args:          cobra.NoArgs,
	RunE:          run,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Flags().String("addr", ":3000", "Address to listen on")
	rootCmd.Flags().Int("page-size", devserver.DefaultPageSize, "Countries per list page")
	rootCmd.Flags().StringArray("seed-user", nil, "Create a user at startup, as email:password (repeatable)")
	rootCmd.Flags().BoolP("verbose", "v", false, "Log every request")
}

func run(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	pageSize, _ := cmd.Flags().GetInt("page-size")
	seeds, _ := cmd.Flags().GetStringArray("seed-user")
	verbose, _ := cmd.Flags().GetBool("verbose")

	level := logging.LevelInfo
	if verbose {
		level = logging.LevelDebug
	}
	logging.SetGlobal(logging.NewWithWriter(cmd.ErrOrStderr(), &logging.Config{Level: level}))

	srv, err := devserver.New(devserver.Options{PageSize: pageSize})
	if err != nil {
		return err
	}
	for _, seed := range seeds {
		email, password, ok := strings.Cut(seed, ":")
		if !ok || email == "" || password == "" {
			return gerrors.Validation("seed-user", fmt.Sprintf("expected email:password, got %q", seed))
		}
		if err := srv.AddUser(email, password); err != nil {
			return err
		}
		logging.Info("seeded user", "email", email)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logging.Info("countryd listening", "addr", addr, "page_size", pageSize)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logging.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprint(os.Stderr, gerrors.Format(err))
		os.Exit(1)
	}
}
