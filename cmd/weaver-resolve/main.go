// Command weaver-resolve resolves application telemetry schemas against
// semantic-convention registries and emits the Resolved Schema output model.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "weaver-resolve: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runID := uuid.New()
	logger, cleanup, err := setupLogger(os.Stderr, "")
	if err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	defer cleanup()
	logger = logger.With(slog.String("run_id", runID.String()))

	root := newRootCmd(ctx, logger)
	root.SetArgs(args)
	return root.Execute()
}

// setupLogger mirrors the handler/output wiring used by the project's other
// entry point: JSON to stderr by default, or to logFile if set.
func setupLogger(w io.Writer, logFile string) (*slog.Logger, func(), error) {
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		handler := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelInfo})
		return slog.New(handler), func() { _ = f.Close() }, nil
	}
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	return slog.New(handler), func() {}, nil
}
