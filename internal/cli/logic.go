package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/idelchi/viddup/internal/dupes"
)

// isTerminal reports whether w is a terminal, so progress can be drawn on it.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// newLogger returns a text logger on w, at debug level when requested.
func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func logic(ctx context.Context, options options, stdout, stderr io.Writer) error {
	enableProgress := strings.ToLower(options.Output) != "json" &&
		!options.Debug &&
		isTerminal(stderr)

	options.Logger = newLogger(stderr, options.Debug)

	// Simple progress callback that prints directly to stderr
	var progressHook func(dupes.Progress)

	if enableProgress {
		// Hide cursor for in-place updates; restore on exit.
		fmt.Fprint(stderr, "\033[?25l")
		defer fmt.Fprint(stderr, "\033[?25h")

		progressHook = func(p dupes.Progress) {
			msg := fmt.Sprintf("Comparing by %s… %d/%d files", p.Tier, p.Done, p.Total)
			fmt.Fprintf(stderr, "\r\033[2K%s\r", msg)
		}
	}

	result, err := dupes.Run(ctx, options.Options, progressHook)

	// Clear the status line
	if enableProgress {
		fmt.Fprint(stderr, "\r\033[2K\r")
	}

	if err != nil {
		return err
	}

	switch strings.ToLower(options.Output) {
	case "json":
		return PrintJSON(result, stdout)
	case "table":
		return PrintTable(result, stdout)
	default:
		return fmt.Errorf("unknown output format: %s", options.Output)
	}
}
