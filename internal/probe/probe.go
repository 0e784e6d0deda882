// Package probe reports video durations by invoking ffprobe.
//
// The duplicate detector never needs it; it backs the duration subcommand.
package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/idelchi/viddup/internal/errs"
)

// DefaultBinary is the ffprobe executable looked up in PATH.
const DefaultBinary = "ffprobe"

// Runner executes a command and returns its combined output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Prober queries media metadata with ffprobe.
type Prober struct {
	binary string
	run    Runner
}

// Option configures a Prober.
type Option func(*Prober)

// WithBinary sets the ffprobe executable.
func WithBinary(binary string) Option {
	return func(p *Prober) {
		if binary != "" {
			p.binary = binary
		}
	}
}

// WithRunner replaces the command runner, mainly for tests.
func WithRunner(run Runner) Option {
	return func(p *Prober) {
		if run != nil {
			p.run = run
		}
	}
}

// New creates a Prober running DefaultBinary.
func New(opts ...Option) *Prober {
	p := &Prober{binary: DefaultBinary, run: ExecRunner}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// ExecRunner runs name with args, merging stderr into stdout.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	var out bytes.Buffer

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()

	return out.Bytes(), err
}

// Duration returns the container duration of the video at path.
//
// A missing ffprobe yields errs.CodeUnavailable; a failing invocation or
// output that is not a number of seconds yields errs.CodeExecutionFailed.
func (p *Prober) Duration(ctx context.Context, path string) (time.Duration, error) {
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}

	out, err := p.run(ctx, p.binary, args...)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return 0, errs.Wrap(err, errs.CodeUnavailable, "probe", p.binary)
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, errs.Wrap(ctxErr, errs.CodeCanceled, "probe", path)
		}

		msg := strings.TrimSpace(string(out))
		if msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}

		return 0, errs.Wrap(err, errs.CodeExecutionFailed, "probe", path)
	}

	return parseSeconds(path, out)
}

// parseSeconds converts ffprobe's "12.345000" output to a duration.
func parseSeconds(path string, out []byte) (time.Duration, error) {
	text := strings.TrimSpace(string(out))

	seconds, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return 0, errs.Wrap(fmt.Errorf("unexpected ffprobe output %q", text), errs.CodeExecutionFailed, "probe", path)
	}

	return time.Duration(seconds * float64(time.Second)), nil
}
