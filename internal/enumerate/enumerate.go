package enumerate

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"

	"github.com/idelchi/viddup/internal/errs"
)

// DefaultExtensions are the video extensions accepted when none are configured.
//
//nolint:gochecknoglobals // Config constant
var DefaultExtensions = []string{"mp4", "mov", "webm"}

// Candidate is a file eligible for duplicate comparison.
type Candidate struct {
	// Path is the absolute path of the file as found during the walk.
	// It may be a symbolic link; the detector resolves it.
	Path string `json:"path"`
}

// Options configures a walk.
type Options struct {
	// Root is the directory to scan.
	Root string
	// Recursive descends into subdirectories when set.
	Recursive bool
	// Extensions are the accepted extensions without the leading dot (empty = DefaultExtensions).
	Extensions []string
	// Logger receives debug records; nil discards them.
	Logger *slog.Logger
}

// collector gathers candidates from concurrent fastwalk callbacks.
type collector struct {
	mu         sync.Mutex
	candidates []Candidate
}

func (c *collector) add(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.candidates = append(c.candidates, Candidate{Path: path})
}

// finalize returns the candidates sorted by path.
func (c *collector) finalize() []Candidate {
	c.mu.Lock()
	defer c.mu.Unlock()

	slices.SortFunc(c.candidates, func(a, b Candidate) int {
		return strings.Compare(a.Path, b.Path)
	})

	return c.candidates
}

// ExtensionSet normalizes extensions into a lookup set.
// Quotes, surrounding whitespace and a single leading dot are stripped; case is preserved.
func ExtensionSet(extensions []string) map[string]struct{} {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}

	set := make(map[string]struct{}, len(extensions))

	for _, e := range extensions { //nolint:varnamelen // e is standard for element in range
		e = strings.Trim(strings.TrimSpace(e), "'\"")
		e = strings.TrimPrefix(e, ".")

		if e != "" {
			set[e] = struct{}{}
		}
	}

	return set
}

// Accepted reports whether name's extension, the substring after its final dot, is in set.
// The match is case-sensitive and names without a dot never match.
func Accepted(name string, set map[string]struct{}) bool {
	idx := strings.LastIndexByte(name, '.')
	if idx < 0 {
		return false
	}

	_, ok := set[name[idx+1:]]

	return ok
}

// resolveRoot validates the root directory and returns its absolute, symlink-free form.
func resolveRoot(root string) (string, error) {
	if root == "" {
		return "", errs.New(errs.CodeInvalidConfig, "root directory is required")
	}

	abs, err := filepath.Abs(filepath.Clean(root))
	if err != nil {
		return "", errs.Wrap(fmt.Errorf("resolving absolute path: %w", err), errs.CodeInvalidConfig, "abs", root)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", errs.Wrap(fmt.Errorf("accessing path: %w", err), errs.CodeInvalidConfig, "stat", root)
	}

	if !info.IsDir() {
		return "", errs.New(errs.CodeInvalidConfig, "path %q is not a directory", root)
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", errs.Wrap(err, errs.CodeInvalidConfig, "resolve", root)
	}

	return resolved, nil
}

// Walk lists the candidates below opt.Root.
//
// Only the root itself can make the walk fail: a missing root or one that is
// not a directory yields errs.CodeInvalidConfig, a root that cannot be listed
// yields errs.CodeUnavailable. Errors on deeper entries are logged and skipped.
// Cancelling ctx aborts the walk with ctx's error.
//
// fastwalk traverses in parallel; the result is sorted by path.
//
//nolint:varnamelen // d is standard for DirEntry
func Walk(ctx context.Context, opt Options) ([]Candidate, error) {
	log := opt.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	root, err := resolveRoot(opt.Root)
	if err != nil {
		return nil, err
	}

	extensions := ExtensionSet(opt.Extensions)
	collector := &collector{}

	log.Debug("walking", "root", root, "recursive", opt.Recursive, "extensions", len(extensions))

	conf := &fastwalk.Config{
		Follow: false, // Symlinks are resolved later, never traversed
	}

	walkErr := fastwalk.Walk(conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if filepath.Clean(path) == root {
				return errs.Wrap(err, errs.CodeUnavailable, "list", root)
			}

			log.Debug("skipping unreadable entry", "path", path, "error", err)

			return nil
		}

		// Check cancellation periodically
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if d.IsDir() {
			if filepath.Clean(path) == root || opt.Recursive {
				return nil
			}

			log.Debug("skipping directory (not recursive)", "path", path)

			return filepath.SkipDir
		}

		typ := d.Type()
		if !typ.IsRegular() && typ&fs.ModeSymlink == 0 {
			return nil
		}

		if !Accepted(d.Name(), extensions) {
			return nil
		}

		collector.add(path)

		return nil
	})
	if walkErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, errs.Wrap(ctxErr, errs.CodeCanceled, "walk", root)
		}

		if errs.CodeOf(walkErr) == errs.CodeUnknown {
			walkErr = errs.Wrap(walkErr, errs.CodeUnavailable, "list", root)
		}

		return nil, walkErr
	}

	candidates := collector.finalize()

	log.Debug("walk finished", "root", root, "candidates", len(candidates))

	return candidates, nil
}
