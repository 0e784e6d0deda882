package dupes

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/idelchi/viddup/internal/digest"
	"github.com/idelchi/viddup/internal/enumerate"
	"github.com/idelchi/viddup/internal/hasher"
)

// Options configures a complete scan.
type Options struct {
	// Path is the directory to scan.
	Path string
	// Recursive descends into subdirectories.
	Recursive bool
	// Extensions are the accepted extensions (empty = enumerate.DefaultExtensions).
	Extensions []string
	// Algorithm is the digest algorithm name (empty = digest.Default).
	Algorithm string
	// ChunkSize is the read size for full digests in bytes (0 = default).
	ChunkSize int
	// PartialSize is the prefix length for partial digests in bytes (0 = default).
	PartialSize int
	// Workers bounds hashing concurrency (0 = runtime.NumCPU()).
	Workers int
	// Advanced requests the near-duplicate pass after exact detection.
	Advanced bool
	// ProgressInterval controls progress callback cadence.
	ProgressInterval time.Duration
	// Logger receives debug records; nil discards them.
	Logger *slog.Logger
}

// Run scans opt.Path and returns its duplicate buckets.
//
// The pipeline is: enumerate candidates, detect exact duplicates, drop the
// redundant copies from the candidate list (Result.Remaining), and, if
// opt.Advanced is set, run the near-duplicate pass, which fails with
// errs.ErrNotImplemented.
//
// Only an invalid configuration or an unreadable root fails the run;
// per-file errors are absorbed. progressHook, if not nil, receives periodic
// updates during detection.
func Run(ctx context.Context, opt Options, progressHook func(Progress)) (*Result, error) {
	if opt.Algorithm == "" {
		opt.Algorithm = digest.Default
	}

	algo, err := digest.Lookup(opt.Algorithm)
	if err != nil {
		return nil, err
	}

	candidates, err := enumerate.Walk(ctx, enumerate.Options{
		Root:       opt.Path,
		Recursive:  opt.Recursive,
		Extensions: opt.Extensions,
		Logger:     opt.Logger,
	})
	if err != nil {
		return nil, err
	}

	h := hasher.New(
		hasher.WithAlgorithm(algo),
		hasher.WithChunkSize(opt.ChunkSize),
		hasher.WithPartialSize(opt.PartialSize),
	)

	detector := New(
		WithHasher(h, algo.Name()),
		WithWorkers(opt.Workers),
		WithLogger(opt.Logger),
		WithProgress(progressHook, opt.ProgressInterval),
	)

	result, err := detector.Detect(ctx, candidates)
	if err != nil {
		return nil, err
	}

	result.Remaining = Filter(candidates, result.Buckets)

	if opt.Advanced {
		if _, err := Advanced(ctx, result.Remaining); err != nil {
			return nil, fmt.Errorf("advanced detection: %w", err)
		}
	}

	return result, nil
}
