package dupes

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/idelchi/viddup/internal/digest"
	"github.com/idelchi/viddup/internal/enumerate"
	"github.com/idelchi/viddup/internal/errs"
	"github.com/idelchi/viddup/internal/hasher"
)

// Hasher computes the digests the detector compares.
// *hasher.Hasher is the production implementation.
type Hasher interface {
	Partial(path string) (digest.Digest, error)
	Full(path string) (digest.Digest, error)
}

// Detector finds groups of byte-identical files.
// A Detector holds no state between runs and may be reused.
type Detector struct {
	hasher           Hasher
	algorithm        string
	workers          int
	log              *slog.Logger
	progressHook     func(Progress)
	progressInterval time.Duration
}

// Option configures a Detector.
type Option func(*Detector)

// WithHasher sets the hasher. name is the algorithm name reported in results.
func WithHasher(h Hasher, name string) Option {
	return func(d *Detector) {
		if h != nil {
			d.hasher = h
			d.algorithm = name
		}
	}
}

// WithWorkers bounds the number of files hashed concurrently within a tier.
// 1 hashes sequentially; values below 1 are ignored.
func WithWorkers(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.workers = n
		}
	}
}

// WithLogger sets the logger for debug records about skipped files and tier summaries.
func WithLogger(log *slog.Logger) Option {
	return func(d *Detector) {
		if log != nil {
			d.log = log
		}
	}
}

// WithProgress registers a hook called periodically with the current tier's progress.
func WithProgress(hook func(Progress), interval time.Duration) Option {
	return func(d *Detector) {
		d.progressHook = hook
		d.progressInterval = interval
	}
}

// New creates a Detector. By default it hashes with SHA-1 using runtime.NumCPU() workers.
func New(opts ...Option) *Detector {
	h := hasher.New()

	d := &Detector{
		hasher:    h,
		algorithm: h.Algorithm().Name(),
		workers:   runtime.NumCPU(),
		log:       slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Detect groups candidates into buckets of identical files.
//
// Candidates are refined in three tiers: by size, by the digest of their
// first chunk, and by the digest of their whole content. A group with a
// single member never reaches the next tier. Candidates that vanish or
// cannot be read are dropped and counted in Stats.Skipped; they never fail
// the run.
//
// Bucket and member order follow candidate order for any worker count.
// If ctx is cancelled no further file is hashed and Detect returns an
// errs.CodeCanceled error wrapping ctx.Err().
func (d *Detector) Detect(ctx context.Context, candidates []enumerate.Candidate) (*Result, error) {
	start := time.Now()
	stats := Stats{Candidates: len(candidates)}

	progress := newTracker()

	reporterCtx, cancel := context.WithCancel(ctx)
	wait := startProgressReporter(reporterCtx, progress, d.progressHook, d.progressInterval)

	defer func() {
		cancel()
		wait()
	}()

	// Tier 1: size.
	progress.begin(TierSize, len(candidates))

	bySize, skipped, err := d.sizeTier(ctx, candidates, progress)
	if err != nil {
		return nil, err
	}

	stats.Skipped += skipped

	sizeMatched := flatten(bySize.multiples())
	stats.SizeMatched = len(sizeMatched)

	d.log.Debug("size tier done", "candidates", len(candidates), "size_matched", len(sizeMatched), "skipped", skipped)

	// Tier 2: partial digest, keyed by size and digest.
	type partialKey struct {
		size   int64
		digest string
	}

	progress.begin(TierPartial, len(sizeMatched))

	partials, err := d.hashTier(ctx, sizeMatched, d.hasher.Partial, progress)
	if err != nil {
		return nil, err
	}

	stats.PartialHashes = int64(len(sizeMatched))

	byPartial := newGroups[partialKey]()

	for i, m := range sizeMatched {
		if partials[i] == nil {
			stats.Skipped++

			continue
		}

		byPartial.add(partialKey{size: m.Size, digest: partials[i].Key()}, m)
	}

	partialMatched := flatten(byPartial.multiples())

	d.log.Debug("partial tier done", "hashed", len(sizeMatched), "partial_matched", len(partialMatched))

	// Tier 3: full digest. Keys are global, so groups from tier 2 may merge.
	progress.begin(TierFull, len(partialMatched))

	fulls, err := d.hashTier(ctx, partialMatched, d.hasher.Full, progress)
	if err != nil {
		return nil, err
	}

	stats.FullHashes = int64(len(partialMatched))

	byFull := newGroups[string]()
	digests := make(map[string]digest.Digest)

	for i, m := range partialMatched {
		if fulls[i] == nil {
			stats.Skipped++

			continue
		}

		key := fulls[i].Key()
		digests[key] = fulls[i]
		byFull.add(key, m)
	}

	confirmed := byFull.multiples()
	buckets := make([]Bucket, 0, len(confirmed))

	for _, e := range confirmed {
		buckets = append(buckets, Bucket{
			Digest:  digests[e.key],
			Size:    e.members[0].Size,
			Members: e.members,
		})
	}

	stats.Elapsed = time.Since(start)

	d.log.Debug("full tier done", "hashed", len(partialMatched), "buckets", len(buckets), "skipped", stats.Skipped)

	return &Result{
		Algorithm: d.algorithm,
		Buckets:   buckets,
		Stats:     stats,
	}, nil
}

// sizeTier resolves and stats every candidate and groups them by size.
// Candidates resolving to an already seen file are folded into it.
func (d *Detector) sizeTier(ctx context.Context, candidates []enumerate.Candidate, progress *tracker) (*groups[int64], int, error) {
	bySize := newGroups[int64]()
	seen := make(map[string]struct{}, len(candidates))
	skipped := 0

	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, 0, errs.Wrap(err, errs.CodeCanceled, "detect", "")
		}

		m, err := resolve(c.Path)

		progress.step()

		if err != nil {
			d.log.Debug("skipping candidate", "path", c.Path, "error", err)

			skipped++

			continue
		}

		if _, dup := seen[m.Resolved]; dup {
			d.log.Debug("skipping alias of seen file", "path", c.Path, "resolved", m.Resolved)

			continue
		}

		seen[m.Resolved] = struct{}{}

		bySize.add(m.Size, m)
	}

	return bySize, skipped, nil
}

// resolve follows symlinks and stats the target. Only regular files qualify.
func resolve(path string) (Member, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return Member{}, errs.Wrap(err, errs.CodeUnavailable, "resolve", path)
	}

	if abs, err := filepath.Abs(resolved); err == nil {
		resolved = abs
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return Member{}, errs.Wrap(err, errs.CodeUnavailable, "stat", resolved)
	}

	if !info.Mode().IsRegular() {
		return Member{}, errs.New(errs.CodeUnavailable, "%q is not a regular file", resolved)
	}

	return Member{Path: path, Resolved: resolved, Size: info.Size()}, nil
}

// hashTier digests every member with fn using at most d.workers goroutines.
// The result is index-aligned with members; a nil entry marks a skipped member.
// All hashing of the tier has finished when hashTier returns.
func (d *Detector) hashTier(
	ctx context.Context,
	members []Member,
	fn func(string) (digest.Digest, error),
	progress *tracker,
) ([]digest.Digest, error) {
	results := make([]digest.Digest, len(members))

	var group errgroup.Group

	group.SetLimit(d.workers)

	for i, m := range members {
		if ctx.Err() != nil {
			break
		}

		group.Go(func() error {
			defer progress.step()

			if ctx.Err() != nil {
				return nil
			}

			sum, err := fn(m.Resolved)
			if err != nil {
				d.log.Debug("skipping candidate", "path", m.Path, "error", err)

				return nil
			}

			results[i] = sum

			return nil
		})
	}

	// Workers never return errors; per-file failures are recorded as nil slots.
	_ = group.Wait()

	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, errs.CodeCanceled, "detect", "")
	}

	return results, nil
}
