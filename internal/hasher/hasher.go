// Package hasher computes partial and full content digests of files.
//
// A partial digest covers only the first PartialSize bytes of a file and is
// used as a cheap pre-filter; a full digest streams the whole file through a
// ChunkReader. Each call opens and closes its own file handle.
package hasher

import (
	"fmt"
	"os"

	"github.com/idelchi/viddup/internal/digest"
	"github.com/idelchi/viddup/internal/errs"
)

// DefaultPartialSize is the prefix length of a partial digest.
const DefaultPartialSize = 1024

// Hasher computes file digests with a configured algorithm.
type Hasher struct {
	algo        digest.Algorithm
	chunkSize   int
	partialSize int
}

// Option configures a Hasher.
type Option func(*Hasher)

// WithAlgorithm selects the digest algorithm.
func WithAlgorithm(algo digest.Algorithm) Option {
	return func(h *Hasher) {
		if algo != nil {
			h.algo = algo
		}
	}
}

// WithChunkSize sets the read size used for full digests.
func WithChunkSize(size int) Option {
	return func(h *Hasher) {
		if size > 0 {
			h.chunkSize = size
		}
	}
}

// WithPartialSize sets the prefix length used for partial digests.
func WithPartialSize(size int) Option {
	return func(h *Hasher) {
		if size > 0 {
			h.partialSize = size
		}
	}
}

// New creates a Hasher. Without options it uses SHA-1 and 1 KiB chunks.
func New(opts ...Option) *Hasher {
	h := &Hasher{
		algo:        digest.MustLookup(digest.Default),
		chunkSize:   DefaultChunkSize,
		partialSize: DefaultPartialSize,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Algorithm returns the configured digest algorithm.
func (h *Hasher) Algorithm() digest.Algorithm { return h.algo }

// Partial returns the digest of the first PartialSize bytes of path.
func (h *Hasher) Partial(path string) (digest.Digest, error) {
	return h.Hash(path, false)
}

// Full returns the digest of the complete content of path.
func (h *Hasher) Full(path string) (digest.Digest, error) {
	return h.Hash(path, true)
}

// Hash digests path, either completely or only its first chunk.
//
// Failing to open the file yields an errs.CodeUnavailable error; failing to
// read it yields errs.CodeHashFailed. Both mean "skip this file".
func (h *Hasher) Hash(path string, full bool) (digest.Digest, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(err, errs.CodeUnavailable, "open", path)
	}
	defer file.Close()

	sum := h.algo.New()

	size := h.chunkSize
	if !full {
		size = h.partialSize
	}

	chunks := NewChunkReader(file, size)

	for chunks.Next() {
		// hash.Hash.Write never returns an error.
		sum.Write(chunks.Chunk())

		if !full {
			break
		}
	}

	if err := chunks.Err(); err != nil {
		return nil, errs.Wrap(fmt.Errorf("reading file: %w", err), errs.CodeHashFailed, "read", path)
	}

	return sum.Sum(nil), nil
}
