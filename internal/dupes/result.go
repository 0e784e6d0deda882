package dupes

import (
	"time"

	"github.com/idelchi/viddup/internal/digest"
	"github.com/idelchi/viddup/internal/enumerate"
)

// Member is a candidate whose symlinks have been resolved and whose size is known.
type Member struct {
	// Path is the candidate path as enumerated.
	Path string `json:"path"`
	// Resolved is the absolute path of the file Path points to.
	Resolved string `json:"resolved"`
	// Size is the file size in bytes.
	Size int64 `json:"size"`
}

// Bucket is a set of byte-identical files, in discovery order. It always has at least two members.
type Bucket struct {
	// Digest is the full-content digest shared by all members.
	Digest digest.Digest `json:"digest"`
	// Size is the size in bytes of each member.
	Size int64 `json:"size"`
	// Members are the identical files.
	Members []Member `json:"members"`
}

// Paths returns the resolved member paths.
func (b Bucket) Paths() []string {
	paths := make([]string, 0, len(b.Members))
	for _, m := range b.Members {
		paths = append(paths, m.Resolved)
	}

	return paths
}

// Redundant returns the number of copies beyond the first.
func (b Bucket) Redundant() int {
	return len(b.Members) - 1
}

// Reclaimable returns the bytes freed by keeping only the first member.
func (b Bucket) Reclaimable() int64 {
	return int64(b.Redundant()) * b.Size
}

// Stats describes the work done by one detection run.
type Stats struct {
	// Candidates is the number of candidates handed to the detector.
	Candidates int `json:"candidates"`
	// Skipped is the number of candidates dropped because they became unavailable.
	Skipped int `json:"skipped"`
	// SizeMatched is the number of files that shared their size with another file.
	SizeMatched int `json:"size_matched"`
	// PartialHashes is the number of partial digests computed.
	PartialHashes int64 `json:"partial_hashes"`
	// FullHashes is the number of full digests computed.
	FullHashes int64 `json:"full_hashes"`
	// Elapsed is the wall time of the run.
	Elapsed time.Duration `json:"elapsed"`
}

// Result is the outcome of a detection run.
type Result struct {
	// Algorithm is the digest algorithm used.
	Algorithm string `json:"algorithm"`
	// Buckets are the confirmed duplicate groups.
	Buckets []Bucket `json:"buckets"`
	// Remaining are the candidates left after dropping redundant copies.
	// Only populated by Run.
	Remaining []enumerate.Candidate `json:"remaining,omitempty"`
	// Stats describes the run.
	Stats Stats `json:"stats"`
}

// DuplicateCount returns the number of redundant copies across all buckets:
// the sum of len(bucket)-1, not the number of files in buckets.
func (r *Result) DuplicateCount() int {
	count := 0
	for _, b := range r.Buckets {
		count += b.Redundant()
	}

	return count
}

// Reclaimable returns the bytes freed by removing all redundant copies.
func (r *Result) Reclaimable() int64 {
	var total int64
	for _, b := range r.Buckets {
		total += b.Reclaimable()
	}

	return total
}

// Paths returns the buckets as ordered lists of resolved paths.
func (r *Result) Paths() [][]string {
	out := make([][]string, 0, len(r.Buckets))
	for _, b := range r.Buckets {
		out = append(out, b.Paths())
	}

	return out
}
