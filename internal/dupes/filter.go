package dupes

import (
	"context"

	"github.com/idelchi/viddup/internal/enumerate"
	"github.com/idelchi/viddup/internal/errs"
)

// Filter returns candidates without the redundant copies found in buckets.
// The first member of each bucket is kept; every other member is dropped.
// Candidate order is preserved.
func Filter(candidates []enumerate.Candidate, buckets []Bucket) []enumerate.Candidate {
	redundant := make(map[string]struct{})

	for _, b := range buckets {
		for _, m := range b.Members[1:] {
			redundant[m.Path] = struct{}{}
		}
	}

	kept := make([]enumerate.Candidate, 0, len(candidates))

	for _, c := range candidates {
		if _, drop := redundant[c.Path]; !drop {
			kept = append(kept, c)
		}
	}

	return kept
}

// Advanced would group near-duplicate videos (re-encodes, trims) that are not byte-identical.
// It is not implemented and always fails with errs.ErrNotImplemented.
func Advanced(_ context.Context, _ []enumerate.Candidate) ([]Bucket, error) {
	return nil, errs.New(errs.CodeNotImplemented, "near-duplicate detection is not supported")
}
