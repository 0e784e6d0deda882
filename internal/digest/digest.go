// Package digest provides the pluggable digest algorithms used to fingerprint files.
//
// An Algorithm hands out fresh hash.Hash values; hash.Hash already is the
// init/update/finalize capability (New, Write, Sum), so callers never depend
// on a concrete implementation.
package digest

import (
	"crypto/sha1" //nolint:gosec // SHA-1 is used for content identity, not for security
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/blake3"

	"github.com/idelchi/viddup/internal/errs"
)

// Default is the name of the algorithm used when none is configured.
const Default = "sha1"

// Algorithm produces hashers for a named digest.
type Algorithm interface {
	// Name is the registry name of the algorithm.
	Name() string
	// New returns a fresh hasher.
	New() hash.Hash
}

// Digest is the fixed-size fingerprint produced by an Algorithm.
type Digest []byte

// String returns the lowercase hex form of the digest.
func (d Digest) String() string { return hex.EncodeToString(d) }

// MarshalText encodes the digest as hex, which is also its JSON form.
func (d Digest) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// Key returns the digest as a comparable map key.
func (d Digest) Key() string { return string(d) }

type algorithm struct {
	name string
	new  func() hash.Hash
}

func (a algorithm) Name() string   { return a.name }
func (a algorithm) New() hash.Hash { return a.new() }

//nolint:gochecknoglobals // Registry of built-in algorithms
var registry = map[string]Algorithm{
	"sha1":   algorithm{name: "sha1", new: sha1.New},
	"sha256": algorithm{name: "sha256", new: sha256.New},
	"blake3": algorithm{name: "blake3", new: func() hash.Hash { return blake3.New() }},
	// xxhash is not collision resistant; it trades safety for speed on trusted trees.
	"xxhash": algorithm{name: "xxhash", new: func() hash.Hash { return xxhash.New() }},
}

// Lookup returns the algorithm registered under name (case-insensitive).
func Lookup(name string) (Algorithm, error) {
	algo, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, errs.New(errs.CodeInvalidConfig, "unknown digest algorithm %q: must be one of %v", name, Names())
	}

	return algo, nil
}

// MustLookup is like Lookup but panics on unknown names.
func MustLookup(name string) Algorithm {
	algo, err := Lookup(name)
	if err != nil {
		panic(err)
	}

	return algo
}

// Names returns the registered algorithm names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// Sum digests data in one go.
func Sum(algo Algorithm, data []byte) Digest {
	h := algo.New()
	h.Write(data)

	return h.Sum(nil)
}
