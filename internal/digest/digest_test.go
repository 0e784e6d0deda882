package digest_test

import (
	"crypto/sha1" //nolint:gosec // Test vector
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/viddup/internal/digest"
	"github.com/idelchi/viddup/internal/errs"
)

func TestLookup_Registered(t *testing.T) {
	for _, name := range digest.Names() {
		t.Run(name, func(t *testing.T) {
			algo, err := digest.Lookup(name)
			require.NoError(t, err)
			assert.Equal(t, name, algo.Name())

			a := digest.Sum(algo, []byte("xyz"))
			b := digest.Sum(algo, []byte("xyz"))
			c := digest.Sum(algo, []byte("xyZ"))

			assert.Equal(t, a, b)
			assert.NotEqual(t, a, c)
			assert.Len(t, a, algo.New().Size())
		})
	}
}

func TestLookup_CaseInsensitive(t *testing.T) {
	algo, err := digest.Lookup("  SHA256 ")
	require.NoError(t, err)
	assert.Equal(t, "sha256", algo.Name())
}

func TestLookup_Unknown(t *testing.T) {
	_, err := digest.Lookup("md4")
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.CodeInvalidConfig))
	assert.Contains(t, err.Error(), "sha1")
}

func TestNames_Sorted(t *testing.T) {
	assert.Equal(t, []string{"blake3", "sha1", "sha256", "xxhash"}, digest.Names())
}

func TestSum_MatchesReference(t *testing.T) {
	want := sha1.Sum([]byte("hello"))
	got := digest.Sum(digest.MustLookup(digest.Default), []byte("hello"))

	assert.Equal(t, hex.EncodeToString(want[:]), got.String())
}

func TestSum_XXHash(t *testing.T) {
	h := xxhash.New()
	h.Write([]byte("hello"))

	got := digest.Sum(digest.MustLookup("xxhash"), []byte("hello"))

	assert.Equal(t, hex.EncodeToString(h.Sum(nil)), got.String())
}

func TestMustLookup_Panics(t *testing.T) {
	assert.Panics(t, func() { digest.MustLookup("nope") })
}

func TestDigest_MarshalsAsHex(t *testing.T) {
	d := digest.Digest{0xde, 0xad, 0xbe, 0xef}

	data, err := json.Marshal(map[string]digest.Digest{"d": d})
	require.NoError(t, err)
	assert.JSONEq(t, `{"d":"deadbeef"}`, string(data))
}
