package dupes_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/viddup/internal/dupes"
	"github.com/idelchi/viddup/internal/enumerate"
	"github.com/idelchi/viddup/internal/errs"
)

func TestFilter_KeepsFirstMemberOfEachBucket(t *testing.T) {
	cands := candidates("/v/a.mp4", "/v/b.mp4", "/v/c.mp4", "/v/d.mp4", "/v/e.mp4")
	buckets := []dupes.Bucket{
		{Members: []dupes.Member{{Path: "/v/b.mp4"}, {Path: "/v/d.mp4"}}},
		{Members: []dupes.Member{{Path: "/v/a.mp4"}, {Path: "/v/c.mp4"}, {Path: "/v/e.mp4"}}},
	}

	got := dupes.Filter(cands, buckets)

	assert.Equal(t, candidates("/v/a.mp4", "/v/b.mp4"), got)
}

func TestFilter_NoBuckets(t *testing.T) {
	cands := candidates("/v/a.mp4", "/v/b.mp4")

	assert.Equal(t, cands, dupes.Filter(cands, nil))
}

func TestAdvanced_NotImplemented(t *testing.T) {
	buckets, err := dupes.Advanced(context.Background(), candidates("/v/a.mp4"))

	assert.Nil(t, buckets)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrNotImplemented)
}

func TestRun_ScenarioA(t *testing.T) {
	root := tempRoot(t)
	a := write(t, filepath.Join(root, "A.mp4"), []byte("xyz"))
	b := write(t, filepath.Join(root, "B.mp4"), []byte("xyz"))
	c := write(t, filepath.Join(root, "C.mp4"), []byte("xyZ"))

	result, err := dupes.Run(context.Background(), dupes.Options{Path: root}, nil)
	require.NoError(t, err)

	assert.Equal(t, [][]string{{a, b}}, result.Paths())
	assert.Equal(t, 1, result.DuplicateCount())
	assert.Equal(t, []enumerate.Candidate{{Path: a}, {Path: c}}, result.Remaining)
	assert.Equal(t, "sha1", result.Algorithm)
}

func TestRun_ScenarioC_RecursionControlsDetection(t *testing.T) {
	root := tempRoot(t)
	top := write(t, filepath.Join(root, "top.mp4"), []byte("duplicate me"))
	nested := write(t, filepath.Join(root, "sub", "copy.mov"), []byte("duplicate me"))

	flat, err := dupes.Run(context.Background(), dupes.Options{Path: root}, nil)
	require.NoError(t, err)
	assert.Empty(t, flat.Buckets)
	assert.Equal(t, 1, flat.Stats.Candidates)

	deep, err := dupes.Run(context.Background(), dupes.Options{Path: root, Recursive: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{nested, top}}, deep.Paths())
}

func TestRun_AlgorithmsAgree(t *testing.T) {
	root := tempRoot(t)
	write(t, filepath.Join(root, "a.mp4"), []byte("same bytes"))
	write(t, filepath.Join(root, "b.webm"), []byte("same bytes"))
	write(t, filepath.Join(root, "c.mov"), []byte("diff bytes"))

	var reference [][]string

	for _, name := range []string{"sha1", "sha256", "blake3", "xxhash"} {
		result, err := dupes.Run(context.Background(), dupes.Options{
			Path:        root,
			Algorithm:   name,
			ChunkSize:   3,
			PartialSize: 2,
			Workers:     2,
		}, nil)
		require.NoError(t, err, name)
		assert.Equal(t, name, result.Algorithm)

		if reference == nil {
			reference = result.Paths()
		}

		assert.Equal(t, reference, result.Paths(), name)
	}

	assert.Len(t, reference, 1)
}

func TestRun_UnknownAlgorithm(t *testing.T) {
	_, err := dupes.Run(context.Background(), dupes.Options{Path: tempRoot(t), Algorithm: "crc1"}, nil)

	assert.True(t, errs.Is(err, errs.CodeInvalidConfig))
}

func TestRun_MissingRoot(t *testing.T) {
	_, err := dupes.Run(context.Background(), dupes.Options{Path: filepath.Join(tempRoot(t), "missing")}, nil)

	assert.True(t, errs.Is(err, errs.CodeInvalidConfig))
}

func TestRun_AdvancedFailsLoudly(t *testing.T) {
	root := tempRoot(t)
	write(t, filepath.Join(root, "a.mp4"), []byte("x"))

	result, err := dupes.Run(context.Background(), dupes.Options{Path: root, Advanced: true}, nil)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, errs.ErrNotImplemented)
}

func TestRun_EmptyDirectory(t *testing.T) {
	result, err := dupes.Run(context.Background(), dupes.Options{Path: tempRoot(t), Recursive: true}, nil)
	require.NoError(t, err)

	assert.Empty(t, result.Buckets)
	assert.Empty(t, result.Remaining)
}
