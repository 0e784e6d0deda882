package enumerate_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/viddup/internal/enumerate"
	"github.com/idelchi/viddup/internal/errs"
)

func touch(t *testing.T, path string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

// tempRoot returns a temp dir with symlinks resolved so paths compare equal to Walk's output.
func tempRoot(t *testing.T) string {
	t.Helper()

	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	return root
}

func paths(candidates []enumerate.Candidate) []string {
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.Path)
	}

	return out
}

func TestWalk_FiltersByExtension(t *testing.T) {
	root := tempRoot(t)

	for _, name := range []string{"a.mp4", "b.mov", "c.webm", "d.mkv", "e.txt", "mp4", "f.MP4", "g.tar.mp4"} {
		touch(t, filepath.Join(root, name))
	}

	got, err := enumerate.Walk(context.Background(), enumerate.Options{Root: root})
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "a.mp4"),
		filepath.Join(root, "b.mov"),
		filepath.Join(root, "c.webm"),
		filepath.Join(root, "g.tar.mp4"),
	}, paths(got))
}

func TestWalk_NonRecursiveStaysAtTopLevel(t *testing.T) {
	root := tempRoot(t)
	touch(t, filepath.Join(root, "top.mp4"))
	touch(t, filepath.Join(root, "sub", "nested.mp4"))
	touch(t, filepath.Join(root, "sub", "deeper", "deep.mp4"))

	got, err := enumerate.Walk(context.Background(), enumerate.Options{Root: root})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "top.mp4")}, paths(got))
}

func TestWalk_Recursive(t *testing.T) {
	root := tempRoot(t)
	touch(t, filepath.Join(root, "top.mp4"))
	touch(t, filepath.Join(root, "sub", "nested.mp4"))
	touch(t, filepath.Join(root, "sub", "deeper", "deep.mov"))

	got, err := enumerate.Walk(context.Background(), enumerate.Options{Root: root, Recursive: true})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "sub", "deeper", "deep.mov"),
		filepath.Join(root, "sub", "nested.mp4"),
		filepath.Join(root, "top.mp4"),
	}, paths(got))
}

func TestWalk_CustomExtensions(t *testing.T) {
	root := tempRoot(t)
	touch(t, filepath.Join(root, "a.mp4"))
	touch(t, filepath.Join(root, "b.mkv"))

	got, err := enumerate.Walk(context.Background(), enumerate.Options{Root: root, Extensions: []string{".mkv"}})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "b.mkv")}, paths(got))
}

func TestWalk_KeepsSymlinks(t *testing.T) {
	root := tempRoot(t)
	target := filepath.Join(root, "real.mp4")
	touch(t, target)

	link := filepath.Join(root, "link.mp4")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	got, err := enumerate.Walk(context.Background(), enumerate.Options{Root: root})
	require.NoError(t, err)
	assert.Equal(t, []string{link, target}, paths(got))
}

func TestWalk_EmptyDirectory(t *testing.T) {
	got, err := enumerate.Walk(context.Background(), enumerate.Options{Root: tempRoot(t), Recursive: true})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestWalk_InvalidRoot(t *testing.T) {
	root := tempRoot(t)
	file := filepath.Join(root, "file.mp4")
	touch(t, file)

	tests := []struct {
		name string
		root string
	}{
		{"empty", ""},
		{"missing", filepath.Join(root, "nope")},
		{"not a directory", file},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := enumerate.Walk(context.Background(), enumerate.Options{Root: tt.root})
			require.Error(t, err)
			assert.True(t, errs.Is(err, errs.CodeInvalidConfig), "got %v", err)
		})
	}
}

func TestWalk_Cancelled(t *testing.T) {
	root := tempRoot(t)
	touch(t, filepath.Join(root, "a.mp4"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := enumerate.Walk(ctx, enumerate.Options{Root: root})
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.CodeCanceled))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAccepted(t *testing.T) {
	set := enumerate.ExtensionSet(nil)

	assert.True(t, enumerate.Accepted("clip.mp4", set))
	assert.True(t, enumerate.Accepted(".mov", set))
	assert.False(t, enumerate.Accepted("clip.Mp4", set))
	assert.False(t, enumerate.Accepted("clip.mp4.bak", set))
	assert.False(t, enumerate.Accepted("webm", set))
}

func TestExtensionSet_Normalizes(t *testing.T) {
	set := enumerate.ExtensionSet([]string{".mp4", `"mkv"`, " avi ", ""})

	assert.Equal(t, map[string]struct{}{"mp4": {}, "mkv": {}, "avi": {}}, set)
}
