package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *LocalStorage {
	t.Helper()
	s, err := NewLocalStorage(t.TempDir(), "/api/v1/images/")
	require.NoError(t, err)
	return s
}

func TestLocalStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	key, err := s.Upload(ctx, strings.NewReader("webp bytes"), "01HZX.webp", "image/webp")
	require.NoError(t, err)
	assert.Equal(t, "01HZX.webp", key)

	ok, err := s.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := s.Download(ctx, key)
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "webp bytes", string(body))

	assert.Equal(t, "/api/v1/images/01HZX.webp", s.GetURL(key))

	require.NoError(t, s.Delete(ctx, key))
	ok, err = s.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting twice is fine.
	assert.NoError(t, s.Delete(ctx, key))
}

func TestLocalStorage_NotFound(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.Download(context.Background(), "missing.webp")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s, err := NewLocalStorage(filepath.Join(root, "images"), "")
	require.NoError(t, err)

	// A sibling directory sharing the prefix must not be reachable.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "images-private"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "images-private", "secret"), []byte("x"), 0644))

	for _, p := range []string{"../images-private/secret", "../../etc/passwd", "/etc/passwd", "", "."} {
		_, err := s.Download(ctx, p)
		assert.ErrorIs(t, err, ErrInvalidPath, "path %q", p)

		_, err = s.Upload(ctx, strings.NewReader("x"), p, "text/plain")
		assert.ErrorIs(t, err, ErrInvalidPath, "path %q", p)
	}
}

func TestLocalStorage_NestedKeys(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	key, err := s.Upload(ctx, strings.NewReader("x"), "blog/a/../b.webp", "image/webp")
	require.NoError(t, err)
	assert.Equal(t, "blog/b.webp", key)

	ok, err := s.Exists(ctx, "blog/b.webp")
	require.NoError(t, err)
	assert.True(t, ok)
}
