package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/chrono-planner-api/internal/config"
)

func TestLocalStore_PutAndDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(filepath.Join(dir, "uploads"), "http://localhost:8080/files/")
	require.NoError(t, err)
	ctx := context.Background()

	obj, err := store.Put(ctx, "abc.png", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/files/abc.png", obj.URL)
	assert.Equal(t, "abc.png", obj.ID)

	data, err := os.ReadFile(filepath.Join(store.Dir(), "abc.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	_, err = store.Put(ctx, "abc.png", "image/png", strings.NewReader("again"))
	require.Error(t, err)

	require.NoError(t, store.Delete(ctx, obj.ID))
	_, err = os.Stat(filepath.Join(store.Dir(), "abc.png"))
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, store.Delete(ctx, obj.ID))
}

func TestLocalStore_RejectsTraversal(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "http://localhost/files")
	require.NoError(t, err)
	ctx := context.Background()

	for _, name := range []string{"", "../x.png", "a/b.png", ".env"} {
		_, err := store.Put(ctx, name, "", strings.NewReader("x"))
		assert.ErrorIs(t, err, ErrInvalidObjectName, name)
		assert.ErrorIs(t, store.Delete(ctx, name), ErrInvalidObjectName, name)
	}
}

func TestNew_UnknownDriver(t *testing.T) {
	_, err := New(config.StorageConfig{Driver: "s3"})
	require.Error(t, err)

	store, err := New(config.StorageConfig{Driver: "local", LocalDir: t.TempDir(), PublicURL: "http://x"})
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, store)
}
