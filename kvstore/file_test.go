package kvstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, ok, err := store.Get(ctx, "history")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "history", []byte(`[{"id":"1"}]`)))

	got, ok, err := store.Get(ctx, "history")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte(`[{"id":"1"}]`), got)

	require.NoError(t, store.Remove(ctx, "history"))
	_, ok, err = store.Get(ctx, "history")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, store.Remove(ctx, "history"))
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "slot", []byte("durable")))

	reopened, err := NewFileStore(dir)
	require.NoError(t, err)

	got, ok, err := reopened.Get(ctx, "slot")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("durable"), got)
}

func TestFileStore_RejectsTraversalKeys(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "../escape", "/absolute", ".."} {
		assert.Error(t, store.Set(ctx, key, []byte("x")), "key %q", key)
	}
}

func TestFileStore_NoTempFileLeftBehind(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set(ctx, "slot", []byte("value")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, entry := range entries {
		assert.NotEqual(t, ".tmp", filepath.Ext(entry.Name()))
	}
}

func TestNewFileStore_RequiresBasePath(t *testing.T) {
	_, err := NewFileStore("   ")
	assert.Error(t, err)
}
