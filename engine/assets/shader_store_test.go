package assets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/materia/engine/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *ShaderStore {
	t.Helper()
	store, err := NewShaderStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Shutdown() })
	return store
}

func TestRegisterAndGet(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.RegisterSource("default", "vertex text", "fragment text"))

	src, err := store.Get("default")
	require.NoError(t, err)
	assert.Equal(t, "vertex text", src.VertexSource)
	assert.Equal(t, "fragment text", src.FragmentSource)
	assert.Equal(t, uint64(1), src.Generation)

	_, err = store.Get("missing")
	assert.Error(t, err)
}

func TestReRegisterBumpsGeneration(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.RegisterSource("default", "v1", "f1"))
	require.NoError(t, store.RegisterSource("default", "v2", "f2"))

	assert.Equal(t, uint64(2), store.Generation("default"))
	src, err := store.Get("default")
	require.NoError(t, err)
	assert.Equal(t, "v2", src.VertexSource)

	// Unknown sources report generation zero.
	assert.Equal(t, uint64(0), store.Generation("missing"))
}

func TestGetReturnsSnapshot(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.RegisterSource("default", "v1", "f1"))

	src, err := store.Get("default")
	require.NoError(t, err)
	require.NoError(t, store.RegisterSource("default", "v2", "f2"))

	// The earlier snapshot is unaffected by the reload.
	assert.Equal(t, "v1", src.VertexSource)
	assert.Equal(t, uint64(1), src.Generation)
}

func TestWatchDirectoryLoadsExistingPairs(t *testing.T) {
	store := newTestStore(t)
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "basic.vert"), []byte("vertex text"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "basic.frag"), []byte("fragment text"), 0o644))
	// Non-shader files are skipped, not fatal.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o644))

	require.NoError(t, store.WatchDirectory(dir))

	src, err := store.Get("basic")
	require.NoError(t, err)
	assert.Equal(t, "vertex text", src.VertexSource)
	assert.Equal(t, "fragment text", src.FragmentSource)
	// One bump per loaded stage.
	assert.Equal(t, uint64(2), src.Generation)
}

func TestShutdownClosesStore(t *testing.T) {
	store, err := NewShaderStore()
	require.NoError(t, err)

	require.NoError(t, store.Shutdown())
	assert.ErrorIs(t, store.RegisterSource("default", "v", "f"), core.ErrStoreClosed)
	assert.ErrorIs(t, store.WatchDirectory(t.TempDir()), core.ErrStoreClosed)
	assert.ErrorIs(t, store.Shutdown(), core.ErrStoreClosed)
}
