package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	assert.Equal(t, uint32(512), config.MaxEffectCount)
	assert.Equal(t, uint32(1024), config.MaxTextureCount)
	assert.Equal(t, uint32(1024), config.MaxMaterialCount)
	assert.True(t, config.TexturesEnabled)
	assert.Equal(t, uint32(0), config.MaxBones)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "materia.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
max_effect_count = 64
max_bones = 32
textures_enabled = false
shader_dir = "shaders"
`), 0o644))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, uint32(64), config.MaxEffectCount)
	assert.Equal(t, uint32(32), config.MaxBones)
	assert.False(t, config.TexturesEnabled)
	assert.Equal(t, "shaders", config.ShaderDir)

	// Unset fields keep their defaults.
	assert.Equal(t, uint32(1024), config.MaxTextureCount)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.toml")
	require.NoError(t, os.WriteFile(path, []byte("max_effect_count = [not toml"), 0o644))
	_, err = LoadConfig(path)
	assert.Error(t, err)
}
