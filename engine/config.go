package engine

import (
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/materia/engine/core"
)

/**
 * @brief Engine configuration, loadable from a TOML file. Hardware caps
 * given here override what the backend reports, which is mainly useful
 * for forcing degrade paths on capable machines.
 */
type Config struct {
	/** @brief The maximum number of distinct shader variants cached. */
	MaxEffectCount uint32 `toml:"max_effect_count"`
	/** @brief The maximum number of textures registered at once. */
	MaxTextureCount uint32 `toml:"max_texture_count"`
	/** @brief The maximum number of materials held in the system. */
	MaxMaterialCount uint32 `toml:"max_material_count"`

	/** @brief Global kill switch for texture sampling. */
	TexturesEnabled bool `toml:"textures_enabled"`

	/** @brief Overrides the backend's bone-per-draw limit when > 0. */
	MaxBones uint32 `toml:"max_bones"`
	/** @brief Overrides the backend's light limit when > 0. */
	MaxSimultaneousLights uint32 `toml:"max_simultaneous_lights"`

	/** @brief Directory of .vert/.frag sources watched for hot reload. */
	ShaderDir string `toml:"shader_dir"`
}

// DefaultConfig returns the configuration used when no file is supplied.
func DefaultConfig() *Config {
	return &Config{
		MaxEffectCount:   512,
		MaxTextureCount:  1024,
		MaxMaterialCount: 1024,
		TexturesEnabled:  true,
	}
}

// LoadConfig reads a TOML configuration file, filling unset fields with
// defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		core.LogError("config: cannot parse '%s': %s", path, err.Error())
		return nil, err
	}
	return config, nil
}
