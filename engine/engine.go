package engine

import (
	"github.com/spaghettifunk/materia/engine/assets"
	"github.com/spaghettifunk/materia/engine/core"
	"github.com/spaghettifunk/materia/engine/renderer"
	"github.com/spaghettifunk/materia/engine/renderer/metadata"
	"github.com/spaghettifunk/materia/engine/systems"
)

/**
 * @brief Engine wires the scene, the shader store and the systems onto a
 * renderer backend. One engine drives one scene from a single render
 * thread; the only asynchronous element is effect compilation inside the
 * backend.
 */
type Engine struct {
	Scene *metadata.Scene
	Store *assets.ShaderStore

	Effects   *systems.EffectSystem
	Textures  *systems.TextureSystem
	Materials *systems.MaterialSystem

	backend renderer.RendererBackend
}

func New(config *Config, backend renderer.RendererBackend) (*Engine, error) {
	if err := backend.Initialize(); err != nil {
		return nil, err
	}

	caps := backend.Caps()
	if config.MaxBones > 0 {
		caps.MaxBones = config.MaxBones
	}
	if config.MaxSimultaneousLights > 0 {
		caps.MaxSimultaneousLights = config.MaxSimultaneousLights
	}

	scene := metadata.NewScene(caps)
	scene.TexturesEnabled = config.TexturesEnabled

	store, err := assets.NewShaderStore()
	if err != nil {
		return nil, err
	}
	if config.ShaderDir != "" {
		if err := store.WatchDirectory(config.ShaderDir); err != nil {
			return nil, err
		}
	}

	effects, err := systems.NewEffectSystem(&systems.EffectSystemConfig{
		MaxEffectCount: config.MaxEffectCount,
	}, backend, store)
	if err != nil {
		return nil, err
	}

	textures, err := systems.NewTextureSystem(&systems.TextureSystemConfig{
		MaxTextureCount: config.MaxTextureCount,
	}, backend)
	if err != nil {
		return nil, err
	}

	materials, err := systems.NewMaterialSystem(&systems.MaterialSystemConfig{
		MaxMaterialCount: config.MaxMaterialCount,
	}, scene, effects, textures, backend)
	if err != nil {
		return nil, err
	}

	core.LogInfo("engine up: max %d effects, %d textures, caps(bones=%d lights=%d)",
		config.MaxEffectCount, config.MaxTextureCount, caps.MaxBones, caps.MaxSimultaneousLights)

	return &Engine{
		Scene:     scene,
		Store:     store,
		Effects:   effects,
		Textures:  textures,
		Materials: materials,
		backend:   backend,
	}, nil
}

func (e *Engine) Shutdown() error {
	if err := e.Materials.Shutdown(); err != nil {
		return err
	}
	if err := e.Effects.Shutdown(); err != nil {
		return err
	}
	if err := e.Textures.Shutdown(); err != nil {
		return err
	}
	if err := e.Store.Shutdown(); err != nil {
		return err
	}
	return e.backend.Shutdown()
}
