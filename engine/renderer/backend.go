package renderer

import "github.com/spaghettifunk/materia/engine/renderer/metadata"

/**
 * @brief RendererBackend is the GPU boundary of the engine. A backend
 * compiles effects asynchronously: EffectCompile returns immediately with
 * a pending handle whose readiness is polled once per frame, never
 * awaited. When a variant fails to compile, the backend applies the
 * request's fallback chain in rank order and retries until a variant
 * compiles or the chain is exhausted, at which point onError fires and
 * the effect stays failed.
 */
type RendererBackend interface {
	Initialize() error
	Shutdown() error

	Caps() metadata.HardwareCaps

	EffectCompile(effect *metadata.Effect, options *metadata.EffectCreationOptions, onCompiled func(*metadata.Effect), onError func(*metadata.Effect, error)) error
	EffectUse(effect *metadata.Effect) error
	EffectDestroy(effect *metadata.Effect) error

	SetUniform(effect *metadata.Effect, name string, value interface{}) error
	SetSampler(effect *metadata.Effect, name string, textureMap *metadata.TextureMap) error

	TextureDestroy(texture *metadata.Texture) error
}
