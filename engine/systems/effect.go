package systems

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spaghettifunk/materia/engine/assets"
	"github.com/spaghettifunk/materia/engine/core"
	"github.com/spaghettifunk/materia/engine/renderer"
	"github.com/spaghettifunk/materia/engine/renderer/metadata"
)

/** @brief Configuration for the effect system. */
type EffectSystemConfig struct {
	/** @brief The maximum number of distinct variants held in the cache. */
	MaxEffectCount uint32
}

type effectReference struct {
	effect         *metadata.Effect
	referenceCount uint64
}

/**
 * @brief EffectSystem owns every compiled effect in the scene, keyed by
 * variant key. A variant observed by any number of sub-meshes compiles
 * exactly once; subsequent acquisitions return the cached handle, even
 * while compilation is still pending. Effects are destroyed on Shutdown,
 * or when force-released with no remaining references.
 */
type EffectSystem struct {
	Config *EffectSystemConfig
	// Variant key -> reference-counted effect.
	lookup map[string]*effectReference
	// The currently bound effect, to skip redundant program switches.
	currentEffect *metadata.Effect
	// sub systems
	backend renderer.RendererBackend
	store   *assets.ShaderStore
}

func NewEffectSystem(config *EffectSystemConfig, backend renderer.RendererBackend, store *assets.ShaderStore) (*EffectSystem, error) {
	if config.MaxEffectCount == 0 {
		err := fmt.Errorf("NewEffectSystem - config.MaxEffectCount must be greater than 0")
		core.LogError(err.Error())
		return nil, err
	}
	return &EffectSystem{
		Config:  config,
		lookup:  make(map[string]*effectReference),
		backend: backend,
		store:   store,
	}, nil
}

/**
 * @brief Acquire resolves the effect for a variant key, compiling on a
 * cache miss. The returned effect may still be pending; callers poll
 * IsReady once per frame and treat "not ready" as "not drawable", never
 * as an error. Each acquisition takes one reference on the key.
 */
func (es *EffectSystem) Acquire(key string, options *metadata.EffectCreationOptions) (*metadata.Effect, error) {
	generation := es.store.Generation(options.SourceName)

	if ref, exists := es.lookup[key]; exists {
		if ref.effect.SourceGeneration == generation {
			ref.referenceCount++
			return ref.effect, nil
		}
		// The shader source was hot-reloaded since this variant compiled.
		// Recompile in place, keeping the accumulated references.
		core.LogInfo("effect system: source '%s' changed, recompiling variant", options.SourceName)
		if err := es.backend.EffectDestroy(ref.effect); err != nil {
			core.LogError(err.Error())
		}
		effect, err := es.compile(key, generation, options)
		if err != nil {
			return nil, err
		}
		ref.effect = effect
		ref.referenceCount++
		return effect, nil
	}

	if uint32(len(es.lookup)) >= es.Config.MaxEffectCount {
		err := fmt.Errorf("effect system: variant cache full (%d), cannot compile another variant", es.Config.MaxEffectCount)
		core.LogError(err.Error())
		return nil, err
	}

	effect, err := es.compile(key, generation, options)
	if err != nil {
		return nil, err
	}
	es.lookup[key] = &effectReference{effect: effect, referenceCount: 1}
	return effect, nil
}

func (es *EffectSystem) compile(key string, generation uint64, options *metadata.EffectCreationOptions) (*metadata.Effect, error) {
	src, err := es.store.Get(options.SourceName)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	options.VertexSource = src.VertexSource
	options.FragmentSource = src.FragmentSource

	effect := &metadata.Effect{
		ID:               uuid.New(),
		Key:              key,
		SourceName:       options.SourceName,
		Attributes:       options.Attributes,
		UniformNames:     options.UniformNames,
		SamplerNames:     options.SamplerNames,
		DefinesText:      options.DefinesText,
		State:            metadata.EFFECT_STATE_PENDING,
		SourceGeneration: generation,
	}

	onCompiled := func(e *metadata.Effect) {
		core.LogDebug("effect system: variant ready for source '%s'", e.SourceName)
	}
	onError := func(e *metadata.Effect, compileErr error) {
		// Fallback chain exhausted. The variant stays failed until the
		// underlying cause (usually a missing capability) is fixed.
		core.LogError("effect system: %s: source '%s': %s", core.ErrEffectCompileFailed.Error(), e.SourceName, compileErr.Error())
	}

	if err := es.backend.EffectCompile(effect, options, onCompiled, onError); err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	return effect, nil
}

/**
 * @brief Release drops one reference on a variant key. The effect is kept
 * cached across frames and materials even at zero references; only a
 * forced release with no remaining references destroys it.
 */
func (es *EffectSystem) Release(key string, forceDestroy bool) {
	ref, exists := es.lookup[key]
	if !exists {
		return
	}
	if ref.referenceCount > 0 {
		ref.referenceCount--
	}
	if forceDestroy && ref.referenceCount == 0 {
		if es.currentEffect == ref.effect {
			es.currentEffect = nil
		}
		if err := es.backend.EffectDestroy(ref.effect); err != nil {
			core.LogError(err.Error())
		}
		delete(es.lookup, key)
	}
}

/**
 * @brief Use binds the effect for drawing if it differs from the one
 * currently bound. Returns true when a program switch actually happened,
 * which is the signal to rebind program-switch-scoped uniform state.
 */
func (es *EffectSystem) Use(effect *metadata.Effect) (bool, error) {
	if es.currentEffect == effect {
		return false, nil
	}
	if err := es.backend.EffectUse(effect); err != nil {
		core.LogError("effect system: failed to use effect for source '%s': %s", effect.SourceName, err.Error())
		return false, err
	}
	es.currentEffect = effect
	return true, nil
}

func (es *EffectSystem) CurrentEffect() *metadata.Effect {
	return es.currentEffect
}

/**
 * @brief IsStale reports whether a held effect handle was superseded: its
 * variant key now resolves to a different handle (another holder already
 * triggered a recompile) or its source was hot-reloaded since it compiled.
 * Stale handles are recovered by re-acquiring the key, so holders polling
 * readiness every frame heal on the next pass.
 */
func (es *EffectSystem) IsStale(effect *metadata.Effect) bool {
	if effect == nil {
		return false
	}
	ref, exists := es.lookup[effect.Key]
	if !exists {
		return true
	}
	if ref.effect != effect {
		return true
	}
	return effect.SourceGeneration != es.store.Generation(effect.SourceName)
}

// ReferenceCount reports how many holders reference the variant key.
func (es *EffectSystem) ReferenceCount(key string) uint64 {
	if ref, exists := es.lookup[key]; exists {
		return ref.referenceCount
	}
	return 0
}

// EffectCount returns the number of distinct cached variants.
func (es *EffectSystem) EffectCount() int {
	return len(es.lookup)
}

// Has reports whether a variant key is cached.
func (es *EffectSystem) Has(key string) bool {
	_, exists := es.lookup[key]
	return exists
}

func (es *EffectSystem) Shutdown() error {
	for key, ref := range es.lookup {
		if err := es.backend.EffectDestroy(ref.effect); err != nil {
			core.LogError(err.Error())
			return err
		}
		delete(es.lookup, key)
	}
	es.currentEffect = nil
	return nil
}
