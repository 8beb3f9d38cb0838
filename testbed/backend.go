package testbed

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spaghettifunk/materia/engine/containers"
	"github.com/spaghettifunk/materia/engine/core"
	"github.com/spaghettifunk/materia/engine/renderer/metadata"
)

type compileJob struct {
	effect     *metadata.Effect
	options    *metadata.EffectCreationOptions
	onCompiled func(*metadata.Effect)
	onError    func(*metadata.Effect, error)
	framesLeft int
}

// compiledProgram is the backend-internal representation of a linked
// program: preprocessed source plus the uniform state written into it.
type compiledProgram struct {
	vertexSource   string
	fragmentSource string
	uniforms       map[string]interface{}
	samplers       map[string]*metadata.TextureMap
}

/**
 * @brief SoftwareBackend is a headless renderer backend. It "compiles"
 * effects by injecting the variant's preprocessor text ahead of the
 * shader source and validating it against the advertised capability
 * limits, retrying with the request's fallback chain in rank order.
 * Compilation completes after a configurable number of Pump calls, which
 * exercises the pending/poll path the real GPU backends have.
 */
type SoftwareBackend struct {
	caps    metadata.HardwareCaps
	pending *containers.RingQueue[*compileJob]

	/** @brief Frames a compile stays pending before completing. */
	CompileLatencyFrames int

	CompileCount    int
	ProgramSwitches int
	UniformWrites   int
	SamplerWrites   int
}

func NewSoftwareBackend(caps metadata.HardwareCaps) *SoftwareBackend {
	return &SoftwareBackend{
		caps:    caps,
		pending: containers.NewRingQueue[*compileJob](256),
	}
}

func (b *SoftwareBackend) Initialize() error { return nil }

func (b *SoftwareBackend) Shutdown() error { return nil }

func (b *SoftwareBackend) Caps() metadata.HardwareCaps { return b.caps }

func (b *SoftwareBackend) EffectCompile(effect *metadata.Effect, options *metadata.EffectCreationOptions, onCompiled func(*metadata.Effect), onError func(*metadata.Effect, error)) error {
	job := &compileJob{
		effect:     effect,
		options:    options,
		onCompiled: onCompiled,
		onError:    onError,
		framesLeft: b.CompileLatencyFrames,
	}
	if job.framesLeft <= 0 {
		b.finishCompile(job)
		return nil
	}
	return b.pending.Enqueue(job)
}

// Pump advances pending compiles by one frame. Called once per frame by
// the render loop.
func (b *SoftwareBackend) Pump() {
	for i := b.pending.Len(); i > 0; i-- {
		job, err := b.pending.Dequeue()
		if err != nil {
			return
		}
		job.framesLeft--
		if job.framesLeft <= 0 {
			b.finishCompile(job)
			continue
		}
		if err := b.pending.Enqueue(job); err != nil {
			core.LogError("software backend: %s", err.Error())
		}
	}
}

func (b *SoftwareBackend) finishCompile(job *compileJob) {
	b.CompileCount++

	definesText := job.options.DefinesText
	err := b.validate(definesText)
	for err != nil && job.options.Fallbacks != nil && job.options.Fallbacks.HasMoreFallbacks() {
		definesText = job.options.Fallbacks.Reduce(definesText)
		err = b.validate(definesText)
	}
	if err != nil {
		job.effect.State = metadata.EFFECT_STATE_FAILED
		job.effect.CompileError = err
		if job.onError != nil {
			job.onError(job.effect, err)
		}
		return
	}

	job.effect.DefinesText = definesText
	job.effect.InternalData = &compiledProgram{
		vertexSource:   preprocess(definesText, job.options.VertexSource),
		fragmentSource: preprocess(definesText, job.options.FragmentSource),
		uniforms:       make(map[string]interface{}),
		samplers:       make(map[string]*metadata.TextureMap),
	}
	job.effect.State = metadata.EFFECT_STATE_READY
	if job.onCompiled != nil {
		job.onCompiled(job.effect)
	}
}

// validate rejects variants whose feature demand exceeds the capability
// limits, the way a real compiler runs out of uniform or varying slots.
func (b *SoftwareBackend) validate(definesText string) error {
	for _, line := range strings.Split(definesText, "\n") {
		value, found := strings.CutPrefix(line, "#define BonesPerMesh ")
		if !found {
			continue
		}
		bones, err := strconv.ParseUint(strings.TrimSpace(value), 10, 32)
		if err != nil {
			return fmt.Errorf("software backend: malformed bone define '%s'", line)
		}
		if uint32(bones) > b.caps.MaxBones {
			return fmt.Errorf("software backend: %d bones exceeds device limit of %d", bones, b.caps.MaxBones)
		}
	}
	return nil
}

// preprocess injects the variant defines ahead of the opaque source text.
func preprocess(definesText, source string) string {
	var sb strings.Builder
	sb.WriteString(definesText)
	if !strings.HasSuffix(definesText, "\n") {
		sb.WriteString("\n")
	}
	sb.WriteString(source)
	return sb.String()
}

func (b *SoftwareBackend) EffectUse(effect *metadata.Effect) error {
	if !effect.IsReady() {
		return fmt.Errorf("software backend: cannot use effect in state %d", effect.State)
	}
	b.ProgramSwitches++
	return nil
}

func (b *SoftwareBackend) EffectDestroy(effect *metadata.Effect) error {
	if effect != nil {
		effect.InternalData = nil
		effect.State = metadata.EFFECT_STATE_FAILED
	}
	return nil
}

func (b *SoftwareBackend) SetUniform(effect *metadata.Effect, name string, value interface{}) error {
	program, ok := effect.InternalData.(*compiledProgram)
	if !ok {
		return fmt.Errorf("software backend: uniform '%s' written to an unlinked effect", name)
	}
	program.uniforms[name] = value
	b.UniformWrites++
	return nil
}

func (b *SoftwareBackend) SetSampler(effect *metadata.Effect, name string, textureMap *metadata.TextureMap) error {
	program, ok := effect.InternalData.(*compiledProgram)
	if !ok {
		return fmt.Errorf("software backend: sampler '%s' written to an unlinked effect", name)
	}
	program.samplers[name] = textureMap
	b.SamplerWrites++
	return nil
}

func (b *SoftwareBackend) TextureDestroy(texture *metadata.Texture) error {
	if texture != nil {
		texture.Generation = metadata.InvalidID
	}
	return nil
}
