package systems

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spaghettifunk/materia/engine/renderer/metadata"
)

// fakeBackend compiles synchronously and records everything written to
// it. Compiles can be held pending and finished by hand to exercise the
// polling path, and bone-budget validation drives the fallback chain the
// way a real compiler would.
type fakeBackend struct {
	caps metadata.HardwareCaps

	// When set, EffectCompile parks the job until finishPending is called.
	holdCompiles bool
	held         []*fakeCompileJob

	compileCount    int
	destroyCount    int
	programSwitches int
	uniformWrites   map[string]interface{}
	samplerWrites   map[string]*metadata.TextureMap
	uniformLog      []string
}

type fakeCompileJob struct {
	effect     *metadata.Effect
	options    *metadata.EffectCreationOptions
	onCompiled func(*metadata.Effect)
	onError    func(*metadata.Effect, error)
}

func newFakeBackend(caps metadata.HardwareCaps) *fakeBackend {
	return &fakeBackend{
		caps:          caps,
		uniformWrites: make(map[string]interface{}),
		samplerWrites: make(map[string]*metadata.TextureMap),
	}
}

func (b *fakeBackend) Initialize() error           { return nil }
func (b *fakeBackend) Shutdown() error             { return nil }
func (b *fakeBackend) Caps() metadata.HardwareCaps { return b.caps }

func (b *fakeBackend) EffectCompile(effect *metadata.Effect, options *metadata.EffectCreationOptions, onCompiled func(*metadata.Effect), onError func(*metadata.Effect, error)) error {
	job := &fakeCompileJob{effect: effect, options: options, onCompiled: onCompiled, onError: onError}
	if b.holdCompiles {
		b.held = append(b.held, job)
		return nil
	}
	b.finish(job)
	return nil
}

// finishPending completes every held compile.
func (b *fakeBackend) finishPending() {
	jobs := b.held
	b.held = nil
	for _, job := range jobs {
		b.finish(job)
	}
}

func (b *fakeBackend) finish(job *fakeCompileJob) {
	b.compileCount++

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
	job.effect.State = metadata.EFFECT_STATE_READY
	if job.onCompiled != nil {
		job.onCompiled(job.effect)
	}
}

func (b *fakeBackend) validate(definesText string) error {
	for _, line := range strings.Split(definesText, "\n") {
		value, found := strings.CutPrefix(line, "#define BonesPerMesh ")
		if !found {
			continue
		}
		bones, err := strconv.ParseUint(strings.TrimSpace(value), 10, 32)
		if err != nil {
			return fmt.Errorf("malformed bone define '%s'", line)
		}
		if uint32(bones) > b.caps.MaxBones {
			return fmt.Errorf("%d bones exceeds device limit of %d", bones, b.caps.MaxBones)
		}
	}
	return nil
}

func (b *fakeBackend) EffectUse(effect *metadata.Effect) error {
	if !effect.IsReady() {
		return fmt.Errorf("cannot use effect in state %d", effect.State)
	}
	b.programSwitches++
	return nil
}

func (b *fakeBackend) EffectDestroy(effect *metadata.Effect) error {
	b.destroyCount++
	if effect != nil {
		effect.State = metadata.EFFECT_STATE_FAILED
	}
	return nil
}

func (b *fakeBackend) SetUniform(effect *metadata.Effect, name string, value interface{}) error {
	b.uniformWrites[name] = value
	b.uniformLog = append(b.uniformLog, name)
	return nil
}

func (b *fakeBackend) SetSampler(effect *metadata.Effect, name string, textureMap *metadata.TextureMap) error {
	b.samplerWrites[name] = textureMap
	return nil
}

func (b *fakeBackend) TextureDestroy(texture *metadata.Texture) error {
	if texture != nil {
		texture.Generation = metadata.InvalidID
	}
	return nil
}

// uniformWriteCount reports how many times the named uniform was written.
func (b *fakeBackend) uniformWriteCount(name string) int {
	count := 0
	for _, written := range b.uniformLog {
		if written == name {
			count++
		}
	}
	return count
}
