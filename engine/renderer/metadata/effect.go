package metadata

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

/**
 * @brief Represents the current state of a compiled effect.
 */
type EffectState int

const (
	/** @brief Compilation was requested but has not finished. Not an error. */
	EFFECT_STATE_PENDING EffectState = iota
	/** @brief The effect compiled and linked, and is safe to bind. */
	EFFECT_STATE_READY
	/** @brief No fallback produced a compilable variant. Fatal for this variant. */
	EFFECT_STATE_FAILED
)

/**
 * @brief A compiled, linked GPU program for one shader variant. Owned by
 * the effect system; sub-meshes hold non-owning references. Referenced by
 * any number of sub-meshes simultaneously and never mutated per sub-mesh.
 */
type Effect struct {
	/** @brief The unique effect identifier. */
	ID uuid.UUID
	/** @brief The variant key this effect was compiled for. */
	Key string
	/** @brief The shader source name the effect was built from. */
	SourceName string

	/** @brief The vertex attributes, in the order the geometry supplies them. */
	Attributes []string
	/** @brief The uniform names the binding protocol writes. */
	UniformNames []string
	/** @brief The sampler names the binding protocol writes. */
	SamplerNames []string
	/** @brief The preprocessor text the variant was compiled with. */
	DefinesText string

	/** @brief The internal State of the effect. */
	State EffectState
	/** @brief The compile error, set only in the failed state. */
	CompileError error

	/** @brief The shader store generation the source was read at. */
	SourceGeneration uint64

	/** @brief An opaque pointer to hold renderer API specific data. */
	InternalData interface{}
}

// IsReady is the non-blocking readiness predicate callers poll once per
// frame. Pending and failed effects are both "not ready"; failed ones
// stay that way until the underlying cause is fixed.
func (e *Effect) IsReady() bool {
	return e != nil && e.State == EFFECT_STATE_READY
}

/**
 * @brief The full description of one compile request, handed to the
 * renderer backend. The fallback chain rides along so the compiler can
 * retry with progressively relaxed feature demands.
 */
type EffectCreationOptions struct {
	SourceName         string
	VertexSource       string
	FragmentSource     string
	Attributes         []string
	UniformNames       []string
	UniformBufferNames []string
	SamplerNames       []string
	DefinesText        string
	Fallbacks          *EffectFallbacks
}

type fallbackRank struct {
	rank    uint32
	defines []string
}

/**
 * @brief An ordered list of ranked degradation actions applied when a
 * variant fails to compile. Actions at lower ranks are applied first;
 * each action strips feature defines from the preprocessor text, so
 * applying the same action twice has no further effect.
 */
type EffectFallbacks struct {
	ranks       []fallbackRank
	currentRank uint32
	maxRank     uint32

	mesh     *Mesh
	meshRank uint32
}

func NewEffectFallbacks() *EffectFallbacks {
	return &EffectFallbacks{}
}

// AddFallback registers the removal of one define at the given rank.
func (f *EffectFallbacks) AddFallback(rank uint32, define string) {
	for i := range f.ranks {
		if f.ranks[i].rank == rank {
			f.ranks[i].defines = append(f.ranks[i].defines, define)
			if rank > f.maxRank {
				f.maxRank = rank
			}
			return
		}
	}
	f.ranks = append(f.ranks, fallbackRank{rank: rank, defines: []string{define}})
	if rank > f.maxRank {
		f.maxRank = rank
	}
}

// AddCPUSkinningFallback registers moving the mesh's skinning off the GPU
// at the given rank, for bone counts exceeding the hardware limit.
func (f *EffectFallbacks) AddCPUSkinningFallback(rank uint32, mesh *Mesh) {
	f.mesh = mesh
	f.meshRank = rank
	if rank > f.maxRank {
		f.maxRank = rank
	}
}

// HasCPUSkinningFallback reports whether CPU skinning is part of the chain.
func (f *EffectFallbacks) HasCPUSkinningFallback() bool {
	return f.mesh != nil
}

// HasMoreFallbacks reports whether another Reduce step is available.
// Once exhausted, compilation fails fatally for the variant.
func (f *EffectFallbacks) HasMoreFallbacks() bool {
	return f.currentRank <= f.maxRank && (len(f.ranks) > 0 || f.mesh != nil)
}

/**
 * @brief Reduce applies all actions at the current rank to the given
 * preprocessor text and advances to the next rank. Removing an absent
 * define is a no-op, so the reduction is idempotent and monotonically
 * relaxes the variant's feature demand.
 */
func (f *EffectFallbacks) Reduce(definesText string) string {
	// CPU skinning turns shader-side bone consumption off entirely.
	if f.mesh != nil && f.currentRank == f.meshRank {
		f.mesh.ComputeBonesUsingShaders = false
		definesText = zeroBoneInfluencers(definesText)
	}

	for _, r := range f.ranks {
		if r.rank != f.currentRank {
			continue
		}
		for _, define := range r.defines {
			definesText = strings.ReplaceAll(definesText, "#define "+define+"\n", "")
		}
	}

	f.currentRank++
	return definesText
}

func zeroBoneInfluencers(definesText string) string {
	lines := strings.Split(definesText, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.HasPrefix(line, "#define NUM_BONE_INFLUENCERS ") {
			out = append(out, "#define NUM_BONE_INFLUENCERS 0")
			continue
		}
		if strings.HasPrefix(line, "#define BonesPerMesh ") {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// String summarizes the chain for logging.
func (f *EffectFallbacks) String() string {
	var sb strings.Builder
	for _, r := range f.ranks {
		fmt.Fprintf(&sb, "[%d]%s", r.rank, strings.Join(r.defines, "+"))
	}
	if f.mesh != nil {
		fmt.Fprintf(&sb, "[%d]CPU_SKINNING", f.meshRank)
	}
	return sb.String()
}
