package metadata

import (
	"github.com/spaghettifunk/materia/engine/math"
)

/** @brief Fog falloff modes, mirrored into the FOGMODE define. */
type FogMode int

const (
	FogModeNone FogMode = iota
	FogModeExp
	FogModeExp2
	FogModeLinear
)

/**
 * @brief Hardware capability limits relevant to variant derivation,
 * queried once from the backend at startup.
 */
type HardwareCaps struct {
	/** @brief The maximum number of bone matrices in a single draw. */
	MaxBones uint32
	/** @brief The maximum number of lights a single variant may consume. */
	MaxSimultaneousLights uint32
}

/**
 * @brief The per-frame render context this core reads from. It is
 * mutated only between frames by the scene owner; during variant
 * evaluation and binding it is treated as a read-only snapshot.
 */
type Scene struct {
	/** @brief Monotonically increasing identifier of the current render pass. */
	RenderID uint64

	/** @brief The active lights. Disabled entries are skipped. */
	Lights []*Light
	/** @brief The meshes in the scene, for material disposal sweeps. */
	Meshes []*Mesh

	FogEnabled bool
	FogMode    FogMode
	FogStart   float32
	FogEnd     float32
	FogDensity float32
	FogColor   math.Vec3

	/** @brief Active clip planes in world space (plane equation per entry). */
	ClipPlanes []math.Vec4

	/** @brief Global kill switch for texture sampling. */
	TexturesEnabled bool

	/** @brief The camera position, for specular/eye-space calculations. */
	EyePosition math.Vec3
	/** @brief The camera view matrix for the current pass. */
	ViewMatrix math.Mat4
	/** @brief The camera projection matrix for the current pass. */
	ProjectionMatrix math.Mat4

	Caps HardwareCaps

	// Change counters for scene-owned variant inputs, bumped by the scene
	// owner whenever lights or fog/clip state mutate between frames.
	lightsGeneration uint64
	miscGeneration   uint64
}

// MarkLightsDirty records a change to the scene light list.
func (s *Scene) MarkLightsDirty() { s.lightsGeneration++ }

// MarkMiscDirty records a change to fog or clip-plane state.
func (s *Scene) MarkMiscDirty() { s.miscGeneration++ }

func (s *Scene) LightsGeneration() uint64 { return s.lightsGeneration }

func (s *Scene) MiscGeneration() uint64 { return s.miscGeneration }

// NewScene returns a scene with fog disabled, textures enabled and
// conservative default capability limits.
func NewScene(caps HardwareCaps) *Scene {
	return &Scene{
		RenderID:         1,
		FogMode:          FogModeNone,
		TexturesEnabled:  true,
		ViewMatrix:       math.NewMat4Identity(),
		ProjectionMatrix: math.NewMat4Identity(),
		Caps:             caps,
	}
}

// AdvanceFrame moves the scene to the next render pass. Called once per
// frame by the render loop, never mid-pass.
func (s *Scene) AdvanceFrame() {
	s.RenderID++
}

// FogApplies reports whether fog contributes to the given mesh this frame.
func (s *Scene) FogApplies(mesh *Mesh) bool {
	return s.FogEnabled && s.FogMode != FogModeNone && mesh.ApplyFog
}

// ActiveLights returns the enabled lights, capped at maxLights and the
// hardware limit, in scene order.
func (s *Scene) ActiveLights(maxLights uint32) []*Light {
	limit := maxLights
	if s.Caps.MaxSimultaneousLights < limit {
		limit = s.Caps.MaxSimultaneousLights
	}
	if limit == 0 {
		return nil
	}
	active := make([]*Light, 0, limit)
	for _, light := range s.Lights {
		if light == nil || !light.Enabled {
			continue
		}
		if uint32(len(active)) >= limit {
			break
		}
		active = append(active, light)
	}
	return active
}
