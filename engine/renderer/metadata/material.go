package metadata

import (
	"github.com/google/uuid"
)

/** @brief The name of the default material. */
const DefaultMaterialName string = "default"

/** @brief The document discriminator for the standard material kind. */
const StandardMaterialType string = "materia.StandardMaterial"

/**
 * @brief A colour value carrying an explicit component count (3 or 4).
 * The tag decides how many channels the binding protocol writes, instead
 * of inferring arity from context.
 */
type ColorValue struct {
	/** @brief The number of meaningful channels: 3 or 4. */
	Components uint8
	R, G, B, A float32
}

// NewColor3 returns an RGB colour with an implicit opaque alpha.
func NewColor3(r, g, b float32) ColorValue {
	return ColorValue{Components: 3, R: r, G: g, B: b, A: 1.0}
}

// NewColor4 returns an RGBA colour.
func NewColor4(r, g, b, a float32) ColorValue {
	return ColorValue{Components: 4, R: r, G: g, B: b, A: a}
}

// Scaled returns the colour with RGB channels multiplied by factor.
func (c ColorValue) Scaled(factor float32) ColorValue {
	c.R *= factor
	c.G *= factor
	c.B *= factor
	return c
}

/**
 * @brief A material, which decides the shader variant and uniform state
 * for the sub-meshes that use it.
 */
type Material struct {
	/** @brief The unique material identifier. */
	ID uuid.UUID
	/** @brief The material name. */
	Name string

	/** @brief The diffuse colour. */
	DiffuseColor ColorValue
	/** @brief The diffuse texture map. Shared with other materials, not owned. */
	DiffuseTexture *TextureMap
	/** @brief Disables all light contribution for this material. */
	DisableLighting bool
	/** @brief The maximum number of lights a variant of this material consumes. */
	MaxSimultaneousLights uint32
	/** @brief Overall opacity in [0,1]. Values below 1 enable alpha blending. */
	Alpha float32
	/** @brief The size uniform written when rendering point clouds. */
	PointSize float32

	/** @brief The shader source name effects of this material are built from. */
	ShaderName string

	/** @brief Forces a full readiness check every call, even within one frame. */
	CheckReadyOnEveryCall bool
	/**
	 * @brief Freezes the material: once ready, subsequent frames skip all
	 * re-evaluation while the cached effect handle stays valid.
	 */
	CheckReadyOnlyOnce bool

	/** @brief The last frame this material considered itself ready. */
	RenderID uint64
	/** @brief Set once readiness was reached, consumed by the frozen path. */
	WasPreviouslyReady bool

	/** @brief Renders an extra depth-only pass before the colour pass. */
	NeedDepthPrePass bool

	/** @brief An optional user extension hooked into the material's lifecycle. */
	Plugin MaterialPlugin

	// Per-domain change counters. Sub-mesh defines compare these against
	// their last-synced values to decide which domains to re-evaluate.
	texturesGeneration   uint64
	lightsGeneration     uint64
	miscGeneration       uint64
	attributesGeneration uint64
}

// MarkTexturesDirty records a texture-domain change (texture assigned,
// removed or reloaded) for every sub-mesh using this material.
func (m *Material) MarkTexturesDirty() { m.texturesGeneration++ }

// MarkLightsDirty records a light-domain change (lighting toggled, light
// cap changed).
func (m *Material) MarkLightsDirty() { m.lightsGeneration++ }

// MarkMiscDirty records a misc-domain change (point size, depth pre-pass).
func (m *Material) MarkMiscDirty() { m.miscGeneration++ }

// MarkAttributesDirty records an attribute-domain change.
func (m *Material) MarkAttributesDirty() { m.attributesGeneration++ }

func (m *Material) TexturesGeneration() uint64   { return m.texturesGeneration }
func (m *Material) LightsGeneration() uint64     { return m.lightsGeneration }
func (m *Material) MiscGeneration() uint64       { return m.miscGeneration }
func (m *Material) AttributesGeneration() uint64 { return m.attributesGeneration }

// NeedAlphaBlending reports whether the material draws translucent,
// derived from its opacity and colour tag.
func (m *Material) NeedAlphaBlending() bool {
	if m.Alpha < 1.0 {
		return true
	}
	return m.DiffuseColor.Components == 4 && m.DiffuseColor.A < 1.0
}

// Freeze marks the material as immutable: after the next successful
// readiness check, per-frame re-evaluation is skipped entirely.
func (m *Material) Freeze() {
	m.CheckReadyOnlyOnce = true
}

// Unfreeze re-enables per-frame evaluation.
func (m *Material) Unfreeze() {
	m.CheckReadyOnlyOnce = false
	m.WasPreviouslyReady = false
}

/**
 * @brief UniformWriter is the narrow slice of the renderer backend the
 * binding protocol and material plugins write uniform state through.
 */
type UniformWriter interface {
	SetUniform(effect *Effect, name string, value interface{}) error
	SetSampler(effect *Effect, name string, textureMap *TextureMap) error
}

/**
 * @brief MaterialPlugin is the extension point for user-supplied material
 * behaviour. Implementations participate in construction, readiness,
 * binding and serialization, in that order of invocation.
 */
type MaterialPlugin interface {
	/** @brief Called once when the plugin is attached to a material. */
	Construct(material *Material) error
	/** @brief Extra readiness gating, polled with the material's own check. */
	IsReadyForSubMesh(material *Material, scene *Scene, subMesh *SubMesh) bool
	/** @brief Extra uniform state written after the standard binding. */
	Bind(material *Material, scene *Scene, subMesh *SubMesh, effect *Effect, writer UniformWriter) error
	/** @brief Contributes plugin fields to the serialized document. */
	Serialize(doc *MaterialDocument)
}

/**
 * @brief The persisted form of a material. Field names are an explicit,
 * hand-written mapping; consumers treat the document opaquely.
 */
type MaterialDocument struct {
	/** @brief Discriminator identifying the concrete material kind. */
	CustomType string `toml:"custom_type" json:"customType"`

	Name                  string    `toml:"name" json:"name"`
	DiffuseColor          []float32 `toml:"diffuse_color" json:"diffuseColor"`
	DiffuseTexture        string    `toml:"diffuse_texture,omitempty" json:"diffuseTexture,omitempty"`
	DisableLighting       bool      `toml:"disable_lighting" json:"disableLighting"`
	MaxSimultaneousLights uint32    `toml:"max_simultaneous_lights" json:"maxSimultaneousLights"`
	Alpha                 float32   `toml:"alpha" json:"alpha"`
	PointSize             float32   `toml:"point_size,omitempty" json:"pointSize,omitempty"`
	ShaderName            string    `toml:"shader_name,omitempty" json:"shaderName,omitempty"`

	/** @brief Plugin-contributed fields, keyed by plugin-chosen names. */
	Extra map[string]interface{} `toml:"extra,omitempty" json:"extra,omitempty"`
}
