package metadata

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

/**
 * @brief The per-light slice of a variant: whether the light is active,
 * how its data reaches the shader and which optional terms it carries.
 */
type LightDefine struct {
	Enabled   bool
	LightType LightType
	Shadows   bool
	Specular  bool
}

/**
 * @brief The flag set describing which optional shader features one
 * sub-mesh variant includes. Mutated in place every frame the sub-mesh
 * is dirty; owned by the sub-mesh for its whole lifetime.
 *
 * Flags are grouped into four independently-dirty domains (textures,
 * lights, misc, attributes). A set is "processed" only once all four
 * domains have been evaluated in the same pass; an unprocessed set must
 * never feed the variant key builder.
 */
type MaterialDefines struct {
	// Textures domain.
	Diffuse bool

	// Misc domain.
	ClipPlaneCount uint8
	AlphaTest      bool
	DepthPrePass   bool
	PointSize      bool
	Fog            bool

	// Lights domain.
	Normal       bool
	SpecularTerm bool
	lights       []LightDefine

	// Attributes domain.
	UV1                bool
	UV2                bool
	VertexColor        bool
	VertexAlpha        bool
	NumBoneInfluencers uint8
	BonesPerMesh       uint32

	// Frame-bound domain, re-derived every pass without recompilation
	// of the other domains.
	Instances bool

	// Derived during the textures/lights domains, consumed by the
	// attributes domain in the same pass.
	needUVs bool

	texturesDirty   bool
	lightsDirty     bool
	miscDirty       bool
	attributesDirty bool
	processed       bool
	changed         bool

	// Last-synced change counters of the owning material and scene.
	syncedTextures   uint64
	syncedLights     uint64
	syncedMisc       uint64
	syncedAttributes uint64

	key string
}

/**
 * @brief SyncDirtyDomains compares the owning material's and scene's
 * change counters against the last-synced values, marking each domain
 * dirty that changed since this set was last evaluated.
 */
func (d *MaterialDefines) SyncDirtyDomains(textures, lights, misc, attributes uint64) {
	if d.syncedTextures != textures {
		d.syncedTextures = textures
		d.MarkTexturesDirty()
	}
	if d.syncedLights != lights {
		d.syncedLights = lights
		d.MarkLightsDirty()
	}
	if d.syncedMisc != misc {
		d.syncedMisc = misc
		d.MarkMiscDirty()
	}
	if d.syncedAttributes != attributes {
		d.syncedAttributes = attributes
		d.MarkAttributesDirty()
	}
}

// NewMaterialDefines returns a set with every domain dirty, so the first
// evaluation pass derives all flags from scratch.
func NewMaterialDefines() *MaterialDefines {
	return &MaterialDefines{
		texturesDirty:   true,
		lightsDirty:     true,
		miscDirty:       true,
		attributesDirty: true,
		changed:         true,
	}
}

func (d *MaterialDefines) TexturesDirty() bool   { return d.texturesDirty }
func (d *MaterialDefines) LightsDirty() bool     { return d.lightsDirty }
func (d *MaterialDefines) MiscDirty() bool       { return d.miscDirty }
func (d *MaterialDefines) AttributesDirty() bool { return d.attributesDirty }

func (d *MaterialDefines) MarkTexturesDirty() {
	d.texturesDirty = true
	// UV demand may change, so attributes must be re-derived too.
	d.attributesDirty = true
	d.processed = false
}

func (d *MaterialDefines) MarkLightsDirty() {
	d.lightsDirty = true
	d.attributesDirty = true
	d.processed = false
}

func (d *MaterialDefines) MarkMiscDirty() {
	d.miscDirty = true
	d.processed = false
}

func (d *MaterialDefines) MarkAttributesDirty() {
	d.attributesDirty = true
	d.processed = false
}

func (d *MaterialDefines) MarkAllDirty() {
	d.texturesDirty = true
	d.lightsDirty = true
	d.miscDirty = true
	d.attributesDirty = true
	d.processed = false
}

// MarkAsProcessed records that all four domains were evaluated in the
// same pass. Only a processed set may derive a variant key.
func (d *MaterialDefines) MarkAsProcessed() {
	d.texturesDirty = false
	d.lightsDirty = false
	d.miscDirty = false
	d.attributesDirty = false
	d.processed = true
}

func (d *MaterialDefines) IsProcessed() bool { return d.processed }

// Changed reports whether any flag mutated since the last key build,
// gating whether a new program lookup is needed this frame.
func (d *MaterialDefines) Changed() bool { return d.changed }

func (d *MaterialDefines) setBool(dst *bool, value bool) {
	if *dst != value {
		*dst = value
		d.changed = true
	}
}

func (d *MaterialDefines) SetDiffuse(value bool)      { d.setBool(&d.Diffuse, value) }
func (d *MaterialDefines) SetAlphaTest(value bool)    { d.setBool(&d.AlphaTest, value) }
func (d *MaterialDefines) SetDepthPrePass(value bool) { d.setBool(&d.DepthPrePass, value) }
func (d *MaterialDefines) SetPointSize(value bool)    { d.setBool(&d.PointSize, value) }
func (d *MaterialDefines) SetFog(value bool)          { d.setBool(&d.Fog, value) }
func (d *MaterialDefines) SetNormal(value bool)       { d.setBool(&d.Normal, value) }
func (d *MaterialDefines) SetUV1(value bool)          { d.setBool(&d.UV1, value) }
func (d *MaterialDefines) SetUV2(value bool)          { d.setBool(&d.UV2, value) }
func (d *MaterialDefines) SetVertexColor(value bool)  { d.setBool(&d.VertexColor, value) }
func (d *MaterialDefines) SetVertexAlpha(value bool)  { d.setBool(&d.VertexAlpha, value) }
func (d *MaterialDefines) SetInstances(value bool)    { d.setBool(&d.Instances, value) }

func (d *MaterialDefines) SetNeedUVs(value bool) { d.needUVs = value }
func (d *MaterialDefines) NeedUVs() bool         { return d.needUVs }

func (d *MaterialDefines) SetClipPlaneCount(count uint8) {
	if d.ClipPlaneCount != count {
		d.ClipPlaneCount = count
		d.changed = true
	}
}

func (d *MaterialDefines) SetBones(influencers uint8, bonesPerMesh uint32) {
	if d.NumBoneInfluencers != influencers || d.BonesPerMesh != bonesPerMesh {
		d.NumBoneInfluencers = influencers
		d.BonesPerMesh = bonesPerMesh
		d.changed = true
	}
}

// SetLights replaces the per-light slice of the variant. The slice is in
// scene order and already capped to the material's light limit.
func (d *MaterialDefines) SetLights(lights []LightDefine) {
	if !slices.Equal(d.lights, lights) {
		d.lights = slices.Clone(lights)
		d.changed = true
	}
	specular := false
	for _, l := range lights {
		if l.Enabled && l.Specular {
			specular = true
			break
		}
	}
	d.setBool(&d.SpecularTerm, specular)
}

func (d *MaterialDefines) Lights() []LightDefine { return d.lights }

// LightCount returns the number of enabled lights in the variant.
func (d *MaterialDefines) LightCount() int {
	count := 0
	for _, l := range d.lights {
		if l.Enabled {
			count++
		}
	}
	return count
}

/**
 * @brief RenderKey serializes the set in a fixed, stable flag order as
 * preprocessor text. The same text both keys the program cache and is
 * injected verbatim ahead of the shader source by the compiler.
 *
 * The key is cached; rebuilding it clears the changed marker.
 */
func (d *MaterialDefines) RenderKey() string {
	if !d.changed && d.key != "" {
		return d.key
	}

	var sb strings.Builder
	writeFlag := func(enabled bool, name string) {
		if enabled {
			sb.WriteString("#define ")
			sb.WriteString(name)
			sb.WriteString("\n")
		}
	}

	writeFlag(d.Diffuse, "DIFFUSE")
	if d.ClipPlaneCount > 0 {
		fmt.Fprintf(&sb, "#define CLIPPLANE %d\n", d.ClipPlaneCount)
	}
	writeFlag(d.AlphaTest, "ALPHATEST")
	writeFlag(d.DepthPrePass, "DEPTHPREPASS")
	writeFlag(d.PointSize, "POINTSIZE")
	writeFlag(d.Fog, "FOG")
	writeFlag(d.Normal, "NORMAL")
	writeFlag(d.SpecularTerm, "SPECULARTERM")

	for i, l := range d.lights {
		if !l.Enabled {
			continue
		}
		fmt.Fprintf(&sb, "#define LIGHT%d\n", i)
		switch l.LightType {
		case LightTypePoint:
			fmt.Fprintf(&sb, "#define POINTLIGHT%d\n", i)
		case LightTypeDirectional:
			fmt.Fprintf(&sb, "#define DIRLIGHT%d\n", i)
		case LightTypeSpot:
			fmt.Fprintf(&sb, "#define SPOTLIGHT%d\n", i)
		}
		if l.Shadows {
			fmt.Fprintf(&sb, "#define SHADOW%d\n", i)
		}
	}

	writeFlag(d.UV1, "UV1")
	writeFlag(d.UV2, "UV2")
	writeFlag(d.VertexColor, "VERTEXCOLOR")
	writeFlag(d.VertexAlpha, "VERTEXALPHA")
	fmt.Fprintf(&sb, "#define NUM_BONE_INFLUENCERS %d\n", d.NumBoneInfluencers)
	if d.NumBoneInfluencers > 0 {
		fmt.Fprintf(&sb, "#define BonesPerMesh %d\n", d.BonesPerMesh)
	}
	writeFlag(d.Instances, "INSTANCES")

	d.key = sb.String()
	d.changed = false
	return d.key
}

/**
 * @brief BuildVariantKey derives the program cache key from a processed
 * defines set plus the resolved attribute/uniform/sampler name lists.
 *
 * Pure function of its inputs: list ordering is normalized so two
 * sub-meshes with the same feature demand always share a key, regardless
 * of the order names were registered in.
 */
func BuildVariantKey(defines *MaterialDefines, attributes, uniformNames, samplerNames []string) string {
	var sb strings.Builder
	sb.WriteString(defines.RenderKey())

	writeList := func(tag string, names []string) {
		sorted := slices.Clone(names)
		slices.Sort(sorted)
		sb.WriteString(tag)
		sb.WriteString(strings.Join(sorted, ","))
		sb.WriteString("\n")
	}
	writeList("attributes:", attributes)
	writeList("uniforms:", uniformNames)
	writeList("samplers:", samplerNames)

	return sb.String()
}
