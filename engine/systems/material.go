package systems

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spaghettifunk/materia/engine/core"
	"github.com/spaghettifunk/materia/engine/renderer"
	"github.com/spaghettifunk/materia/engine/renderer/metadata"
)

/** @brief Configuration for the material system. */
type MaterialSystemConfig struct {
	/** @brief The maximum number of materials held in the system. */
	MaxMaterialCount uint32
}

/**
 * @brief MaterialSystem drives the per-sub-mesh readiness state machine:
 * frame-cursor short-circuit, dirty-domain defines refresh, variant key
 * derivation, effect acquisition and, once ready, uniform binding.
 */
type MaterialSystem struct {
	Config *MaterialSystemConfig
	// A lookup table for material name->material.
	Lookup map[string]*metadata.Material
	// sub systems
	scene         *metadata.Scene
	effectSystem  *EffectSystem
	textureSystem *TextureSystem
	backend       renderer.RendererBackend
}

func NewMaterialSystem(config *MaterialSystemConfig, scene *metadata.Scene, es *EffectSystem, ts *TextureSystem, backend renderer.RendererBackend) (*MaterialSystem, error) {
	if config.MaxMaterialCount == 0 {
		err := fmt.Errorf("NewMaterialSystem - config.MaxMaterialCount must be > 0")
		core.LogError(err.Error())
		return nil, err
	}
	return &MaterialSystem{
		Config:        config,
		Lookup:        make(map[string]*metadata.Material),
		scene:         scene,
		effectSystem:  es,
		textureSystem: ts,
		backend:       backend,
	}, nil
}

// CreateMaterial registers a new material with renderer defaults: opaque
// white diffuse, lighting enabled, up to four simultaneous lights.
func (ms *MaterialSystem) CreateMaterial(name string) (*metadata.Material, error) {
	if _, exists := ms.Lookup[name]; exists {
		err := fmt.Errorf("material system: a material named '%s' already exists", name)
		core.LogError(err.Error())
		return nil, err
	}
	if uint32(len(ms.Lookup)) >= ms.Config.MaxMaterialCount {
		err := fmt.Errorf("material system: material count exceeds max of %d", ms.Config.MaxMaterialCount)
		core.LogError(err.Error())
		return nil, err
	}

	material := &metadata.Material{
		ID:                    uuid.New(),
		Name:                  name,
		DiffuseColor:          metadata.NewColor3(1.0, 1.0, 1.0),
		MaxSimultaneousLights: 4,
		Alpha:                 1.0,
		PointSize:             1.0,
		ShaderName:            metadata.DefaultMaterialName,
		RenderID:              metadata.InvalidIDUint64,
	}
	ms.Lookup[name] = material
	return material, nil
}

// AttachPlugin hooks a user extension into the material. The plugin's
// Construct callback runs once, here; a nil plugin or a failing
// constructor is an invalid configuration.
func (ms *MaterialSystem) AttachPlugin(material *metadata.Material, plugin metadata.MaterialPlugin) error {
	if plugin == nil {
		core.LogError("material system: %s: nil plugin for material '%s'", core.ErrInvalidPluginConfig.Error(), material.Name)
		return core.ErrInvalidPluginConfig
	}
	if err := plugin.Construct(material); err != nil {
		core.LogError("material system: %s: material '%s': %s", core.ErrInvalidPluginConfig.Error(), material.Name, err.Error())
		return core.ErrInvalidPluginConfig
	}
	material.Plugin = plugin
	return nil
}

// SetDiffuseTexture acquires the named texture (one shared reference) and
// assigns it as the material's diffuse map.
func (ms *MaterialSystem) SetDiffuseTexture(material *metadata.Material, textureName string) error {
	texture, err := ms.textureSystem.Acquire(textureName, true)
	if err != nil {
		return err
	}
	if material.DiffuseTexture != nil {
		ms.textureSystem.Release(material.DiffuseTexture.Texture.Name)
	}
	material.DiffuseTexture = metadata.NewTextureMap(texture)
	material.MarkTexturesDirty()
	return nil
}

// RemoveDiffuseTexture releases the material's diffuse map reference.
func (ms *MaterialSystem) RemoveDiffuseTexture(material *metadata.Material) {
	if material.DiffuseTexture == nil {
		return
	}
	ms.textureSystem.Release(material.DiffuseTexture.Texture.Name)
	material.DiffuseTexture = nil
	material.MarkTexturesDirty()
}

// SetMaxSimultaneousLights changes the material's light cap.
func (ms *MaterialSystem) SetMaxSimultaneousLights(material *metadata.Material, maxLights uint32) {
	if material.MaxSimultaneousLights == maxLights {
		return
	}
	material.MaxSimultaneousLights = maxLights
	material.MarkLightsDirty()
}

// SetDisableLighting toggles all light contribution for the material.
func (ms *MaterialSystem) SetDisableLighting(material *metadata.Material, disabled bool) {
	if material.DisableLighting == disabled {
		return
	}
	material.DisableLighting = disabled
	material.MarkLightsDirty()
}

/**
 * @brief IsReadyForSubMesh reports whether the sub-mesh can be drawn with
 * this material this frame. Not-ready is a valid steady state (texture
 * still loading, effect still compiling), retried by polling next frame.
 *
 * Ready results advance the material's frame cursor so repeated checks
 * within the same frame short-circuit without touching the defines.
 */
func (ms *MaterialSystem) IsReadyForSubMesh(material *metadata.Material, mesh *metadata.Mesh, subMesh *metadata.SubMesh, useInstances bool) bool {
	scene := ms.scene

	// Frozen materials that reached readiness once skip all re-evaluation
	// while the cached effect handle stays valid.
	if material.CheckReadyOnlyOnce && material.WasPreviouslyReady && subMesh.Effect.IsReady() {
		return true
	}

	// Frame-cursor short-circuit: already found ready this frame.
	if subMesh.Effect != nil && !material.CheckReadyOnEveryCall && material.RenderID == scene.RenderID {
		return true
	}

	if subMesh.Defines == nil {
		subMesh.Defines = metadata.NewMaterialDefines()
	}
	subMesh.Material = material
	defines := subMesh.Defines
	defines.SyncDirtyDomains(
		material.TexturesGeneration(),
		material.LightsGeneration()+scene.LightsGeneration(),
		material.MiscGeneration()+scene.MiscGeneration(),
		material.AttributesGeneration(),
	)

	// Textures domain. A present-but-loading texture aborts the whole
	// pass: the set stays unprocessed and the sub-mesh is not drawable.
	if defines.TexturesDirty() {
		if material.DiffuseTexture != nil && scene.TexturesEnabled {
			if !material.DiffuseTexture.Texture.IsReady() {
				return false
			}
			defines.SetDiffuse(true)
			defines.SetNeedUVs(true)
			defines.SetAlphaTest(material.DiffuseTexture.Texture.HasTransparency())
		} else {
			defines.SetDiffuse(false)
			defines.SetNeedUVs(false)
			defines.SetAlphaTest(false)
		}
	}

	// Misc domain.
	if defines.MiscDirty() {
		defines.SetPointSize(mesh.PointsCloud)
		defines.SetFog(scene.FogApplies(mesh))
		defines.SetClipPlaneCount(uint8(len(scene.ClipPlanes)))
		defines.SetDepthPrePass(material.NeedDepthPrePass)
	}

	// Lights domain. Disabled lighting short-circuits to "no lights".
	if defines.LightsDirty() {
		var lightDefines []metadata.LightDefine
		if !material.DisableLighting {
			for _, light := range scene.ActiveLights(material.MaxSimultaneousLights) {
				lightDefines = append(lightDefines, metadata.LightDefine{
					Enabled:   true,
					LightType: light.LightType,
					Shadows:   light.ShadowsEnabled,
					Specular:  light.SpecularEnabled,
				})
			}
		}
		defines.SetLights(lightDefines)
		defines.SetNormal(len(lightDefines) > 0 && mesh.HasNormals)
	}

	// Frame-bound domain: cheap enough to derive every pass.
	defines.SetInstances(useInstances)

	// Attributes domain: what the geometry supplies, intersected with
	// what the domains above demand.
	if defines.AttributesDirty() {
		defines.SetUV1(defines.NeedUVs() && mesh.HasUV1)
		defines.SetUV2(defines.NeedUVs() && mesh.HasUV2)
		defines.SetVertexColor(mesh.UseVertexColors && mesh.HasVertexColors)
		defines.SetVertexAlpha(defines.VertexColor && mesh.HasVertexAlpha)
		if mesh.Skeleton != nil && mesh.NumBoneInfluencers > 0 && mesh.ComputeBonesUsingShaders {
			defines.SetBones(mesh.NumBoneInfluencers, mesh.Skeleton.BoneCount)
		} else {
			defines.SetBones(0, 0)
		}
	}

	defines.MarkAsProcessed()

	if material.Plugin != nil && !material.Plugin.IsReadyForSubMesh(material, scene, subMesh) {
		return false
	}

	// A held effect goes stale when its shader source is hot-reloaded (or
	// another holder already swapped in the recompiled handle); re-acquire
	// to pick the fresh one up.
	stale := ms.effectSystem.IsStale(subMesh.Effect)

	if defines.Changed() || subMesh.Effect == nil || stale {
		fallbacks := ms.buildFallbacks(defines, mesh)
		attributes := buildAttributeList(defines)
		uniformNames, samplerNames := buildUniformLists(defines)
		key := metadata.BuildVariantKey(defines, attributes, uniformNames, samplerNames)

		if subMesh.Effect == nil || subMesh.Effect.Key != key || stale {
			options := &metadata.EffectCreationOptions{
				SourceName:   material.ShaderName,
				Attributes:   attributes,
				UniformNames: uniformNames,
				SamplerNames: samplerNames,
				DefinesText:  defines.RenderKey(),
				Fallbacks:    fallbacks,
			}
			effect, err := ms.effectSystem.Acquire(key, options)
			if err != nil {
				core.LogError("material system: variant acquisition failed for material '%s': %s", material.Name, err.Error())
				return false
			}
			if subMesh.Effect != nil {
				ms.effectSystem.Release(subMesh.Effect.Key, false)
			}
			subMesh.SetEffect(effect)
		}
	}

	if !subMesh.Effect.IsReady() {
		return false
	}

	material.RenderID = scene.RenderID
	material.WasPreviouslyReady = true
	return true
}

/**
 * @brief buildFallbacks assembles the degrade chain for the variant, rank
 * ascending: fog first, then per-light shadow sampling, then CPU skinning
 * when the skeleton exceeds the hardware bone budget.
 */
func (ms *MaterialSystem) buildFallbacks(defines *metadata.MaterialDefines, mesh *metadata.Mesh) *metadata.EffectFallbacks {
	fallbacks := metadata.NewEffectFallbacks()
	rank := uint32(0)

	if defines.Fog {
		fallbacks.AddFallback(rank, "FOG")
		rank++
	}
	for i, light := range defines.Lights() {
		if light.Enabled && light.Shadows {
			fallbacks.AddFallback(rank, fmt.Sprintf("SHADOW%d", i))
			rank++
		}
	}
	if defines.NumBoneInfluencers > 0 && defines.BonesPerMesh > ms.scene.Caps.MaxBones {
		fallbacks.AddCPUSkinningFallback(rank, mesh)
		rank++
	}

	return fallbacks
}

// buildAttributeList resolves which vertex attributes the variant
// consumes. Position is always first; the rest follow the defines.
func buildAttributeList(defines *metadata.MaterialDefines) []string {
	attributes := []string{"position"}
	if defines.Normal {
		attributes = append(attributes, "normal")
	}
	if defines.UV1 {
		attributes = append(attributes, "uv")
	}
	if defines.UV2 {
		attributes = append(attributes, "uv2")
	}
	if defines.VertexColor {
		attributes = append(attributes, "color")
	}
	if defines.NumBoneInfluencers > 0 {
		attributes = append(attributes, "matricesIndices", "matricesWeights")
	}
	if defines.Instances {
		attributes = append(attributes, "world0", "world1", "world2", "world3")
	}
	return attributes
}

// buildUniformLists resolves the uniform and sampler slots the binding
// protocol will write for this variant.
func buildUniformLists(defines *metadata.MaterialDefines) ([]string, []string) {
	uniformNames := []string{"world", "worldViewProjection", "vEyePosition", "vDiffuseColor"}
	var samplerNames []string

	if defines.Diffuse {
		uniformNames = append(uniformNames, "diffuseMatrix")
		samplerNames = append(samplerNames, "diffuseSampler")
	}
	for i := uint8(0); i < defines.ClipPlaneCount; i++ {
		uniformNames = append(uniformNames, fmt.Sprintf("vClipPlane%d", i))
	}
	if defines.PointSize {
		uniformNames = append(uniformNames, "pointSize")
	}
	if defines.Fog {
		uniformNames = append(uniformNames, "vFogInfos", "vFogColor")
	}
	for i, light := range defines.Lights() {
		if !light.Enabled {
			continue
		}
		uniformNames = append(uniformNames, fmt.Sprintf("vLightData%d", i), fmt.Sprintf("vLightDiffuse%d", i))
		if light.Specular {
			uniformNames = append(uniformNames, fmt.Sprintf("vLightSpecular%d", i))
		}
	}
	if defines.NumBoneInfluencers > 0 {
		uniformNames = append(uniformNames, "mBones")
	}

	return uniformNames, samplerNames
}

// GetActiveTextures returns the textures currently contributing to the
// material.
func (ms *MaterialSystem) GetActiveTextures(material *metadata.Material) []*metadata.Texture {
	var textures []*metadata.Texture
	if material.DiffuseTexture != nil {
		textures = append(textures, material.DiffuseTexture.Texture)
	}
	return textures
}

// HasTexture reports whether the material references the given texture.
func (ms *MaterialSystem) HasTexture(material *metadata.Material, texture *metadata.Texture) bool {
	return material.DiffuseTexture != nil && material.DiffuseTexture.Texture == texture
}

// GetAnimatables returns the texture maps a frame animator may drive
// (UV transforms).
func (ms *MaterialSystem) GetAnimatables(material *metadata.Material) []*metadata.TextureMap {
	var animatables []*metadata.TextureMap
	if material.DiffuseTexture != nil {
		animatables = append(animatables, material.DiffuseTexture)
	}
	return animatables
}

/**
 * @brief Dispose releases the material's texture and effect references.
 * In-flight compiles are not cancelled; effects whose variant key is
 * still referenced by other materials stay alive even when
 * forceDisposeEffect is set.
 */
func (ms *MaterialSystem) Dispose(material *metadata.Material, forceDisposeEffect bool) {
	for _, mesh := range ms.scene.Meshes {
		for _, subMesh := range mesh.SubMeshes {
			if subMesh.Material != material {
				continue
			}
			if subMesh.Effect != nil {
				ms.effectSystem.Release(subMesh.Effect.Key, forceDisposeEffect)
				subMesh.SetEffect(nil)
			}
			subMesh.Defines = nil
			subMesh.Material = nil
		}
	}

	ms.RemoveDiffuseTexture(material)
	delete(ms.Lookup, material.Name)
}

// Clone returns a copy of the material under a new name and identity. The
// diffuse texture is shared, with one extra reference taken on it.
func (ms *MaterialSystem) Clone(material *metadata.Material, name string) (*metadata.Material, error) {
	clone, err := ms.CreateMaterial(name)
	if err != nil {
		return nil, err
	}
	clone.DiffuseColor = material.DiffuseColor
	clone.DisableLighting = material.DisableLighting
	clone.MaxSimultaneousLights = material.MaxSimultaneousLights
	clone.Alpha = material.Alpha
	clone.PointSize = material.PointSize
	clone.ShaderName = material.ShaderName
	clone.NeedDepthPrePass = material.NeedDepthPrePass
	clone.CheckReadyOnEveryCall = material.CheckReadyOnEveryCall
	clone.CheckReadyOnlyOnce = material.CheckReadyOnlyOnce
	clone.Plugin = material.Plugin

	if material.DiffuseTexture != nil {
		if err := ms.SetDiffuseTexture(clone, material.DiffuseTexture.Texture.Name); err != nil {
			return nil, err
		}
		clone.DiffuseTexture.UVTransform = material.DiffuseTexture.UVTransform
	}
	return clone, nil
}

// Serialize produces the material's persisted document. The explicit
// field mapping replaces any notion of reflective property scanning.
func (ms *MaterialSystem) Serialize(material *metadata.Material) *metadata.MaterialDocument {
	doc := &metadata.MaterialDocument{
		CustomType:            metadata.StandardMaterialType,
		Name:                  material.Name,
		DisableLighting:       material.DisableLighting,
		MaxSimultaneousLights: material.MaxSimultaneousLights,
		Alpha:                 material.Alpha,
		PointSize:             material.PointSize,
		ShaderName:            material.ShaderName,
	}
	c := material.DiffuseColor
	if c.Components == 4 {
		doc.DiffuseColor = []float32{c.R, c.G, c.B, c.A}
	} else {
		doc.DiffuseColor = []float32{c.R, c.G, c.B}
	}
	if material.DiffuseTexture != nil {
		doc.DiffuseTexture = material.DiffuseTexture.Texture.Name
	}
	if material.Plugin != nil {
		material.Plugin.Serialize(doc)
	}
	return doc
}

// Parse reconstructs a material from its persisted document.
func (ms *MaterialSystem) Parse(doc *metadata.MaterialDocument) (*metadata.Material, error) {
	if doc.CustomType != metadata.StandardMaterialType {
		return nil, fmt.Errorf("material system: unknown material kind '%s'", doc.CustomType)
	}

	material, err := ms.CreateMaterial(doc.Name)
	if err != nil {
		return nil, err
	}
	switch len(doc.DiffuseColor) {
	case 3:
		material.DiffuseColor = metadata.NewColor3(doc.DiffuseColor[0], doc.DiffuseColor[1], doc.DiffuseColor[2])
	case 4:
		material.DiffuseColor = metadata.NewColor4(doc.DiffuseColor[0], doc.DiffuseColor[1], doc.DiffuseColor[2], doc.DiffuseColor[3])
	case 0:
		// Keep the default.
	default:
		ms.Dispose(material, false)
		return nil, fmt.Errorf("material system: diffuse colour must have 3 or 4 components, got %d", len(doc.DiffuseColor))
	}
	material.DisableLighting = doc.DisableLighting
	material.MaxSimultaneousLights = doc.MaxSimultaneousLights
	material.Alpha = doc.Alpha
	if doc.PointSize > 0 {
		material.PointSize = doc.PointSize
	}
	if doc.ShaderName != "" {
		material.ShaderName = doc.ShaderName
	}
	if doc.DiffuseTexture != "" {
		if err := ms.SetDiffuseTexture(material, doc.DiffuseTexture); err != nil {
			ms.Dispose(material, false)
			return nil, err
		}
	}
	return material, nil
}

func (ms *MaterialSystem) Shutdown() error {
	for _, material := range ms.Lookup {
		ms.Dispose(material, false)
	}
	return nil
}
