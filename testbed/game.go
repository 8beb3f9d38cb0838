package testbed

import (
	"github.com/spaghettifunk/materia/engine"
	"github.com/spaghettifunk/materia/engine/core"
	"github.com/spaghettifunk/materia/engine/math"
	"github.com/spaghettifunk/materia/engine/renderer/metadata"
)

const defaultVertexSource = `
attribute vec3 position;
#ifdef NORMAL
attribute vec3 normal;
#endif
#ifdef UV1
attribute vec2 uv;
#endif
uniform mat4 world;
uniform mat4 worldViewProjection;
void main(void) {
	gl_Position = worldViewProjection * vec4(position, 1.0);
}
`

const defaultFragmentSource = `
uniform vec4 vDiffuseColor;
#ifdef DIFFUSE
uniform sampler2D diffuseSampler;
#endif
void main(void) {
	gl_FragColor = vDiffuseColor;
}
`

/**
 * @brief Game drives a small scene through the engine: a lit textured
 * mesh, a frozen unlit one and a skinned mesh whose bone count exceeds
 * the device limit, so every degrade path runs.
 */
type Game struct {
	engine  *engine.Engine
	backend *SoftwareBackend

	cube    *metadata.Mesh
	ground  *metadata.Mesh
	skinned *metadata.Mesh

	clock   *core.Clock
	metrics *core.FrameMetrics
}

func NewGame(e *engine.Engine, backend *SoftwareBackend) *Game {
	return &Game{
		engine:  e,
		backend: backend,
		clock:   core.NewClock(),
		metrics: core.NewFrameMetrics(),
	}
}

// Metrics returns the FPS and average frame time of the game loop.
func (g *Game) Metrics() (float64, float64) {
	return g.metrics.Frame()
}

func (g *Game) Initialize() error {
	e := g.engine
	scene := e.Scene

	if err := e.Store.RegisterSource(metadata.DefaultMaterialName, defaultVertexSource, defaultFragmentSource); err != nil {
		return err
	}

	scene.Lights = append(scene.Lights,
		metadata.NewDirectionalLight("sun", math.NewVec3(0, -1, 0.3)),
		metadata.NewPointLight("lamp", math.NewVec3(2, 1, 0)),
	)
	scene.MarkLightsDirty()

	scene.FogEnabled = true
	scene.FogMode = metadata.FogModeLinear
	scene.FogStart = 10
	scene.FogEnd = 60
	scene.FogColor = math.NewVec3(0.5, 0.6, 0.7)
	scene.MarkMiscDirty()

	scene.EyePosition = math.NewVec3(0, 2, -6)
	scene.ViewMatrix = math.NewMat4LookAt(scene.EyePosition, math.NewVec3Zero(), math.NewVec3(0, 1, 0))
	scene.ProjectionMatrix = math.NewMat4Perspective(math.DegToRad(60), 16.0/9.0, 0.1, 100)

	// A lit cube with a diffuse texture that finishes loading later.
	crate, err := e.Materials.CreateMaterial("crate")
	if err != nil {
		return err
	}
	if err := e.Materials.SetDiffuseTexture(crate, "crate_diffuse"); err != nil {
		return err
	}

	g.cube = metadata.NewMesh(1, "cube")
	g.cube.HasNormals = true
	g.cube.HasUV1 = true
	cubeSub := g.cube.AddSubMesh()
	cubeSub.Material = crate

	// An unlit ground plane, frozen after first readiness.
	ground, err := e.Materials.CreateMaterial("ground")
	if err != nil {
		return err
	}
	ground.DiffuseColor = metadata.NewColor3(0.3, 0.5, 0.3)
	e.Materials.SetDisableLighting(ground, true)
	ground.Freeze()

	g.ground = metadata.NewMesh(2, "ground")
	g.ground.Transform = math.TransformFromPosition(math.NewVec3(0, -1, 0))
	groundSub := g.ground.AddSubMesh()
	groundSub.Material = ground

	// A skinned character whose skeleton exceeds the device bone limit,
	// forcing the CPU-skinning fallback during compilation.
	skin, err := e.Materials.CreateMaterial("character")
	if err != nil {
		return err
	}
	skin.DiffuseColor = metadata.NewColor4(0.8, 0.7, 0.6, 1.0)

	boneCount := e.Scene.Caps.MaxBones + 32
	g.skinned = metadata.NewMesh(3, "character")
	g.skinned.HasNormals = true
	g.skinned.NumBoneInfluencers = 4
	g.skinned.Skeleton = &metadata.Skeleton{
		Name:         "character_rig",
		BoneCount:    boneCount,
		BoneMatrices: make([]math.Mat4, boneCount),
	}
	skinnedSub := g.skinned.AddSubMesh()
	skinnedSub.Material = skin

	scene.Meshes = append(scene.Meshes, g.cube, g.ground, g.skinned)

	g.clock.Start()
	return nil
}

// Frame runs one render pass: poll readiness for every sub-mesh, bind
// and "draw" the ready ones, then advance the frame counter.
func (g *Game) Frame(frame uint64) {
	e := g.engine
	g.backend.Pump()

	// Simulate the asset system finishing the crate texture load.
	if frame == 3 {
		if err := e.Textures.MarkLoaded("crate_diffuse", 256, 256, 4, 0); err != nil {
			core.LogError(err.Error())
		}
	}

	drawn := 0
	for _, mesh := range e.Scene.Meshes {
		world := mesh.Transform.GetWorld()
		for _, subMesh := range mesh.SubMeshes {
			material := subMesh.Material
			if !e.Materials.IsReadyForSubMesh(material, mesh, subMesh, false) {
				continue
			}
			if err := e.Materials.BindForSubMesh(material, world, mesh, subMesh); err != nil {
				core.LogError(err.Error())
				continue
			}
			drawn++
		}
	}

	g.clock.Update()
	g.metrics.Update(g.clock.Elapsed().Seconds())
	g.clock.Start()

	core.LogDebug("frame %d: drew %d sub-meshes, %d variants cached, %d compiles, %d program switches",
		frame, drawn, e.Effects.EffectCount(), g.backend.CompileCount, g.backend.ProgramSwitches)

	e.Scene.AdvanceFrame()
}
