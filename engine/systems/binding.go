package systems

import (
	"fmt"

	"github.com/spaghettifunk/materia/engine/core"
	"github.com/spaghettifunk/materia/engine/math"
	"github.com/spaghettifunk/materia/engine/renderer/metadata"
)

/**
 * @brief BindForSubMesh writes the material's uniform and sampler state
 * into the sub-mesh's effect for one draw call.
 *
 * Two state classes are distinguished: program-switch-scoped state is
 * written only when the bound program actually changed since the
 * previous draw (samplers, UV/clip/point-size/eye state); per-draw state
 * (transforms, colour, lights, fog, bones) is written unconditionally.
 * Skipping the first class across consecutive draws that share a program
 * is the performance contract of this protocol.
 */
func (ms *MaterialSystem) BindForSubMesh(material *metadata.Material, world math.Mat4, mesh *metadata.Mesh, subMesh *metadata.SubMesh) error {
	effect := subMesh.Effect
	defines := subMesh.Defines
	if !effect.IsReady() || defines == nil || !defines.IsProcessed() {
		return fmt.Errorf("material system: bind requested for material '%s' before it was ready", material.Name)
	}
	scene := ms.scene

	switched, err := ms.effectSystem.Use(effect)
	if err != nil {
		return err
	}

	var bindErr error
	setUniform := func(name string, value interface{}) {
		if bindErr != nil {
			return
		}
		if err := ms.backend.SetUniform(effect, name, value); err != nil {
			bindErr = err
		}
	}

	if switched {
		if defines.Diffuse && material.DiffuseTexture != nil {
			if err := ms.backend.SetSampler(effect, "diffuseSampler", material.DiffuseTexture); err != nil {
				return err
			}
			setUniform("diffuseMatrix", material.DiffuseTexture.UVTransform)
		}
		for i, plane := range scene.ClipPlanes {
			if i >= int(defines.ClipPlaneCount) {
				break
			}
			setUniform(fmt.Sprintf("vClipPlane%d", i), plane)
		}
		if defines.PointSize {
			setUniform("pointSize", material.PointSize)
		}
		setUniform("vEyePosition", scene.EyePosition)
	}

	setUniform("world", world)
	setUniform("worldViewProjection", world.Mul(scene.ViewMatrix).Mul(scene.ProjectionMatrix))

	// Diffuse colour carries the final opacity: material alpha scaled by
	// mesh visibility, plus the colour's own alpha when it has one.
	alpha := material.Alpha * mesh.Visibility
	c := material.DiffuseColor
	if c.Components == 4 {
		alpha *= c.A
	}
	setUniform("vDiffuseColor", math.NewVec4(c.R, c.G, c.B, alpha))

	if !material.DisableLighting && defines.LightCount() > 0 {
		ms.bindLights(material, defines, setUniform)
	}

	if defines.Fog {
		setUniform("vFogInfos", math.NewVec4(float32(scene.FogMode), scene.FogStart, scene.FogEnd, scene.FogDensity))
		setUniform("vFogColor", scene.FogColor)
	}

	if defines.NumBoneInfluencers > 0 && mesh.Skeleton != nil && mesh.ComputeBonesUsingShaders {
		setUniform("mBones", mesh.Skeleton.BoneMatrices)
	}

	if bindErr != nil {
		core.LogError("material system: uniform binding failed for material '%s': %s", material.Name, bindErr.Error())
		return bindErr
	}

	if material.Plugin != nil {
		if err := material.Plugin.Bind(material, scene, subMesh, effect, ms.backend); err != nil {
			return err
		}
	}
	return nil
}

// bindLights writes the per-light uniforms in the same scene order the
// variant was derived in. Direction rides in the data slot with w=0;
// positions use w=1.
func (ms *MaterialSystem) bindLights(material *metadata.Material, defines *metadata.MaterialDefines, setUniform func(string, interface{})) {
	active := ms.scene.ActiveLights(material.MaxSimultaneousLights)
	for i, lightDefine := range defines.Lights() {
		if !lightDefine.Enabled || i >= len(active) {
			continue
		}
		light := active[i]

		var data math.Vec4
		if light.LightType == metadata.LightTypeDirectional {
			data = math.NewVec4FromVec3(light.Direction, 0.0)
		} else {
			data = math.NewVec4FromVec3(light.Position, 1.0)
		}
		setUniform(fmt.Sprintf("vLightData%d", i), data)
		setUniform(fmt.Sprintf("vLightDiffuse%d", i), light.Diffuse.MulScalar(light.Intensity))
		if lightDefine.Specular {
			setUniform(fmt.Sprintf("vLightSpecular%d", i), light.Specular.MulScalar(light.Intensity))
		}
	}
}
