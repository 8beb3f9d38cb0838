package metadata

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderKeyStableOrder(t *testing.T) {
	// Two sets with the same flags raised in different orders must emit
	// identical preprocessor text.
	a := NewMaterialDefines()
	a.SetDiffuse(true)
	a.SetFog(true)
	a.SetUV1(true)
	a.SetLights([]LightDefine{{Enabled: true, LightType: LightTypeDirectional}})

	b := NewMaterialDefines()
	b.SetLights([]LightDefine{{Enabled: true, LightType: LightTypeDirectional}})
	b.SetUV1(true)
	b.SetFog(true)
	b.SetDiffuse(true)

	assert.Equal(t, a.RenderKey(), b.RenderKey())
}

func TestRenderKeyFlags(t *testing.T) {
	d := NewMaterialDefines()
	d.SetDiffuse(true)
	d.SetFog(true)
	d.SetClipPlaneCount(2)
	d.SetBones(4, 58)
	d.SetLights([]LightDefine{
		{Enabled: true, LightType: LightTypePoint, Shadows: true, Specular: true},
		{Enabled: true, LightType: LightTypeDirectional},
	})

	key := d.RenderKey()
	assert.Contains(t, key, "#define DIFFUSE\n")
	assert.Contains(t, key, "#define FOG\n")
	assert.Contains(t, key, "#define CLIPPLANE 2\n")
	assert.Contains(t, key, "#define NUM_BONE_INFLUENCERS 4\n")
	assert.Contains(t, key, "#define BonesPerMesh 58\n")
	assert.Contains(t, key, "#define LIGHT0\n")
	assert.Contains(t, key, "#define POINTLIGHT0\n")
	assert.Contains(t, key, "#define SHADOW0\n")
	assert.Contains(t, key, "#define DIRLIGHT1\n")
	assert.Contains(t, key, "#define SPECULARTERM\n")
	assert.NotContains(t, key, "#define ALPHATEST\n")
}

func TestRenderKeyOmitsBoneBudgetWhenUnskinned(t *testing.T) {
	d := NewMaterialDefines()
	d.SetBones(0, 0)

	key := d.RenderKey()
	assert.Contains(t, key, "#define NUM_BONE_INFLUENCERS 0\n")
	assert.NotContains(t, key, "BonesPerMesh")
}

func TestRenderKeyClearsChanged(t *testing.T) {
	d := NewMaterialDefines()
	d.SetDiffuse(true)
	require.True(t, d.Changed())

	first := d.RenderKey()
	assert.False(t, d.Changed())

	// Cached path: no mutation since the last build.
	assert.Equal(t, first, d.RenderKey())

	// Setting a flag to its current value is not a change.
	d.SetDiffuse(true)
	assert.False(t, d.Changed())

	d.SetDiffuse(false)
	assert.True(t, d.Changed())
	assert.NotEqual(t, first, d.RenderKey())
}

func TestBuildVariantKeyListOrderIndependent(t *testing.T) {
	a := NewMaterialDefines()
	b := NewMaterialDefines()

	keyA := BuildVariantKey(a,
		[]string{"position", "normal", "uv"},
		[]string{"world", "vDiffuseColor"},
		[]string{"diffuseSampler"})
	keyB := BuildVariantKey(b,
		[]string{"uv", "position", "normal"},
		[]string{"vDiffuseColor", "world"},
		[]string{"diffuseSampler"})

	assert.Equal(t, keyA, keyB)
}

func TestBuildVariantKeyDistinguishesLists(t *testing.T) {
	a := NewMaterialDefines()
	b := NewMaterialDefines()

	keyA := BuildVariantKey(a, []string{"position"}, []string{"world"}, nil)
	keyB := BuildVariantKey(b, []string{"position", "normal"}, []string{"world"}, nil)

	assert.NotEqual(t, keyA, keyB)
}

func TestSyncDirtyDomains(t *testing.T) {
	d := NewMaterialDefines()
	d.MarkAsProcessed()
	require.False(t, d.TexturesDirty())

	// First divergence of the lights counter dirties lights and, because
	// light demand affects normals, attributes too.
	d.SyncDirtyDomains(0, 1, 0, 0)
	assert.False(t, d.TexturesDirty())
	assert.True(t, d.LightsDirty())
	assert.False(t, d.MiscDirty())
	assert.True(t, d.AttributesDirty())
	assert.False(t, d.IsProcessed())

	d.MarkAsProcessed()

	// The same counters again are a no-op.
	d.SyncDirtyDomains(0, 1, 0, 0)
	assert.False(t, d.LightsDirty())
	assert.True(t, d.IsProcessed())

	d.SyncDirtyDomains(1, 1, 0, 0)
	assert.True(t, d.TexturesDirty())
	assert.True(t, d.AttributesDirty())
}

func TestSetLightsDerivesSpecular(t *testing.T) {
	d := NewMaterialDefines()

	d.SetLights([]LightDefine{{Enabled: true, LightType: LightTypePoint}})
	assert.False(t, d.SpecularTerm)
	assert.Equal(t, 1, d.LightCount())

	d.SetLights([]LightDefine{{Enabled: true, LightType: LightTypePoint, Specular: true}})
	assert.True(t, d.SpecularTerm)

	d.SetLights(nil)
	assert.False(t, d.SpecularTerm)
	assert.Equal(t, 0, d.LightCount())
}

func TestSetLightsEqualSliceIsNotAChange(t *testing.T) {
	d := NewMaterialDefines()
	lights := []LightDefine{{Enabled: true, LightType: LightTypeDirectional}}
	d.SetLights(lights)
	d.RenderKey()
	require.False(t, d.Changed())

	d.SetLights([]LightDefine{{Enabled: true, LightType: LightTypeDirectional}})
	assert.False(t, d.Changed())
}

func TestRenderKeyIsValidPreprocessorText(t *testing.T) {
	d := NewMaterialDefines()
	d.SetDiffuse(true)
	d.SetFog(true)

	for _, line := range strings.Split(strings.TrimSuffix(d.RenderKey(), "\n"), "\n") {
		assert.True(t, strings.HasPrefix(line, "#define "), "line %q", line)
	}
}
