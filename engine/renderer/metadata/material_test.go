package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNeedAlphaBlending(t *testing.T) {
	m := &Material{DiffuseColor: NewColor3(1, 1, 1), Alpha: 1.0}
	assert.False(t, m.NeedAlphaBlending())

	m.Alpha = 0.5
	assert.True(t, m.NeedAlphaBlending())

	// A four-component colour with a translucent alpha blends even at
	// full material opacity; a three-component one never does.
	m.Alpha = 1.0
	m.DiffuseColor = NewColor4(1, 1, 1, 0.3)
	assert.True(t, m.NeedAlphaBlending())

	m.DiffuseColor = NewColor3(1, 1, 1)
	assert.False(t, m.NeedAlphaBlending())
}

func TestColorValueComponents(t *testing.T) {
	c3 := NewColor3(0.2, 0.4, 0.6)
	assert.Equal(t, uint8(3), c3.Components)
	assert.Equal(t, float32(1.0), c3.A)

	c4 := NewColor4(0.2, 0.4, 0.6, 0.8)
	assert.Equal(t, uint8(4), c4.Components)

	scaled := c4.Scaled(0.5)
	assert.Equal(t, float32(0.1), scaled.R)
	assert.Equal(t, float32(0.8), scaled.A)
}

func TestMaterialGenerationCounters(t *testing.T) {
	m := &Material{}
	m.MarkTexturesDirty()
	m.MarkTexturesDirty()
	m.MarkLightsDirty()

	assert.Equal(t, uint64(2), m.TexturesGeneration())
	assert.Equal(t, uint64(1), m.LightsGeneration())
	assert.Equal(t, uint64(0), m.MiscGeneration())
	assert.Equal(t, uint64(0), m.AttributesGeneration())
}

func TestFreezeUnfreeze(t *testing.T) {
	m := &Material{}
	m.Freeze()
	assert.True(t, m.CheckReadyOnlyOnce)

	m.WasPreviouslyReady = true
	m.Unfreeze()
	assert.False(t, m.CheckReadyOnlyOnce)
	assert.False(t, m.WasPreviouslyReady)
}
