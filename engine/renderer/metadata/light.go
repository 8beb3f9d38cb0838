package metadata

import (
	"github.com/spaghettifunk/materia/engine/math"
)

/** @brief The type of a light, which decides how its data reaches the shader. */
type LightType int

const (
	LightTypePoint LightType = iota
	LightTypeDirectional
	LightTypeSpot
)

/**
 * @brief A single light in the scene. Lights are owned by the scene;
 * materials only read them while deriving variants and binding uniforms.
 */
type Light struct {
	/** @brief The light name. */
	Name string
	/** @brief The light type. */
	LightType LightType
	/** @brief The position in world space. Ignored for directional lights. */
	Position math.Vec3
	/** @brief The direction. Ignored for point lights. */
	Direction math.Vec3
	/** @brief The diffuse contribution. */
	Diffuse math.Vec4
	/** @brief The specular contribution. */
	Specular math.Vec4
	/** @brief Overall brightness multiplier. */
	Intensity float32
	/** @brief Maximum influence distance for point/spot lights. */
	Range float32
	/** @brief Indicates if this light casts shadows. */
	ShadowsEnabled bool
	/** @brief Indicates if this light contributes specular highlights. */
	SpecularEnabled bool
	/** @brief Disabled lights are skipped during variant derivation. */
	Enabled bool
}

// NewDirectionalLight returns an enabled directional light with full
// white diffuse/specular contribution.
func NewDirectionalLight(name string, direction math.Vec3) *Light {
	return &Light{
		Name:            name,
		LightType:       LightTypeDirectional,
		Direction:       direction,
		Diffuse:         math.NewVec4One(),
		Specular:        math.NewVec4One(),
		Intensity:       1.0,
		SpecularEnabled: true,
		Enabled:         true,
	}
}

// NewPointLight returns an enabled point light at the given position.
func NewPointLight(name string, position math.Vec3) *Light {
	return &Light{
		Name:            name,
		LightType:       LightTypePoint,
		Position:        position,
		Diffuse:         math.NewVec4One(),
		Specular:        math.NewVec4One(),
		Intensity:       1.0,
		Range:           100.0,
		SpecularEnabled: true,
		Enabled:         true,
	}
}
