package metadata

import (
	"github.com/spaghettifunk/materia/engine/math"
)

const (
	/** @brief The default diffuse texture name. */
	DEFAULT_DIFFUSE_TEXTURE_NAME string = "default_DIFF"
)

type TextureFlag int

const (
	/** @brief Indicates if the texture has transparency. */
	TextureFlagHasTransparency TextureFlag = 0x1
	/** @brief Indicates if the texture can be written (rendered) to. */
	TextureFlagIsWriteable TextureFlag = 0x2
)

/** @brief Holds bit flags for textures. */
type TextureFlagBits uint8

/**
 * @brief Represents a texture on the frontend. The pixel data itself is
 * owned by the asset system; this type only describes it to the renderer.
 */
type Texture struct {
	/** @brief The unique texture identifier. */
	ID uint32
	/** @brief The texture Width. */
	Width uint32
	/** @brief The texture Height. */
	Height uint32
	/** @brief The number of channels in the texture. */
	ChannelCount uint8
	/** @brief Holds various Flags for this texture. */
	Flags TextureFlagBits
	/**
	 * @brief The texture Generation. Incremented every time the data is
	 * reloaded. InvalidID until the asset system has finished loading it.
	 */
	Generation uint32
	/** @brief The texture Name. */
	Name string
	/** @brief An opaque pointer for renderer API specific data. */
	InternalData interface{}
}

// IsReady reports whether the texture has finished loading and can
// contribute to a shader variant. A nil texture is never ready.
func (t *Texture) IsReady() bool {
	return t != nil && t.Generation != InvalidID
}

// HasTransparency reports whether the texture carries an alpha channel
// with actual transparency, which forces alpha testing in the variant.
func (t *Texture) HasTransparency() bool {
	return t != nil && t.Flags&TextureFlagBits(TextureFlagHasTransparency) != 0
}

/** @brief Represents supported texture filtering modes. */
type TextureFilter int

const (
	/** @brief Nearest-neighbor filtering. */
	TextureFilterModeNearest TextureFilter = 0x0
	/** @brief Linear (i.e. bilinear) filtering.*/
	TextureFilterModeLinear TextureFilter = 0x1
)

type TextureRepeat int

const (
	TextureRepeatRepeat         TextureRepeat = 0x1
	TextureRepeatMirroredRepeat TextureRepeat = 0x2
	TextureRepeatClampToEdge    TextureRepeat = 0x3
)

/**
 * @brief A structure which maps a texture, its UV transform and
 * sampling properties.
 */
type TextureMap struct {
	/** @brief A pointer to a Texture. */
	Texture *Texture
	/** @brief The transform applied to UV coordinates when sampling. */
	UVTransform math.Mat4
	/** @brief Texture filtering mode for minification. */
	FilterMinify TextureFilter
	/** @brief Texture filtering mode for magnification. */
	FilterMagnify TextureFilter
	/** @brief The repeat mode on the U axis (or X, or S) */
	RepeatU TextureRepeat
	/** @brief The repeat mode on the V axis (or Y, or T) */
	RepeatV TextureRepeat
	/** @brief A pointer to internal, render API-specific data. Typically the internal sampler. */
	InternalData interface{}
}

// NewTextureMap wraps a texture with linear filtering, repeat wrapping and
// an identity UV transform.
func NewTextureMap(texture *Texture) *TextureMap {
	return &TextureMap{
		Texture:       texture,
		UVTransform:   math.NewMat4Identity(),
		FilterMinify:  TextureFilterModeLinear,
		FilterMagnify: TextureFilterModeLinear,
		RepeatU:       TextureRepeatRepeat,
		RepeatV:       TextureRepeatRepeat,
	}
}
