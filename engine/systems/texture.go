package systems

import (
	"fmt"

	"github.com/spaghettifunk/materia/engine/core"
	"github.com/spaghettifunk/materia/engine/renderer"
	"github.com/spaghettifunk/materia/engine/renderer/metadata"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type TextureSystemConfig struct {
	/** @brief The maximum number of textures registered at once. */
	MaxTextureCount uint32
}

type textureReference struct {
	texture        *metadata.Texture
	referenceCount uint64
	autoRelease    bool
}

/**
 * @brief TextureSystem tracks shared ownership of textures by name. A
 * texture may be referenced by many materials; with autoRelease it is
 * destroyed when the last reference is released. The pixel data itself
 * is loaded by the asset system; entries start out not-ready and are
 * marked loaded when their data arrives.
 */
type TextureSystem struct {
	Config *TextureSystemConfig
	// Name -> reference-counted registration.
	registered map[string]*textureReference
	// A ready, all-white stand-in for materials without a diffuse map.
	defaultDiffuse *metadata.Texture
	nextID         uint32
	// sub systems
	backend renderer.RendererBackend
}

func NewTextureSystem(config *TextureSystemConfig, backend renderer.RendererBackend) (*TextureSystem, error) {
	if config.MaxTextureCount == 0 {
		err := fmt.Errorf("func NewTextureSystem - config.MaxTextureCount must be > 0")
		core.LogError(err.Error())
		return nil, err
	}

	ts := &TextureSystem{
		Config:     config,
		registered: make(map[string]*textureReference),
		backend:    backend,
	}

	// The default diffuse texture is generated, not loaded, so it is
	// ready from the start.
	ts.defaultDiffuse = &metadata.Texture{
		ID:           ts.newTextureID(),
		Name:         metadata.DEFAULT_DIFFUSE_TEXTURE_NAME,
		Width:        16,
		Height:       16,
		ChannelCount: 4,
		Generation:   0,
	}

	return ts, nil
}

/**
 * @brief Acquire returns the named texture and increments its reference
 * count, registering a new not-ready entry on first acquisition. The
 * asset system fills the entry in and marks it loaded later.
 */
func (ts *TextureSystem) Acquire(name string, autoRelease bool) (*metadata.Texture, error) {
	if name == metadata.DEFAULT_DIFFUSE_TEXTURE_NAME {
		core.LogWarn("texture system: Acquire called for default texture, use GetDefaultDiffuseTexture instead")
		return ts.defaultDiffuse, nil
	}

	if ref, exists := ts.registered[name]; exists {
		ref.referenceCount++
		return ref.texture, nil
	}

	if uint32(len(ts.registered)) >= ts.Config.MaxTextureCount {
		err := fmt.Errorf("texture system: registry full (%d), cannot register '%s'", ts.Config.MaxTextureCount, name)
		core.LogError(err.Error())
		return nil, err
	}

	texture := &metadata.Texture{
		ID:         ts.newTextureID(),
		Name:       name,
		Generation: metadata.InvalidID,
	}
	ts.registered[name] = &textureReference{
		texture:        texture,
		referenceCount: 1,
		autoRelease:    autoRelease,
	}
	return texture, nil
}

/**
 * @brief Release drops one reference on the named texture. With
 * autoRelease, the last release destroys the texture.
 */
func (ts *TextureSystem) Release(name string) {
	if name == metadata.DEFAULT_DIFFUSE_TEXTURE_NAME {
		return
	}
	ref, exists := ts.registered[name]
	if !exists {
		core.LogWarn("texture system: Release called for unregistered texture '%s'", name)
		return
	}
	if ref.referenceCount > 0 {
		ref.referenceCount--
	}
	if ref.referenceCount == 0 && ref.autoRelease {
		if err := ts.backend.TextureDestroy(ref.texture); err != nil {
			core.LogError(err.Error())
		}
		delete(ts.registered, name)
	}
}

// MarkLoaded records that the asset system finished loading the named
// texture's data, bumping its generation and making it ready.
func (ts *TextureSystem) MarkLoaded(name string, width, height uint32, channelCount uint8, flags metadata.TextureFlagBits) error {
	ref, exists := ts.registered[name]
	if !exists {
		return fmt.Errorf("texture system: MarkLoaded called for unregistered texture '%s'", name)
	}
	t := ref.texture
	t.Width = width
	t.Height = height
	t.ChannelCount = channelCount
	t.Flags = flags
	if t.Generation == metadata.InvalidID {
		t.Generation = 0
	} else {
		t.Generation++
	}
	return nil
}

func (ts *TextureSystem) GetDefaultDiffuseTexture() *metadata.Texture {
	return ts.defaultDiffuse
}

// ReferenceCount reports how many holders reference the named texture.
func (ts *TextureSystem) ReferenceCount(name string) uint64 {
	if ref, exists := ts.registered[name]; exists {
		return ref.referenceCount
	}
	return 0
}

// Snapshot returns the registered textures sorted by name. Variant
// evaluation reads this instead of touching the live registry.
func (ts *TextureSystem) Snapshot() []*metadata.Texture {
	names := maps.Keys(ts.registered)
	slices.Sort(names)
	textures := make([]*metadata.Texture, 0, len(names))
	for _, name := range names {
		textures = append(textures, ts.registered[name].texture)
	}
	return textures
}

func (ts *TextureSystem) Shutdown() error {
	for name, ref := range ts.registered {
		if err := ts.backend.TextureDestroy(ref.texture); err != nil {
			core.LogError(err.Error())
			return err
		}
		delete(ts.registered, name)
	}
	return nil
}

func (ts *TextureSystem) newTextureID() uint32 {
	id := ts.nextID
	ts.nextID++
	return id
}
