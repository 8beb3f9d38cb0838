package metadata

import (
	"github.com/spaghettifunk/materia/engine/math"
)

/**
 * @brief A skeleton driving GPU (or CPU-fallback) skinning for one mesh.
 * Bone matrices are recomputed by the animation system; this core only
 * uploads them.
 */
type Skeleton struct {
	Name string
	/** @brief The number of bones in the skeleton. */
	BoneCount uint32
	/** @brief The final bone matrices for the current pose. */
	BoneMatrices []math.Mat4
}

/**
 * @brief A mesh in the scene. Describes which vertex attributes the
 * geometry actually supplies; the vertex/index buffers themselves live
 * behind the renderer backend.
 */
type Mesh struct {
	UniqueID uint32
	Name     string
	/** @brief The world transform of the mesh. */
	Transform *math.Transform
	/** @brief The drawable partitions of this mesh. */
	SubMeshes []*SubMesh

	/** @brief Rendered opacity multiplier in [0,1]. */
	Visibility float32

	// Attribute presence, as supplied by the geometry.
	HasNormals      bool
	HasUV1          bool
	HasUV2          bool
	HasVertexColors bool
	HasVertexAlpha  bool

	/** @brief Indicates if vertex colours should be used when present. */
	UseVertexColors bool

	/** @brief The number of bones influencing a single vertex (0..8). */
	NumBoneInfluencers uint8
	/** @brief The skeleton, if the mesh is skinned. */
	Skeleton *Skeleton
	/**
	 * @brief Indicates if skinning runs in the vertex shader. Cleared by
	 * the CPU-skinning fallback when the bone count exceeds hardware limits.
	 */
	ComputeBonesUsingShaders bool

	/** @brief Indicates if scene fog applies to this mesh. */
	ApplyFog bool
	/** @brief Indicates if the mesh is rendered as a point cloud. */
	PointsCloud bool
}

// NewMesh returns a visible mesh with shader skinning enabled and
// fog applied, matching the renderer defaults.
func NewMesh(uniqueID uint32, name string) *Mesh {
	return &Mesh{
		UniqueID:                 uniqueID,
		Name:                     name,
		Transform:                math.TransformCreate(),
		Visibility:               1.0,
		UseVertexColors:          true,
		ComputeBonesUsingShaders: true,
		ApplyFog:                 true,
	}
}

// AddSubMesh appends a new drawable partition and returns it.
func (m *Mesh) AddSubMesh() *SubMesh {
	sm := &SubMesh{
		ID:   uint32(len(m.SubMeshes)),
		Mesh: m,
	}
	m.SubMeshes = append(m.SubMeshes, sm)
	return sm
}

/**
 * @brief One drawable geometry partition of a mesh. A sub-mesh holds a
 * non-owning reference to the compiled effect for its current variant,
 * plus its own defines. Both are created lazily on first evaluation.
 */
type SubMesh struct {
	ID   uint32
	Mesh *Mesh

	/** @brief The material driving this sub-mesh. Not owned. */
	Material *Material

	/** @brief The effect for the current variant. Owned by the effect system. */
	Effect *Effect
	/** @brief The defines describing the current variant. Owned by the sub-mesh. */
	Defines *MaterialDefines
}

// SetEffect swaps the effect reference. The previous effect, if any, is
// still owned by the effect system and stays alive for other sub-meshes.
func (sm *SubMesh) SetEffect(effect *Effect) {
	sm.Effect = effect
}
