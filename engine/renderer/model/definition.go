package model

import (
	"fmt"

	"github.com/spaghettifunk/modelrenderer/engine/core"
	"github.com/spaghettifunk/modelrenderer/engine/math"
)

const (
	// MaxUVChannels is the number of UV sets a vertex can carry.
	MaxUVChannels = 2
	// MaxVertices is the largest vertex count addressable by 16-bit indices.
	MaxVertices = 1 << 16
	// MaxBoneInfluences is the number of bones that can affect one vertex.
	MaxBoneInfluences = 4
)

// BoneBlend lists the bones influencing a vertex. Weights of unused slots are zero.
type BoneBlend struct {
	Bones   [MaxBoneInfluences]uint8
	Weights [MaxBoneInfluences]float32
}

// Vertex is a vertex in model space.
type Vertex struct {
	Position math.Vec3
	Normal   math.Vec3
	// UVs holds one coordinate per UV channel of the definition.
	UVs   []math.Vec2
	Blend BoneBlend
}

// Face is a triangle referencing three vertices.
type Face [3]uint16

/**
 * @brief Immutable mesh topology shared by every model instance of the same
 * mesh asset.
 */
type Definition struct {
	name            string
	vertices        []Vertex
	faces           []Face
	numUVsPerVertex int
	numBones        int
}

// NewDefinition validates and wraps mesh data. The slices are owned by the
// definition afterwards.
func NewDefinition(name string, vertices []Vertex, faces []Face, numUVsPerVertex, numBones int) (*Definition, error) {
	if numUVsPerVertex < 1 || numUVsPerVertex > MaxUVChannels {
		return nil, fmt.Errorf("%w: '%s' has %d uv channels, want 1..%d", core.ErrInvalidModelDefinition, name, numUVsPerVertex, MaxUVChannels)
	}
	if len(vertices) > MaxVertices {
		return nil, fmt.Errorf("%w: '%s' has %d vertices", core.ErrIndexOverflow, name, len(vertices))
	}
	for i, v := range vertices {
		if len(v.UVs) != numUVsPerVertex {
			return nil, fmt.Errorf("%w: '%s' vertex %d has %d uvs, want %d", core.ErrInvalidModelDefinition, name, i, len(v.UVs), numUVsPerVertex)
		}
		for j, w := range v.Blend.Weights {
			if w > 0 && int(v.Blend.Bones[j]) >= numBones {
				return nil, fmt.Errorf("%w: '%s' vertex %d references bone %d of %d", core.ErrInvalidModelDefinition, name, i, v.Blend.Bones[j], numBones)
			}
		}
	}
	for i, f := range faces {
		for _, idx := range f {
			if int(idx) >= len(vertices) {
				return nil, fmt.Errorf("%w: '%s' face %d references vertex %d of %d", core.ErrInvalidModelDefinition, name, i, idx, len(vertices))
			}
		}
	}

	return &Definition{
		name:            name,
		vertices:        vertices,
		faces:           faces,
		numUVsPerVertex: numUVsPerVertex,
		numBones:        numBones,
	}, nil
}

func (d *Definition) Name() string {
	return d.name
}

func (d *Definition) NumVertices() int {
	return len(d.vertices)
}

func (d *Definition) NumFaces() int {
	return len(d.faces)
}

func (d *Definition) NumUVsPerVertex() int {
	return d.numUVsPerVertex
}

func (d *Definition) NumBones() int {
	return d.numBones
}

// IsSkinned reports whether vertices are blended from bone matrices.
func (d *Definition) IsSkinned() bool {
	return d.numBones > 0
}

// Vertices returns the vertex data. Callers must not modify it.
func (d *Definition) Vertices() []Vertex {
	return d.vertices
}

// Faces returns the face list. Callers must not modify it.
func (d *Definition) Faces() []Face {
	return d.faces
}
