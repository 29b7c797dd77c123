package model

import (
	"github.com/google/uuid"
	"github.com/spaghettifunk/modelrenderer/engine/math"
)

// UpdateFlags tells a vertex renderer which parts of a model's render data
// are stale.
type UpdateFlags uint32

const (
	RenderDataUpdateVertices UpdateFlags = 1 << iota
	RenderDataUpdateColor
)

// RenderData is the renderer-side state attached to a model.
type RenderData interface {
	// Key identifies the renderer that created the data.
	Key() interface{}
}

/**
 * @brief A renderable instance of a Definition placed in the world.
 */
type Model struct {
	ID         uuid.UUID
	definition *Definition
	transform  *math.Transform

	boneMatrices []math.Mat4
	updateFlags  UpdateFlags
	renderData   RenderData
}

func New(def *Definition, transform *math.Transform) *Model {
	if transform == nil {
		transform = math.TransformCreate()
	}
	m := &Model{
		ID:          uuid.New(),
		definition:  def,
		transform:   transform,
		updateFlags: RenderDataUpdateVertices,
	}
	if def.IsSkinned() {
		m.boneMatrices = make([]math.Mat4, def.NumBones())
		for i := range m.boneMatrices {
			m.boneMatrices[i] = math.NewMat4Identity()
		}
	}
	return m
}

func (m *Model) Definition() *Definition {
	return m.definition
}

func (m *Model) Transform() *math.Transform {
	return m.transform
}

// SetTransform replaces the model pose and invalidates its vertices.
func (m *Model) SetTransform(t *math.Transform) {
	m.transform = t
	m.Invalidate(RenderDataUpdateVertices)
}

// Move applies fn to the current transform and invalidates the vertices.
func (m *Model) Move(fn func(t *math.Transform)) {
	fn(m.transform)
	m.Invalidate(RenderDataUpdateVertices)
}

// BoneMatrices returns the model-space bone matrices of a skinned model.
func (m *Model) BoneMatrices() []math.Mat4 {
	return m.boneMatrices
}

func (m *Model) SetBoneMatrices(bones []math.Mat4) {
	copy(m.boneMatrices, bones)
	m.Invalidate(RenderDataUpdateVertices)
}

func (m *Model) Invalidate(flags UpdateFlags) {
	m.updateFlags |= flags
}

// TakeUpdateFlags returns the pending flags and clears them.
func (m *Model) TakeUpdateFlags() UpdateFlags {
	f := m.updateFlags
	m.updateFlags = 0
	return f
}

func (m *Model) RenderData() RenderData {
	return m.renderData
}

func (m *Model) SetRenderData(data RenderData) {
	m.renderData = data
}
