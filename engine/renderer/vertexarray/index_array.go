package vertexarray

import (
	"github.com/spaghettifunk/modelrenderer/engine/core"
	"github.com/spaghettifunk/modelrenderer/engine/renderer/backend"
)

// IndexArray is a VertexArray of 16-bit indices.
type IndexArray struct {
	*VertexArray
	attr Attribute
}

func NewIndexArray(manager *Manager, usage backend.BufferUsage) *IndexArray {
	ia := &IndexArray{
		VertexArray: New(manager, backend.BufferTypeIndex, usage),
		attr:        Attribute{Format: backend.FormatR16Uint},
	}
	ia.AddAttribute(&ia.attr)
	return ia
}

func (ia *IndexArray) Iterator() IndexIterator {
	data, _, _, count := ia.attr.view()
	core.Ensure(ia.Stride() == 2, "index stride %d, want 2", ia.Stride())
	return IndexIterator{data: data, count: count}
}
