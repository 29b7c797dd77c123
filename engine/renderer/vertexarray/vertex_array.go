package vertexarray

import (
	"github.com/spaghettifunk/modelrenderer/engine/core"
	"github.com/spaghettifunk/modelrenderer/engine/math"
	"github.com/spaghettifunk/modelrenderer/engine/renderer/backend"
)

// Attribute is one per-vertex field of a VertexArray. Offset is filled in by
// VertexArray.Layout.
type Attribute struct {
	Format backend.Format
	Offset uint32

	array *VertexArray
}

/**
 * @brief A host-side vertex array with a computed byte layout, backed by a
 * chunk of a shared GPU buffer once uploaded.
 *
 * Usage: add attributes, set the vertex count, Layout, fill the backing
 * store through iterators, Upload, then UploadIfNeeded from a command context.
 */
type VertexArray struct {
	manager    *Manager
	bufferType backend.BufferType
	usage      backend.BufferUsage

	attributes       []*Attribute
	numberOfVertices uint32
	stride           uint32

	backingStore []byte
	chunk        *Chunk
}

func New(manager *Manager, bufferType backend.BufferType, usage backend.BufferUsage) *VertexArray {
	return &VertexArray{
		manager:    manager,
		bufferType: bufferType,
		usage:      usage,
	}
}

func (va *VertexArray) AddAttribute(attr *Attribute) {
	core.Ensure(attr.array == nil, "attribute already belongs to a vertex array")
	attr.array = va
	va.attributes = append(va.attributes, attr)
}

func (va *VertexArray) SetNumberOfVertices(n uint32) {
	va.numberOfVertices = n
}

func (va *VertexArray) NumberOfVertices() uint32 {
	return va.numberOfVertices
}

// Layout computes attribute offsets and the stride, then allocates the
// backing store. Attributes are placed in reverse order of addition; vertex
// strides are rounded up to 4 bytes. Any previous GPU chunk is released.
func (va *VertexArray) Layout() {
	va.Free()

	va.stride = 0
	for i := len(va.attributes) - 1; i >= 0; i-- {
		attr := va.attributes[i]
		if attr.Format == backend.FormatUndefined {
			continue
		}
		attr.Offset = va.stride
		va.stride += attr.Format.Size()
		if va.bufferType == backend.BufferTypeVertex {
			va.stride = math.AlignUp(va.stride, 4)
		}
	}

	va.backingStore = make([]byte, va.stride*va.numberOfVertices)
}

// Stride is the byte distance between consecutive vertices.
func (va *VertexArray) Stride() uint32 {
	return va.stride
}

// Offset is the index of the first vertex inside the shared buffer.
func (va *VertexArray) Offset() uint32 {
	core.Ensure(va.chunk != nil, "vertex array has not been uploaded")
	return va.chunk.Index
}

func (va *VertexArray) Buffer() backend.Buffer {
	core.Ensure(va.chunk != nil, "vertex array has not been uploaded")
	return va.chunk.Buffer()
}

func (va *VertexArray) HasBackingStore() bool {
	return va.backingStore != nil
}

// Upload copies the backing store into the GPU chunk, allocating the chunk
// on first use. The data reaches the GPU on the next UploadIfNeeded.
func (va *VertexArray) Upload() error {
	core.Ensure(va.backingStore != nil, "upload without a backing store")
	if va.chunk == nil {
		chunk, err := va.manager.Allocate(va.stride, va.numberOfVertices, va.bufferType, va.usage)
		if err != nil {
			return err
		}
		va.chunk = chunk
	}
	va.manager.Update(va.chunk, va.backingStore)
	return nil
}

// UploadIfNeeded records the pending upload, if any. It reports whether
// the chunk was dirty.
func (va *VertexArray) UploadIfNeeded(ctx backend.DeviceCommandContext) bool {
	core.Ensure(va.chunk != nil, "vertex array has not been uploaded")
	return va.manager.UploadIfNeeded(ctx, va.chunk)
}

// IsUploaded reports whether the array owns a GPU chunk.
func (va *VertexArray) IsUploaded() bool {
	return va.chunk != nil
}

// NeedsUpload reports whether data is waiting for UploadIfNeeded.
func (va *VertexArray) NeedsUpload() bool {
	return va.chunk != nil && va.chunk.needsUpload
}

func (va *VertexArray) PrepareForRendering() {
	core.Ensure(va.chunk != nil, "vertex array has not been uploaded")
	va.manager.PrepareForRendering(va.chunk)
}

// IsPrepared reports whether PrepareForRendering ran since the last Upload.
func (va *VertexArray) IsPrepared() bool {
	return va.chunk != nil && va.chunk.prepared
}

// FreeBackingStore drops the host copy. The GPU chunk is kept.
func (va *VertexArray) FreeBackingStore() {
	va.backingStore = nil
}

// Free releases the GPU chunk and the backing store.
func (va *VertexArray) Free() {
	va.backingStore = nil
	if va.chunk != nil {
		va.manager.Release(va.chunk)
		va.chunk = nil
	}
}

func (attr *Attribute) view() (data []byte, offset, stride, count uint32) {
	va := attr.array
	core.Ensure(va != nil, "attribute is not part of a vertex array")
	core.Ensure(va.backingStore != nil, "vertex array has no backing store")
	return va.backingStore, attr.Offset, va.stride, va.numberOfVertices
}

func (attr *Attribute) Vec2Iterator() Vec2Iterator {
	core.Ensure(attr.Format.Size() >= 8, "%s attribute cannot hold a Vec2", attr.Format)
	data, offset, stride, count := attr.view()
	return Vec2Iterator{iterator{data: data, offset: offset, stride: stride, count: count}}
}

func (attr *Attribute) Vec3Iterator() Vec3Iterator {
	core.Ensure(attr.Format.Size() >= 12, "%s attribute cannot hold a Vec3", attr.Format)
	data, offset, stride, count := attr.view()
	return Vec3Iterator{iterator{data: data, offset: offset, stride: stride, count: count}}
}
