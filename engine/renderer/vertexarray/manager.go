package vertexarray

import (
	"fmt"

	"github.com/spaghettifunk/modelrenderer/engine/core"
	"github.com/spaghettifunk/modelrenderer/engine/renderer/backend"
	"golang.org/x/exp/slices"
)

const (
	// DefaultVertexBufferSize is the byte size of a shared vertex buffer.
	DefaultVertexBufferSize uint32 = 4 << 20
	// DefaultIndexBufferSize is the byte size of a shared index buffer.
	DefaultIndexBufferSize uint32 = 1 << 20
)

type region struct {
	index uint32
	count uint32
}

// sharedBuffer is a device buffer split into fixed-stride elements that
// chunks are carved out of.
type sharedBuffer struct {
	buffer     backend.Buffer
	bufferType backend.BufferType
	usage      backend.BufferUsage
	stride     uint32
	capacity   uint32
	free       []region
	used       uint32
}

// Chunk is a contiguous range of elements inside a shared buffer.
type Chunk struct {
	owner *sharedBuffer
	// Index of the first element inside the shared buffer.
	Index uint32
	// Count is the number of usable elements.
	Count uint32
	// reserved may exceed Count for empty arrays, which still occupy one element.
	reserved uint32

	pending     []byte
	needsUpload bool
	prepared    bool
	released    bool
}

func (c *Chunk) Buffer() backend.Buffer {
	return c.owner.buffer
}

func (c *Chunk) Stride() uint32 {
	return c.owner.stride
}

// Manager sub-allocates vertex and index chunks from shared device buffers.
// Buffers are grouped by type, usage and stride; a new buffer is created
// when no free region fits.
type Manager struct {
	device           backend.Device
	vertexBufferSize uint32
	indexBufferSize  uint32
	buffers          []*sharedBuffer
	nextBufferID     uint32
}

type ManagerConfig struct {
	VertexBufferSize uint32
	IndexBufferSize  uint32
}

func NewManager(device backend.Device, config *ManagerConfig) *Manager {
	m := &Manager{
		device:           device,
		vertexBufferSize: DefaultVertexBufferSize,
		indexBufferSize:  DefaultIndexBufferSize,
	}
	if config != nil {
		if config.VertexBufferSize > 0 {
			m.vertexBufferSize = config.VertexBufferSize
		}
		if config.IndexBufferSize > 0 {
			m.indexBufferSize = config.IndexBufferSize
		}
	}
	return m
}

// Allocate reserves count elements of stride bytes.
func (m *Manager) Allocate(stride, count uint32, bufferType backend.BufferType, usage backend.BufferUsage) (*Chunk, error) {
	core.Ensure(stride > 0, "allocating a chunk with zero stride")
	reserved := count
	if reserved == 0 {
		reserved = 1
	}

	for _, sb := range m.buffers {
		if sb.bufferType != bufferType || sb.usage != usage || sb.stride != stride {
			continue
		}
		if index, ok := sb.take(reserved); ok {
			return &Chunk{owner: sb, Index: index, Count: count, reserved: reserved}, nil
		}
	}

	sb, err := m.newSharedBuffer(stride, reserved, bufferType, usage)
	if err != nil {
		return nil, err
	}
	index, ok := sb.take(reserved)
	core.Ensure(ok, "fresh buffer of %d elements cannot hold %d", sb.capacity, reserved)
	return &Chunk{owner: sb, Index: index, Count: count, reserved: reserved}, nil
}

func (m *Manager) newSharedBuffer(stride, minElements uint32, bufferType backend.BufferType, usage backend.BufferUsage) (*sharedBuffer, error) {
	size := m.vertexBufferSize
	if bufferType == backend.BufferTypeIndex {
		size = m.indexBufferSize
	}
	capacity := size / stride
	if capacity < minElements {
		capacity = minElements
	}

	name := fmt.Sprintf("%s-buffer-%d", bufferType, m.nextBufferID)
	m.nextBufferID++
	buffer, err := m.device.CreateBuffer(name, bufferType, capacity*stride, usage)
	if err != nil {
		core.LogError("failed to create shared %s buffer: %s", bufferType, err.Error())
		return nil, err
	}

	sb := &sharedBuffer{
		buffer:     buffer,
		bufferType: bufferType,
		usage:      usage,
		stride:     stride,
		capacity:   capacity,
		free:       []region{{index: 0, count: capacity}},
	}
	m.buffers = append(m.buffers, sb)
	return sb, nil
}

// Release returns the chunk to its buffer. Empty buffers are destroyed.
func (m *Manager) Release(chunk *Chunk) {
	if chunk == nil || chunk.released {
		return
	}
	chunk.released = true
	chunk.pending = nil
	sb := chunk.owner
	sb.give(region{index: chunk.Index, count: chunk.reserved})

	if sb.used == 0 {
		m.device.DestroyBuffer(sb.buffer)
		for i, b := range m.buffers {
			if b == sb {
				m.buffers = append(m.buffers[:i], m.buffers[i+1:]...)
				break
			}
		}
	}
}

// Update stores data for the next UploadIfNeeded call.
func (m *Manager) Update(chunk *Chunk, data []byte) {
	core.Ensure(!chunk.released, "updating a released chunk")
	core.Ensure(uint32(len(data)) == chunk.Count*chunk.owner.stride, "chunk update of %d bytes, want %d", len(data), chunk.Count*chunk.owner.stride)
	chunk.pending = append(chunk.pending[:0], data...)
	chunk.needsUpload = true
	chunk.prepared = false
}

// UploadIfNeeded records an upload of pending chunk data. Static chunks drop
// their host copy afterwards.
func (m *Manager) UploadIfNeeded(ctx backend.DeviceCommandContext, chunk *Chunk) bool {
	if !chunk.needsUpload {
		return false
	}
	chunk.needsUpload = false
	if len(chunk.pending) > 0 {
		ctx.UploadBufferRegion(chunk.owner.buffer, chunk.pending, chunk.Index*chunk.owner.stride)
	}
	if !chunk.owner.usage.Has(backend.BufferUsageDynamic) {
		chunk.pending = nil
	}
	return true
}

// PrepareForRendering marks the chunk as used by the current frame.
func (m *Manager) PrepareForRendering(chunk *Chunk) {
	chunk.prepared = true
}

// BufferCount returns the number of live shared buffers.
func (m *Manager) BufferCount() int {
	return len(m.buffers)
}

func (m *Manager) Shutdown() error {
	for _, sb := range m.buffers {
		m.device.DestroyBuffer(sb.buffer)
	}
	m.buffers = nil
	return nil
}

// take removes count elements from the first free region that fits.
func (sb *sharedBuffer) take(count uint32) (uint32, bool) {
	for i, r := range sb.free {
		if r.count < count {
			continue
		}
		index := r.index
		if r.count == count {
			sb.free = append(sb.free[:i], sb.free[i+1:]...)
		} else {
			sb.free[i] = region{index: r.index + count, count: r.count - count}
		}
		sb.used += count
		return index, true
	}
	return 0, false
}

// give returns a region to the free list, merging it with its neighbours.
func (sb *sharedBuffer) give(r region) {
	sb.used -= r.count
	sb.free = append(sb.free, r)
	slices.SortFunc(sb.free, func(a, b region) int {
		return int(a.index) - int(b.index)
	})

	merged := sb.free[:1]
	for _, next := range sb.free[1:] {
		last := &merged[len(merged)-1]
		if last.index+last.count == next.index {
			last.count += next.count
			continue
		}
		merged = append(merged, next)
	}
	sb.free = merged
}
