// Package dummy is a headless backend. Buffers live in host memory and
// command contexts record what they were asked to do, which makes the
// renderer usable without a GPU and observable from tests.
package dummy

import (
	"fmt"

	"github.com/spaghettifunk/modelrenderer/engine/core"
	"github.com/spaghettifunk/modelrenderer/engine/renderer/backend"
)

// MaxBufferSize caps a single buffer allocation.
const MaxBufferSize uint32 = 256 << 20

type Buffer struct {
	name       string
	bufferType backend.BufferType
	usage      backend.BufferUsage
	data       []byte
	destroyed  bool
}

var _ backend.Buffer = (*Buffer)(nil)

func (b *Buffer) Name() string { return b.name }
func (b *Buffer) Type() backend.BufferType { return b.bufferType }
func (b *Buffer) Usage() backend.BufferUsage { return b.usage }
func (b *Buffer) Size() uint32 { return uint32(len(b.data)) }
func (b *Buffer) Destroyed() bool { return b.destroyed }

// Bytes exposes the buffer memory as last written by uploads.
func (b *Buffer) Bytes() []byte {
	return b.data
}

type Device struct {
	buffers []*Buffer
}

var _ backend.Device = (*Device)(nil)

func NewDevice() *Device {
	return &Device{}
}

func (d *Device) Name() string {
	return "dummy"
}

func (d *Device) CreateBuffer(name string, bufferType backend.BufferType, size uint32, usage backend.BufferUsage) (backend.Buffer, error) {
	if size > MaxBufferSize {
		return nil, fmt.Errorf("%w: %s buffer '%s' of %d bytes", core.ErrBufferTooLarge, bufferType, name, size)
	}
	b := &Buffer{
		name:       name,
		bufferType: bufferType,
		usage:      usage,
		data:       make([]byte, size),
	}
	d.buffers = append(d.buffers, b)
	core.LogDebug("dummy device: created %s buffer '%s' (%d bytes)", bufferType, name, size)
	return b, nil
}

func (d *Device) DestroyBuffer(buffer backend.Buffer) {
	b, ok := buffer.(*Buffer)
	if !ok {
		core.LogWarn("dummy device: cannot destroy foreign buffer '%s'", buffer.Name())
		return
	}
	b.destroyed = true
	b.data = nil
	for i, existing := range d.buffers {
		if existing == b {
			d.buffers = append(d.buffers[:i], d.buffers[i+1:]...)
			break
		}
	}
}

// Buffers returns the live buffers in creation order.
func (d *Device) Buffers() []*Buffer {
	out := make([]*Buffer, len(d.buffers))
	copy(out, d.buffers)
	return out
}

func (d *Device) CreateCommandContext() backend.DeviceCommandContext {
	return NewCommandContext()
}
