package renderer

import (
	"fmt"

	"github.com/spaghettifunk/modelrenderer/engine/core"
	"github.com/spaghettifunk/modelrenderer/engine/renderer/backend"
	"github.com/spaghettifunk/modelrenderer/engine/renderer/vertexarray"
)

var renderers = core.NewIdentifiers(4)

type RendererConfig struct {
	VertexBufferSize uint32
	IndexBufferSize  uint32
}

/**
 * @brief Owns the device, the shared vertex buffers and the per-frame statistics.
 */
type Renderer struct {
	id      uint32
	device  backend.Device
	manager *vertexarray.Manager
	layouts map[string]*backend.VertexInputLayout
	stats   Statistics
	frame   uint64
}

func New(device backend.Device, config *RendererConfig) *Renderer {
	r := &Renderer{
		device:  device,
		layouts: make(map[string]*backend.VertexInputLayout),
	}
	mc := &vertexarray.ManagerConfig{}
	if config != nil {
		mc.VertexBufferSize = config.VertexBufferSize
		mc.IndexBufferSize = config.IndexBufferSize
	}
	r.manager = vertexarray.NewManager(device, mc)
	r.id = renderers.Acquire(r)
	core.LogInfo("renderer %d created on device '%s'", r.id, device.Name())
	return r
}

func (r *Renderer) ID() uint32 {
	return r.id
}

func (r *Renderer) Device() backend.Device {
	return r.device
}

// VertexArrays returns the manager shared buffers are allocated from.
func (r *Renderer) VertexArrays() *vertexarray.Manager {
	return r.manager
}

// GetVertexInputLayout returns the layout for attrs, creating it on first
// request. Equal attribute lists share one layout.
func (r *Renderer) GetVertexInputLayout(attrs []backend.VertexAttributeFormat) *backend.VertexInputLayout {
	key := backend.LayoutKey(attrs)
	if l, ok := r.layouts[key]; ok {
		return l
	}
	l := backend.NewVertexInputLayout(attrs)
	r.layouts[key] = l
	return l
}

// Stats returns the counters of the current frame.
func (r *Renderer) Stats() *Statistics {
	return &r.stats
}

func (r *Renderer) Frame() uint64 {
	return r.frame
}

// BeginFrame resets the statistics and advances the frame number.
func (r *Renderer) BeginFrame() {
	r.stats.Reset()
	r.frame++
}

func (r *Renderer) Shutdown() error {
	if err := r.manager.Shutdown(); err != nil {
		return err
	}
	r.layouts = make(map[string]*backend.VertexInputLayout)
	if err := renderers.Release(r.id); err != nil {
		return fmt.Errorf("renderer %d shutdown: %w", r.id, err)
	}
	return nil
}
