package modelrenderer

import (
	"github.com/google/uuid"
	"github.com/spaghettifunk/modelrenderer/engine/core"
	"github.com/spaghettifunk/modelrenderer/engine/renderer/backend"
	"github.com/spaghettifunk/modelrenderer/engine/renderer/model"
	"golang.org/x/exp/slices"
)

// ModelRenderer drives a ModelVertexRenderer through a frame: models are
// submitted, updated, uploaded and then drawn grouped by definition.
type ModelRenderer struct {
	vertexRenderer ModelVertexRenderer

	live      map[uuid.UUID]*model.Model
	submitted []*model.Model
	inFrame   map[uuid.UUID]struct{}
}

func NewModelRenderer(vertexRenderer ModelVertexRenderer) *ModelRenderer {
	return &ModelRenderer{
		vertexRenderer: vertexRenderer,
		live:           make(map[uuid.UUID]*model.Model),
		inFrame:        make(map[uuid.UUID]struct{}),
	}
}

// Submit queues m for the current frame, creating its render data if needed.
func (mr *ModelRenderer) Submit(m *model.Model) error {
	if _, ok := mr.inFrame[m.ID]; ok {
		return nil
	}
	data := m.RenderData()
	if data == nil || data.Key() != interface{}(mr.vertexRenderer) {
		created, err := mr.vertexRenderer.CreateModelData(m)
		if err != nil {
			return err
		}
		m.SetRenderData(created)
		m.Invalidate(model.RenderDataUpdateVertices)
		mr.live[m.ID] = m
	}
	mr.inFrame[m.ID] = struct{}{}
	mr.submitted = append(mr.submitted, m)
	return nil
}

// PrepareModels hands every submitted model its pending update flags.
func (mr *ModelRenderer) PrepareModels() error {
	for _, m := range mr.submitted {
		if err := mr.vertexRenderer.UpdateModelData(m, m.RenderData(), m.TakeUpdateFlags()); err != nil {
			core.LogError("failed to update model %s: %s", m.ID, err.Error())
			return err
		}
	}
	return nil
}

func (mr *ModelRenderer) UploadModels(ctx backend.DeviceCommandContext) {
	for _, m := range mr.submitted {
		mr.vertexRenderer.UploadModelData(ctx, m, m.RenderData())
	}
}

// Render draws the submitted models. Definitions are prepared once, in the
// order they were first submitted.
func (mr *ModelRenderer) Render(ctx backend.DeviceCommandContext) {
	var order []*model.Definition
	groups := make(map[*model.Definition][]*model.Model)
	for _, m := range mr.submitted {
		def := m.Definition()
		if _, ok := groups[def]; !ok {
			order = append(order, def)
		}
		groups[def] = append(groups[def], m)
	}

	for _, def := range order {
		mr.vertexRenderer.PrepareModelDef(ctx, def)
		for _, m := range groups[def] {
			mr.vertexRenderer.RenderModel(ctx, m, m.RenderData())
		}
	}
}

// EndFrame clears the submission list. Render data is kept for the next frame.
func (mr *ModelRenderer) EndFrame() {
	mr.submitted = mr.submitted[:0]
	mr.inFrame = make(map[uuid.UUID]struct{})
}

// Remove destroys the render data of m and drops it from the current frame.
func (mr *ModelRenderer) Remove(m *model.Model) {
	if _, ok := mr.live[m.ID]; !ok {
		return
	}
	if _, ok := mr.inFrame[m.ID]; ok {
		delete(mr.inFrame, m.ID)
		mr.submitted = slices.DeleteFunc(mr.submitted, func(s *model.Model) bool { return s.ID == m.ID })
	}
	mr.vertexRenderer.DestroyModelData(m, m.RenderData())
	m.SetRenderData(nil)
	delete(mr.live, m.ID)
}

// LiveModels returns how many models hold render data.
func (mr *ModelRenderer) LiveModels() int {
	return len(mr.live)
}

func (mr *ModelRenderer) Shutdown() error {
	for _, m := range mr.live {
		mr.Remove(m)
	}
	mr.EndFrame()
	return nil
}
