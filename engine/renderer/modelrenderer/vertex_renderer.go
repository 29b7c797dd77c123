package modelrenderer

import (
	"github.com/spaghettifunk/modelrenderer/engine/renderer/backend"
	"github.com/spaghettifunk/modelrenderer/engine/renderer/model"
)

// ModelData is the per-model state created by a ModelVertexRenderer.
type ModelData interface {
	model.RenderData
}

// ModelVertexRenderer builds and submits the vertex data of models. All
// calls happen on the render thread.
type ModelVertexRenderer interface {
	// CreateModelData builds the per-model state, creating the shared
	// definition data first if this renderer has not seen the definition.
	CreateModelData(m *model.Model) (ModelData, error)
	// UpdateModelData refreshes the per-model data. It runs once per frame
	// for every model that will be rendered. The first update builds the
	// vertices whatever the flags say.
	UpdateModelData(m *model.Model, data ModelData, flags model.UpdateFlags) error
	// UploadModelData records pending uploads of the model and its definition.
	UploadModelData(ctx backend.DeviceCommandContext, m *model.Model, data ModelData)
	DestroyModelData(m *model.Model, data ModelData)
	// PrepareModelDef binds the shared state of def. Models of def can be
	// rendered until the next PrepareModelDef.
	PrepareModelDef(ctx backend.DeviceCommandContext, def *model.Definition)
	RenderModel(ctx backend.DeviceCommandContext, m *model.Model, data ModelData)
	Shutdown() error
}
