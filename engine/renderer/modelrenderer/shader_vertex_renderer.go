package modelrenderer

import (
	"fmt"

	"github.com/spaghettifunk/modelrenderer/engine/core"
	"github.com/spaghettifunk/modelrenderer/engine/renderer"
	"github.com/spaghettifunk/modelrenderer/engine/renderer/backend"
	"github.com/spaghettifunk/modelrenderer/engine/renderer/model"
	"github.com/spaghettifunk/modelrenderer/engine/renderer/vertexarray"
)

const (
	// static UV data of the definition
	sharedBindingSlot uint32 = 0
	// dynamic position and normal data of the model
	modelBindingSlot uint32 = 1
)

// positionNormalLayout is the byte layout of a model's dynamic array.
type positionNormalLayout struct {
	stride         uint32
	positionOffset uint32
	normalOffset   uint32
}

// shaderModelDef is the data shared by every model of one definition.
type shaderModelDef struct {
	uv      *vertexarray.VertexArray
	uvAttrs []*vertexarray.Attribute
	indices *vertexarray.IndexArray
	layout  *backend.VertexInputLayout

	models         int
	releasePending bool
}

// shaderModel is the per-model dynamic position and normal array.
type shaderModel struct {
	owner    *ShaderVertexRenderer
	def      *shaderModelDef
	array    *vertexarray.VertexArray
	position *vertexarray.Attribute
	normal   *vertexarray.Attribute
}

func (sm *shaderModel) Key() interface{} {
	return sm.owner
}

/**
 * @brief Renders lit models with a shader that reads UVs from a static
 * per-definition stream and positions/normals from a dynamic per-model stream.
 */
type ShaderVertexRenderer struct {
	renderer *renderer.Renderer
	dynamic  positionNormalLayout
	defs     map[*model.Definition]*shaderModelDef
	// prepared is the definition bound by the last PrepareModelDef.
	prepared *shaderModelDef
}

var _ ModelVertexRenderer = (*ShaderVertexRenderer)(nil)

func NewShaderVertexRenderer(r *renderer.Renderer) *ShaderVertexRenderer {
	svr := &ShaderVertexRenderer{
		renderer: r,
		defs:     make(map[*model.Definition]*shaderModelDef),
	}
	svr.dynamic = svr.dynamicLayout()
	return svr
}

// newDynamicArray creates the position and normal array of a model.
func (svr *ShaderVertexRenderer) newDynamicArray(numVertices uint32) (*vertexarray.VertexArray, *vertexarray.Attribute, *vertexarray.Attribute) {
	array := vertexarray.New(svr.renderer.VertexArrays(), backend.BufferTypeVertex, backend.BufferUsageDynamic|backend.BufferUsageTransferDst)
	position := &vertexarray.Attribute{Format: backend.FormatR32G32B32A32Sfloat}
	normal := &vertexarray.Attribute{Format: backend.FormatR32G32B32A32Sfloat}
	array.AddAttribute(position)
	array.AddAttribute(normal)
	array.SetNumberOfVertices(numVertices)
	array.Layout()
	return array, position, normal
}

// dynamicLayout lays out an empty model array. Definition layouts take the
// position and normal placement from it so both sides always agree.
func (svr *ShaderVertexRenderer) dynamicLayout() positionNormalLayout {
	array, position, normal := svr.newDynamicArray(0)
	defer array.Free()
	return positionNormalLayout{
		stride:         array.Stride(),
		positionOffset: position.Offset,
		normalOffset:   normal.Offset,
	}
}

func (svr *ShaderVertexRenderer) newShaderModelDef(def *model.Definition) (*shaderModelDef, error) {
	manager := svr.renderer.VertexArrays()
	smd := &shaderModelDef{
		uv:      vertexarray.New(manager, backend.BufferTypeVertex, backend.BufferUsageTransferDst),
		indices: vertexarray.NewIndexArray(manager, backend.BufferUsageTransferDst),
	}

	for ch := 0; ch < def.NumUVsPerVertex(); ch++ {
		attr := &vertexarray.Attribute{Format: backend.FormatR32G32Sfloat}
		smd.uvAttrs = append(smd.uvAttrs, attr)
		smd.uv.AddAttribute(attr)
	}
	smd.uv.SetNumberOfVertices(uint32(def.NumVertices()))
	smd.uv.Layout()
	for ch, attr := range smd.uvAttrs {
		BuildUV(def, ch, attr.Vec2Iterator())
	}
	if err := smd.uv.Upload(); err != nil {
		smd.free()
		return nil, fmt.Errorf("uploading uvs of '%s': %w", def.Name(), err)
	}
	smd.uv.FreeBackingStore()

	smd.indices.SetNumberOfVertices(uint32(def.NumFaces() * 3))
	smd.indices.Layout()
	BuildIndices(def, smd.indices.Iterator())
	if err := smd.indices.Upload(); err != nil {
		smd.free()
		return nil, fmt.Errorf("uploading indices of '%s': %w", def.Name(), err)
	}
	smd.indices.FreeBackingStore()

	smd.layout = svr.renderer.GetVertexInputLayout(svr.layoutAttributes(smd))
	return smd, nil
}

func (svr *ShaderVertexRenderer) layoutAttributes(smd *shaderModelDef) []backend.VertexAttributeFormat {
	attrs := []backend.VertexAttributeFormat{
		{
			Stream:      backend.VertexAttributeStreamUV0,
			Format:      smd.uvAttrs[0].Format,
			Offset:      smd.uvAttrs[0].Offset,
			Stride:      smd.uv.Stride(),
			Rate:        backend.VertexAttributeRatePerVertex,
			BindingSlot: sharedBindingSlot,
		},
		{
			Stream:      backend.VertexAttributeStreamPosition,
			Format:      backend.FormatR32G32B32Sfloat,
			Offset:      svr.dynamic.positionOffset,
			Stride:      svr.dynamic.stride,
			Rate:        backend.VertexAttributeRatePerVertex,
			BindingSlot: modelBindingSlot,
		},
		{
			Stream:      backend.VertexAttributeStreamNormal,
			Format:      backend.FormatR32G32B32Sfloat,
			Offset:      svr.dynamic.normalOffset,
			Stride:      svr.dynamic.stride,
			Rate:        backend.VertexAttributeRatePerVertex,
			BindingSlot: modelBindingSlot,
		},
	}
	if len(smd.uvAttrs) >= 2 {
		attrs = append(attrs, backend.VertexAttributeFormat{
			Stream:      backend.VertexAttributeStreamUV1,
			Format:      smd.uvAttrs[1].Format,
			Offset:      smd.uvAttrs[1].Offset,
			Stride:      smd.uv.Stride(),
			Rate:        backend.VertexAttributeRatePerVertex,
			BindingSlot: sharedBindingSlot,
		})
	}
	return attrs
}

func (smd *shaderModelDef) free() {
	smd.uv.Free()
	smd.indices.Free()
}

// modelDef returns the cached data of def, building it on first use.
func (svr *ShaderVertexRenderer) modelDef(def *model.Definition) (*shaderModelDef, error) {
	if smd, ok := svr.defs[def]; ok {
		return smd, nil
	}
	smd, err := svr.newShaderModelDef(def)
	if err != nil {
		return nil, err
	}
	svr.defs[def] = smd
	core.LogDebug("cached model definition '%s' (%d vertices, %d faces)", def.Name(), def.NumVertices(), def.NumFaces())
	return smd, nil
}

func (svr *ShaderVertexRenderer) CreateModelData(m *model.Model) (ModelData, error) {
	def := m.Definition()
	smd, err := svr.modelDef(def)
	if err != nil {
		core.LogError("failed to create model data for '%s': %s", def.Name(), err.Error())
		return nil, err
	}

	array, position, normal := svr.newDynamicArray(uint32(def.NumVertices()))
	core.Ensure(position.Offset%16 == 0 && normal.Offset%16 == 0 && array.Stride()%16 == 0,
		"model array is not 16-byte aligned (position %d, normal %d, stride %d)", position.Offset, normal.Offset, array.Stride())
	core.Ensure(position.Offset == svr.dynamic.positionOffset && normal.Offset == svr.dynamic.normalOffset && array.Stride() == svr.dynamic.stride,
		"model array layout does not match the definition layout")

	smd.models++
	return &shaderModel{
		owner:    svr,
		def:      smd,
		array:    array,
		position: position,
		normal:   normal,
	}, nil
}

func (svr *ShaderVertexRenderer) UpdateModelData(m *model.Model, data ModelData, flags model.UpdateFlags) error {
	sm := svr.shaderModel(data)
	// a model that never uploaded has nothing to prepare yet
	if flags&model.RenderDataUpdateVertices != 0 || !sm.array.IsUploaded() {
		if !sm.array.HasBackingStore() {
			sm.array.Layout()
		}
		BuildPositionAndNormals(m, sm.position.Vec3Iterator(), sm.normal.Vec3Iterator())
		if err := sm.array.Upload(); err != nil {
			return fmt.Errorf("uploading vertices of '%s': %w", m.Definition().Name(), err)
		}
	}
	sm.array.PrepareForRendering()
	return nil
}

func (svr *ShaderVertexRenderer) UploadModelData(ctx backend.DeviceCommandContext, m *model.Model, data ModelData) {
	sm := svr.shaderModel(data)
	smd, ok := svr.defs[m.Definition()]
	core.Ensure(ok, "no cached data for model definition '%s'", m.Definition().Name())

	smd.uv.UploadIfNeeded(ctx)
	smd.indices.UploadIfNeeded(ctx)
	sm.array.UploadIfNeeded(ctx)
}

func (svr *ShaderVertexRenderer) DestroyModelData(m *model.Model, data ModelData) {
	sm := svr.shaderModel(data)
	sm.array.Free()
	sm.def.models--
	if sm.def.models == 0 && sm.def.releasePending {
		svr.ReleaseDefinition(m.Definition())
	}
}

func (svr *ShaderVertexRenderer) PrepareModelDef(ctx backend.DeviceCommandContext, def *model.Definition) {
	smd, ok := svr.defs[def]
	core.Ensure(ok, "no cached data for model definition '%s'", def.Name())
	svr.prepared = smd

	ctx.SetVertexInputLayout(smd.layout)
	ctx.SetVertexBuffer(sharedBindingSlot, smd.uv.Buffer(), smd.uv.Offset()*smd.uv.Stride())
}

func (svr *ShaderVertexRenderer) RenderModel(ctx backend.DeviceCommandContext, m *model.Model, data ModelData) {
	sm := svr.shaderModel(data)
	smd := svr.prepared
	core.Ensure(smd != nil && smd == sm.def, "model '%s' rendered without its definition prepared", m.Definition().Name())

	def := m.Definition()
	numFaces := uint32(def.NumFaces())
	numVertices := uint32(def.NumVertices())
	end := uint32(0)
	if numVertices > 0 {
		end = numVertices - 1
	}

	ctx.SetVertexBuffer(modelBindingSlot, sm.array.Buffer(), sm.array.Offset()*sm.array.Stride())
	ctx.SetIndexBuffer(smd.indices.Buffer())
	ctx.DrawIndexedInRange(smd.indices.Offset(), numFaces*3, 0, end)

	stats := svr.renderer.Stats()
	stats.DrawCalls++
	stats.ModelTris += uint64(numFaces)
}

// ReleaseDefinition frees the cached data of def. While models still use
// it the release is deferred until the last one is destroyed.
func (svr *ShaderVertexRenderer) ReleaseDefinition(def *model.Definition) bool {
	smd, ok := svr.defs[def]
	if !ok {
		return false
	}
	if smd.models > 0 {
		smd.releasePending = true
		core.LogDebug("deferring release of '%s', %d models still use it", def.Name(), smd.models)
		return false
	}
	if svr.prepared == smd {
		svr.prepared = nil
	}
	smd.free()
	delete(svr.defs, def)
	return true
}

// OnModelDefinitionUnloaded is an event listener expecting a
// *model.Definition payload.
func (svr *ShaderVertexRenderer) OnModelDefinitionUnloaded(code core.SystemEventCode, sender interface{}, listenerInst interface{}, data core.EventContext) bool {
	def, ok := data.Payload.(*model.Definition)
	if !ok {
		core.LogWarn("model definition unloaded event without a definition payload")
		return false
	}
	svr.ReleaseDefinition(def)
	// other listeners may hold the definition too
	return false
}

// CachedDefinitions returns how many definitions have cached data.
func (svr *ShaderVertexRenderer) CachedDefinitions() int {
	return len(svr.defs)
}

func (svr *ShaderVertexRenderer) Shutdown() error {
	for def, smd := range svr.defs {
		if smd.models > 0 {
			core.LogWarn("shutting down with %d live models of '%s'", smd.models, def.Name())
		}
		smd.free()
	}
	svr.defs = make(map[*model.Definition]*shaderModelDef)
	svr.prepared = nil
	return nil
}

func (svr *ShaderVertexRenderer) shaderModel(data ModelData) *shaderModel {
	sm, ok := data.(*shaderModel)
	core.Ensure(ok && sm.owner == svr, "model data was not created by this renderer")
	return sm
}
