package engine

import (
	"fmt"
	"sync/atomic"

	"github.com/spaghettifunk/modelrenderer/engine/assets"
	"github.com/spaghettifunk/modelrenderer/engine/core"
	"github.com/spaghettifunk/modelrenderer/engine/renderer"
	"github.com/spaghettifunk/modelrenderer/engine/renderer/backend"
	"github.com/spaghettifunk/modelrenderer/engine/renderer/backend/dummy"
	"github.com/spaghettifunk/modelrenderer/engine/renderer/modelrenderer"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

type Engine struct {
	currentStage Stage
	gameInstance *Game
	isRunning    atomic.Bool

	events         *core.EventSystem
	assetManager   *assets.AssetManager
	device         backend.Device
	renderer       *renderer.Renderer
	vertexRenderer *modelrenderer.ShaderVertexRenderer
	modelRenderer  *modelrenderer.ModelRenderer

	clock    *core.Clock
	metrics  *core.Metrics
	lastTime float64
	frames   int
}

func New(g *Game) (*Engine, error) {
	if g.ApplicationConfig == nil || g.ApplicationConfig.Config == nil {
		return nil, fmt.Errorf("%w: game has no application config", core.ErrInvalidConfig)
	}
	cfg := g.ApplicationConfig.Config
	core.ConfigureLogger(cfg.LoggerOptions())

	events := core.NewEventSystem()
	device := dummy.NewDevice()
	r := renderer.New(device, &renderer.RendererConfig{
		VertexBufferSize: cfg.Renderer.VertexBufferCapacity,
		IndexBufferSize:  cfg.Renderer.IndexBufferCapacity,
	})
	svr := modelrenderer.NewShaderVertexRenderer(r)

	e := &Engine{
		currentStage:   EngineStageUninitialized,
		gameInstance:   g,
		events:         events,
		assetManager:   assets.NewAssetManager(events),
		device:         device,
		renderer:       r,
		vertexRenderer: svr,
		modelRenderer:  modelrenderer.NewModelRenderer(svr),
		clock:          core.NewClock(),
		metrics:        core.NewMetrics(),
	}
	g.Systems = &Systems{
		Events: events,
		Assets: e.assetManager,
		Models: e.modelRenderer,
	}
	return e, nil
}

func (e *Engine) Initialize() error {
	cfg := e.gameInstance.ApplicationConfig.Config

	e.events.Register(core.EVENT_CODE_APPLICATION_QUIT, e, e.onEvent)
	e.events.Register(core.EVENT_CODE_MODELDEF_UNLOADED, e.vertexRenderer, e.vertexRenderer.OnModelDefinitionUnloaded)

	if cfg.Assets.Dir != "" {
		if err := e.assetManager.Initialize(cfg.Assets.Dir, cfg.Assets.Watch); err != nil {
			core.LogError("failed to index assets in '%s': %s", cfg.Assets.Dir, err.Error())
			return err
		}
	}

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(); err != nil {
			return err
		}
	}
	e.currentStage = EngineStageInitialized
	core.LogInfo("%s initialized", e.gameInstance.ApplicationConfig.Name)
	return nil
}

// Run executes frames until quit is requested or MaxFrames is reached.
func (e *Engine) Run() error {
	if e.currentStage != EngineStageInitialized {
		return fmt.Errorf("engine run before initialize")
	}
	e.currentStage = EngineStageRunning
	e.isRunning.Store(true)
	maxFrames := e.gameInstance.ApplicationConfig.MaxFrames

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	for e.isRunning.Load() {
		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := currentTime - e.lastTime

		if err := e.RunFrame(delta); err != nil {
			core.LogError("frame %d failed, shutting down: %s", e.renderer.Frame(), err.Error())
			e.isRunning.Store(false)
			return err
		}

		e.clock.Update()
		e.metrics.Update(e.clock.Elapsed() - currentTime)
		e.lastTime = currentTime

		e.frames++
		if maxFrames > 0 && e.frames >= maxFrames {
			e.isRunning.Store(false)
		}
	}

	fps, frameTime := e.metrics.Frame()
	core.LogInfo("ran %d frames (%.1f fps, %.3f ms avg)", e.frames, fps, frameTime)
	return nil
}

// RunFrame updates the game and records one frame of draw commands.
func (e *Engine) RunFrame(delta float64) error {
	e.renderer.BeginFrame()
	e.assetManager.ProcessEvents()

	if err := e.gameInstance.FnUpdate(delta); err != nil {
		core.LogError("game update failed")
		return err
	}

	packet := &RenderPacket{DeltaTime: delta}
	if err := e.gameInstance.FnRender(packet, delta); err != nil {
		core.LogError("game render failed")
		return err
	}

	for _, m := range packet.Models {
		if err := e.modelRenderer.Submit(m); err != nil {
			return err
		}
	}
	if err := e.modelRenderer.PrepareModels(); err != nil {
		return err
	}
	ctx := e.device.CreateCommandContext()
	e.modelRenderer.UploadModels(ctx)
	e.modelRenderer.Render(ctx)
	e.modelRenderer.EndFrame()

	core.LogDebug("frame %d: %s", e.renderer.Frame(), e.renderer.Stats())
	return nil
}

// Stats returns the counters of the last frame.
func (e *Engine) Stats() renderer.Statistics {
	return *e.renderer.Stats()
}

// Quit asks the running loop to stop after the current frame.
func (e *Engine) Quit() {
	e.events.Fire(core.EVENT_CODE_APPLICATION_QUIT, e, core.EventContext{})
}

func (e *Engine) Shutdown() error {
	e.currentStage = EngineStageShuttingDown
	if e.gameInstance.FnShutdown != nil {
		if err := e.gameInstance.FnShutdown(); err != nil {
			return err
		}
	}
	if err := e.modelRenderer.Shutdown(); err != nil {
		return err
	}
	if err := e.vertexRenderer.Shutdown(); err != nil {
		return err
	}
	if err := e.renderer.Shutdown(); err != nil {
		return err
	}
	if err := e.assetManager.Shutdown(); err != nil {
		return err
	}
	return e.events.Shutdown()
}

func (e *Engine) onEvent(code core.SystemEventCode, sender interface{}, listenerInst interface{}, data core.EventContext) bool {
	if code == core.EVENT_CODE_APPLICATION_QUIT {
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.isRunning.Store(false)
		return true
	}
	return false
}
