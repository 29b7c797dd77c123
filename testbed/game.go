package testbed

import (
	"fmt"

	"github.com/spaghettifunk/modelrenderer/engine"
	"github.com/spaghettifunk/modelrenderer/engine/config"
	"github.com/spaghettifunk/modelrenderer/engine/core"
	"github.com/spaghettifunk/modelrenderer/engine/math"
	"github.com/spaghettifunk/modelrenderer/engine/renderer/model"
	"golang.org/x/exp/rand"
)

const gridSize = 8

type TestGame struct {
	*engine.Game
}

type gameState struct {
	definition *model.Definition
	models     []*model.Model
	spin       []float32
	rng        *rand.Rand
}

func NewTestGame(cfg *config.Config) *TestGame {
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: &engine.ApplicationConfig{
				Name:      "Model Renderer Testbed",
				MaxFrames: cfg.Testbed.Frames,
				Config:    cfg,
			},
			State: &gameState{
				rng: rand.New(rand.NewSource(42)),
			},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnRender = tg.Render
	tg.FnShutdown = tg.Shutdown
	return tg
}

func (g *TestGame) state() *gameState {
	return g.State.(*gameState)
}

func (g *TestGame) Initialize() error {
	core.LogDebug("TestGame Initialize fn....")
	if g.Systems == nil {
		return fmt.Errorf("the engine is not yet initialized with all the systems")
	}
	state := g.state()

	def, err := g.loadDefinition()
	if err != nil {
		return err
	}
	state.definition = def
	g.spawn(g.ApplicationConfig.Config.Testbed.Instances)

	g.Systems.Events.Register(core.EVENT_CODE_MODELDEF_RELOADED, g, g.onDefinitionReloaded)
	return nil
}

func (g *TestGame) loadDefinition() (*model.Definition, error) {
	name := g.ApplicationConfig.Config.Testbed.Model
	if name == "" {
		return GridDefinition("grid", gridSize)
	}
	def, err := g.Systems.Assets.LoadModelDefinition(name)
	if err != nil {
		core.LogError("failed to load model '%s': %s", name, err.Error())
		return nil, err
	}
	return def, nil
}

// spawn places n instances on a square layout with some random jitter.
func (g *TestGame) spawn(n int) {
	state := g.state()
	cols := 1
	for cols*cols < n {
		cols++
	}
	for i := 0; i < n; i++ {
		jitter := math.NewVec3(state.rng.Float32()*0.2-0.1, 0, state.rng.Float32()*0.2-0.1)
		pos := math.NewVec3(float32(i%cols)*1.5, 0, float32(i/cols)*1.5).Add(jitter)
		m := model.New(state.definition, math.TransformFromPosition(pos))
		state.models = append(state.models, m)
		state.spin = append(state.spin, 0.5+state.rng.Float32())
	}
	core.LogInfo("spawned %d instances of '%s'", n, state.definition.Name())
}

func (g *TestGame) Update(deltaTime float64) error {
	state := g.state()
	for i, m := range state.models {
		rotation := math.NewQuatFromAxisAngle(math.NewVec3Up(), state.spin[i]*float32(deltaTime), false)
		m.Move(func(t *math.Transform) { t.Rotate(rotation) })
	}
	return nil
}

func (g *TestGame) Render(packet *engine.RenderPacket, deltaTime float64) error {
	packet.Models = append(packet.Models, g.state().models...)
	return nil
}

func (g *TestGame) Shutdown() error {
	state := g.state()
	for _, m := range state.models {
		g.Systems.Models.Remove(m)
	}
	state.models = nil
	state.spin = nil
	return nil
}

// onDefinitionReloaded swaps every instance of a reloaded definition for a
// new one that keeps its transform.
func (g *TestGame) onDefinitionReloaded(code core.SystemEventCode, sender interface{}, listenerInst interface{}, data core.EventContext) bool {
	def, ok := data.Payload.(*model.Definition)
	state := g.state()
	if !ok || state.definition == nil || data.Name != g.ApplicationConfig.Config.Testbed.Model {
		return false
	}
	for i, old := range state.models {
		g.Systems.Models.Remove(old)
		state.models[i] = model.New(def, old.Transform())
	}
	state.definition = def
	core.LogInfo("reloaded '%s' for %d instances", data.Name, len(state.models))
	return false
}
