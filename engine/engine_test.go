package engine

import (
	"errors"
	"testing"

	"github.com/spaghettifunk/modelrenderer/engine/config"
	"github.com/spaghettifunk/modelrenderer/engine/core"
	"github.com/spaghettifunk/modelrenderer/engine/math"
	"github.com/spaghettifunk/modelrenderer/engine/renderer/model"
)

func triangleDefinition(t *testing.T) *model.Definition {
	t.Helper()
	verts := []model.Vertex{
		{Position: math.NewVec3(0, 0, 0), Normal: math.NewVec3(0, 0, 1), UVs: []math.Vec2{{}}},
		{Position: math.NewVec3(1, 0, 0), Normal: math.NewVec3(0, 0, 1), UVs: []math.Vec2{{}}},
		{Position: math.NewVec3(0, 1, 0), Normal: math.NewVec3(0, 0, 1), UVs: []math.Vec2{{}}},
	}
	def, err := model.NewDefinition("triangle", verts, []model.Face{{0, 1, 2}}, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	return def
}

func newTestGame(t *testing.T, maxFrames int) (*Game, *[]*model.Model) {
	t.Helper()
	cfg := config.Default()
	cfg.Assets.Dir = ""
	cfg.Log.Level = "error"

	models := &[]*model.Model{}
	g := &Game{
		ApplicationConfig: &ApplicationConfig{Name: "engine test", MaxFrames: maxFrames, Config: cfg},
	}
	def := triangleDefinition(t)
	g.FnInitialize = func() error {
		*models = append(*models, model.New(def, nil), model.New(def, nil))
		return nil
	}
	g.FnUpdate = func(deltaTime float64) error {
		(*models)[0].Move(func(tr *math.Transform) { tr.Translate(math.NewVec3(0, 0, 1)) })
		return nil
	}
	g.FnRender = func(packet *RenderPacket, deltaTime float64) error {
		packet.Models = append(packet.Models, *models...)
		return nil
	}
	return g, models
}

func TestEngineRunsFrames(t *testing.T) {
	g, _ := newTestGame(t, 3)
	e, err := New(g)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Initialize(); err != nil {
		t.Fatal(err)
	}
	if err := e.Run(); err != nil {
		t.Fatal(err)
	}

	if e.frames != 3 {
		t.Errorf("ran %d frames, want 3", e.frames)
	}
	if got := e.Stats(); got.DrawCalls != 2 || got.ModelTris != 2 {
		t.Errorf("last frame stats = %v, want 2 draw calls and 2 tris", got)
	}
	if g.Systems.Models.LiveModels() != 2 {
		t.Errorf("live models = %d, want 2", g.Systems.Models.LiveModels())
	}
	if err := e.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if g.Systems.Models.LiveModels() != 0 {
		t.Error("models still live after shutdown")
	}
}

func TestEngineQuitEvent(t *testing.T) {
	g, _ := newTestGame(t, 0)
	e, err := New(g)
	if err != nil {
		t.Fatal(err)
	}
	update := g.FnUpdate
	frames := 0
	g.FnUpdate = func(deltaTime float64) error {
		frames++
		if frames == 2 {
			e.Quit()
		}
		return update(deltaTime)
	}
	if err := e.Initialize(); err != nil {
		t.Fatal(err)
	}
	if err := e.Run(); err != nil {
		t.Fatal(err)
	}
	if e.frames != 2 {
		t.Errorf("ran %d frames after quit, want 2", e.frames)
	}
	e.Shutdown()
}

func TestEngineStopsOnGameError(t *testing.T) {
	g, _ := newTestGame(t, 0)
	boom := errors.New("boom")
	g.FnUpdate = func(deltaTime float64) error { return boom }

	e, err := New(g)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Initialize(); err != nil {
		t.Fatal(err)
	}
	if err := e.Run(); !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
	e.Shutdown()
}

func TestNewRequiresConfig(t *testing.T) {
	if _, err := New(&Game{ApplicationConfig: &ApplicationConfig{}}); !errors.Is(err, core.ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}
