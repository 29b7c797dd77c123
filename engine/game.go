package engine

import (
	"github.com/spaghettifunk/modelrenderer/engine/assets"
	"github.com/spaghettifunk/modelrenderer/engine/core"
	"github.com/spaghettifunk/modelrenderer/engine/renderer/model"
	"github.com/spaghettifunk/modelrenderer/engine/renderer/modelrenderer"
)

// Systems are the engine services handed to the game before FnInitialize.
type Systems struct {
	Events *core.EventSystem
	Assets *assets.AssetManager
	Models *modelrenderer.ModelRenderer
}

// RenderPacket collects what the game wants drawn this frame.
type RenderPacket struct {
	DeltaTime float64
	Models    []*model.Model
}

type Game struct {
	ApplicationConfig *ApplicationConfig
	Systems           *Systems
	State             interface{}
	FnInitialize      Initialize
	FnUpdate          Update
	FnRender          Render
	FnShutdown        Shutdown
}

type Initialize func() error
type Update func(deltaTime float64) error
type Render func(packet *RenderPacket, deltaTime float64) error
type Shutdown func() error
