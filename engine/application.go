package engine

import "github.com/spaghettifunk/modelrenderer/engine/config"

type ApplicationConfig struct {
	// The application name, used in logs.
	Name string
	// Frames to run before Run returns. Zero runs until quit.
	MaxFrames int
	Config    *config.Config
}
