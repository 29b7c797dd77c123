package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/modelrenderer/engine/core"
)

type LogConfig struct {
	Level        string `toml:"level"`
	Prefix       string `toml:"prefix"`
	ReportCaller bool   `toml:"report_caller"`
}

type RendererConfig struct {
	// Byte size of each shared vertex buffer.
	VertexBufferCapacity uint32 `toml:"vertex_buffer_capacity"`
	// Byte size of each shared index buffer.
	IndexBufferCapacity uint32 `toml:"index_buffer_capacity"`
}

type AssetsConfig struct {
	Dir   string `toml:"dir"`
	Watch bool   `toml:"watch"`
}

type TestbedConfig struct {
	Instances int `toml:"instances"`
	// Frames to run before exiting. Zero runs until quit.
	Frames int    `toml:"frames"`
	Model  string `toml:"model"`
}

/**
 * @brief Application configuration, loaded from a TOML file. Missing keys
 * keep their default values.
 */
type Config struct {
	Log      LogConfig      `toml:"log"`
	Renderer RendererConfig `toml:"renderer"`
	Assets   AssetsConfig   `toml:"assets"`
	Testbed  TestbedConfig  `toml:"testbed"`
}

func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:        "info",
			Prefix:       "Renderer 🔺 ",
			ReportCaller: false,
		},
		Renderer: RendererConfig{
			VertexBufferCapacity: 4 << 20,
			IndexBufferCapacity:  1 << 20,
		},
		Assets: AssetsConfig{
			Dir:   "assets/models",
			Watch: true,
		},
		Testbed: TestbedConfig{
			Instances: 16,
			Frames:    120,
		},
	}
}

// Load reads path on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config '%s': %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config '%s': %w", path, err)
	}
	return cfg, nil
}

func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Renderer.VertexBufferCapacity == 0 || c.Renderer.IndexBufferCapacity == 0 {
		return fmt.Errorf("%w: buffer capacities must be positive", core.ErrInvalidConfig)
	}
	if c.Testbed.Instances < 0 || c.Testbed.Frames < 0 {
		return fmt.Errorf("%w: testbed instances and frames cannot be negative", core.ErrInvalidConfig)
	}
	return nil
}

// LoggerOptions converts the log section for core.ConfigureLogger.
func (c *Config) LoggerOptions() core.LoggerOptions {
	return core.LoggerOptions{
		Level:        c.Log.Level,
		Prefix:       c.Log.Prefix,
		ReportCaller: c.Log.ReportCaller,
	}
}
