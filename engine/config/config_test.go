package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/modelrenderer/engine/core"
)

func TestParseKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
[log]
level = "debug"

[testbed]
frames = 10
`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Log.Level != "debug" || cfg.Testbed.Frames != 10 {
		t.Errorf("parsed values not applied: %+v", cfg)
	}
	def := Default()
	if cfg.Renderer != def.Renderer || cfg.Assets != def.Assets || cfg.Testbed.Instances != def.Testbed.Instances {
		t.Errorf("defaults overwritten: %+v", cfg)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{"zero capacity", "[renderer]\nvertex_buffer_capacity = 0\n", core.ErrInvalidConfig},
		{"negative frames", "[testbed]\nframes = -1\n", core.ErrInvalidConfig},
		{"malformed", "[renderer\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[assets]\ndir = \"models\"\nwatch = false\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Assets.Dir != "models" || cfg.Assets.Watch {
		t.Errorf("assets = %+v", cfg.Assets)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file err = %v", err)
	}
}
