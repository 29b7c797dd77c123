package model

import (
	"errors"
	"testing"

	"github.com/spaghettifunk/modelrenderer/engine/core"
	"github.com/spaghettifunk/modelrenderer/engine/math"
)

func triangle(uvs int) []Vertex {
	vs := make([]Vertex, 3)
	for i := range vs {
		vs[i] = Vertex{
			Position: math.NewVec3(float32(i), 0, 0),
			Normal:   math.NewVec3Up(),
			UVs:      make([]math.Vec2, uvs),
		}
	}
	return vs
}

func TestNewDefinitionValidation(t *testing.T) {
	tests := []struct {
		name    string
		verts   []Vertex
		faces   []Face
		uvs     int
		bones   int
		wantErr error
	}{
		{"valid", triangle(1), []Face{{0, 1, 2}}, 1, 0, nil},
		{"no faces", triangle(2), nil, 2, 0, nil},
		{"zero uv channels", triangle(0), nil, 0, 0, core.ErrInvalidModelDefinition},
		{"three uv channels", triangle(3), nil, 3, 0, core.ErrInvalidModelDefinition},
		{"uv count mismatch", triangle(1), nil, 2, 0, core.ErrInvalidModelDefinition},
		{"face out of range", triangle(1), []Face{{0, 1, 3}}, 1, 0, core.ErrInvalidModelDefinition},
		{"too many vertices", make([]Vertex, MaxVertices+1), nil, 1, 0, core.ErrIndexOverflow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDefinition(tt.name, tt.verts, tt.faces, tt.uvs, tt.bones)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewDefinitionRejectsUnknownBone(t *testing.T) {
	verts := triangle(1)
	verts[0].Blend = BoneBlend{Bones: [4]uint8{2}, Weights: [4]float32{1}}
	if _, err := NewDefinition("skinned", verts, nil, 1, 2); !errors.Is(err, core.ErrInvalidModelDefinition) {
		t.Errorf("err = %v, want ErrInvalidModelDefinition", err)
	}
	if _, err := NewDefinition("skinned", verts, nil, 1, 3); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestModelUpdateFlags(t *testing.T) {
	def, err := NewDefinition("tri", triangle(1), []Face{{0, 1, 2}}, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	m := New(def, nil)
	if m.TakeUpdateFlags()&RenderDataUpdateVertices == 0 {
		t.Error("new model does not request a vertex update")
	}
	if m.TakeUpdateFlags() != 0 {
		t.Error("flags not cleared by TakeUpdateFlags")
	}
	m.Move(func(t *math.Transform) { t.Translate(math.NewVec3(1, 0, 0)) })
	if m.TakeUpdateFlags()&RenderDataUpdateVertices == 0 {
		t.Error("Move did not invalidate vertices")
	}
	if m.ID == New(def, nil).ID {
		t.Error("two models share an id")
	}
}
