package testbed

import (
	"github.com/spaghettifunk/modelrenderer/engine/math"
	"github.com/spaghettifunk/modelrenderer/engine/renderer/model"
)

// GridDefinition builds a flat size x size quad grid in the XZ plane with
// two UV channels: tiled and stretched.
func GridDefinition(name string, size int) (*model.Definition, error) {
	side := size + 1
	verts := make([]model.Vertex, 0, side*side)
	for z := 0; z < side; z++ {
		for x := 0; x < side; x++ {
			u := float32(x) / float32(size)
			v := float32(z) / float32(size)
			verts = append(verts, model.Vertex{
				Position: math.NewVec3(u-0.5, 0, v-0.5),
				Normal:   math.NewVec3Up(),
				UVs:      []math.Vec2{math.NewVec2(float32(x), float32(z)), math.NewVec2(u, v)},
			})
		}
	}

	faces := make([]model.Face, 0, size*size*2)
	for z := 0; z < size; z++ {
		for x := 0; x < size; x++ {
			i := uint16(z*side + x)
			s := uint16(side)
			faces = append(faces, model.Face{i, i + s, i + 1}, model.Face{i + 1, i + s, i + s + 1})
		}
	}
	return model.NewDefinition(name, verts, faces, 2, 0)
}
