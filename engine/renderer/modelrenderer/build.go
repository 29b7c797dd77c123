package modelrenderer

import (
	"github.com/spaghettifunk/modelrenderer/engine/math"
	"github.com/spaghettifunk/modelrenderer/engine/renderer/model"
	"github.com/spaghettifunk/modelrenderer/engine/renderer/vertexarray"
)

// BuildUV writes UV channel ch of every vertex.
func BuildUV(def *model.Definition, ch int, uvs vertexarray.Vec2Iterator) {
	for i, v := range def.Vertices() {
		uvs.Set(i, v.UVs[ch])
	}
}

// BuildIndices writes three indices per face.
func BuildIndices(def *model.Definition, indices vertexarray.IndexIterator) {
	for f, face := range def.Faces() {
		indices.Set(f*3, face[0])
		indices.Set(f*3+1, face[1])
		indices.Set(f*3+2, face[2])
	}
}

// BuildPositionAndNormals writes world-space positions and unit normals of
// every vertex. Skinned vertices are blended from the model's bone matrices
// before the world transform is applied.
func BuildPositionAndNormals(m *model.Model, positions, normals vertexarray.Vec3Iterator) {
	def := m.Definition()
	world := m.Transform().GetWorld()

	if !def.IsSkinned() {
		normalMatrix := world.NormalMatrix()
		for i, v := range def.Vertices() {
			positions.Set(i, v.Position.Transform(world))
			normals.Set(i, v.Normal.TransformDirection(normalMatrix).Normalized())
		}
		return
	}

	bones := m.BoneMatrices()
	for i, v := range def.Vertices() {
		blended := blendBones(bones, v.Blend).Mul(world)
		positions.Set(i, v.Position.Transform(blended))
		normals.Set(i, v.Normal.TransformDirection(blended.NormalMatrix()).Normalized())
	}
}

func blendBones(bones []math.Mat4, blend model.BoneBlend) math.Mat4 {
	out := math.Mat4{}
	total := float32(0)
	for j, w := range blend.Weights {
		if w <= 0 {
			continue
		}
		out = out.Add(bones[blend.Bones[j]].MulScalar(w))
		total += w
	}
	// unweighted vertices follow the model root
	if total == 0 {
		return math.NewMat4Identity()
	}
	return out
}
