package loaders

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/modelrenderer/engine/core"
	"github.com/spaghettifunk/modelrenderer/engine/math"
	"github.com/spaghettifunk/modelrenderer/engine/renderer/model"
)

// ModelDefinitionExt is the file extension of model definition assets.
const ModelDefinitionExt = ".mdef.toml"

type vertexFile struct {
	Position []float32   `toml:"position"`
	Normal   []float32   `toml:"normal"`
	UVs      [][]float32 `toml:"uvs"`
	Bones    []int       `toml:"bones"`
	Weights  []float32   `toml:"weights"`
}

type modelDefinitionFile struct {
	Name       string       `toml:"name"`
	UVChannels int          `toml:"uv_channels"`
	Bones      int          `toml:"bones"`
	Faces      [][]uint16   `toml:"faces"`
	Vertices   []vertexFile `toml:"vertices"`
}

// ModelDefinitionLoader reads .mdef.toml files into *model.Definition.
type ModelDefinitionLoader struct{}

func (ml *ModelDefinitionLoader) Load(path string, params interface{}) (*Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	def, err := ParseModelDefinition(NameFromPath(path), data)
	if err != nil {
		return nil, fmt.Errorf("'%s': %w", path, err)
	}
	return &Resource{
		Type:     ResourceTypeModelDefinition,
		Name:     def.Name(),
		FullPath: path,
		DataSize: uint64(len(data)),
		Data:     def,
	}, nil
}

func (ml *ModelDefinitionLoader) Unload(*Resource) error {
	return nil
}

// NameFromPath strips the directory and extension of a model definition file.
func NameFromPath(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ModelDefinitionExt)
}

// ParseModelDefinition decodes a model definition. fallbackName is used
// when the file has no name key.
func ParseModelDefinition(fallbackName string, data []byte) (*model.Definition, error) {
	var f modelDefinitionFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %s", core.ErrInvalidModelDefinition, err.Error())
	}
	if f.Name == "" {
		f.Name = fallbackName
	}

	vertices := make([]model.Vertex, len(f.Vertices))
	for i, vf := range f.Vertices {
		v, err := vf.toVertex()
		if err != nil {
			return nil, fmt.Errorf("%w: '%s' vertex %d: %s", core.ErrInvalidModelDefinition, f.Name, i, err.Error())
		}
		vertices[i] = v
	}

	faces := make([]model.Face, len(f.Faces))
	for i, face := range f.Faces {
		if len(face) != 3 {
			return nil, fmt.Errorf("%w: '%s' face %d has %d indices", core.ErrInvalidModelDefinition, f.Name, i, len(face))
		}
		faces[i] = model.Face{face[0], face[1], face[2]}
	}

	return model.NewDefinition(f.Name, vertices, faces, f.UVChannels, f.Bones)
}

func (vf vertexFile) toVertex() (model.Vertex, error) {
	v := model.Vertex{}
	if len(vf.Position) != 3 || len(vf.Normal) != 3 {
		return v, fmt.Errorf("position and normal need 3 components")
	}
	v.Position = math.NewVec3(vf.Position[0], vf.Position[1], vf.Position[2])
	v.Normal = math.NewVec3(vf.Normal[0], vf.Normal[1], vf.Normal[2])

	for _, uv := range vf.UVs {
		if len(uv) != 2 {
			return v, fmt.Errorf("uv needs 2 components")
		}
		v.UVs = append(v.UVs, math.NewVec2(uv[0], uv[1]))
	}

	if len(vf.Bones) != len(vf.Weights) || len(vf.Bones) > model.MaxBoneInfluences {
		return v, fmt.Errorf("bones and weights need the same length of at most %d", model.MaxBoneInfluences)
	}
	for j, b := range vf.Bones {
		if b < 0 || b > 255 {
			return v, fmt.Errorf("bone %d out of range", b)
		}
		v.Blend.Bones[j] = uint8(b)
		v.Blend.Weights[j] = vf.Weights[j]
	}
	return v, nil
}
