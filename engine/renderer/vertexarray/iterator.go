package vertexarray

import (
	"encoding/binary"
	gomath "math"

	"github.com/spaghettifunk/modelrenderer/engine/core"
	"github.com/spaghettifunk/modelrenderer/engine/math"
)

// iterator addresses one attribute of every vertex in a strided byte slice.
type iterator struct {
	data   []byte
	offset uint32
	stride uint32
	count  uint32
}

func (it iterator) Len() int {
	return int(it.count)
}

func (it iterator) at(i int, component uint32) []byte {
	core.Ensure(i >= 0 && uint32(i) < it.count, "vertex %d out of range [0, %d)", i, it.count)
	start := uint32(i)*it.stride + it.offset + component*4
	return it.data[start : start+4]
}

func (it iterator) putFloat(i int, component uint32, v float32) {
	binary.LittleEndian.PutUint32(it.at(i, component), gomath.Float32bits(v))
}

func (it iterator) float(i int, component uint32) float32 {
	return gomath.Float32frombits(binary.LittleEndian.Uint32(it.at(i, component)))
}

type Vec2Iterator struct {
	iterator
}

func (it Vec2Iterator) Set(i int, v math.Vec2) {
	it.putFloat(i, 0, v.X)
	it.putFloat(i, 1, v.Y)
}

func (it Vec2Iterator) At(i int) math.Vec2 {
	return math.Vec2{X: it.float(i, 0), Y: it.float(i, 1)}
}

// Vec3Iterator writes three floats. The fourth component of a wider
// attribute is left untouched.
type Vec3Iterator struct {
	iterator
}

func (it Vec3Iterator) Set(i int, v math.Vec3) {
	it.putFloat(i, 0, v.X)
	it.putFloat(i, 1, v.Y)
	it.putFloat(i, 2, v.Z)
}

func (it Vec3Iterator) At(i int) math.Vec3 {
	return math.Vec3{X: it.float(i, 0), Y: it.float(i, 1), Z: it.float(i, 2)}
}

type IndexIterator struct {
	data  []byte
	count uint32
}

func (it IndexIterator) Len() int {
	return int(it.count)
}

func (it IndexIterator) Set(i int, index uint16) {
	core.Ensure(i >= 0 && uint32(i) < it.count, "index %d out of range [0, %d)", i, it.count)
	binary.LittleEndian.PutUint16(it.data[i*2:], index)
}

func (it IndexIterator) At(i int) uint16 {
	core.Ensure(i >= 0 && uint32(i) < it.count, "index %d out of range [0, %d)", i, it.count)
	return binary.LittleEndian.Uint16(it.data[i*2:])
}
