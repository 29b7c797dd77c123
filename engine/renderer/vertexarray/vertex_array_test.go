package vertexarray

import (
	"testing"

	"github.com/spaghettifunk/modelrenderer/engine/math"
	"github.com/spaghettifunk/modelrenderer/engine/renderer/backend"
	"github.com/spaghettifunk/modelrenderer/engine/renderer/backend/dummy"
)

func newTestManager() (*Manager, *dummy.Device) {
	d := dummy.NewDevice()
	return NewManager(d, &ManagerConfig{VertexBufferSize: 1024, IndexBufferSize: 256}), d
}

func TestLayoutPlacesAttributesInReverseOrder(t *testing.T) {
	tests := []struct {
		name    string
		formats []backend.Format
		offsets []uint32
		stride  uint32
	}{
		{"one uv", []backend.Format{backend.FormatR32G32Sfloat}, []uint32{0}, 8},
		{"two uvs", []backend.Format{backend.FormatR32G32Sfloat, backend.FormatR32G32Sfloat}, []uint32{8, 0}, 16},
		{"position normal", []backend.Format{backend.FormatR32G32B32A32Sfloat, backend.FormatR32G32B32A32Sfloat}, []uint32{16, 0}, 32},
		{"packed vec3", []backend.Format{backend.FormatR32G32B32Sfloat, backend.FormatR16Uint}, []uint32{4, 0}, 16},
		{"undefined skipped", []backend.Format{backend.FormatUndefined, backend.FormatR32G32Sfloat}, []uint32{0, 0}, 8},
	}

	m, _ := newTestManager()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			va := New(m, backend.BufferTypeVertex, backend.BufferUsageTransferDst)
			attrs := make([]*Attribute, len(tt.formats))
			for i, f := range tt.formats {
				attrs[i] = &Attribute{Format: f}
				va.AddAttribute(attrs[i])
			}
			va.SetNumberOfVertices(10)
			va.Layout()

			if va.Stride() != tt.stride {
				t.Errorf("stride = %d, want %d", va.Stride(), tt.stride)
			}
			for i, attr := range attrs {
				if attr.Offset != tt.offsets[i] {
					t.Errorf("attribute %d offset = %d, want %d", i, attr.Offset, tt.offsets[i])
				}
			}
		})
	}
}

func TestIteratorsWriteStridedData(t *testing.T) {
	m, _ := newTestManager()
	va := New(m, backend.BufferTypeVertex, backend.BufferUsageDynamic)
	pos := &Attribute{Format: backend.FormatR32G32B32A32Sfloat}
	uv := &Attribute{Format: backend.FormatR32G32Sfloat}
	va.AddAttribute(pos)
	va.AddAttribute(uv)
	va.SetNumberOfVertices(3)
	va.Layout()

	pit := pos.Vec3Iterator()
	uit := uv.Vec2Iterator()
	for i := 0; i < 3; i++ {
		pit.Set(i, math.NewVec3(float32(i), 2, 3))
		uit.Set(i, math.NewVec2(0.5, float32(i)))
	}
	for i := 0; i < 3; i++ {
		if got := pit.At(i); got != math.NewVec3(float32(i), 2, 3) {
			t.Errorf("position %d = %+v", i, got)
		}
		if got := uit.At(i); got != math.NewVec2(0.5, float32(i)) {
			t.Errorf("uv %d = %+v", i, got)
		}
	}
	if pit.Len() != 3 || uit.Len() != 3 {
		t.Errorf("iterator lengths = %d, %d, want 3", pit.Len(), uit.Len())
	}
}

func TestUploadIfNeededUploadsOnce(t *testing.T) {
	m, _ := newTestManager()
	va := New(m, backend.BufferTypeVertex, backend.BufferUsageTransferDst)
	uv := &Attribute{Format: backend.FormatR32G32Sfloat}
	va.AddAttribute(uv)
	va.SetNumberOfVertices(4)
	va.Layout()
	if err := va.Upload(); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	va.FreeBackingStore()

	ctx := dummy.NewCommandContext()
	if !va.UploadIfNeeded(ctx) {
		t.Error("first UploadIfNeeded reported nothing to do")
	}
	if va.UploadIfNeeded(ctx) {
		t.Error("second UploadIfNeeded reported an upload")
	}
	if n := ctx.Count(dummy.CommandUpload); n != 1 {
		t.Errorf("recorded %d uploads, want 1", n)
	}
	cmd := ctx.Commands()[0]
	if cmd.Size != 32 || cmd.Offset != va.Offset()*va.Stride() {
		t.Errorf("upload size %d at %d, want 32 at %d", cmd.Size, cmd.Offset, va.Offset()*va.Stride())
	}
}

func TestDynamicArrayReuploadsAfterUpload(t *testing.T) {
	m, _ := newTestManager()
	va := New(m, backend.BufferTypeVertex, backend.BufferUsageDynamic|backend.BufferUsageTransferDst)
	va.AddAttribute(&Attribute{Format: backend.FormatR32G32B32A32Sfloat})
	va.SetNumberOfVertices(2)
	va.Layout()

	ctx := dummy.NewCommandContext()
	for frame := 0; frame < 3; frame++ {
		if err := va.Upload(); err != nil {
			t.Fatalf("Upload: %v", err)
		}
		if va.IsPrepared() {
			t.Error("array prepared right after Upload")
		}
		va.PrepareForRendering()
		if !va.IsPrepared() {
			t.Error("array not prepared after PrepareForRendering")
		}
		va.UploadIfNeeded(ctx)
		va.UploadIfNeeded(ctx)
	}
	if n := ctx.Count(dummy.CommandUpload); n != 3 {
		t.Errorf("recorded %d uploads over 3 frames, want 3", n)
	}
}

func TestEmptyIndexArray(t *testing.T) {
	m, _ := newTestManager()
	ia := NewIndexArray(m, backend.BufferUsageTransferDst)
	ia.SetNumberOfVertices(0)
	ia.Layout()
	if ia.Iterator().Len() != 0 {
		t.Errorf("iterator length = %d, want 0", ia.Iterator().Len())
	}
	if err := ia.Upload(); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	ctx := dummy.NewCommandContext()
	ia.UploadIfNeeded(ctx)
	if n := ctx.Count(dummy.CommandUpload); n != 0 {
		t.Errorf("recorded %d uploads for an empty array, want 0", n)
	}
	if ia.Buffer() == nil {
		t.Error("empty index array has no buffer to bind")
	}
}

func TestIndexArrayStoresU16(t *testing.T) {
	m, d := newTestManager()
	ia := NewIndexArray(m, backend.BufferUsageTransferDst)
	ia.SetNumberOfVertices(3)
	ia.Layout()
	it := ia.Iterator()
	it.Set(0, 7)
	it.Set(1, 65535)
	it.Set(2, 1)
	if ia.Stride() != 2 {
		t.Fatalf("stride = %d, want 2", ia.Stride())
	}
	if err := ia.Upload(); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	ia.UploadIfNeeded(dummy.NewCommandContext())

	buf := d.Buffers()[0].Bytes()
	start := ia.Offset() * 2
	if buf[start] != 7 || buf[start+2] != 0xff || buf[start+3] != 0xff {
		t.Errorf("uploaded bytes = %v", buf[start:start+6])
	}
}
