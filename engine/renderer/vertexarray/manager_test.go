package vertexarray

import (
	"testing"

	"github.com/spaghettifunk/modelrenderer/engine/renderer/backend"
)

func TestManagerSharesBuffersByStride(t *testing.T) {
	m, d := newTestManager()
	a, err := m.Allocate(16, 10, backend.BufferTypeVertex, backend.BufferUsageTransferDst)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	b, err := m.Allocate(16, 10, backend.BufferTypeVertex, backend.BufferUsageTransferDst)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if a.Buffer() != b.Buffer() {
		t.Error("same stride and usage did not share a buffer")
	}
	if a.Index != 0 || b.Index != 10 {
		t.Errorf("indices = %d, %d, want 0, 10", a.Index, b.Index)
	}

	c, _ := m.Allocate(32, 1, backend.BufferTypeVertex, backend.BufferUsageTransferDst)
	dyn, _ := m.Allocate(16, 1, backend.BufferTypeVertex, backend.BufferUsageDynamic)
	if c.Buffer() == a.Buffer() || dyn.Buffer() == a.Buffer() {
		t.Error("different stride or usage shared a buffer")
	}
	if got := len(d.Buffers()); got != 3 {
		t.Errorf("device has %d buffers, want 3", got)
	}
}

func TestManagerReusesAndCoalescesFreedRegions(t *testing.T) {
	m, _ := newTestManager()
	// 1024 / 16 = 64 elements per buffer.
	a, _ := m.Allocate(16, 20, backend.BufferTypeVertex, 0)
	b, _ := m.Allocate(16, 20, backend.BufferTypeVertex, 0)
	c, _ := m.Allocate(16, 20, backend.BufferTypeVertex, 0)

	m.Release(a)
	m.Release(b)
	big, _ := m.Allocate(16, 40, backend.BufferTypeVertex, 0)
	if big.Buffer() != c.Buffer() || big.Index != 0 {
		t.Errorf("coalesced region not reused: index %d", big.Index)
	}
	if m.BufferCount() != 1 {
		t.Errorf("buffer count = %d, want 1", m.BufferCount())
	}
}

func TestManagerGrowsForLargeAllocations(t *testing.T) {
	m, _ := newTestManager()
	chunk, err := m.Allocate(16, 1000, backend.BufferTypeVertex, 0)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if chunk.Buffer().Size() != 16000 {
		t.Errorf("buffer size = %d, want 16000", chunk.Buffer().Size())
	}
}

func TestManagerDestroysEmptyBuffers(t *testing.T) {
	m, d := newTestManager()
	a, _ := m.Allocate(8, 4, backend.BufferTypeVertex, 0)
	m.Release(a)
	m.Release(a)
	if m.BufferCount() != 0 || len(d.Buffers()) != 0 {
		t.Errorf("buffers left after release: manager %d, device %d", m.BufferCount(), len(d.Buffers()))
	}
}
