package renderer

import "fmt"

// Statistics counts the work submitted during a frame.
type Statistics struct {
	DrawCalls uint64
	ModelTris uint64
}

func (s *Statistics) Reset() {
	*s = Statistics{}
}

func (s Statistics) String() string {
	return fmt.Sprintf("draw calls: %d, model tris: %d", s.DrawCalls, s.ModelTris)
}
