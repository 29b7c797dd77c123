package core

import (
	"testing"
	"time"
)

func TestMetricsAverageAfterFullWindow(t *testing.T) {
	m := NewMetrics()
	for i := 0; i < int(AVG_COUNT); i++ {
		m.Update(0.010)
	}
	if got := m.FrameTime(); got < 9.999 || got > 10.001 {
		t.Errorf("frame time = %f ms, want 10", got)
	}
}

func TestMetricsFPS(t *testing.T) {
	m := NewMetrics()
	// 1.1 seconds worth of 100ms frames.
	for i := 0; i < 11; i++ {
		m.Update(0.100)
	}
	if got := m.FPS(); got != 10 {
		t.Errorf("fps = %f, want 10", got)
	}
}

func TestClockElapsed(t *testing.T) {
	base := time.Unix(100, 0)
	current := base
	c := NewClock()
	c.now = func() time.Time { return current }

	c.Update()
	if c.Elapsed() != 0 {
		t.Errorf("elapsed before start = %f, want 0", c.Elapsed())
	}
	c.Start()
	current = base.Add(1500 * time.Millisecond)
	c.Update()
	if got := c.Elapsed(); got != 1.5 {
		t.Errorf("elapsed = %f, want 1.5", got)
	}
	c.Stop()
	current = base.Add(3 * time.Second)
	c.Update()
	if got := c.Elapsed(); got != 1.5 {
		t.Errorf("elapsed after stop = %f, want 1.5", got)
	}
}

func TestMetricsAverageRolls(t *testing.T) {
	m := NewMetrics()
	for i := 0; i < int(AVG_COUNT); i++ {
		m.Update(0.010)
	}
	for i := 0; i < int(AVG_COUNT); i++ {
		m.Update(0.020)
	}
	if got := m.FrameTime(); got < 19.999 || got > 20.001 {
		t.Errorf("frame time = %f ms, want 20", got)
	}
}
