package core

import "github.com/spaghettifunk/modelrenderer/engine/containers"

const AVG_COUNT uint8 = 30

// Metrics keeps a rolling frame time average and a frames-per-second counter.
type Metrics struct {
	msTimes            *containers.RingQueue[float64]
	msAvg              float64
	frames             int32
	accumulatedFrameMS float64
	fps                float64
}

func NewMetrics() *Metrics {
	return &Metrics{
		msTimes: containers.NewRingQueue[float64](int(AVG_COUNT)),
	}
}

// Update records a frame that took frameElapsedTime seconds. The average
// is available once AVG_COUNT frames were recorded.
func (m *Metrics) Update(frameElapsedTime float64) {
	frameMS := frameElapsedTime * 1000.0
	m.msTimes.Push(frameMS)
	if m.msTimes.IsFull() {
		sum := 0.0
		m.msTimes.Each(func(ms float64) { sum += ms })
		m.msAvg = sum / float64(AVG_COUNT)
	}

	m.accumulatedFrameMS += frameMS
	if m.accumulatedFrameMS > 1000 {
		m.fps = float64(m.frames)
		m.accumulatedFrameMS -= 1000
		m.frames = 0
	}

	// Count all frames.
	m.frames++
}

func (m *Metrics) FPS() float64 {
	return m.fps
}

func (m *Metrics) FrameTime() float64 {
	return m.msAvg
}

func (m *Metrics) Frame() (float64, float64) {
	return m.fps, m.msAvg
}
