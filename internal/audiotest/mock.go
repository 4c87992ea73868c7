// SPDX-License-Identifier: EPL-2.0

// Package audiotest holds synthetic audio sources for tests.
package audiotest

import (
	"io"
	"math"
)

// MockSource generates frames from a waveform function.
// It implements audio.Source without importing it to avoid cycles.
type MockSource struct {
	sampleRate int
	channels   int
	frames     int // frames to generate
	generated  int
	waveform   func(frame, channel int) float32

	// Err, when set, is returned instead of io.EOF at the end of the stream.
	Err error
}

// NewMockSource creates a source of frames frames per channel.
func NewMockSource(sampleRate, channels, frames int, waveform func(frame, channel int) float32) *MockSource {
	return &MockSource{
		sampleRate: sampleRate,
		channels:   channels,
		frames:     frames,
		waveform:   waveform,
	}
}

// NewSilentSource creates a source of zeros.
func NewSilentSource(sampleRate, channels, frames int) *MockSource {
	return NewConstantSource(sampleRate, channels, frames, 0)
}

// NewSineSource creates a sine tone at frequency Hz on every channel.
func NewSineSource(sampleRate, channels, frames int, frequency float64) *MockSource {
	return NewMockSource(sampleRate, channels, frames, func(frame, _ int) float32 {
		return float32(Sine(frame, sampleRate, frequency))
	})
}

// NewConstantSource creates a DC source.
func NewConstantSource(sampleRate, channels, frames int, value float32) *MockSource {
	return NewMockSource(sampleRate, channels, frames, func(int, int) float32 {
		return value
	})
}

// Sine returns sample i of a unit sine at frequency Hz.
func Sine(i, sampleRate int, frequency float64) float64 {
	return math.Sin(2 * math.Pi * frequency * float64(i) / float64(sampleRate))
}

// SineSamples returns n mono samples of a sine at amplitude amp.
func SineSamples(n, sampleRate int, frequency float64, amp float32) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = amp * float32(Sine(i, sampleRate, frequency))
	}
	return out
}

func (m *MockSource) SampleRate() int { return m.sampleRate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) BufSize() int    { return 4096 }
func (m *MockSource) Close() error    { return nil }

// Reset rewinds the source.
func (m *MockSource) Reset() {
	m.generated = 0
}

func (m *MockSource) end() error {
	if m.Err != nil {
		return m.Err
	}
	return io.EOF
}

func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	if m.generated >= m.frames {
		return 0, m.end()
	}

	count := min(len(dst)/m.channels, m.frames-m.generated)
	for f := range count {
		for ch := range m.channels {
			dst[f*m.channels+ch] = m.waveform(m.generated+f, ch)
		}
	}
	m.generated += count

	if m.generated >= m.frames {
		return count * m.channels, m.end()
	}
	return count * m.channels, nil
}
