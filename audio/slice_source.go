// SPDX-License-Identifier: EPL-2.0

package audio

import "io"

// SliceSource serves an in-memory interleaved buffer as a Source.
type SliceSource struct {
	samples    []float32
	sampleRate int
	channels   int
	off        int
}

// NewSliceSource wraps samples without copying them.
func NewSliceSource(samples []float32, sampleRate, channels int) *SliceSource {
	if channels < 1 {
		channels = 1
	}
	return &SliceSource{samples: samples, sampleRate: sampleRate, channels: channels}
}

func (s *SliceSource) SampleRate() int { return s.sampleRate }
func (s *SliceSource) Channels() int   { return s.channels }
func (s *SliceSource) BufSize() int    { return len(s.samples) }
func (s *SliceSource) Close() error    { return nil }

func (s *SliceSource) ReadSamples(dst []float32) (int, error) {
	if s.off >= len(s.samples) {
		return 0, io.EOF
	}

	// whole frames only
	n := len(dst) / s.channels * s.channels
	n = copy(dst[:n], s.samples[s.off:])
	s.off += n

	if s.off >= len(s.samples) {
		return n, io.EOF
	}
	return n, nil
}
