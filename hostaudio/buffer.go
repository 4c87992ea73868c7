// SPDX-License-Identifier: EPL-2.0

package hostaudio

import "fmt"

// buffer stores one slice per channel.
type buffer struct {
	channels [][]float32
	rate     int
}

func newBuffer(channels, frames, rate int) *buffer {
	b := &buffer{channels: make([][]float32, channels), rate: rate}
	for i := range b.channels {
		b.channels[i] = make([]float32, frames)
	}
	return b
}

func (b *buffer) SampleRate() int { return b.rate }
func (b *buffer) Frames() int     { return len(b.channels[0]) }

// CopyToChannel copies as many samples as fit. The rest of the channel
// stays silent.
func (b *buffer) CopyToChannel(samples []float32, channel int) error {
	if channel < 0 || channel >= len(b.channels) {
		return fmt.Errorf("channel %d out of range [0,%d)", channel, len(b.channels))
	}
	copy(b.channels[channel], samples)
	return nil
}
