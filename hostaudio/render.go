// SPDX-License-Identifier: EPL-2.0

package hostaudio

import (
	"encoding/binary"
	"math"
)

// renderer writes a buffer out as interleaved little-endian float32,
// repeating each frame hold times.
type renderer struct {
	buf  *buffer
	hold int

	frame  int // next source frame
	repeat int // times the current frame has been written
}

func newRenderer(buf *buffer, playbackRate float64) *renderer {
	hold := 1
	if playbackRate > 0 && playbackRate < 1 {
		hold = int(math.Round(1 / playbackRate))
	}
	return &renderer{buf: buf, hold: hold}
}

// fill writes frameCount frames into out and reports whether the buffer
// has been fully played. Frames past the end are silent.
func (r *renderer) fill(out []byte, frameCount int) bool {
	channels := len(r.buf.channels)
	frames := r.buf.Frames()

	for f := range frameCount {
		for c := range channels {
			var v float32
			if r.frame < frames {
				v = r.buf.channels[c][r.frame]
			}
			off := (f*channels + c) * 4
			if off+4 > len(out) {
				return r.frame >= frames
			}
			binary.LittleEndian.PutUint32(out[off:], math.Float32bits(v))
		}

		if r.frame < frames {
			r.repeat++
			if r.repeat == r.hold {
				r.repeat = 0
				r.frame++
			}
		}
	}
	return r.frame >= frames
}
