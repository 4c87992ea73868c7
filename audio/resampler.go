// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audamr/utils"
)

// maxEmptyReads bounds consecutive (0, nil) reads from a source.
const maxEmptyReads = 100

// Resampler streams src at another sample rate using Catmull-Rom
// interpolation over a four frame window. Channel count is preserved.
// A one-pole low-pass smooths the input when downsampling.
type Resampler struct {
	src      Source
	dstRate  int
	ratio    float64 // source frames per output frame
	channels int

	// window[0..3] hold frames t-1, t, t+1, t+2; real marks frames that
	// came from src rather than edge padding.
	window [4][]float32
	real   [4]bool
	primed bool
	pos    float64

	in      []float32
	inOff   int
	inLen   int
	srcDone bool
	srcErr  error

	lowPass bool
	lpWarm  bool
	lpState []float32
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	r := &Resampler{
		src:      src,
		dstRate:  dstRate,
		ratio:    float64(src.SampleRate()) / float64(dstRate),
		channels: channels,
		in:       make([]float32, 1024*channels),
		lpState:  make([]float32, channels),
	}
	r.lowPass = r.ratio > 1

	for i := range r.window {
		r.window[i] = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// nextFrame copies the next source frame into dst. It returns false once
// the source is exhausted.
func (r *Resampler) nextFrame(dst []float32) (bool, error) {
	for empty := 0; r.inOff+r.channels > r.inLen; empty++ {
		if r.srcDone {
			return false, r.srcErr
		}
		if empty == maxEmptyReads {
			return false, io.ErrNoProgress
		}
		n, err := r.src.ReadSamples(r.in)
		r.inOff, r.inLen = 0, n-n%r.channels
		if err != nil {
			r.srcDone = true
			if !errors.Is(err, io.EOF) {
				r.srcErr = fmt.Errorf("%w", err)
			}
		}
	}

	copy(dst, r.in[r.inOff:r.inOff+r.channels])
	r.inOff += r.channels

	if r.lowPass && !r.lpWarm {
		// start the filter from the first sample to avoid a ramp-in
		copy(r.lpState, dst)
		r.lpWarm = true
	} else if r.lowPass {
		for c := range dst {
			dst[c] = 0.5*dst[c] + 0.5*r.lpState[c]
			r.lpState[c] = dst[c]
		}
	}
	return true, nil
}

// shift drops the oldest frame and loads a new one into window[3],
// padding with a copy of window[2] past the end of the source.
func (r *Resampler) shift() error {
	first := r.window[0]
	copy(r.window[:], r.window[1:])
	copy(r.real[:], r.real[1:])
	r.window[3] = first

	ok, err := r.nextFrame(r.window[3])
	if err != nil {
		return err
	}
	if !ok {
		copy(r.window[3], r.window[2])
	}
	r.real[3] = ok
	return nil
}

func (r *Resampler) prime() (bool, error) {
	r.primed = true

	ok, err := r.nextFrame(r.window[1])
	if err != nil || !ok {
		return false, err
	}
	copy(r.window[0], r.window[1])
	r.real[0], r.real[1] = false, true

	for i := 2; i < 4; i++ {
		ok, err := r.nextFrame(r.window[i])
		if err != nil {
			return false, err
		}
		if !ok {
			copy(r.window[i], r.window[i-1])
		}
		r.real[i] = ok && r.real[i-1]
	}
	return true, nil
}

// ReadSamples produces interleaved samples at the destination rate.
// len(dst) must be a multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed {
		ok, err := r.prime()
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, io.EOF
		}
	}

	frames := len(dst) / r.channels
	written := 0
	for written < frames {
		for r.pos >= 1 {
			if err := r.shift(); err != nil {
				return written * r.channels, err
			}
			r.pos--
		}

		// Output positions run up to and including the last real frame.
		if !r.real[1] || (r.pos > 0 && !r.real[2]) {
			return written * r.channels, io.EOF
		}

		x := float32(r.pos)
		out := dst[written*r.channels : (written+1)*r.channels]
		for c := range out {
			out[c] = utils.CubicInterpolate(r.window[0][c], r.window[1][c], r.window[2][c], r.window[3][c], x)
		}

		written++
		r.pos += r.ratio
	}

	return written * r.channels, nil
}
