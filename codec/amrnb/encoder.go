// SPDX-License-Identifier: EPL-2.0

package amrnb

/*
#cgo pkg-config: opencore-amrnb
#include <opencore-amrnb/interf_enc.h>
*/
import "C"
import (
	"fmt"
	"unsafe"

	"github.com/ik5/audamr/formats/amr"
)

// Encoder wraps a native AMR-NB encoder.
type Encoder struct {
	state unsafe.Pointer
	buf   [amr.MaxFrameSize]byte
}

// NewEncoder creates an encoder. dtx enables discontinuous transmission,
// which emits short SID frames during silence.
func NewEncoder(dtx bool) (*Encoder, error) {
	var flag C.int
	if dtx {
		flag = 1
	}
	state := C.Encoder_Interface_init(flag)
	if state == nil {
		return nil, fmt.Errorf("%w: encoder", ErrInitFailed)
	}
	return &Encoder{state: state}, nil
}

// Close releases the native state. It is safe to call more than once.
func (e *Encoder) Close() {
	if e.state != nil {
		C.Encoder_Interface_exit(e.state)
		e.state = nil
	}
}

// EncodeFrame encodes exactly one 160-sample frame and returns a frame
// that starts with its ToC byte. The result is a fresh slice.
func (e *Encoder) EncodeFrame(pcm []int16, mode Mode) ([]byte, error) {
	if e.state == nil {
		return nil, ErrCodecClosed
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMode, int(mode))
	}
	if len(pcm) < amr.FrameSamples {
		return nil, fmt.Errorf("%w: got %d", ErrFrameTooShort, len(pcm))
	}

	n := C.Encoder_Interface_Encode(e.state, C.enum_Mode(mode),
		(*C.short)(unsafe.Pointer(&pcm[0])),
		(*C.uchar)(unsafe.Pointer(&e.buf[0])), 0)
	if n <= 0 {
		return nil, fmt.Errorf("%w: returned %d", ErrEncodeFailed, int(n))
	}

	out := make([]byte, int(n))
	copy(out, e.buf[:n])
	return out, nil
}
