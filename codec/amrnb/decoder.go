// SPDX-License-Identifier: EPL-2.0

package amrnb

/*
#cgo pkg-config: opencore-amrnb
#include <opencore-amrnb/interf_dec.h>
*/
import "C"
import (
	"fmt"
	"unsafe"

	"github.com/ik5/audamr/formats/amr"
)

// Decoder wraps a native AMR-NB decoder.
type Decoder struct {
	state unsafe.Pointer
}

func NewDecoder() (*Decoder, error) {
	state := C.Decoder_Interface_init()
	if state == nil {
		return nil, fmt.Errorf("%w: decoder", ErrInitFailed)
	}
	return &Decoder{state: state}, nil
}

// Close releases the native state. It is safe to call more than once.
func (d *Decoder) Close() {
	if d.state != nil {
		C.Decoder_Interface_exit(d.state)
		d.state = nil
	}
}

// DecodeFrame decodes one frame, ToC byte first, into out, which must
// hold at least 160 samples. The frame must be complete; amr.Frames
// guarantees that.
func (d *Decoder) DecodeFrame(frame []byte, out []int16) error {
	if d.state == nil {
		return ErrCodecClosed
	}
	if len(out) < amr.FrameSamples {
		return fmt.Errorf("%w: got %d", ErrFrameTooShort, len(out))
	}
	if len(frame) == 0 || len(frame) < amr.FrameSize(frame[0]) {
		return amr.ErrTruncatedFrame
	}

	C.Decoder_Interface_Decode(d.state,
		(*C.uchar)(unsafe.Pointer(&frame[0])),
		(*C.short)(unsafe.Pointer(&out[0])), 0)
	return nil
}
