// SPDX-License-Identifier: EPL-2.0

package bridge

import (
	"fmt"
	"slices"
)

// DefaultSampleRate is used when Encode is given a rate <= 0.
const DefaultSampleRate = 8000

type Op int

const (
	OpEncode Op = iota + 1
	OpDecode
)

func (o Op) String() string {
	switch o {
	case OpEncode:
		return "encode"
	case OpDecode:
		return "decode"
	default:
		return fmt.Sprintf("op(%d)", int(o))
	}
}

// Request is one codec call. Samples and SampleRate are set for
// OpEncode, Data for OpDecode.
type Request struct {
	Seq        uint64
	Op         Op
	Samples    []float32
	SampleRate int
	Data       []byte
}

// clone copies the payload so the receiver owns it.
func (r Request) clone() Request {
	r.Samples = slices.Clone(r.Samples)
	r.Data = slices.Clone(r.Data)
	return r
}

// Response answers the Request with the same Seq. Failed marks a decode
// the codec rejected; Err carries an encode error or a recovered panic.
type Response struct {
	Seq     uint64
	Op      Op
	Samples []float32
	Data    []byte
	Failed  bool
	Err     error
}

// Codec is the AMR codec as seen by a worker. An instance is only ever
// used by one goroutine at a time.
type Codec interface {
	Encode(samples []float32, sampleRate int) ([]byte, error)
	// Decode reports false for input it cannot decode.
	Decode(data []byte) ([]float32, bool)
}

// CodecFactory creates a codec for one worker.
type CodecFactory func() (Codec, error)

// Worker runs requests and publishes one Response per accepted Request
// on Replies. Replies is closed after Close once in-flight requests are done.
type Worker interface {
	Post(req Request) error
	Replies() <-chan Response
	Close() error
}

// serve runs req against c. A panic inside the codec becomes the
// response's error.
func serve(c Codec, req Request) (resp Response) {
	resp = Response{Seq: req.Seq, Op: req.Op}

	defer func() {
		if r := recover(); r != nil {
			resp.Samples, resp.Data = nil, nil
			resp.Failed = req.Op == OpDecode
			resp.Err = fmt.Errorf("%w: %v", ErrCodecPanic, r)
		}
	}()

	switch req.Op {
	case OpEncode:
		resp.Data, resp.Err = c.Encode(req.Samples, req.SampleRate)
	case OpDecode:
		if len(req.Data) == 0 {
			resp.Failed = true
			return resp
		}
		samples, ok := c.Decode(req.Data)
		resp.Samples, resp.Failed = samples, !ok
	default:
		resp.Err = fmt.Errorf("%w: %v", ErrUnknownOp, req.Op)
	}
	return resp
}
