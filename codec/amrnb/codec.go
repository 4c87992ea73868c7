// SPDX-License-Identifier: EPL-2.0

package amrnb

import (
	"fmt"
	"io"

	"github.com/ik5/audamr/audio"
	"github.com/ik5/audamr/bridge"
	"github.com/ik5/audamr/formats/amr"
)

// Codec pairs an encoder and a decoder. It is owned by one goroutine.
type Codec struct {
	enc  *Encoder
	dec  *Decoder
	mode Mode
}

// NewCodec creates a Codec at DefaultMode. It matches bridge.CodecFactory.
func NewCodec() (bridge.Codec, error) {
	return NewCodecMode(DefaultMode, false)
}

// NewCodecMode creates a Codec with an explicit mode and DTX setting.
func NewCodecMode(mode Mode, dtx bool) (*Codec, error) {
	if !mode.Valid() {
		return nil, ErrInvalidMode
	}
	enc, err := NewEncoder(dtx)
	if err != nil {
		return nil, err
	}
	dec, err := NewDecoder()
	if err != nil {
		enc.Close()
		return nil, err
	}
	return &Codec{enc: enc, dec: dec, mode: mode}, nil
}

// Factory returns a bridge.CodecFactory producing codecs with the given settings.
func Factory(mode Mode, dtx bool) bridge.CodecFactory {
	return func() (bridge.Codec, error) {
		return NewCodecMode(mode, dtx)
	}
}

func (c *Codec) Encode(samples []float32, sampleRate int) ([]byte, error) {
	return encodeWith(c.enc, samples, sampleRate, c.mode)
}

func (c *Codec) Decode(data []byte) ([]float32, bool) {
	return decodeWith(c.dec, data)
}

func (c *Codec) Close() error {
	c.enc.Close()
	c.dec.Close()
	return nil
}

var _ bridge.Codec = (*Codec)(nil)

// Sniff reports whether header starts an AMR-NB storage file.
func Sniff(header []byte) bool { return amr.Sniff(header) }

// SourceDecoder lets an audio.Registry decode AMR-NB files.
type SourceDecoder struct{}

func (SourceDecoder) Decode(r io.Reader) (audio.Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	if !amr.Sniff(data) {
		return nil, amr.ErrNotAMR
	}

	samples, ok := Decode(data)
	if !ok {
		return nil, amr.ErrTruncatedFrame
	}
	return audio.NewSliceSource(samples, amr.SampleRate, 1), nil
}
