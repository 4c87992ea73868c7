// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audamr/audio"
	"github.com/jfreymuth/oggvorbis"
)

// Sniff reports whether header starts an Ogg page.
func Sniff(header []byte) bool {
	return bytes.HasPrefix(header, []byte("OggS"))
}

// oggReader is the part of oggvorbis.Reader used by source.
type oggReader interface {
	Read([]float32) (int, error)
}

type source struct {
	dec        oggReader
	sampleRate int
	channels   int
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return 4096 }

// ReadSamples fills dst with interleaved samples. oggvorbis counts
// values, not frames, and may return fewer than asked mid-stream.
func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst)%s.channels != 0 {
		return 0, audio.ErrInvalidDstSize
	}

	total := 0
	for total < len(dst) {
		n, err := s.dec.Read(dst[total:])
		total += n
		if errors.Is(err, io.EOF) {
			return total, io.EOF
		}
		if err != nil {
			return total, fmt.Errorf("%w", err)
		}
		if n == 0 {
			break
		}
	}
	return total, nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotVorbisFile, err)
	}

	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		channels:   dec.Channels(),
	}, nil
}
