// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audamr/utils"
)

// Open sniffs the head of rd and decodes it with the first matching
// registered decoder. It returns the detected format key.
func (r *Registry) Open(rd io.Reader) (string, Source, error) {
	br := bufio.NewReaderSize(rd, 4096)

	header, err := br.Peek(SniffLen)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return "", nil, fmt.Errorf("%w", err)
	}

	format, dec, ok := r.Detect(header)
	if !ok {
		return "", nil, ErrUnknownFormat
	}

	src, err := dec.Decode(br)
	if err != nil {
		return format, nil, fmt.Errorf("%s: %w", format, err)
	}
	return format, src, nil
}

// CollectMono drains src into a single mono buffer at targetRate.
// A targetRate <= 0 keeps the source rate. The returned rate is the rate
// of the collected samples.
func CollectMono(src Source, targetRate int, bufferSize int) ([]float32, int, error) {
	if src.SampleRate() <= 0 {
		return nil, 0, ErrInvalidRate
	}
	if src.Channels() <= 0 {
		return nil, 0, ErrInvalidChannels
	}
	if bufferSize <= 0 {
		bufferSize = 4096
	}

	var stage Source = src
	if targetRate > 0 && targetRate != src.SampleRate() {
		stage = NewResampler(stage, targetRate)
	}
	mono := NewMonoMixer(stage)

	out := make([]float32, 0, bufferSize)
	buf := make([]float32, bufferSize)
	for empty := 0; ; {
		n, err := mono.ReadSamples(buf)
		out = append(out, buf[:n]...)

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, mono.SampleRate(), fmt.Errorf("%w", err)
		}

		if n == 0 {
			empty++
			if empty == maxEmptyReads {
				return nil, mono.SampleRate(), io.ErrNoProgress
			}
		} else {
			empty = 0
		}
	}

	return out, mono.SampleRate(), nil
}

// CollectMono16 is CollectMono followed by 16-bit PCM conversion.
func CollectMono16(src Source, targetRate int, bufferSize int) ([]int16, int, error) {
	samples, rate, err := CollectMono(src, targetRate, bufferSize)
	if err != nil {
		return nil, rate, err
	}

	pcm := make([]int16, len(samples))
	utils.Float32sToInt16s(pcm, samples)
	return pcm, rate, nil
}
