// SPDX-License-Identifier: EPL-2.0

package amrnb

import (
	"fmt"

	resampling "github.com/tphakala/go-audio-resampling"

	"github.com/ik5/audamr/formats/amr"
	"github.com/ik5/audamr/utils"
)

// Encode converts mono samples at sampleRate into an AMR-NB storage file.
// An empty input yields just the magic header.
func Encode(samples []float32, sampleRate int, mode Mode) ([]byte, error) {
	enc, err := NewEncoder(false)
	if err != nil {
		return nil, err
	}
	defer enc.Close()

	return encodeWith(enc, samples, sampleRate, mode)
}

// Decode converts an AMR-NB storage file into 8 kHz mono samples. It
// reports false when data lacks the magic header or ends mid-frame.
func Decode(data []byte) ([]float32, bool) {
	dec, err := NewDecoder()
	if err != nil {
		return nil, false
	}
	defer dec.Close()

	return decodeWith(dec, data)
}

func encodeWith(enc *Encoder, samples []float32, sampleRate int, mode Mode) ([]byte, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRate, sampleRate)
	}

	pcm8k, err := Resample(samples, sampleRate, amr.SampleRate)
	if err != nil {
		return nil, err
	}

	frames := amr.FrameCount(len(pcm8k))
	out := make([]byte, 0, len(amr.Magic)+frames*amr.MaxFrameSize)
	out = append(out, amr.Magic...)

	frame := make([]int16, amr.FrameSamples)
	for i := range frames {
		chunk := pcm8k[i*amr.FrameSamples : min((i+1)*amr.FrameSamples, len(pcm8k))]
		n := utils.Float32sToInt16s(frame, chunk)
		clear(frame[n:])

		b, err := enc.EncodeFrame(frame, mode)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		out = append(out, b...)
	}

	return out, nil
}

func decodeWith(dec *Decoder, data []byte) ([]float32, bool) {
	frames, err := amr.Frames(data)
	if err != nil {
		return nil, false
	}

	out := make([]float32, len(frames)*amr.FrameSamples)
	pcm := make([]int16, amr.FrameSamples)
	for i, f := range frames {
		if err := dec.DecodeFrame(f, pcm); err != nil {
			return nil, false
		}
		utils.Int16sToFloat32s(out[i*amr.FrameSamples:], pcm)
	}
	return out, true
}

// Resample converts mono samples between rates. Equal rates return a copy.
func Resample(samples []float32, from, to int) ([]float32, error) {
	if from <= 0 || to <= 0 {
		return nil, fmt.Errorf("%w: %d -> %d", ErrInvalidRate, from, to)
	}
	if from == to || len(samples) == 0 {
		out := make([]float32, len(samples))
		copy(out, samples)
		return out, nil
	}

	rs, err := resampling.New(&resampling.Config{
		InputRate:  float64(from),
		OutputRate: float64(to),
		Channels:   1,
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create resampler: %w", err)
	}

	in := make([]float64, len(samples))
	for i, s := range samples {
		in[i] = float64(s)
	}

	body, err := rs.Process(in)
	if err != nil {
		return nil, fmt.Errorf("resample error: %w", err)
	}
	tail, err := rs.Flush()
	if err != nil {
		return nil, fmt.Errorf("resample flush: %w", err)
	}

	out := make([]float32, 0, len(body)+len(tail))
	for _, s := range body {
		out = append(out, float32(s))
	}
	for _, s := range tail {
		out = append(out, float32(s))
	}
	return out, nil
}
