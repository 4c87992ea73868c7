// SPDX-License-Identifier: EPL-2.0

package recorder

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ik5/audamr/audio"
)

// Input is a capture device. It delivers interleaved samples at
// SampleRate through the function passed to Start until Stop.
type Input interface {
	Start(onData func(samples []float32)) error
	Stop() error
	SampleRate() int
	Channels() int
}

type state struct {
	recording bool
	chunks    [][]float32
	frames    int
}

// Recorder collects audio from an Input.
type Recorder struct {
	input Input
	log   zerolog.Logger

	cmds chan func(*state)
	done chan struct{}

	mtx    sync.RWMutex
	closed bool
}

type Option func(*Recorder)

func WithLogger(l zerolog.Logger) Option {
	return func(r *Recorder) { r.log = l }
}

// New starts the recorder goroutine. A nil input is allowed; such a
// recorder only receives what is passed to Write.
func New(input Input, opts ...Option) *Recorder {
	r := &Recorder{
		input: input,
		log:   zerolog.Nop(),
		cmds:  make(chan func(*state), 64),
		done:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}

	go r.run()
	return r
}

func (r *Recorder) run() {
	defer close(r.done)

	var st state
	for cmd := range r.cmds {
		cmd(&st)
	}
}

// do queues fn on the recorder goroutine.
func (r *Recorder) do(fn func(*state)) error {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	if r.closed {
		return ErrClosed
	}
	r.cmds <- fn
	return nil
}

// call runs fn on the recorder goroutine and waits for it.
func (r *Recorder) call(fn func(*state)) error {
	ran := make(chan struct{})
	if err := r.do(func(st *state) {
		fn(st)
		close(ran)
	}); err != nil {
		return err
	}
	<-ran
	return nil
}

// Record drops anything buffered and starts capturing.
func (r *Recorder) Record() error {
	var already bool
	err := r.call(func(st *state) {
		already = st.recording
		st.chunks, st.frames = nil, 0
		st.recording = true
	})
	if err != nil || already || r.input == nil {
		return err
	}

	if err := r.input.Start(r.Write); err != nil {
		_ = r.call(func(st *state) { st.recording = false })
		return fmt.Errorf("starting input: %w", err)
	}
	r.log.Debug().Int("sample_rate", r.input.SampleRate()).Msg("recording started")
	return nil
}

// Stop stops capturing and keeps the buffer. Stopping a recorder that is
// not recording does nothing.
func (r *Recorder) Stop() error {
	var was bool
	if err := r.call(func(st *state) {
		was = st.recording
		st.recording = false
	}); err != nil {
		return err
	}
	if !was || r.input == nil {
		return nil
	}

	if err := r.input.Stop(); err != nil {
		return fmt.Errorf("stopping input: %w", err)
	}
	r.log.Debug().Msg("recording stopped")
	return nil
}

// Clear drops buffered audio.
func (r *Recorder) Clear() error {
	return r.call(func(st *state) {
		st.chunks, st.frames = nil, 0
	})
}

func (r *Recorder) IsRecording() bool {
	var rec bool
	if err := r.call(func(st *state) { rec = st.recording }); err != nil {
		return false
	}
	return rec
}

// Write appends interleaved samples while recording; otherwise they are
// dropped. Multi-channel input is folded to mono. samples is copied.
func (r *Recorder) Write(samples []float32) {
	if len(samples) == 0 {
		return
	}
	chunk := r.toMono(samples)

	_ = r.do(func(st *state) {
		if !st.recording {
			return
		}
		st.chunks = append(st.chunks, chunk)
		st.frames += len(chunk)
	})
}

func (r *Recorder) toMono(samples []float32) []float32 {
	channels := 1
	if r.input != nil {
		channels = r.input.Channels()
	}
	if channels <= 1 {
		return append([]float32(nil), samples...)
	}

	frames := len(samples) / channels
	out := make([]float32, frames)
	mono := audio.NewMonoMixer(audio.NewSliceSource(samples[:frames*channels], r.SampleRate(), channels))
	n, _ := mono.ReadSamples(out)
	return out[:n]
}

// Buffer returns everything recorded so far as one mono slice.
func (r *Recorder) Buffer(ctx context.Context) ([]float32, error) {
	result := make(chan []float32, 1)
	err := r.do(func(st *state) {
		out := make([]float32, 0, st.frames)
		for _, c := range st.chunks {
			out = append(out, c...)
		}
		result <- out
	})
	if err != nil {
		return nil, err
	}

	select {
	case out := <-result:
		return out, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w", ctx.Err())
	}
}

// SampleRate of the recorded samples. It is 0 without an input.
func (r *Recorder) SampleRate() int {
	if r.input == nil {
		return 0
	}
	return r.input.SampleRate()
}

// Close stops capturing and ends the recorder goroutine.
func (r *Recorder) Close() error {
	stopErr := r.Stop()

	r.mtx.Lock()
	if r.closed {
		r.mtx.Unlock()
		return nil
	}
	r.closed = true
	close(r.cmds)
	r.mtx.Unlock()

	<-r.done
	if stopErr != nil && !errors.Is(stopErr, ErrClosed) {
		return stopErr
	}
	return nil
}
