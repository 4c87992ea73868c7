// SPDX-License-Identifier: EPL-2.0

package playback

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// DefaultSampleRate is used when Play is given a rate <= 0.
const DefaultSampleRate = 8000

type State int

const (
	Idle State = iota
	Playing
)

func (s State) String() string {
	if s == Playing {
		return "playing"
	}
	return "idle"
}

// Manager holds the single current playback for an Engine.
type Manager struct {
	engine      Engine
	defaultRate int
	log         zerolog.Logger

	mtx     sync.Mutex
	current *Handle
}

type Option func(*Manager)

func WithLogger(l zerolog.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// WithDefaultSampleRate changes the rate used when Play gets none.
func WithDefaultSampleRate(rate int) Option {
	return func(m *Manager) {
		if rate > 0 {
			m.defaultRate = rate
		}
	}
}

func NewManager(engine Engine, opts ...Option) (*Manager, error) {
	if engine == nil {
		return nil, ErrUnsupportedEnvironment
	}

	m := &Manager{
		engine:      engine,
		defaultRate: DefaultSampleRate,
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

func (m *Manager) Engine() Engine { return m.engine }

// Play stops any current playback and starts samples at sampleRate.
// onEnded, if not nil, runs on its own goroutine when playback reaches
// the end on its own. It does not run after Stop or after being replaced.
func (m *Manager) Play(samples []float32, sampleRate int, onEnded func()) (*Handle, error) {
	if sampleRate <= 0 {
		sampleRate = m.defaultRate
	}

	m.mtx.Lock()
	defer m.mtx.Unlock()

	if m.current != nil {
		m.current.Stop()
		m.current = nil
	}

	buf, playbackRate, err := m.allocate(len(samples), sampleRate)
	if err != nil {
		return nil, err
	}
	if err := buf.CopyToChannel(samples, 0); err != nil {
		return nil, fmt.Errorf("copying samples: %w", err)
	}

	node, err := m.engine.CreateSource()
	if err != nil {
		return nil, fmt.Errorf("creating source: %w", err)
	}
	node.SetBuffer(buf)
	node.SetPlaybackRate(playbackRate)
	if err := node.Connect(); err != nil {
		return nil, fmt.Errorf("connecting source: %w", err)
	}

	h := &Handle{
		node:         node,
		bufferRate:   buf.SampleRate(),
		playbackRate: playbackRate,
		onEnded:      onEnded,
		state:        Playing,
		done:         make(chan struct{}),
		log:          m.log,
	}
	if err := node.Start(h.ended); err != nil {
		h.finish()
		return nil, fmt.Errorf("starting source: %w", err)
	}

	m.current = h
	m.log.Debug().
		Int("samples", len(samples)).
		Int("declared_rate", sampleRate).
		Int("buffer_rate", h.bufferRate).
		Float64("playback_rate", playbackRate).
		Msg("playback started")
	return h, nil
}

// allocate tries the declared rate first, then the fallback rate.
func (m *Manager) allocate(frames, sampleRate int) (Buffer, float64, error) {
	frames = max(frames, 1)

	buf, err := m.engine.CreateBuffer(1, frames, sampleRate)
	if err == nil {
		return buf, 1, nil
	}
	if !errors.Is(err, ErrRateRejected) {
		return nil, 0, fmt.Errorf("creating buffer: %w", err)
	}

	bufferRate, playbackRate := FallbackRate(sampleRate)
	m.log.Debug().Int("declared_rate", sampleRate).Int("buffer_rate", bufferRate).
		Msg("engine rejected sample rate, using fallback")

	buf, err = m.engine.CreateBuffer(1, frames, bufferRate)
	if err != nil {
		return nil, 0, fmt.Errorf("creating fallback buffer at %d Hz: %w", bufferRate, err)
	}
	return buf, playbackRate, nil
}

// Stop stops the current playback, if any.
func (m *Manager) Stop() {
	m.mtx.Lock()
	h := m.current
	m.current = nil
	m.mtx.Unlock()

	if h != nil {
		h.Stop()
	}
}

// Current returns the handle of the last started playback, or nil.
func (m *Manager) Current() *Handle {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return m.current
}

func (m *Manager) IsPlaying() bool {
	h := m.Current()
	return h != nil && h.State() == Playing
}
