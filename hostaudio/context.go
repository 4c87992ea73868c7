// SPDX-License-Identifier: EPL-2.0

package hostaudio

import (
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"
	"github.com/rs/zerolog"

	"github.com/ik5/audamr/playback"
)

// Context owns a miniaudio context.
type Context struct {
	cfg Config
	log zerolog.Logger
	ctx *malgo.AllocatedContext

	mtx    sync.Mutex
	closed bool
}

// Open initialises miniaudio. Failure wraps playback.ErrUnsupportedEnvironment.
func Open(cfg Config, log zerolog.Logger) (*Context, error) {
	cfg = cfg.withDefaults()

	var backends []malgo.Backend
	if cfg.NullBackend {
		backends = []malgo.Backend{malgo.BackendNull}
	}

	ctx, err := malgo.InitContext(backends, malgo.ContextConfig{}, func(msg string) {
		log.Debug().Str("component", "miniaudio").Msg(msg)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to init malgo context: %w", playback.ErrUnsupportedEnvironment, err)
	}

	log.Debug().Int("sample_rate", cfg.SampleRate).Int("min_sample_rate", cfg.MinSampleRate).Msg("audio context opened")
	return &Context{cfg: cfg, log: log, ctx: ctx}, nil
}

func (c *Context) SampleRate() int { return c.cfg.SampleRate }

// CreateBuffer allocates a planar buffer. Rates outside
// [MinSampleRate, MaxSampleRate] wrap playback.ErrRateRejected.
func (c *Context) CreateBuffer(channels, frames, sampleRate int) (playback.Buffer, error) {
	if sampleRate <= 0 || sampleRate < c.cfg.MinSampleRate || sampleRate > MaxSampleRate {
		return nil, fmt.Errorf("%w: %d Hz", playback.ErrRateRejected, sampleRate)
	}
	if channels < 1 || frames < 1 {
		return nil, fmt.Errorf("invalid buffer shape: %d channels, %d frames", channels, frames)
	}
	return newBuffer(channels, frames, sampleRate), nil
}

func (c *Context) CreateSource() (playback.SourceNode, error) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if c.closed {
		return nil, playback.ErrUnsupportedEnvironment
	}
	return &node{owner: c, playbackRate: 1}, nil
}

// Close releases the miniaudio context. Devices opened from it must be
// stopped first.
func (c *Context) Close() error {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if c.closed || c.ctx == nil {
		c.closed = true
		return nil
	}
	c.closed = true

	err := c.ctx.Uninit()
	c.ctx.Free()
	if err != nil {
		return fmt.Errorf("uninit malgo context: %w", err)
	}
	return nil
}

func (c *Context) malgoContext() (malgo.Context, error) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if c.closed || c.ctx == nil {
		var zero malgo.Context
		return zero, playback.ErrUnsupportedEnvironment
	}
	return c.ctx.Context, nil
}

var _ playback.Engine = (*Context)(nil)
