// SPDX-License-Identifier: EPL-2.0

package audamr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ik5/audamr/audio"
	"github.com/ik5/audamr/bridge"
	"github.com/ik5/audamr/codec/amrnb"
	"github.com/ik5/audamr/hostaudio"
	"github.com/ik5/audamr/internal/config"
	"github.com/ik5/audamr/playback"
	"github.com/ik5/audamr/recorder"
)

// Runtime holds what clips share.
type Runtime struct {
	cfg      *config.Config
	log      zerolog.Logger
	bridge   *bridge.Bridge
	player   *playback.Manager
	rec      *recorder.Recorder
	registry *audio.Registry
	client   *http.Client
	host     *hostaudio.Context

	mtx      sync.Mutex
	recOwner *Clip
}

type runtimeOptions struct {
	log     zerolog.Logger
	engine  playback.Engine
	input   recorder.Input
	factory bridge.CodecFactory
	metrics *bridge.Metrics
	client  *http.Client
	reg     *audio.Registry
}

type Option func(*runtimeOptions)

func WithLogger(l zerolog.Logger) Option {
	return func(o *runtimeOptions) { o.log = l }
}

// WithEngine replaces the miniaudio engine. No capture input is opened
// unless WithInput is also given.
func WithEngine(e playback.Engine) Option {
	return func(o *runtimeOptions) { o.engine = e }
}

func WithInput(in recorder.Input) Option {
	return func(o *runtimeOptions) { o.input = in }
}

// WithCodecFactory replaces the libopencore-amrnb codec.
func WithCodecFactory(f bridge.CodecFactory) Option {
	return func(o *runtimeOptions) { o.factory = f }
}

func WithMetrics(m *bridge.Metrics) Option {
	return func(o *runtimeOptions) { o.metrics = m }
}

// WithHTTPClient sets the client InitWithURL uses.
func WithHTTPClient(c *http.Client) Option {
	return func(o *runtimeOptions) { o.client = c }
}

func WithRegistry(r *audio.Registry) Option {
	return func(o *runtimeOptions) { o.reg = r }
}

// NewRuntime builds a runtime from cfg; nil means config.Default().
// Without WithEngine it opens the host audio device, and fails with
// playback.ErrUnsupportedEnvironment when there is none.
func NewRuntime(cfg *config.Config, opts ...Option) (*Runtime, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	o := runtimeOptions{log: zerolog.Nop(), client: http.DefaultClient}
	for _, opt := range opts {
		opt(&o)
	}
	if o.factory == nil {
		o.factory = amrnb.Factory(cfg.Codec.EncoderMode(), cfg.Codec.DTX)
	}
	if o.reg == nil {
		o.reg = DefaultRegistry()
	}

	rt := &Runtime{
		cfg:      cfg,
		log:      o.log,
		registry: o.reg,
		client:   o.client,
	}

	engine := o.engine
	if engine == nil {
		host, err := hostaudio.Open(cfg.HostConfig(), o.log.With().Str("component", "hostaudio").Logger())
		if err != nil {
			o.log.Error().Err(err).Msg("no audio engine")
			return nil, err
		}
		rt.host = host
		engine = host
		if o.input == nil {
			o.input = host.OpenCapture()
		}
	}

	player, err := playback.NewManager(engine,
		playback.WithLogger(o.log.With().Str("component", "playback").Logger()),
		playback.WithDefaultSampleRate(cfg.Playback.DefaultSampleRate))
	if err != nil {
		rt.closeHost()
		return nil, err
	}
	rt.player = player

	b, err := bridge.New(o.factory,
		bridge.WithMode(cfg.Codec.BridgeMode()),
		bridge.WithWorkers(cfg.Codec.Workers),
		bridge.WithMetrics(o.metrics),
		bridge.WithLogger(o.log.With().Str("component", "bridge").Logger()))
	if err != nil {
		rt.closeHost()
		return nil, err
	}
	rt.bridge = b

	if o.input != nil {
		rt.rec = recorder.New(o.input, recorder.WithLogger(o.log.With().Str("component", "recorder").Logger()))
	}

	o.log.Debug().
		Stringer("bridge_mode", b.Mode()).
		Int("engine_rate", engine.SampleRate()).
		Bool("recorder", rt.rec != nil).
		Msg("runtime ready")
	return rt, nil
}

func (rt *Runtime) NewClip() *Clip {
	return &Clip{rt: rt}
}

func (rt *Runtime) Bridge() *bridge.Bridge       { return rt.bridge }
func (rt *Runtime) Player() *playback.Manager    { return rt.player }
func (rt *Runtime) Registry() *audio.Registry    { return rt.registry }
func (rt *Runtime) Recorder() *recorder.Recorder { return rt.rec }
func (rt *Runtime) Config() *config.Config       { return rt.cfg }
func (rt *Runtime) EngineSampleRate() int        { return rt.player.Engine().SampleRate() }

// EncodeAMR converts samples to AMR-NB through the bridge. A sampleRate
// <= 0 means 8000.
func (rt *Runtime) EncodeAMR(ctx context.Context, samples []float32, sampleRate int) ([]byte, error) {
	return rt.bridge.Encode(ctx, samples, sampleRate)
}

// DecodeAMR converts AMR-NB bytes to 8 kHz samples through the bridge.
func (rt *Runtime) DecodeAMR(ctx context.Context, data []byte) ([]float32, error) {
	return rt.bridge.Decode(ctx, data)
}

// StopAll stops whatever is playing.
func (rt *Runtime) StopAll() { rt.player.Stop() }

// claimRecorder gives the recorder to c unless another clip is recording.
func (rt *Runtime) claimRecorder(c *Clip) (*recorder.Recorder, error) {
	if rt.rec == nil {
		return nil, ErrRecorderUnavailable
	}

	rt.mtx.Lock()
	defer rt.mtx.Unlock()

	if rt.recOwner != nil && rt.recOwner != c {
		return nil, ErrRecorderBusy
	}
	rt.recOwner = c
	return rt.rec, nil
}

func (rt *Runtime) releaseRecorder(c *Clip) {
	rt.mtx.Lock()
	defer rt.mtx.Unlock()

	if rt.recOwner == c {
		rt.recOwner = nil
	}
}

// Close stops playback and recording and releases the codec workers and
// the audio device.
func (rt *Runtime) Close() error {
	rt.player.Stop()

	var errs []error
	if rt.rec != nil {
		if err := rt.rec.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := rt.bridge.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := rt.closeHost(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (rt *Runtime) closeHost() error {
	if rt.host == nil {
		return nil
	}
	return rt.host.Close()
}
