// SPDX-License-Identifier: EPL-2.0

package audamr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/ik5/audamr/audio"
	"github.com/ik5/audamr/bridge"
	"github.com/ik5/audamr/formats/amr"
	"github.com/ik5/audamr/playback"
	"github.com/ik5/audamr/recorder"
)

type clipState int

const (
	clipNew clipState = iota
	clipLoading
	// clipRecorder holds the recorder but has no audio yet.
	clipRecorder
	clipReady
)

// Clip is one piece of audio: loaded from AMR (or another container) or
// recorded, then played back. Clips of the same Runtime share one
// playback slot, so playing one stops the other.
type Clip struct {
	rt *Runtime

	mtx      sync.Mutex
	state    clipState
	rec      *recorder.Recorder
	samples  []float32
	rate     int
	data     []byte
	handle   *playback.Handle
	handlers [eventCount]func()
}

// begin claims the clip for initialisation.
func (c *Clip) begin() error {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if c.state != clipNew {
		return ErrAlreadyInitialized
	}
	c.state = clipLoading
	return nil
}

func (c *Clip) abort() {
	c.mtx.Lock()
	c.state = clipNew
	c.mtx.Unlock()
}

func (c *Clip) set(samples []float32, rate int, data []byte) {
	c.mtx.Lock()
	c.samples, c.rate, c.data = samples, rate, data
	c.state = clipReady
	c.mtx.Unlock()
}

// InitWithAMR loads AMR-NB bytes. Data that is not AMR is decoded with
// the runtime registry, converted to AMR and decoded again, so the clip
// always sounds like AMR.
func (c *Clip) InitWithAMR(ctx context.Context, data []byte) error {
	if err := c.begin(); err != nil {
		return err
	}
	return c.load(ctx, data)
}

// InitWithReader loads everything r yields, see InitWithAMR.
func (c *Clip) InitWithReader(ctx context.Context, r io.Reader) error {
	if err := c.begin(); err != nil {
		return err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		c.abort()
		return fmt.Errorf("read audio: %w", err)
	}
	return c.load(ctx, data)
}

func (c *Clip) InitWithFile(ctx context.Context, path string) error {
	if err := c.begin(); err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		c.abort()
		return fmt.Errorf("%w", err)
	}
	return c.load(ctx, data)
}

// InitWithURL fetches url with a single GET. Any status outside 2xx
// fails with ErrHTTPStatus.
func (c *Clip) InitWithURL(ctx context.Context, url string) error {
	if err := c.begin(); err != nil {
		return err
	}

	data, err := c.fetch(ctx, url)
	if err != nil {
		c.abort()
		return err
	}
	return c.load(ctx, data)
}

func (c *Clip) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	resp, err := c.rt.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s", ErrHTTPStatus, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	return data, nil
}

func (c *Clip) load(ctx context.Context, data []byte) error {
	log := c.rt.log.With().Int("bytes", len(data)).Logger()

	samples, err := c.rt.bridge.Decode(ctx, data)
	if err == nil {
		c.set(samples, amr.SampleRate, slices.Clone(data))
		return nil
	}
	if !errors.Is(err, bridge.ErrDecodeFailure) {
		c.abort()
		return err
	}

	log.Debug().Err(err).Msg("not AMR, trying other formats")

	encoded, samples, err := c.transcode(ctx, data)
	if err != nil {
		c.abort()
		log.Warn().Err(err).Msg("audio could not be decoded")
		return fmt.Errorf("%w: %w", ErrDecodeFailed, err)
	}

	c.set(samples, amr.SampleRate, encoded)
	return nil
}

// transcode decodes data with the registry at the engine rate and passes
// it through AMR.
func (c *Clip) transcode(ctx context.Context, data []byte) ([]byte, []float32, error) {
	format, src, err := c.rt.registry.Open(bytes.NewReader(data))
	if err != nil {
		return nil, nil, err
	}
	defer src.Close()

	pcm, rate, err := audio.CollectMono(src, c.rt.EngineSampleRate(), 0)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", format, err)
	}

	encoded, err := c.rt.bridge.Encode(ctx, pcm, rate)
	if err != nil {
		return nil, nil, err
	}

	samples, err := c.rt.bridge.Decode(ctx, encoded)
	if err != nil {
		return nil, nil, err
	}

	c.rt.log.Debug().
		Str("format", format).
		Int("rate", rate).
		Int("amr_bytes", len(encoded)).
		Msg("transcoded to AMR")
	return encoded, samples, nil
}

// InitWithRecord binds the clip to the runtime recorder. The clip has no
// audio until FinishRecord.
func (c *Clip) InitWithRecord(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w", err)
	}
	if err := c.begin(); err != nil {
		return err
	}

	rec, err := c.rt.claimRecorder(c)
	if err != nil {
		c.abort()
		return err
	}

	c.mtx.Lock()
	c.rec = rec
	c.state = clipRecorder
	c.mtx.Unlock()
	return nil
}

// IsInit reports whether the clip has audio to play.
func (c *Clip) IsInit() bool {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.state == clipReady
}

// On sets the handler for ev, replacing any previous one. A nil fn
// removes it. Handlers run on library goroutines and must not block.
func (c *Clip) On(ev Event, fn func()) {
	if ev < 0 || ev >= eventCount {
		return
	}

	c.mtx.Lock()
	c.handlers[ev] = fn
	c.mtx.Unlock()
}

func (c *Clip) emit(ev Event) {
	c.mtx.Lock()
	fn := c.handlers[ev]
	c.mtx.Unlock()

	if fn != nil {
		fn()
	}
}

// Play starts playback from the beginning, stopping whatever the runtime
// was playing.
func (c *Clip) Play() error {
	c.mtx.Lock()
	if c.state != clipReady {
		c.mtx.Unlock()
		return ErrNotInitialized
	}
	samples, rate := c.samples, c.rate
	c.mtx.Unlock()

	h, err := c.rt.player.Play(samples, rate, c.ended)
	if err != nil {
		return err
	}

	c.mtx.Lock()
	c.handle = h
	c.mtx.Unlock()

	c.emit(EventPlay)
	return nil
}

func (c *Clip) ended() {
	c.emit(EventStop)
	c.emit(EventEnded)
}

// Stop stops playback. Calling it when nothing plays does nothing.
func (c *Clip) Stop() {
	c.mtx.Lock()
	h := c.handle
	c.handle = nil
	c.mtx.Unlock()

	if h != nil && h.Stop() {
		c.emit(EventStop)
	}
}

func (c *Clip) IsPlaying() bool {
	c.mtx.Lock()
	h := c.handle
	c.mtx.Unlock()

	return h != nil && h.State() == playback.Playing
}

func (c *Clip) boundRecorder() (*recorder.Recorder, error) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if c.rec == nil {
		return nil, ErrRecorderUnavailable
	}
	return c.rec, nil
}

// StartRecord discards anything recorded so far and starts capturing.
func (c *Clip) StartRecord() error {
	rec, err := c.boundRecorder()
	if err != nil {
		return err
	}

	if err := rec.Record(); err != nil {
		return err
	}
	c.emit(EventStartRecord)
	return nil
}

// FinishRecord stops capturing and encodes the recording to AMR. The clip
// keeps the recorded samples at the capture rate for playback.
func (c *Clip) FinishRecord(ctx context.Context) error {
	rec, err := c.boundRecorder()
	if err != nil {
		return err
	}

	if err := rec.Stop(); err != nil {
		return err
	}

	samples, err := rec.Buffer(ctx)
	if err != nil {
		return err
	}
	if err := rec.Clear(); err != nil {
		return err
	}

	rate := rec.SampleRate()
	encoded, err := c.rt.bridge.Encode(ctx, samples, rate)
	if err != nil {
		return err
	}

	c.set(samples, rate, encoded)
	c.rt.log.Debug().
		Int("samples", len(samples)).
		Int("rate", rate).
		Int("amr_bytes", len(encoded)).
		Msg("recording finished")

	c.emit(EventFinishRecord)
	return nil
}

// CancelRecord stops capturing and drops the recording.
func (c *Clip) CancelRecord() error {
	rec, err := c.boundRecorder()
	if err != nil {
		return err
	}

	if err := rec.Stop(); err != nil {
		return err
	}
	if err := rec.Clear(); err != nil {
		return err
	}
	c.emit(EventCancelRecord)
	return nil
}

func (c *Clip) IsRecording() bool {
	rec, err := c.boundRecorder()
	return err == nil && rec.IsRecording()
}

// Duration is the length of the clip's audio.
func (c *Clip) Duration() time.Duration {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if c.rate <= 0 {
		return 0
	}
	return time.Duration(len(c.samples)) * time.Second / time.Duration(c.rate)
}

// Blob returns the clip as an AMR-NB blob.
func (c *Clip) Blob() (Blob, error) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if c.state != clipReady {
		return Blob{}, ErrNotInitialized
	}
	return RawAMRToBlob(c.data), nil
}

// Samples returns a copy of the playback samples and their rate.
func (c *Clip) Samples() ([]float32, int) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return slices.Clone(c.samples), c.rate
}

// Close stops the clip's playback and recording and gives the recorder
// back to the runtime.
func (c *Clip) Close() error {
	c.Stop()

	c.mtx.Lock()
	rec := c.rec
	c.rec = nil
	c.mtx.Unlock()

	if rec == nil {
		return nil
	}
	defer c.rt.releaseRecorder(c)

	if err := rec.Stop(); err != nil {
		return err
	}
	return rec.Clear()
}
