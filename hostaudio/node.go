// SPDX-License-Identifier: EPL-2.0

package hostaudio

import (
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"

	"github.com/ik5/audamr/playback"
)

// node plays one buffer on its own playback device.
type node struct {
	owner        *Context
	buf          *buffer
	playbackRate float64

	mtx      sync.Mutex
	device   *malgo.Device
	onEnded  func()
	finished bool
}

func (n *node) SetBuffer(b playback.Buffer) {
	if hb, ok := b.(*buffer); ok {
		n.buf = hb
	}
}

func (n *node) SetPlaybackRate(rate float64) { n.playbackRate = rate }

func (n *node) Connect() error {
	if n.buf == nil {
		return fmt.Errorf("source has no buffer from this context")
	}
	return nil
}

func (n *node) Start(onEnded func()) error {
	if n.buf == nil {
		return fmt.Errorf("source has no buffer from this context")
	}

	mctx, err := n.owner.malgoContext()
	if err != nil {
		return err
	}

	cfg := malgo.DefaultDeviceConfig(malgo.Playback)
	cfg.Playback.Format = malgo.FormatF32
	cfg.Playback.Channels = uint32(len(n.buf.channels))
	cfg.SampleRate = uint32(n.buf.rate)

	r := newRenderer(n.buf, n.playbackRate)
	var signalled bool
	onData := func(out, _ []byte, frameCount uint32) {
		if r.fill(out, int(frameCount)) && !signalled {
			signalled = true
			// the device cannot be stopped from its own callback
			go n.finish()
		}
	}

	device, err := malgo.InitDevice(mctx, cfg, malgo.DeviceCallbacks{Data: onData})
	if err != nil {
		return fmt.Errorf("failed to open playback device: %w", err)
	}

	n.mtx.Lock()
	n.device = device
	n.onEnded = onEnded
	n.mtx.Unlock()

	if err := device.Start(); err != nil {
		n.release()
		return fmt.Errorf("failed to start playback device: %w", err)
	}

	n.owner.log.Debug().
		Int("buffer_rate", n.buf.rate).
		Float64("playback_rate", n.playbackRate).
		Int("frames", n.buf.Frames()).
		Msg("playback device started")
	return nil
}

// release stops and frees the device once. It reports whether this call
// did the work.
func (n *node) release() bool {
	n.mtx.Lock()
	defer n.mtx.Unlock()

	if n.finished {
		return false
	}
	n.finished = true

	if n.device != nil {
		_ = n.device.Stop()
		n.device.Uninit()
		n.device = nil
	}
	return true
}

func (n *node) finish() {
	if !n.release() {
		return
	}

	n.mtx.Lock()
	fn := n.onEnded
	n.mtx.Unlock()

	if fn != nil {
		fn()
	}
}

func (n *node) Stop() error {
	n.release()
	return nil
}
