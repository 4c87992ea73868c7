// SPDX-License-Identifier: EPL-2.0

package playback

import (
	"sync"

	"github.com/rs/zerolog"
)

// Handle is one playback started by a Manager.
type Handle struct {
	node         SourceNode
	bufferRate   int
	playbackRate float64
	onEnded      func()
	log          zerolog.Logger

	mtx   sync.Mutex
	state State
	done  chan struct{}
}

func (h *Handle) State() State {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	return h.state
}

// BufferRate is the rate the buffer was allocated at.
func (h *Handle) BufferRate() int { return h.bufferRate }

// PlaybackRate is 1 unless the fallback was used.
func (h *Handle) PlaybackRate() float64 { return h.playbackRate }

// Done is closed when the handle becomes idle for any reason.
func (h *Handle) Done() <-chan struct{} { return h.done }

// finish moves the handle to Idle. It reports whether this call did it.
func (h *Handle) finish() bool {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	if h.state != Playing {
		return false
	}
	h.state = Idle
	close(h.done)
	return true
}

// Stop stops playback and reports whether this call stopped it. Calling
// it on an idle handle does nothing and returns false.
func (h *Handle) Stop() bool {
	if !h.finish() {
		return false
	}
	if err := h.node.Stop(); err != nil {
		h.log.Debug().Err(err).Msg("stopping source node")
	}
	return true
}

// ended is the node's completion callback.
func (h *Handle) ended() {
	if !h.finish() {
		return
	}
	h.log.Debug().Msg("playback ended")
	if h.onEnded != nil {
		go h.onEnded()
	}
}
