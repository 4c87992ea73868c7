// SPDX-License-Identifier: EPL-2.0

package playback

import (
	"fmt"
	"sync"
)

type fakeBuffer struct {
	rate    int
	frames  int
	samples []float32
}

func (b *fakeBuffer) CopyToChannel(samples []float32, channel int) error {
	if channel != 0 {
		return fmt.Errorf("channel %d out of range", channel)
	}
	b.samples = append([]float32(nil), samples...)
	return nil
}

func (b *fakeBuffer) SampleRate() int { return b.rate }
func (b *fakeBuffer) Frames() int     { return b.frames }

type fakeNode struct {
	mtx          sync.Mutex
	buf          *fakeBuffer
	playbackRate float64
	connected    bool
	started      bool
	stops        int
	onEnded      func()
	endOnStop    bool
}

func (n *fakeNode) SetBuffer(b Buffer)           { n.buf = b.(*fakeBuffer) }
func (n *fakeNode) SetPlaybackRate(rate float64) { n.playbackRate = rate }

func (n *fakeNode) Connect() error {
	n.connected = true
	return nil
}

func (n *fakeNode) Start(onEnded func()) error {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	n.started = true
	n.onEnded = onEnded
	return nil
}

// Stop mimics engines that report "ended" for stopped nodes too.
func (n *fakeNode) Stop() error {
	n.mtx.Lock()
	n.stops++
	end := n.onEnded
	n.mtx.Unlock()

	if n.endOnStop && end != nil {
		end()
	}
	return nil
}

// finish simulates the buffer running out.
func (n *fakeNode) finish() {
	n.mtx.Lock()
	end := n.onEnded
	n.mtx.Unlock()
	end()
}

// fakeEngine rejects buffers below minRate.
type fakeEngine struct {
	minRate   int
	endOnStop bool

	mtx     sync.Mutex
	buffers []*fakeBuffer
	nodes   []*fakeNode
}

func (e *fakeEngine) CreateBuffer(channels, frames, rate int) (Buffer, error) {
	if rate < e.minRate {
		return nil, fmt.Errorf("%w: %d Hz", ErrRateRejected, rate)
	}
	b := &fakeBuffer{rate: rate, frames: frames}
	e.mtx.Lock()
	e.buffers = append(e.buffers, b)
	e.mtx.Unlock()
	return b, nil
}

func (e *fakeEngine) CreateSource() (SourceNode, error) {
	n := &fakeNode{endOnStop: e.endOnStop}
	e.mtx.Lock()
	e.nodes = append(e.nodes, n)
	e.mtx.Unlock()
	return n, nil
}

func (e *fakeEngine) SampleRate() int { return 48000 }

func (e *fakeEngine) lastNode() *fakeNode {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	return e.nodes[len(e.nodes)-1]
}
