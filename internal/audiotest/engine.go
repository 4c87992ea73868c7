// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"fmt"
	"sync"

	"github.com/ik5/audamr/playback"
)

// Engine is an in-memory playback.Engine. Buffers below MinRate are
// rejected. Playback only ends when a test calls FinishAll.
type Engine struct {
	Rate    int
	MinRate int

	mtx   sync.Mutex
	nodes []*Node
}

func (e *Engine) SampleRate() int {
	if e.Rate == 0 {
		return 48000
	}
	return e.Rate
}

func (e *Engine) CreateBuffer(channels, frames, rate int) (playback.Buffer, error) {
	if rate < e.MinRate {
		return nil, fmt.Errorf("%w: %d Hz", playback.ErrRateRejected, rate)
	}
	return &Buffer{Rate: rate, Data: make([]float32, frames)}, nil
}

func (e *Engine) CreateSource() (playback.SourceNode, error) {
	n := &Node{PlaybackRate: 1}
	e.mtx.Lock()
	e.nodes = append(e.nodes, n)
	e.mtx.Unlock()
	return n, nil
}

// Nodes returns every source created so far.
func (e *Engine) Nodes() []*Node {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	return append([]*Node(nil), e.nodes...)
}

// FinishAll reports natural completion on every started node.
func (e *Engine) FinishAll() {
	for _, n := range e.Nodes() {
		n.Finish()
	}
}

type Buffer struct {
	Rate int
	Data []float32
}

func (b *Buffer) CopyToChannel(samples []float32, channel int) error {
	if channel != 0 {
		return fmt.Errorf("channel %d out of range", channel)
	}
	copy(b.Data, samples)
	return nil
}

func (b *Buffer) SampleRate() int { return b.Rate }
func (b *Buffer) Frames() int     { return len(b.Data) }

type Node struct {
	Buffer       *Buffer
	PlaybackRate float64

	mtx     sync.Mutex
	onEnded func()
	stopped bool
}

func (n *Node) SetBuffer(b playback.Buffer)  { n.Buffer, _ = b.(*Buffer) }
func (n *Node) SetPlaybackRate(rate float64) { n.PlaybackRate = rate }
func (n *Node) Connect() error               { return nil }

func (n *Node) Start(onEnded func()) error {
	n.mtx.Lock()
	n.onEnded = onEnded
	n.mtx.Unlock()
	return nil
}

func (n *Node) Stop() error {
	n.mtx.Lock()
	n.stopped = true
	n.mtx.Unlock()
	return nil
}

func (n *Node) Stopped() bool {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	return n.stopped
}

// Finish calls the completion callback, if the node was started.
func (n *Node) Finish() {
	n.mtx.Lock()
	fn := n.onEnded
	n.mtx.Unlock()
	if fn != nil {
		fn()
	}
}

// Input is a recorder.Input fed by Push.
type Input struct {
	Rate int
	Chan int

	mtx    sync.Mutex
	onData func([]float32)
}

func (i *Input) SampleRate() int { return i.Rate }

func (i *Input) Channels() int {
	if i.Chan == 0 {
		return 1
	}
	return i.Chan
}

func (i *Input) Start(onData func([]float32)) error {
	i.mtx.Lock()
	i.onData = onData
	i.mtx.Unlock()
	return nil
}

func (i *Input) Stop() error {
	i.mtx.Lock()
	i.onData = nil
	i.mtx.Unlock()
	return nil
}

// Push delivers samples if the input has been started.
func (i *Input) Push(samples []float32) {
	i.mtx.Lock()
	fn := i.onData
	i.mtx.Unlock()
	if fn != nil {
		fn(samples)
	}
}
