// SPDX-License-Identifier: EPL-2.0

package bridge

import (
	"fmt"
	"sync"
)

// Inline is a Worker that shares one codec between calls. Each call runs
// on its own goroutine, serialised by a mutex, so Post never runs the
// codec in the caller's frame.
type Inline struct {
	codec   Codec
	replies chan Response

	codecMtx sync.Mutex
	mtx      sync.Mutex
	wg       sync.WaitGroup
	closed   bool
	once     sync.Once
}

func NewInline(factory CodecFactory) (*Inline, error) {
	c, err := factory()
	if err == nil && c == nil {
		err = fmt.Errorf("factory returned a nil codec")
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWorkerInit, err)
	}

	return &Inline{
		codec:   c,
		replies: make(chan Response, 16),
	}, nil
}

func (w *Inline) Post(req Request) error {
	w.mtx.Lock()
	defer w.mtx.Unlock()

	if w.closed {
		return ErrClosed
	}

	req = req.clone()
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		w.codecMtx.Lock()
		resp := serve(w.codec, req)
		w.codecMtx.Unlock()

		w.replies <- resp
	}()
	return nil
}

func (w *Inline) Replies() <-chan Response { return w.replies }

func (w *Inline) Close() error {
	w.once.Do(func() {
		w.mtx.Lock()
		w.closed = true
		w.mtx.Unlock()

		w.wg.Wait()
		closeCodecs([]Codec{w.codec})
		close(w.replies)
	})
	return nil
}

var _ Worker = (*Inline)(nil)
