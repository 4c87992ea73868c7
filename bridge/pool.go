// SPDX-License-Identifier: EPL-2.0

package bridge

import (
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Pool is a Worker backed by goroutines that each own a codec.
type Pool struct {
	reqs    chan Request
	replies chan Response
	codecs  []Codec
	group   errgroup.Group
	log     zerolog.Logger

	mtx    sync.RWMutex
	closed bool
	once   sync.Once
}

// NewPool builds size codecs with factory and starts one goroutine per
// codec. If any codec fails to build, the ones already built are closed
// and the error wraps ErrWorkerInit.
func NewPool(factory CodecFactory, size int, log zerolog.Logger) (*Pool, error) {
	if size < 1 {
		size = 1
	}

	codecs := make([]Codec, 0, size)
	for i := range size {
		c, err := factory()
		if err == nil && c == nil {
			err = fmt.Errorf("factory returned a nil codec")
		}
		if err != nil {
			closeCodecs(codecs)
			return nil, fmt.Errorf("%w: worker %d: %w", ErrWorkerInit, i, err)
		}
		codecs = append(codecs, c)
	}

	p := &Pool{
		reqs:    make(chan Request, size*4),
		replies: make(chan Response, size*4),
		codecs:  codecs,
		log:     log,
	}

	for i, c := range codecs {
		p.group.Go(func() error {
			for req := range p.reqs {
				p.replies <- serve(c, req)
			}
			p.log.Debug().Int("worker", i).Msg("codec worker stopped")
			return nil
		})
	}

	return p, nil
}

// Post queues a copy of req. It blocks while the queue is full.
func (p *Pool) Post(req Request) error {
	p.mtx.RLock()
	defer p.mtx.RUnlock()

	if p.closed {
		return ErrClosed
	}
	p.reqs <- req.clone()
	return nil
}

func (p *Pool) Replies() <-chan Response { return p.replies }

// Close stops accepting requests, lets queued ones finish, then releases
// the codecs and closes Replies. Replies must keep being drained until then.
func (p *Pool) Close() error {
	p.once.Do(func() {
		p.mtx.Lock()
		p.closed = true
		close(p.reqs)
		p.mtx.Unlock()

		_ = p.group.Wait()
		closeCodecs(p.codecs)
		close(p.replies)
	})
	return nil
}

func closeCodecs(codecs []Codec) {
	for _, c := range codecs {
		if cl, ok := c.(io.Closer); ok {
			_ = cl.Close()
		}
	}
}

var _ Worker = (*Pool)(nil)
