// SPDX-License-Identifier: EPL-2.0

package bridge

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

type pending struct {
	op    Op
	start time.Time
	done  func(Response)
}

// Bridge correlates codec requests with their responses.
type Bridge struct {
	worker  Worker
	mode    Mode
	log     zerolog.Logger
	metrics *Metrics

	seq atomic.Uint64

	mtx     sync.Mutex
	pending map[uint64]pending
	closed  bool

	dispatched chan struct{}
}

// New creates a Bridge whose worker builds codecs with factory.
func New(factory CodecFactory, opts ...Option) (*Bridge, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	mode := o.mode.resolve()

	var (
		w   Worker
		err error
	)
	switch mode {
	case ModeWorker:
		w, err = NewPool(factory, o.workers, o.log)
	case ModeInline:
		w, err = NewInline(factory)
	default:
		return nil, fmt.Errorf("%w: unknown mode %v", ErrWorkerInit, mode)
	}
	if err != nil {
		o.log.Error().Err(err).Stringer("mode", mode).Msg("codec worker failed to start")
		return nil, err
	}

	o.mode = mode
	return start(w, o), nil
}

// NewWithWorker creates a Bridge over an existing Worker. The Bridge owns
// it from now on and closes it in Close.
func NewWithWorker(w Worker, opts ...Option) *Bridge {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return start(w, o)
}

func start(w Worker, o options) *Bridge {
	b := &Bridge{
		worker:     w,
		mode:       o.mode,
		log:        o.log,
		metrics:    o.metrics,
		pending:    make(map[uint64]pending),
		dispatched: make(chan struct{}),
	}
	go b.dispatch()

	b.log.Debug().Stringer("mode", b.mode).Msg("codec bridge started")
	return b
}

// Mode reports the execution mode in use. Bridges built with
// NewWithWorker report ModeAuto unless WithMode was given.
func (b *Bridge) Mode() Mode { return b.mode }

func (b *Bridge) dispatch() {
	defer close(b.dispatched)

	for resp := range b.worker.Replies() {
		b.mtx.Lock()
		p, ok := b.pending[resp.Seq]
		delete(b.pending, resp.Seq)
		b.mtx.Unlock()

		if !ok {
			b.metrics.dropped()
			b.log.Warn().Uint64("seq", resp.Seq).Stringer("op", resp.Op).Msg("dropping response with no pending request")
			continue
		}

		b.metrics.completed(p.op, p.start, resp.Failed || resp.Err != nil)
		p.done(resp)
	}

	// The worker is gone; nothing else can answer what is left.
	b.mtx.Lock()
	left := b.pending
	b.pending = make(map[uint64]pending)
	b.mtx.Unlock()

	for seq, p := range left {
		b.metrics.abandoned()
		p.done(Response{Seq: seq, Op: p.op, Err: ErrClosed})
	}
}

func (b *Bridge) submit(req Request, done func(Response)) error {
	req.Seq = b.seq.Add(1)

	b.mtx.Lock()
	if b.closed {
		b.mtx.Unlock()
		return ErrClosed
	}
	b.pending[req.Seq] = pending{op: req.Op, start: time.Now(), done: done}
	b.mtx.Unlock()

	b.metrics.submitted(req.Op)

	if err := b.worker.Post(req); err != nil {
		b.mtx.Lock()
		_, still := b.pending[req.Seq]
		delete(b.pending, req.Seq)
		b.mtx.Unlock()

		if !still {
			// Close already answered it with ErrClosed.
			return nil
		}
		b.metrics.abandoned()
		return fmt.Errorf("posting %v request: %w", req.Op, err)
	}
	return nil
}

// EncodeAsync encodes samples and calls done with the result on a new
// goroutine, so done may issue further requests on the Bridge. A
// returned error means the request was not accepted and done will not
// be called; otherwise done is called exactly once.
func (b *Bridge) EncodeAsync(samples []float32, sampleRate int, done func([]byte, error)) error {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}

	req := Request{Op: OpEncode, Samples: samples, SampleRate: sampleRate}
	return b.submit(req, func(resp Response) {
		go done(encodeResult(resp))
	})
}

// DecodeAsync is the callback form of Decode. The same rules as
// EncodeAsync apply.
func (b *Bridge) DecodeAsync(data []byte, done func([]float32, error)) error {
	req := Request{Op: OpDecode, Data: data}
	return b.submit(req, func(resp Response) {
		go done(decodeResult(resp))
	})
}

// Encode converts samples at sampleRate to AMR-NB. A sampleRate <= 0
// means DefaultSampleRate.
func (b *Bridge) Encode(ctx context.Context, samples []float32, sampleRate int) ([]byte, error) {
	ch := make(chan Response, 1)
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}

	req := Request{Op: OpEncode, Samples: samples, SampleRate: sampleRate}
	if err := b.submit(req, func(r Response) { ch <- r }); err != nil {
		return nil, err
	}

	select {
	case resp := <-ch:
		return encodeResult(resp)
	case <-ctx.Done():
		return nil, fmt.Errorf("%w", ctx.Err())
	}
}

// Decode converts AMR-NB bytes to samples. Input the codec rejects,
// including empty input, yields ErrDecodeFailure.
func (b *Bridge) Decode(ctx context.Context, data []byte) ([]float32, error) {
	ch := make(chan Response, 1)

	req := Request{Op: OpDecode, Data: data}
	if err := b.submit(req, func(r Response) { ch <- r }); err != nil {
		return nil, err
	}

	select {
	case resp := <-ch:
		return decodeResult(resp)
	case <-ctx.Done():
		return nil, fmt.Errorf("%w", ctx.Err())
	}
}

func encodeResult(resp Response) ([]byte, error) {
	if resp.Err != nil {
		return nil, fmt.Errorf("encode: %w", resp.Err)
	}
	return resp.Data, nil
}

func decodeResult(resp Response) ([]float32, error) {
	switch {
	case resp.Err != nil && resp.Failed:
		return nil, fmt.Errorf("%w: %w", ErrDecodeFailure, resp.Err)
	case resp.Err != nil:
		return nil, fmt.Errorf("decode: %w", resp.Err)
	case resp.Failed:
		return nil, ErrDecodeFailure
	}
	return resp.Samples, nil
}

// Close stops accepting requests and shuts the worker down. Requests
// already posted still complete; any the worker leaves unanswered fail
// with ErrClosed. Close waits for the dispatch goroutine to finish.
func (b *Bridge) Close() error {
	b.mtx.Lock()
	if b.closed {
		b.mtx.Unlock()
		return nil
	}
	b.closed = true
	b.mtx.Unlock()

	err := b.worker.Close()
	<-b.dispatched

	b.log.Debug().Msg("codec bridge closed")
	if err != nil {
		return fmt.Errorf("closing worker: %w", err)
	}
	return nil
}
