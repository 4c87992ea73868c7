// SPDX-License-Identifier: EPL-2.0

// Package bridge runs AMR codec calls off the caller's goroutine and
// routes every reply back to the call that issued it.
//
// A Bridge hands Requests to a Worker and reads Responses from it. Each
// request carries a sequence number; a single dispatch goroutine looks
// the number up in the pending table and completes only that call, so
// replies may arrive in any order.
//
// Two workers are provided:
//
//   - the pool (ModeWorker) starts N goroutines, each owning a codec
//     built by the CodecFactory. Nothing is shared between them and
//     payloads are copied on the way in.
//   - the inline worker (ModeInline) keeps one codec behind a mutex and
//     runs each call on a fresh goroutine, so the caller still never sees
//     a result before its own call has returned.
//
// Both deliver through the same dispatch path, so code using a Bridge
// does not know which one it has:
//
//	b, err := bridge.New(amrnb.NewCodec, bridge.WithWorkers(2))
//	if errors.Is(err, bridge.ErrWorkerInit) {
//	    // the codec could not be created
//	}
//	defer b.Close()
//
//	data, err := b.Encode(ctx, samples, 0) // 0 means 8000 Hz
//	pcm, err := b.Decode(ctx, data)
//	if errors.Is(err, bridge.ErrDecodeFailure) {
//	    // not AMR, or truncated
//	}
//
// Cancelling ctx only stops the wait. The codec call itself runs to the
// end and its reply is dropped.
package bridge
