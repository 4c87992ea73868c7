// SPDX-License-Identifier: EPL-2.0

package bridge

import "errors"

var (
	// ErrDecodeFailure reports input the codec could not decode.
	ErrDecodeFailure = errors.New("bridge: decode failure")
	// ErrWorkerInit reports that the codec execution context could not be created.
	ErrWorkerInit = errors.New("bridge: worker initialization failure")
	ErrClosed     = errors.New("bridge: closed")
	ErrCodecPanic = errors.New("bridge: codec panicked")
	ErrUnknownOp  = errors.New("bridge: unknown operation")
)
