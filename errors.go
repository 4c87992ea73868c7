// SPDX-License-Identifier: EPL-2.0

package audamr

import "errors"

var (
	ErrAlreadyInitialized  = errors.New("audamr: clip already initialized")
	ErrNotInitialized      = errors.New("audamr: clip not initialized")
	ErrRecorderUnavailable = errors.New("audamr: no recorder available")
	ErrRecorderBusy        = errors.New("audamr: recorder in use by another clip")
	ErrDecodeFailed        = errors.New("audamr: audio could not be decoded")
	ErrHTTPStatus          = errors.New("audamr: unexpected HTTP status")
)
