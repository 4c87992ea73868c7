// SPDX-License-Identifier: EPL-2.0

package playback

import "errors"

var (
	// ErrUnsupportedEnvironment means there is no usable audio engine.
	ErrUnsupportedEnvironment = errors.New("playback: no usable audio engine")
	// ErrRateRejected is returned by an Engine that cannot allocate a
	// buffer at the requested sample rate.
	ErrRateRejected = errors.New("playback: sample rate rejected")
)
