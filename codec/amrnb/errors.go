// SPDX-License-Identifier: EPL-2.0

package amrnb

import "errors"

var (
	ErrInvalidMode   = errors.New("amrnb: invalid mode")
	ErrInvalidRate   = errors.New("amrnb: invalid sample rate")
	ErrCodecClosed   = errors.New("amrnb: codec is closed")
	ErrInitFailed    = errors.New("amrnb: codec init failed")
	ErrEncodeFailed  = errors.New("amrnb: encode failed")
	ErrFrameTooShort = errors.New("amrnb: frame needs 160 samples")
)
