// SPDX-License-Identifier: EPL-2.0

package recorder

import "errors"

var (
	ErrClosed  = errors.New("recorder: closed")
	ErrNoInput = errors.New("recorder: no input device")
)
