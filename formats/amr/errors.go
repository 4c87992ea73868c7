// SPDX-License-Identifier: EPL-2.0

package amr

import "errors"

var (
	ErrNotAMR         = errors.New("not an AMR-NB file")
	ErrTruncatedFrame = errors.New("truncated AMR frame")
)
