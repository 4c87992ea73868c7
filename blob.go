// SPDX-License-Identifier: EPL-2.0

package audamr

import (
	"bytes"
	"io"
	"slices"

	"github.com/ik5/audamr/formats/amr"
)

// Blob is encoded audio with its media type.
type Blob struct {
	Data []byte
	MIME string
}

// Reader reads the blob's bytes.
func (b Blob) Reader() io.Reader { return bytes.NewReader(b.Data) }

func (b Blob) Size() int { return len(b.Data) }

// RawAMRToBlob wraps AMR-NB bytes as an audio/amr blob. data is copied.
func RawAMRToBlob(data []byte) Blob {
	return Blob{Data: slices.Clone(data), MIME: amr.MIMEType}
}
