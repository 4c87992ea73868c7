// SPDX-License-Identifier: EPL-2.0

package amr

import (
	"bytes"
	"fmt"
)

const (
	// Magic opens every single-channel AMR-NB storage file (RFC 4867 section 5).
	Magic = "#!AMR\n"

	// MIMEType is the media type of AMR-NB storage files.
	MIMEType = "audio/amr"

	// SampleRate is the only rate AMR-NB operates at.
	SampleRate = 8000

	// FrameSamples is the number of PCM samples carried by one 20ms frame.
	FrameSamples = 160

	// MaxFrameSize is the largest frame in bytes, ToC included (MR122).
	MaxFrameSize = 32
)

// payloadSizes holds the speech payload size in bytes, ToC excluded,
// for each frame type 0..15.
var payloadSizes = [16]int{12, 13, 15, 17, 19, 20, 26, 31, 5, 6, 5, 5, 0, 0, 0, 0}

// FrameType extracts the frame type from a ToC byte.
func FrameType(toc byte) int {
	return int(toc>>3) & 0x0f
}

// FrameSize returns the full frame size for a ToC byte, the ToC itself included.
func FrameSize(toc byte) int {
	return payloadSizes[FrameType(toc)] + 1
}

// Sniff reports whether header starts with the AMR-NB magic.
func Sniff(header []byte) bool {
	return bytes.HasPrefix(header, []byte(Magic))
}

// Frames splits an AMR-NB storage file into its frames. Each returned
// frame aliases data and starts with its ToC byte.
func Frames(data []byte) ([][]byte, error) {
	if !Sniff(data) {
		return nil, ErrNotAMR
	}

	body := data[len(Magic):]
	frames := make([][]byte, 0, len(body)/MaxFrameSize+1)
	for off := 0; off < len(body); {
		size := FrameSize(body[off])
		if off+size > len(body) {
			return frames, fmt.Errorf("%w: frame %d needs %d bytes, %d left",
				ErrTruncatedFrame, len(frames), size, len(body)-off)
		}
		frames = append(frames, body[off:off+size])
		off += size
	}

	return frames, nil
}

// FrameCount returns how many frames are needed to carry n samples.
func FrameCount(n int) int {
	return (n + FrameSamples - 1) / FrameSamples
}
