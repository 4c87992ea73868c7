// SPDX-License-Identifier: EPL-2.0

// Package amr handles the AMR-NB storage format.
//
// The package does not touch speech data. Encoding and decoding live in
// codec/amrnb; this package only knows how frames are laid out.
//
// # File Format
//
// A single-channel AMR-NB file (RFC 4867, section 5) is the six byte
// magic "#!AMR\n" followed by frames. Every frame is 20ms of 8 kHz audio
// and starts with a table-of-contents byte:
//
//	bit  7    6 5 4 3    2    1 0
//	     P    FT         Q    P P
//
// The frame type FT selects the payload size:
//
//	FT  mode    bytes (ToC included)
//	0   4.75k   13
//	1   5.15k   14
//	2   5.90k   16
//	3   6.70k   18
//	4   7.40k   20
//	5   7.95k   21
//	6   10.2k   27
//	7   12.2k   32
//	8   SID     6
//	15  no data 1
//
// # Walking Frames
//
// Frames can be split without decoding them:
//
//	frames, err := amr.Frames(data)
//	if errors.Is(err, amr.ErrNotAMR) {
//	    // not AMR at all
//	}
//	for _, f := range frames {
//	    fmt.Println(amr.FrameType(f[0]), len(f))
//	}
//
// On a truncated file Frames returns the complete frames it found
// together with ErrTruncatedFrame.
//
// # Sizes
//
// FrameCount gives the number of frames needed for n samples, and
// FrameSamples is the sample count of one decoded frame, so a decoder
// always produces a multiple of 160 samples.
package amr
