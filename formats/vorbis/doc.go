// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis through github.com/jfreymuth/oggvorbis.
//
// # Output
//
// Samples come out interleaved as float32 at the stream's own rate and
// channel count:
//
//	src, err := vorbis.Decoder{}.Decode(file)
//	if err != nil {
//	    return err
//	}
//	mono := audio.NewMonoMixer(src)
//
// The underlying reader may return fewer samples than asked for; the
// source keeps reading until dst is full or the stream ends, so callers
// see full buffers except for the last one.
//
// # Content Sniffing
//
// Sniff matches the "OggS" capture pattern. Any Ogg stream matches, so a
// non-Vorbis Ogg file is detected as Ogg and then fails to decode.
//
// # Error Handling
//
// A stream whose Vorbis headers cannot be read fails with
// ErrNotVorbisFile, wrapping the decoder error.
package vorbis
