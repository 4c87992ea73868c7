// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1/2 Layer III through github.com/hajimehoshi/go-mp3.
//
// # Output
//
// The decoder always yields interleaved stereo at the stream's own
// rate, also for mono streams, where both channels carry the same
// signal. Callers normally fold it down:
//
//	src, err := mp3.Decoder{}.Decode(file)
//	if errors.Is(err, mp3.ErrNotMP3File) {
//	    // not an MPEG audio stream
//	}
//	pcm, rate, err := audio.CollectMono(src, 0, 0)
//
// ReadSamples fills dst with whole stereo frames, so len(dst) must be
// even. A trailing partial frame at the end of a damaged stream is
// dropped.
//
// # Content Sniffing
//
// Sniff accepts an ID3v2 tag or an MPEG frame sync (eleven set bits).
// The frame sync check is loose, so the registry tries MP3 after every
// other format.
//
// # Error Handling
//
// Any failure to find the first frame is reported as ErrNotMP3File,
// wrapping the underlying decoder error.
package mp3
