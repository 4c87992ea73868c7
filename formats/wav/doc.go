// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes WAV files.
//
// Decoding goes through github.com/go-audio/wav, so files with extra
// chunks (LIST, fact, odd-sized padding) are handled. Writing is done by
// hand and only needs an io.Writer.
//
// # Supported Formats
//
// Decoding accepts:
//   - Integer PCM of 16, 24 or 32 bits
//   - WAVE_FORMAT_EXTENSIBLE files that carry integer PCM
//   - Any channel count and sample rate
//
// 8-bit and floating point files are rejected with ErrOnlyPCMSupported.
//
// Writing always produces mono 16-bit PCM with the canonical 44 byte
// header.
//
// # Decoding WAV Files
//
//	file, _ := os.Open("voice.wav")
//	src, err := wav.Decoder{}.Decode(file)
//	if errors.Is(err, wav.ErrNotWavFile) {
//	    // try another format
//	}
//
//	buf := make([]float32, src.BufSize())
//	n, err := src.ReadSamples(buf)
//
// Samples are interleaved float32 in [-1, 1). A reader that cannot seek
// is buffered in memory first, since the go-audio decoder seeks between
// chunks.
//
// To get one mono buffer at a chosen rate, hand the source to
// audio.CollectMono:
//
//	pcm, rate, err := audio.CollectMono(src, 8000, 0)
//
// # Content Sniffing
//
// Sniff recognises the RIFF....WAVE header. The decoder registry uses it
// to route byte blobs that have no file name, such as a clip loaded from
// memory or a URL.
//
// # Writing WAV Files
//
//	err := wav.WriteWAV16(out, 8000, []int16{100, -100, 200, -200})
//
// WriteFloat32 does the same for float samples, rounding each one to the
// nearest 16-bit step. A file written from decoded samples decodes back
// to the same int16 values:
//
//	err := wav.WriteFloat32(out, 8000, samples)
//
// Samples are written in chunks of 8192, so long recordings do not need a
// second full-size copy in memory.
//
// # Error Handling
//
//   - ErrNotWavFile: the input has no RIFF/WAVE header
//   - ErrUnsupportedWavLayout: the header or fmt chunk could not be read
//   - ErrOnlyPCMSupported: the payload is not 16, 24 or 32-bit integer PCM
//
// All errors are wrapped; compare them with errors.Is.
//
// # File Format
//
// A written file consists of:
//   - RIFF header (12 bytes)
//   - fmt chunk (24 bytes): format 1, one channel, rate, 16 bits
//   - data chunk (8 bytes plus two bytes per sample, little-endian)
package wav
