// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF and AIFF-C files through github.com/go-audio/aiff.
//
// # Supported Formats
//
//   - Integer PCM of 16, 24 or 32 bits, big-endian as AIFF stores it
//   - Any channel count
//   - Any sample rate; the 80-bit extended rate field is converted by the
//     underlying decoder
//
// 8-bit files are rejected with ErrOnlyPCMSupported. Compressed AIFF-C
// payloads are not decoded.
//
// # Decoding
//
//	file, _ := os.Open("voice.aiff")
//	src, err := aiff.Decoder{}.Decode(file)
//	if err != nil {
//	    return err
//	}
//	defer src.Close()
//
//	fmt.Println(src.SampleRate(), src.Channels())
//
// Samples come out interleaved as float32 in [-1, 1). Non-seekable
// readers are buffered in memory first.
//
// Stereo recordings are usually folded down before AMR encoding:
//
//	mono := audio.NewMonoMixer(src)
//
// # Content Sniffing
//
// Sniff matches a FORM container whose form type is AIFF or AIFC. The
// decoder registry uses it for byte blobs without a file name.
//
// # Error Handling
//
//   - ErrNotAiffFile: no FORM/AIFF header
//   - ErrUnsupportedAiffLayout: the COMM chunk is missing or describes no
//     channels or no rate
//   - ErrOnlyPCMSupported: the bit depth is not 16, 24 or 32
package aiff
