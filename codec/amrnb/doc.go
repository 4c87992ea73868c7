// SPDX-License-Identifier: EPL-2.0

// Package amrnb encodes and decodes AMR-NB speech using libopencore-amrnb.
//
// The package links against the system library through pkg-config
// (opencore-amrnb), the same way the opus codec bindings do in most Go
// audio stacks. On Debian and Ubuntu the package is libopencore-amrnb-dev.
//
// Whole-buffer helpers cover the common case:
//
//	data, err := amrnb.Encode(samples, 16000, amrnb.MR122)
//	pcm, ok := amrnb.Decode(data)
//
// Encode resamples to 8 kHz when needed, splits the input into 20ms
// frames of 160 samples (the last one zero padded) and prefixes the
// storage magic. Decode reverses it and always yields 8 kHz mono, so its
// output length is a multiple of 160.
//
// Encoder and Decoder hold native codec state and are not safe for
// concurrent use. Codec pairs one of each and is what a bridge worker
// owns.
package amrnb
