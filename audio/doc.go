// SPDX-License-Identifier: EPL-2.0

// Package audio provides the PCM plumbing shared by the decoders, the
// codec and the recorder.
//
// # Source Interface
//
// Every decoder and processing stage is a Source of interleaved float32
// samples in [-1.0, 1.0]:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// ReadSamples returns io.EOF once the stream is finished, possibly along
// with the last samples.
//
// # Stages
//
// Resampler changes the rate with cubic interpolation, MonoMixer averages
// channels, SliceSource serves an in-memory buffer:
//
//	mono := audio.NewMonoMixer(audio.NewResampler(src, 8000))
//
// CollectMono builds that chain and drains it into one mono buffer, which
// is what the AMR encoder and the playback path consume:
//
//	samples, rate, err := audio.CollectMono(src, 8000, 4096)
//
// # Format Registry
//
// Registry maps format keys to decoders. Decoders registered with a
// sniffer can also be selected from content, which is how byte blobs
// without a file name are decoded:
//
//	reg := audio.NewRegistry()
//	reg.RegisterSniffer("wav", wav.Decoder{}, wav.Sniff)
//	format, src, err := reg.Open(r)
//
// Open returns ErrUnknownFormat when no sniffer accepts the input.
package audio
