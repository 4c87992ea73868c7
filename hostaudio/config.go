// SPDX-License-Identifier: EPL-2.0

package hostaudio

// MaxSampleRate is the highest buffer rate CreateBuffer accepts.
const MaxSampleRate = 384000

type Config struct {
	// SampleRate is reported as the engine's native rate. Default 48000.
	SampleRate int
	// MinSampleRate rejects buffers below it. Zero accepts any positive rate.
	MinSampleRate int
	// CaptureSampleRate defaults to SampleRate.
	CaptureSampleRate int
	// CaptureChannels defaults to 1.
	CaptureChannels int
	// NullBackend selects miniaudio's null backend, which needs no
	// sound hardware.
	NullBackend bool
}

func (c Config) withDefaults() Config {
	if c.SampleRate <= 0 {
		c.SampleRate = 48000
	}
	if c.CaptureSampleRate <= 0 {
		c.CaptureSampleRate = c.SampleRate
	}
	if c.CaptureChannels <= 0 {
		c.CaptureChannels = 1
	}
	return c
}
