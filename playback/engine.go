// SPDX-License-Identifier: EPL-2.0

package playback

// Engine is the host audio engine.
type Engine interface {
	// CreateBuffer allocates a buffer. It returns an error wrapping
	// ErrRateRejected when sampleRate is not acceptable.
	CreateBuffer(channels, frames, sampleRate int) (Buffer, error)
	CreateSource() (SourceNode, error)
	// SampleRate is the engine's native output rate.
	SampleRate() int
}

// Buffer holds planar float samples.
type Buffer interface {
	CopyToChannel(samples []float32, channel int) error
	SampleRate() int
	Frames() int
}

// SourceNode plays one Buffer once.
type SourceNode interface {
	SetBuffer(b Buffer)
	SetPlaybackRate(rate float64)
	// Connect routes the node to the engine's output.
	Connect() error
	// Start begins playback. onEnded is called once when the buffer has
	// been played to the end, and may also be called after Stop.
	Start(onEnded func()) error
	Stop() error
}

// FallbackRate returns the buffer rate and playback rate to use when an
// engine rejects declared.
func FallbackRate(declared int) (bufferRate int, playbackRate float64) {
	if declared < 11025 {
		return declared * 4, 0.25
	}
	return declared * 2, 0.5
}
