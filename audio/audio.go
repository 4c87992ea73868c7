// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"sync"
)

// Source is a stream of interleaved float32 PCM.
type Source interface {
	// SampleRate of the PCM stream in Hz.
	SampleRate() int
	// Channels count (e.g., 1=mono, 2=stereo).
	Channels() int
	// ReadSamples fills dst with interleaved float32 samples in [-1,1].
	// Returns number of float32 values written (not frames). When n == 0 with err == io.EOF, the stream is finished.
	ReadSamples(dst []float32) (n int, err error)

	BufSize() int

	// Close releases any resources.
	Close() error
}

// Decoder constructs a Source from an input reader.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// SniffFunc reports whether header looks like the start of a given format.
type SniffFunc func(header []byte) bool

// SniffLen is how many leading bytes Detect needs to tell formats apart.
const SniffLen = 64

type entry struct {
	format  string
	decoder Decoder
	sniff   SniffFunc
}

// Registry maps format keys (e.g., "wav", "mp3", "ogg") to decoders and,
// when a sniffer is registered, lets callers pick a decoder from content.
type Registry struct {
	entries []entry

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		mtx: &sync.Mutex{},
	}
}

// Register adds a decoder reachable by key only.
func (r *Registry) Register(format string, d Decoder) {
	r.RegisterSniffer(format, d, nil)
}

// RegisterSniffer adds a decoder that Detect can also select by content.
// Registering an existing key replaces it in place.
func (r *Registry) RegisterSniffer(format string, d Decoder, sniff SniffFunc) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	for i := range r.entries {
		if r.entries[i].format == format {
			r.entries[i] = entry{format: format, decoder: d, sniff: sniff}
			return
		}
	}
	r.entries = append(r.entries, entry{format: format, decoder: d, sniff: sniff})
}

func (r *Registry) Get(format string) (Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	for _, e := range r.entries {
		if e.format == format {
			return e.decoder, true
		}
	}
	return nil, false
}

// Detect returns the first registered format, in registration order,
// whose sniffer accepts header.
func (r *Registry) Detect(header []byte) (string, Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	for _, e := range r.entries {
		if e.sniff != nil && e.sniff(header) {
			return e.format, e.decoder, true
		}
	}
	return "", nil, false
}

// Formats lists registered keys in registration order.
func (r *Registry) Formats() []string {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.format
	}
	return out
}
