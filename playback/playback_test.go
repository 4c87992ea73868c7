// SPDX-License-Identifier: EPL-2.0

package playback

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestFallbackRate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		declared   int
		wantBuffer int
		wantRate   float64
	}{
		{6000, 24000, 0.25},
		{8000, 32000, 0.25},
		{11024, 44096, 0.25},
		{11025, 22050, 0.5},
		{16000, 32000, 0.5},
	}
	for _, tt := range tests {
		buf, rate := FallbackRate(tt.declared)
		if buf != tt.wantBuffer || rate != tt.wantRate {
			t.Errorf("FallbackRate(%d) = %d, %v; want %d, %v", tt.declared, buf, rate, tt.wantBuffer, tt.wantRate)
		}
	}
}

func TestManager_Play_Shim(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		minRate      int
		declared     int
		wantBuffer   int
		wantPlayback float64
	}{
		{"accepted", 3000, 8000, 8000, 1},
		{"low rate rejected", 8000, 6000, 24000, 0.25},
		{"mid rate rejected", 22050, 16000, 32000, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			eng := &fakeEngine{minRate: tt.minRate}
			m, err := NewManager(eng)
			if err != nil {
				t.Fatal(err)
			}

			samples := []float32{0.1, 0.2, 0.3}
			h, err := m.Play(samples, tt.declared, nil)
			if err != nil {
				t.Fatalf("Play() error = %v", err)
			}
			if h.BufferRate() != tt.wantBuffer || h.PlaybackRate() != tt.wantPlayback {
				t.Errorf("handle = %d Hz x%v, want %d Hz x%v", h.BufferRate(), h.PlaybackRate(), tt.wantBuffer, tt.wantPlayback)
			}

			node := eng.lastNode()
			if node.playbackRate != tt.wantPlayback || !node.connected || !node.started {
				t.Errorf("node rate=%v connected=%v started=%v", node.playbackRate, node.connected, node.started)
			}
			if node.buf.frames != len(samples) || len(node.buf.samples) != len(samples) {
				t.Errorf("buffer frames=%d copied=%d, want %d", node.buf.frames, len(node.buf.samples), len(samples))
			}
		})
	}
}

func TestManager_Play_DefaultRate(t *testing.T) {
	t.Parallel()

	m, _ := NewManager(&fakeEngine{})
	h, err := m.Play([]float32{0}, 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	if h.BufferRate() != DefaultSampleRate {
		t.Errorf("BufferRate() = %d, want %d", h.BufferRate(), DefaultSampleRate)
	}
}

func TestManager_Play_BothRatesRejected(t *testing.T) {
	t.Parallel()

	m, _ := NewManager(&fakeEngine{minRate: 100000})
	if _, err := m.Play([]float32{0}, 8000, nil); !errors.Is(err, ErrRateRejected) {
		t.Errorf("Play() error = %v, want ErrRateRejected", err)
	}
	if m.IsPlaying() {
		t.Error("IsPlaying() = true after a failed Play")
	}
}

func TestNewManager_NilEngine(t *testing.T) {
	t.Parallel()

	if _, err := NewManager(nil); !errors.Is(err, ErrUnsupportedEnvironment) {
		t.Errorf("NewManager(nil) error = %v, want ErrUnsupportedEnvironment", err)
	}
}

func TestHandle_StopIdempotent(t *testing.T) {
	t.Parallel()

	eng := &fakeEngine{endOnStop: true}
	m, _ := NewManager(eng)

	var ended atomic.Int32
	h, err := m.Play([]float32{0, 0}, 8000, func() { ended.Add(1) })
	if err != nil {
		t.Fatal(err)
	}

	if !h.Stop() {
		t.Error("first Stop() = false, want true")
	}
	if h.Stop() {
		t.Error("second Stop() = true, want false")
	}
	m.Stop()
	m.Stop()

	if h.State() != Idle {
		t.Errorf("State() = %v, want idle", h.State())
	}
	if n := eng.lastNode().stops; n != 1 {
		t.Errorf("node stopped %d times, want 1", n)
	}

	time.Sleep(20 * time.Millisecond)
	if ended.Load() != 0 {
		t.Error("onEnded fired after an explicit Stop")
	}
}

func TestHandle_NaturalEndFiresOnce(t *testing.T) {
	t.Parallel()

	eng := &fakeEngine{}
	m, _ := NewManager(eng)

	fired := make(chan struct{}, 4)
	h, err := m.Play([]float32{0}, 8000, func() { fired <- struct{}{} })
	if err != nil {
		t.Fatal(err)
	}

	node := eng.lastNode()
	node.finish()
	node.finish()

	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("onEnded never fired")
	}
	select {
	case <-fired:
		t.Error("onEnded fired twice")
	case <-time.After(20 * time.Millisecond):
	}

	select {
	case <-h.Done():
	default:
		t.Error("Done() not closed after natural end")
	}
	if m.IsPlaying() {
		t.Error("IsPlaying() = true after natural end")
	}

	// stopping after the end is still a no-op
	if h.Stop() {
		t.Error("Stop() after natural end = true, want false")
	}
	if node.stops != 0 {
		t.Errorf("node stopped %d times after natural end, want 0", node.stops)
	}
}

func TestManager_SingularPlayback(t *testing.T) {
	t.Parallel()

	eng := &fakeEngine{endOnStop: true}
	m, _ := NewManager(eng)

	var endedA, endedB atomic.Int32
	a, err := m.Play([]float32{0}, 8000, func() { endedA.Add(1) })
	if err != nil {
		t.Fatal(err)
	}
	nodeA := eng.lastNode()

	b, err := m.Play([]float32{0}, 8000, func() { endedB.Add(1) })
	if err != nil {
		t.Fatal(err)
	}
	nodeB := eng.lastNode()

	if a.State() != Idle || b.State() != Playing {
		t.Errorf("states = %v, %v; want idle, playing", a.State(), b.State())
	}
	if nodeA.stops != 1 {
		t.Errorf("first node stopped %d times, want 1", nodeA.stops)
	}
	if m.Current() != b {
		t.Error("Current() is not the latest handle")
	}

	// A's buffer running out late must not be reported
	nodeA.finish()
	nodeB.finish()

	deadline := time.After(5 * time.Second)
	for endedB.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("B's onEnded never fired")
		case <-time.After(time.Millisecond):
		}
	}
	time.Sleep(20 * time.Millisecond)
	if endedA.Load() != 0 || endedB.Load() != 1 {
		t.Errorf("ended counts A=%d B=%d, want 0 and 1", endedA.Load(), endedB.Load())
	}
}

func TestState_String(t *testing.T) {
	t.Parallel()

	if Idle.String() != "idle" || Playing.String() != "playing" {
		t.Errorf("String() = %q, %q", Idle.String(), Playing.String())
	}
}
