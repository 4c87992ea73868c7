// SPDX-License-Identifier: EPL-2.0

package audamr

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ik5/audamr/formats/amr"
	"github.com/ik5/audamr/formats/wav"
	"github.com/ik5/audamr/internal/audiotest"
	"github.com/ik5/audamr/internal/config"
)

func newTestRuntime(t *testing.T, engine *audiotest.Engine, opts ...Option) *Runtime {
	t.Helper()

	cfg := config.Default()
	cfg.Codec.Mode = "worker"
	cfg.Codec.Workers = 2

	rt, err := NewRuntime(cfg, append([]Option{WithEngine(engine)}, opts...)...)
	if err != nil {
		t.Fatalf("NewRuntime: %v", err)
	}
	t.Cleanup(func() { _ = rt.Close() })
	return rt
}

func shortAMR(t *testing.T, rt *Runtime) []byte {
	t.Helper()

	data, err := rt.EncodeAMR(context.Background(), []float32{0, 0.5, -0.5, 1}, 8000)
	if err != nil {
		t.Fatalf("EncodeAMR: %v", err)
	}
	return data
}

// recordEvents forwards every event of c to the returned channel.
func recordEvents(c *Clip) <-chan Event {
	ch := make(chan Event, 16)
	for ev := EventPlay; ev < eventCount; ev++ {
		c.On(ev, func() { ch <- ev })
	}
	return ch
}

func nextEvent(t *testing.T, ch <-chan Event) Event {
	t.Helper()

	select {
	case ev := <-ch:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("no event")
		return -1
	}
}

func noEvent(t *testing.T, ch <-chan Event) {
	t.Helper()

	select {
	case ev := <-ch:
		t.Fatalf("unexpected event %v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRuntime_EncodeDecodeShort(t *testing.T) {
	t.Parallel()

	rt := newTestRuntime(t, &audiotest.Engine{})
	data := shortAMR(t, rt)

	if !bytes.HasPrefix(data, []byte(amr.Magic)) {
		t.Fatalf("missing magic: %q", data[:min(len(data), 6)])
	}
	if len(data) <= len(amr.Magic) {
		t.Fatal("no frames")
	}

	samples, err := rt.DecodeAMR(context.Background(), data)
	if err != nil {
		t.Fatalf("DecodeAMR: %v", err)
	}
	if len(samples) != amr.FrameSamples {
		t.Errorf("got %d samples, want %d", len(samples), amr.FrameSamples)
	}
}

func TestNewRuntime_InvalidConfig(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Codec.Mode = "threads"

	if _, err := NewRuntime(cfg, WithEngine(&audiotest.Engine{})); err == nil {
		t.Fatal("expected an error")
	}
}

func TestClip_InitWithAMR(t *testing.T) {
	t.Parallel()

	rt := newTestRuntime(t, &audiotest.Engine{})
	data := shortAMR(t, rt)

	c := rt.NewClip()
	if c.IsInit() {
		t.Fatal("new clip reports init")
	}
	if err := c.InitWithAMR(context.Background(), data); err != nil {
		t.Fatalf("InitWithAMR: %v", err)
	}
	if !c.IsInit() {
		t.Fatal("clip not init")
	}

	samples, rate := c.Samples()
	if rate != amr.SampleRate || len(samples) != amr.FrameSamples {
		t.Errorf("got %d samples at %d Hz", len(samples), rate)
	}
	if got, want := c.Duration(), 20*time.Millisecond; got != want {
		t.Errorf("Duration = %v, want %v", got, want)
	}

	blob, err := c.Blob()
	if err != nil {
		t.Fatal(err)
	}
	if blob.MIME != "audio/amr" || !bytes.Equal(blob.Data, data) {
		t.Errorf("blob = %s %d bytes", blob.MIME, blob.Size())
	}

	if err := c.InitWithAMR(context.Background(), data); !errors.Is(err, ErrAlreadyInitialized) {
		t.Errorf("second init: %v", err)
	}
}

func TestClip_InitWithAMR_WAVFallback(t *testing.T) {
	t.Parallel()

	rt := newTestRuntime(t, &audiotest.Engine{Rate: 48000})

	var buf bytes.Buffer
	if err := wav.WriteFloat32(&buf, 16000, audiotest.SineSamples(3200, 16000, 440, 0.5)); err != nil {
		t.Fatal(err)
	}

	c := rt.NewClip()
	if err := c.InitWithAMR(context.Background(), buf.Bytes()); err != nil {
		t.Fatalf("InitWithAMR: %v", err)
	}

	blob, _ := c.Blob()
	if !bytes.HasPrefix(blob.Data, []byte(amr.Magic)) {
		t.Error("fallback did not produce AMR")
	}

	_, rate := c.Samples()
	if rate != amr.SampleRate {
		t.Errorf("rate = %d", rate)
	}
	if d := c.Duration(); d < 180*time.Millisecond || d > 240*time.Millisecond {
		t.Errorf("Duration = %v, want about 200ms", d)
	}
}

func TestClip_InitWithAMR_Garbage(t *testing.T) {
	t.Parallel()

	rt := newTestRuntime(t, &audiotest.Engine{})
	c := rt.NewClip()

	tests := [][]byte{nil, []byte("hello, world"), []byte("#!AMR\n\x3c")}
	for _, data := range tests {
		if err := c.InitWithAMR(context.Background(), data); !errors.Is(err, ErrDecodeFailed) {
			t.Errorf("InitWithAMR(%q) = %v, want ErrDecodeFailed", data, err)
		}
		if c.IsInit() {
			t.Fatal("failed init left the clip initialised")
		}
	}

	if err := c.Play(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Play = %v", err)
	}
	if _, err := c.Blob(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Blob = %v", err)
	}
}

func TestClip_InitWithFile(t *testing.T) {
	t.Parallel()

	rt := newTestRuntime(t, &audiotest.Engine{})
	path := filepath.Join(t.TempDir(), "short.amr")
	if err := os.WriteFile(path, shortAMR(t, rt), 0o600); err != nil {
		t.Fatal(err)
	}

	c := rt.NewClip()
	if err := c.InitWithFile(context.Background(), filepath.Join(t.TempDir(), "missing.amr")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing file: %v", err)
	}
	if err := c.InitWithFile(context.Background(), path); err != nil {
		t.Fatalf("InitWithFile: %v", err)
	}
}

func TestClip_InitWithURL(t *testing.T) {
	t.Parallel()

	rt := newTestRuntime(t, &audiotest.Engine{})
	data := shortAMR(t, rt)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/voice.amr" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", amr.MIMEType)
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	rt.client = srv.Client()

	c := rt.NewClip()
	if err := c.InitWithURL(context.Background(), srv.URL+"/nope"); !errors.Is(err, ErrHTTPStatus) {
		t.Fatalf("404: %v", err)
	}
	if err := c.InitWithURL(context.Background(), srv.URL+"/voice.amr"); err != nil {
		t.Fatalf("InitWithURL: %v", err)
	}
	if c.Duration() != 20*time.Millisecond {
		t.Errorf("Duration = %v", c.Duration())
	}
}

func TestClip_PlayNaturalEnd(t *testing.T) {
	t.Parallel()

	engine := &audiotest.Engine{}
	rt := newTestRuntime(t, engine)

	c := rt.NewClip()
	if err := c.InitWithAMR(context.Background(), shortAMR(t, rt)); err != nil {
		t.Fatal(err)
	}
	events := recordEvents(c)

	if err := c.Play(); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if ev := nextEvent(t, events); ev != EventPlay {
		t.Fatalf("got %v, want play", ev)
	}
	if !c.IsPlaying() {
		t.Fatal("not playing")
	}

	engine.FinishAll()

	for _, want := range []Event{EventStop, EventEnded} {
		if ev := nextEvent(t, events); ev != want {
			t.Fatalf("got %v, want %v", ev, want)
		}
	}
	if c.IsPlaying() {
		t.Error("still playing after natural end")
	}

	engine.FinishAll()
	c.Stop()
	noEvent(t, events)
}

func TestClip_StopFiresStopOnly(t *testing.T) {
	t.Parallel()

	engine := &audiotest.Engine{}
	rt := newTestRuntime(t, engine)

	c := rt.NewClip()
	if err := c.InitWithAMR(context.Background(), shortAMR(t, rt)); err != nil {
		t.Fatal(err)
	}
	events := recordEvents(c)

	if err := c.Play(); err != nil {
		t.Fatal(err)
	}
	_ = nextEvent(t, events)

	c.Stop()
	c.Stop()
	if ev := nextEvent(t, events); ev != EventStop {
		t.Fatalf("got %v, want stop", ev)
	}

	engine.FinishAll()
	noEvent(t, events)
}

func TestClip_PlayLowRateFallback(t *testing.T) {
	t.Parallel()

	engine := &audiotest.Engine{MinRate: 22050}
	rt := newTestRuntime(t, engine)

	c := rt.NewClip()
	if err := c.InitWithAMR(context.Background(), shortAMR(t, rt)); err != nil {
		t.Fatal(err)
	}
	if err := c.Play(); err != nil {
		t.Fatalf("Play: %v", err)
	}

	nodes := engine.Nodes()
	if len(nodes) != 1 {
		t.Fatalf("%d nodes", len(nodes))
	}
	n := nodes[0]
	if n.Buffer.Rate != 32000 || n.PlaybackRate != 0.25 {
		t.Errorf("buffer %d Hz at %v, want 32000 Hz at 0.25", n.Buffer.Rate, n.PlaybackRate)
	}
}

func TestClip_PlayStopsOtherClip(t *testing.T) {
	t.Parallel()

	engine := &audiotest.Engine{}
	rt := newTestRuntime(t, engine)
	data := shortAMR(t, rt)

	a, b := rt.NewClip(), rt.NewClip()
	for _, c := range []*Clip{a, b} {
		if err := c.InitWithAMR(context.Background(), data); err != nil {
			t.Fatal(err)
		}
	}

	if err := a.Play(); err != nil {
		t.Fatal(err)
	}
	if err := b.Play(); err != nil {
		t.Fatal(err)
	}

	if a.IsPlaying() {
		t.Error("first clip still playing")
	}
	if !b.IsPlaying() {
		t.Error("second clip not playing")
	}
	if !engine.Nodes()[0].Stopped() {
		t.Error("first node not stopped")
	}
}

func TestClip_Record(t *testing.T) {
	t.Parallel()

	input := &audiotest.Input{Rate: 16000}
	rt := newTestRuntime(t, &audiotest.Engine{}, WithInput(input))

	c := rt.NewClip()
	if err := c.InitWithRecord(context.Background()); err != nil {
		t.Fatalf("InitWithRecord: %v", err)
	}
	if err := c.Play(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Play before recording = %v", err)
	}
	events := recordEvents(c)

	if err := c.StartRecord(); err != nil {
		t.Fatalf("StartRecord: %v", err)
	}
	if ev := nextEvent(t, events); ev != EventStartRecord {
		t.Fatalf("got %v", ev)
	}
	if !c.IsRecording() {
		t.Fatal("not recording")
	}

	input.Push(audiotest.SineSamples(1600, 16000, 300, 0.5))

	if err := c.FinishRecord(context.Background()); err != nil {
		t.Fatalf("FinishRecord: %v", err)
	}
	if ev := nextEvent(t, events); ev != EventFinishRecord {
		t.Fatalf("got %v", ev)
	}
	if c.IsRecording() {
		t.Error("still recording")
	}

	samples, rate := c.Samples()
	if rate != 16000 || len(samples) != 1600 {
		t.Errorf("got %d samples at %d Hz", len(samples), rate)
	}
	if got := c.Duration(); got != 100*time.Millisecond {
		t.Errorf("Duration = %v", got)
	}

	blob, err := c.Blob()
	if err != nil {
		t.Fatal(err)
	}
	// 100ms at 8 kHz is five frames, six if the resampler runs long.
	frames, err := amr.Frames(blob.Data)
	if err != nil || len(frames) < 5 || len(frames) > 6 {
		t.Errorf("blob has %d frames, err %v", len(frames), err)
	}
}

func TestClip_CancelRecord(t *testing.T) {
	t.Parallel()

	input := &audiotest.Input{Rate: 8000}
	rt := newTestRuntime(t, &audiotest.Engine{}, WithInput(input))

	c := rt.NewClip()
	if err := c.InitWithRecord(context.Background()); err != nil {
		t.Fatal(err)
	}
	events := recordEvents(c)

	if err := c.StartRecord(); err != nil {
		t.Fatal(err)
	}
	input.Push(make([]float32, 800))

	if err := c.CancelRecord(); err != nil {
		t.Fatal(err)
	}
	_ = nextEvent(t, events)
	if ev := nextEvent(t, events); ev != EventCancelRecord {
		t.Fatalf("got %v", ev)
	}
	if c.IsInit() {
		t.Error("cancelled recording initialised the clip")
	}
}

func TestClip_RecorderOwnership(t *testing.T) {
	t.Parallel()

	rt := newTestRuntime(t, &audiotest.Engine{}, WithInput(&audiotest.Input{Rate: 8000}))

	a, b := rt.NewClip(), rt.NewClip()
	if err := a.InitWithRecord(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := b.InitWithRecord(context.Background()); !errors.Is(err, ErrRecorderBusy) {
		t.Fatalf("second clip: %v", err)
	}

	if err := a.Close(); err != nil {
		t.Fatal(err)
	}
	if err := b.InitWithRecord(context.Background()); err != nil {
		t.Fatalf("after release: %v", err)
	}
}

func TestClip_NoRecorder(t *testing.T) {
	t.Parallel()

	rt := newTestRuntime(t, &audiotest.Engine{})
	c := rt.NewClip()

	if err := c.InitWithRecord(context.Background()); !errors.Is(err, ErrRecorderUnavailable) {
		t.Fatalf("InitWithRecord = %v", err)
	}
	if err := c.StartRecord(); !errors.Is(err, ErrRecorderUnavailable) {
		t.Errorf("StartRecord = %v", err)
	}
	if c.IsRecording() {
		t.Error("IsRecording without recorder")
	}
}

func TestEvent_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ev   Event
		want string
	}{
		{EventPlay, "play"},
		{EventEnded, "ended"},
		{EventCancelRecord, "cancelRecord"},
		{Event(42), "Event(42)"},
	}
	for _, tt := range tests {
		if got := tt.ev.String(); got != tt.want {
			t.Errorf("%d: got %q, want %q", int(tt.ev), got, tt.want)
		}
	}
}
