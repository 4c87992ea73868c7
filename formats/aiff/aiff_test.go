// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	goaiff "github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/ik5/audamr/audio"
)

// writeAIFF encodes samples with the go-audio encoder, which needs a
// seekable file.
func writeAIFF(t *testing.T, rate, bitDepth, channels int, samples []int) []byte {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.aiff")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}

	enc := goaiff.NewEncoder(f, rate, bitDepth, channels)
	buf := &goaudio.IntBuffer{
		Data:           samples,
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: rate},
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("encoder Write() error = %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("encoder Close() error = %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestDecoder_16bitStereo(t *testing.T) {
	t.Parallel()

	data := writeAIFF(t, 22050, 16, 2, []int{0, 16384, -16384, 8192, 32767, -32768})
	if !Sniff(data) {
		t.Fatal("Sniff() = false on an encoded file")
	}

	src, err := Decoder{}.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if src.SampleRate() != 22050 || src.Channels() != 2 {
		t.Fatalf("format = %d Hz x%d, want 22050 Hz x2", src.SampleRate(), src.Channels())
	}

	buf := make([]float32, 16)
	n, _ := src.ReadSamples(buf)
	want := []float32{0, 0.5, -0.5, 0.25, 32767.0 / 32768.0, -1}
	if n != len(want) {
		t.Fatalf("ReadSamples() n = %d, want %d", n, len(want))
	}
	for i := range want {
		if buf[i] != want[i] {
			t.Errorf("sample %d = %v, want %v", i, buf[i], want[i])
		}
	}
}

func TestDecoder_MonoCollect(t *testing.T) {
	t.Parallel()

	data := writeAIFF(t, 8000, 16, 1, []int{100, 200, 300, 400})
	src, err := Decoder{}.Decode(bytes.NewBuffer(data))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	got, rate, err := audio.CollectMono16(src, 0, 3)
	if err != nil {
		t.Fatalf("CollectMono16() error = %v", err)
	}
	if rate != 8000 {
		t.Errorf("rate = %d, want 8000", rate)
	}
	if len(got) != 4 || got[0] != 100 || got[3] != 400 {
		t.Errorf("samples = %v, want [100 200 300 400]", got)
	}
}

func TestDecoder_NotAIFF(t *testing.T) {
	t.Parallel()

	_, err := Decoder{}.Decode(bytes.NewReader([]byte("RIFF\x00\x00\x00\x00WAVEfmt plus some padding")))
	if !errors.Is(err, ErrNotAiffFile) {
		t.Errorf("Decode() error = %v, want ErrNotAiffFile", err)
	}
}

func TestSniff(t *testing.T) {
	t.Parallel()

	tests := []struct {
		header string
		want   bool
	}{
		{"FORM\x00\x00\x00\x10AIFF", true},
		{"FORM\x00\x00\x00\x10AIFC", true},
		{"FORM\x00\x00\x00\x108SVX", false},
		{"FORM", false},
		{"RIFF\x00\x00\x00\x10WAVE", false},
	}
	for _, tt := range tests {
		if got := Sniff([]byte(tt.header)); got != tt.want {
			t.Errorf("Sniff(%q) = %v, want %v", tt.header, got, tt.want)
		}
	}
}
