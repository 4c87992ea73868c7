// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ik5/audamr/formats/amr"
	"github.com/ik5/audamr/formats/wav"
	"github.com/ik5/audamr/internal/audiotest"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--log-level", "disabled"}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func writeSineWAV(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, "sine.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if err := wav.WriteFloat32(f, 16000, audiotest.SineSamples(8000, 16000, 440, 0.5)); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestEncodeDecode(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := writeSineWAV(t, dir)
	amrPath := filepath.Join(dir, "sine.amr")
	wavPath := filepath.Join(dir, "back.wav")

	if _, err := run(t, "encode", in, amrPath); err != nil {
		t.Fatalf("encode: %v", err)
	}

	data, err := os.ReadFile(amrPath)
	if err != nil {
		t.Fatal(err)
	}
	frames, err := amr.Frames(data)
	if err != nil {
		t.Fatal(err)
	}
	// half a second is 25 frames
	if len(frames) < 25 || len(frames) > 26 {
		t.Errorf("got %d frames", len(frames))
	}

	if _, err := run(t, "decode", amrPath, wavPath); err != nil {
		t.Fatalf("decode: %v", err)
	}

	out, err := run(t, "info", wavPath)
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	for _, want := range []string{"wav", "8000", "channels:     1"} {
		if !strings.Contains(out, want) {
			t.Errorf("info output lacks %q:\n%s", want, out)
		}
	}
}

func TestInfo_AMR(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := writeSineWAV(t, dir)
	amrPath := filepath.Join(dir, "sine.amr")

	cfgPath := filepath.Join(dir, "amrtool.yaml")
	if err := os.WriteFile(cfgPath, []byte("codec:\n  mode: inline\n  amr_mode: MR475\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := run(t, "--config", cfgPath, "encode", in, amrPath); err != nil {
		t.Fatalf("encode: %v", err)
	}

	out, err := run(t, "info", amrPath)
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	for _, want := range []string{"amr", "frames:", "MR475"} {
		if !strings.Contains(out, want) {
			t.Errorf("info output lacks %q:\n%s", want, out)
		}
	}
}

func TestEncode_Metrics(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := writeSineWAV(t, dir)

	if _, err := run(t, "--metrics-addr", "127.0.0.1:0", "encode", in, filepath.Join(dir, "out.amr")); err != nil {
		t.Fatalf("encode: %v", err)
	}
}

func TestErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	text := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(text, []byte("not audio at all"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
	}{
		{"missing args", []string{"encode", text}},
		{"unknown format", []string{"encode", text, filepath.Join(dir, "x.amr")}},
		{"decode non-AMR", []string{"decode", text, filepath.Join(dir, "x.wav")}},
		{"missing config", []string{"--config", filepath.Join(dir, "nope.yaml"), "info", text}},
		{"bad log level", []string{"--log-level", "loud", "info", text}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := run(t, tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
