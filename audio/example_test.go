// SPDX-License-Identifier: EPL-2.0

package audio_test

import (
	"fmt"

	"github.com/ik5/audamr/audio"
	"github.com/ik5/audamr/internal/audiotest"
)

// Example_collectMono shows the chain used before AMR encoding: one
// second of 16kHz stereo reduced to 8kHz mono.
func Example_collectMono() {
	src := audiotest.NewSineSource(16000, 2, 16000, 440)

	samples, rate, err := audio.CollectMono(src, 8000, 4096)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Printf("%d samples at %d Hz\n", len(samples), rate)
	// Output: 8000 samples at 8000 Hz
}

// Example_sliceSource serves an in-memory buffer as a Source.
func Example_sliceSource() {
	src := audio.NewSliceSource([]float32{0, 0.5, -0.5, 1}, 8000, 1)

	samples, rate, _ := audio.CollectMono(src, 0, 16)
	fmt.Println(samples, rate)
	// Output: [0 0.5 -0.5 1] 8000
}
