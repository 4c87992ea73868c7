// SPDX-License-Identifier: EPL-2.0

// Command amrtool converts, plays and records AMR-NB audio.
//
// Usage:
//
//	amrtool [flags] <command> [args]
//
// Commands:
//
//	encode  - convert WAV, AIFF, MP3 or Ogg Vorbis to AMR-NB
//	decode  - convert AMR-NB to 16-bit WAV
//	play    - play a file through the default output device
//	record  - record from the default input device to AMR-NB
//	info    - print format details of a file
package main

import (
	"fmt"
	"os"

	"github.com/ik5/audamr/cmd/amrtool/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
