// SPDX-License-Identifier: EPL-2.0

// Package hostaudio is a playback.Engine and recorder.Input on top of
// miniaudio, through github.com/gen2brain/malgo.
//
// Each source node opens its own playback device at the buffer's rate.
// A playback rate below 1 is rendered by repeating every frame, which is
// exact for the 0.5 and 0.25 rates the playback shim uses.
//
// MinSampleRate makes CreateBuffer refuse low rates the way some mobile
// audio stacks do, which is handy for exercising the fallback path on a
// desktop.
package hostaudio
