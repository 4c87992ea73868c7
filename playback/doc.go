// SPDX-License-Identifier: EPL-2.0

// Package playback plays mono sample buffers on a host audio engine and
// works around engines that refuse low sample rates.
//
// When the engine rejects a buffer at the declared rate, the buffer is
// allocated at a multiple of it and played back slower by the same
// factor, so pitch and duration stay as they would be natively:
//
//	declared < 11025 Hz   buffer at 4x, playback rate 0.25
//	otherwise             buffer at 2x, playback rate 0.5
//
// A Manager owns the one active playback. Starting another stops the
// current one first, and its end callback never fires.
package playback
