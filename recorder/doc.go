// SPDX-License-Identifier: EPL-2.0

// Package recorder buffers microphone input as mono float samples.
//
// All recorder state lives in one goroutine and every method talks to it
// over a channel, so an Input may call Write from its own audio thread
// while the caller starts, stops and flushes.
package recorder
