// SPDX-License-Identifier: EPL-2.0

package bridge

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
)

// Mode selects how codec calls are executed.
type Mode int

const (
	// ModeAuto uses ModeWorker when more than one CPU is available.
	ModeAuto Mode = iota
	ModeWorker
	ModeInline
)

func (m Mode) String() string {
	switch m {
	case ModeAuto:
		return "auto"
	case ModeWorker:
		return "worker"
	case ModeInline:
		return "inline"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode accepts "auto", "worker" or "inline".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ModeAuto, nil
	case "worker":
		return ModeWorker, nil
	case "inline":
		return ModeInline, nil
	default:
		return ModeAuto, fmt.Errorf("unknown bridge mode %q", s)
	}
}

func (m Mode) resolve() Mode {
	if m != ModeAuto {
		return m
	}
	if runtime.NumCPU() > 1 {
		return ModeWorker
	}
	return ModeInline
}

type options struct {
	mode    Mode
	workers int
	log     zerolog.Logger
	metrics *Metrics
}

func defaultOptions() options {
	return options{
		mode:    ModeAuto,
		workers: 1,
		log:     zerolog.Nop(),
	}
}

type Option func(*options)

func WithMode(m Mode) Option {
	return func(o *options) { o.mode = m }
}

// WithWorkers sets the pool size in worker mode. Values below 1 mean 1.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = max(n, 1) }
}

func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}
