// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ik5/audamr"
	"github.com/ik5/audamr/bridge"
	"github.com/ik5/audamr/codec/amrnb"
	"github.com/ik5/audamr/internal/config"
	"github.com/ik5/audamr/internal/logging"
)

const appName = "amrtool"

// app is the state shared by the commands of one invocation.
type app struct {
	cfgFile     string
	logLevel    string
	metricsAddr string

	cfg     *config.Config
	log     zerolog.Logger
	metrics *bridge.Metrics
	server  *http.Server
}

// NewRootCommand builds a fresh command tree.
func NewRootCommand() *cobra.Command {
	a := &app{log: zerolog.Nop()}

	root := &cobra.Command{
		Use:   appName,
		Short: "AMR-NB conversion, playback and recording",
		Long: `amrtool converts audio to and from AMR-NB and plays or records
clips through the default audio devices.

Settings come from an optional YAML file (--config); flags override it.`,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "YAML config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (trace, debug, info, warn, error, disabled)")
	root.PersistentFlags().StringVar(&a.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while running")

	root.AddCommand(
		a.encodeCmd(),
		a.decodeCmd(),
		a.playCmd(),
		a.recordCmd(),
		a.infoCmd(),
	)
	return root
}

// Execute runs the command line of the process.
func Execute() error {
	return NewRootCommand().Execute()
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg := config.Default()
	if a.cfgFile != "" {
		var err error
		if cfg, err = config.Load(a.cfgFile); err != nil {
			return err
		}
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if a.metricsAddr != "" {
		cfg.Metrics.Address = a.metricsAddr
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	log, err := logging.New(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	a.log = log.With().Str("cmd", cmd.Name()).Logger()

	if cfg.Metrics.Address != "" {
		return a.serveMetrics(cfg.Metrics.Address)
	}
	return nil
}

func (a *app) serveMetrics(addr string) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	a.metrics = bridge.NewMetrics(reg)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("metrics listener: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	a.server = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := a.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error().Err(err).Msg("metrics server")
		}
	}()
	a.log.Info().Str("addr", ln.Addr().String()).Msg("serving metrics")
	return nil
}

func (a *app) teardown(cmd *cobra.Command, _ []string) error {
	if a.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(cmd.Context()), 2*time.Second)
	defer cancel()
	return a.server.Shutdown(ctx)
}

// newBridge starts a codec bridge for the offline commands.
func (a *app) newBridge() (*bridge.Bridge, error) {
	return bridge.New(amrnb.Factory(a.cfg.Codec.EncoderMode(), a.cfg.Codec.DTX),
		bridge.WithMode(a.cfg.Codec.BridgeMode()),
		bridge.WithWorkers(a.cfg.Codec.Workers),
		bridge.WithMetrics(a.metrics),
		bridge.WithLogger(a.log))
}

// newRuntime opens the audio devices for play and record.
func (a *app) newRuntime() (*audamr.Runtime, error) {
	return audamr.NewRuntime(a.cfg,
		audamr.WithLogger(a.log),
		audamr.WithMetrics(a.metrics))
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
