package commands

import (
	"fmt"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/server"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Root    string `short:"r" name:"root" help:"Document root to serve (overrides config output dir)"`
	Listen  string `short:"l" name:"listen" help:"Bind address, e.g. :8080 (overrides config)"`
	Metrics bool   `name:"metrics" help:"Expose Prometheus metrics on /metrics"`
}

func (s *ServeCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	docRoot := cfg.Output.Dir
	if s.Root != "" {
		docRoot = s.Root
	}
	listen := cfg.Server.Listen
	if s.Listen != "" {
		listen = s.Listen
	}

	opts := server.Options{}
	if s.Metrics || cfg.Server.Metrics {
		reg := prom.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector())
		opts.Recorder = metrics.NewPrometheusRecorder(reg)
		opts.MetricsRegistry = reg
	}

	ctx, cancel := signalContext()
	defer cancel()

	return server.New(docRoot, opts).Serve(ctx, listen)
}
