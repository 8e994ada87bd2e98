package main

import (
	"github.com/spf13/cobra"
)

// ServeOptions runs the HTTP evaluation server.
type ServeOptions struct {
	*globalOptions

	Listen string
}

func newServeCommand(g *globalOptions) *cobra.Command {
	o := &ServeOptions{globalOptions: g}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve evaluations over HTTP",
		Long: `Serve evaluations over HTTP.

POST /v1/eval takes {"expr": "...", "definitions": [...]} and answers with
the expanded expression and its result. Definitions apply to that request
only. GET /v1/units lists the registry, GET /health and
GET /internal/metrics report on the server.`,
		Example: `  qcalc serve --listen 127.0.0.1:8080`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.Run()
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&o.Listen, "listen", "", "Address to listen on (default "+defaultListen+")")
	return cmd
}

func (o *ServeOptions) Run() error {
	cfg, reg, logger, err := o.session()
	if err != nil {
		return err
	}
	addr := o.Listen
	if addr == "" {
		addr = cfg.Listen
	}
	if addr == "" {
		addr = defaultListen
	}
	logger.Info().Str("version", version).Msg("starting qcalc server")
	return NewServer(addr, reg, logger).ListenAndServe()
}
