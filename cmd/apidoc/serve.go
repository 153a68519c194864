package main

import (
	"errors"
	"net/http"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/bjaus/apidoc"
)

var serveCmd = &cli.Command{
	Name:  "serve",
	Usage: "Serve the generated documentation for preview",
	Flags: []cli.Flag{
		configFlag,
		outputFlag,
		verboseFlag,
		&cli.StringFlag{Name: "addr", Usage: "listen address"},
		&cli.StringFlag{Name: "title", Usage: "page title"},
		&cli.Float64Flag{Name: "rate", Usage: "requests per second per client; 0 disables limiting"},
	},
	Action: func(cctx *cli.Context) error {
		cfg, err := loadConfig(cctx)
		if err != nil {
			return err
		}
		logger := newLogger(cctx)

		r := apidoc.Preview(cfg.Output, apidoc.PreviewOptions{
			Title:  cfg.Title,
			Logger: logger,
			Rate:   cfg.PreviewRate,
			Burst:  cfg.PreviewBurst,
		})

		color.Green("Serving %s on %s", cfg.Output, cfg.PreviewAddr)
		if err := r.ListenAndServe(cctx.Context, cfg.PreviewAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}
