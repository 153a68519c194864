package main

import (
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/bjaus/apidoc"
)

var (
	configFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "config file (.yaml, .yml, .toml or .json)",
		EnvVars: []string{"APIDOC_CONFIG"},
	}
	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output directory",
	}
	verboseFlag = &cli.BoolFlag{
		Name:  "verbose",
		Usage: "log every step",
	}
)

// loadConfig reads the config file and environment, then applies the flags
// that were set on the command line.
func loadConfig(cctx *cli.Context) (apidoc.Config, error) {
	cfg, err := apidoc.LoadConfig(cctx.String(configFlag.Name))
	if err != nil {
		return apidoc.Config{}, err
	}

	stringFlags := map[string]*string{
		"output":      &cfg.Output,
		"manifest":    &cfg.Manifest,
		"source":      &cfg.Source,
		"postmanName": &cfg.PostmanName,
		"actAsUserId": &cfg.ActAsUserID,
		"base-url":    &cfg.BaseURL,
		"locale":      &cfg.Locale,
		"format":      &cfg.Format,
		"title":       &cfg.Title,
		"addr":        &cfg.PreviewAddr,
	}
	for name, dst := range stringFlags {
		if cctx.IsSet(name) {
			*dst = cctx.String(name)
		}
	}

	if cctx.IsSet("routePrefix") {
		cfg.RoutePrefix = cctx.StringSlice("routePrefix")
	}
	if cctx.IsSet("routes") {
		cfg.Routes = cctx.StringSlice("routes")
	}
	if cctx.IsSet("force") {
		cfg.Force = cctx.Bool("force")
	}
	if cctx.IsSet("seed") {
		cfg.Seed = cctx.Uint64("seed")
	}
	if cctx.IsSet("rate") {
		cfg.PreviewRate = cctx.Float64("rate")
	}

	if err := cfg.ExpandPaths(); err != nil {
		return apidoc.Config{}, err
	}
	return cfg, nil
}

func newLogger(cctx *cli.Context) *slog.Logger {
	level := slog.LevelWarn
	if cctx.Bool(verboseFlag.Name) {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
