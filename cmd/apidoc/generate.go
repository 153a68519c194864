package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/bjaus/apidoc"
)

var generateCmd = &cli.Command{
	Name:  "generate",
	Usage: "Document the selected routes of a route manifest",
	Flags: []cli.Flag{
		configFlag,
		outputFlag,
		verboseFlag,
		&cli.StringFlag{Name: "manifest", Aliases: []string{"m"}, Usage: "route manifest (.yaml or .json)"},
		&cli.StringFlag{Name: "source", Aliases: []string{"s"}, Usage: "Go source tree holding the handler comments"},
		&cli.StringSliceFlag{Name: "routePrefix", Usage: "URI glob of routes to document; repeat or separate with commas"},
		&cli.StringSliceFlag{Name: "routes", Usage: "name of a route to document; repeatable"},
		&cli.StringFlag{Name: "postmanName", Usage: "name of the collection and environment"},
		&cli.StringFlag{Name: "actAsUserId", Usage: "identity example responses are resolved for"},
		&cli.StringFlag{Name: "title", Usage: "title of the reference"},
		&cli.StringFlag{Name: "base-url", Usage: "base URL of example requests"},
		&cli.StringFlag{Name: "locale", Usage: "locale of generated example values"},
		&cli.StringFlag{Name: "format", Usage: "also dump the route records as json or yaml"},
		&cli.BoolFlag{Name: "force", Usage: "overwrite hand-edited route blocks"},
		&cli.Uint64Flag{Name: "seed", Usage: "seed for example values; 0 picks a random one"},
		&cli.BoolFlag{Name: "strict", Usage: "fail when a route was documented with warnings"},
	},
	Action: func(cctx *cli.Context) error {
		cfg, err := loadConfig(cctx)
		if err != nil {
			return err
		}
		logger := newLogger(cctx)

		if cfg.Manifest == "" {
			return &apidoc.ConfigurationError{Reason: "a route manifest is required (--manifest)"}
		}
		manifest, err := apidoc.LoadManifest(cfg.Manifest)
		if err != nil {
			return &apidoc.ConfigurationError{Reason: "load manifest", Err: err}
		}

		var comments apidoc.CommentSource
		if cfg.Source != "" {
			src, err := apidoc.NewGoSource(cfg.Source)
			if err != nil {
				return &apidoc.ConfigurationError{Reason: "parse source", Err: err}
			}
			comments = src
		}

		faker := apidoc.NewFaker(apidoc.FakerConfig{Seed: cfg.Seed, Locale: cfg.Locale})
		models, transformers := apidoc.NewModels(), apidoc.NewTransformers()
		manifest.Register(models, transformers, faker)

		gen := apidoc.NewGenerator(manifest, comments,
			apidoc.WithLogger(logger),
			apidoc.WithValueGenerator(faker),
			apidoc.WithResolver(apidoc.NewResolver(transformers, models)),
			apidoc.WithActingAsID(cfg.ActAsUserID),
		)
		res, err := gen.Generate(cctx.Context, cfg.Filter())
		if err != nil {
			return err
		}

		for _, o := range res.Outcomes {
			if o.Skipped {
				color.Yellow("Skipping route: %s - %s", o.Route, o.Reason)
				continue
			}
			color.Green("Processed route: %s", o.Route)
		}

		report, err := apidoc.Write(cctx.Context, res.Groups, apidoc.WriteOptions{
			Dir: cfg.Output,
			Markdown: apidoc.MarkdownOptions{
				Title:     cfg.Title,
				BaseURL:   cfg.BaseURL,
				Languages: cfg.Languages,
				RateLimit: cfg.RateLimit,
			},
			Collection: apidoc.CollectionOptions{
				Name:    cfg.PostmanName,
				BaseURL: cfg.BaseURL,
				Locale:  cfg.Locale,
			},
			Format: cfg.Format,
			Force:  cfg.Force,
			Logger: logger,
		})
		if err != nil {
			return err
		}

		for _, e := range report.Edits {
			if cfg.Force {
				color.Red("Overwrote hand-edited route block %s", e.ID)
			} else {
				color.Cyan("Kept hand-edited route block %s", e.ID)
			}
		}
		_, _ = fmt.Fprintf(cctx.App.Writer, "Wrote documentation to %s (%d processed, %d skipped)\n",
			cfg.Output, res.Processed(), len(res.Skipped()))

		if cctx.Bool("strict") {
			return res.Err()
		}
		return nil
	},
}
