// Command apidoc generates a Markdown API reference and an importable
// request collection from the structured comments of an application's
// route handlers.
//
//	apidoc generate --manifest routes.yaml --source ./internal/http --routePrefix 'api/*'
//	apidoc serve --output public/docs
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "apidoc",
		Usage: "generate API documentation from route handler comments",
		Commands: []*cli.Command{
			generateCmd,
			serveCmd,
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}
