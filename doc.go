// Package apidoc generates API documentation from the structured comments
// of an application's route handlers.
//
// A run reads a route table, looks up the comment of each selected route's
// handler, and assembles one RouteDoc per route:
//
//	gen := apidoc.NewGenerator(table, comments)
//	res, err := gen.Generate(ctx, apidoc.Filter{Prefixes: []string{"api/*"}})
//
// Comments carry a short and a long description followed by tags:
//
//	// Create a user.
//	//
//	// @permission users.create
//	// @bodyParam email email required Unique email address.
//	// @bodyParam [nickname] string name() Optional display name.
//	// @transformer UserTransformer
//
// The records are grouped by @resource and exported as a Markdown reference
// and an importable request collection with Write. Route tables come from a
// Router, which applications use in place of http.ServeMux, or from a
// Manifest file. Comments come from the Router itself, a MapSource, or a
// GoSource parsed from the application's code.
package apidoc
