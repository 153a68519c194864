package apidoc

import "net/http"

// routeInfo holds metadata for a registered route, used for both request
// dispatch and documentation.
type routeInfo struct {
	method  string
	pattern string
	name    string

	handlerID HandlerID
	comment   string

	hidden   bool
	wildcard bool

	handler http.Handler
}

// RouteOption configures a route at registration time.
type RouteOption func(*routeInfo)

// WithName sets the route name matched by Filter.Names.
func WithName(name string) RouteOption {
	return func(ri *routeInfo) {
		ri.name = name
	}
}

// WithHandlerID sets the identity used to look up the handler's comment.
// Routes without one are skipped by the generator.
func WithHandlerID(id HandlerID) RouteOption {
	return func(ri *routeInfo) {
		ri.handlerID = id
	}
}

// WithComment attaches the handler's structured comment directly, for
// applications whose handlers are not parsed from source.
func WithComment(comment string) RouteOption {
	return func(ri *routeInfo) {
		ri.comment = comment
	}
}

// WithHidden keeps the route out of the route table entirely.
func WithHidden() RouteOption {
	return func(ri *routeInfo) {
		ri.hidden = true
	}
}

// withWildcard makes a pattern ending in "/" match its whole subtree.
func withWildcard() RouteOption {
	return func(ri *routeInfo) {
		ri.wildcard = true
	}
}
