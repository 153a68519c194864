package apidoc

// Group is a collection of routes under a shared prefix with shared
// middleware. A group with a container name gives its routes handler ids
// under that container, so a single Describe call documents all of them.
type Group struct {
	router     *Router
	prefix     string
	container  string
	middleware []Middleware
}

// GroupOption configures a Group.
type GroupOption func(*Group)

// WithGroupContainer sets the container used for handler ids registered
// with a bare method name.
func WithGroupContainer(container string) GroupOption {
	return func(g *Group) {
		g.container = container
	}
}

// WithGroupMiddleware adds middleware to the group.
func WithGroupMiddleware(mw ...Middleware) GroupOption {
	return func(g *Group) {
		g.middleware = append(g.middleware, mw...)
	}
}

// Group creates a new route group with the given prefix and options.
func (r *Router) Group(prefix string, opts ...GroupOption) *Group {
	g := &Group{
		router: r,
		prefix: prefix,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// addRoute implements Registrar for Group.
func (g *Group) addRoute(ri routeInfo) {
	ri.pattern = g.prefix + ri.pattern
	if g.container != "" && ri.handlerID != "" && ri.handlerID.Container() == "" {
		ri.handlerID = HandlerID(g.container + "." + string(ri.handlerID))
	}
	g.router.addRoute(ri)
}

func (g *Group) routeMiddleware() []Middleware { return g.middleware }
