package apidoc

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Router is an http.Handler that records every route registered on it, so
// the application's route table can be documented. It implements RouteTable
// and CommentSource.
type Router struct {
	mux        *http.ServeMux
	middleware []Middleware
	routes     []routeInfo
	containers map[string]string

	title string

	mu sync.Mutex
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithTitle sets the API title.
func WithTitle(title string) RouterOption {
	return func(r *Router) {
		r.title = title
	}
}

// New creates a new Router with the given options.
func New(opts ...RouterOption) *Router {
	r := &Router{
		mux:        http.NewServeMux(),
		containers: make(map[string]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Title returns the API title.
func (r *Router) Title() string { return r.title }

// Use adds middleware to the router. Middleware is applied in the order added.
func (r *Router) Use(mw ...Middleware) {
	r.middleware = append(r.middleware, mw...)
}

// Describe attaches a structured comment to a handler container (the type
// part of "Container.Method" handler ids). A @resource tag there groups
// every route of the container.
func (r *Router) Describe(container, comment string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.containers[container] = comment
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	handler := http.Handler(r.mux)
	for i := len(r.middleware) - 1; i >= 0; i-- {
		handler = r.middleware[i](handler)
	}
	handler.ServeHTTP(w, req)
}

// ListenAndServe starts an HTTP server on the given address.
// It blocks until the context is cancelled, then shuts down gracefully.
func (r *Router) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Routes implements RouteTable. A GET route also answers HEAD, as the mux
// does; documentation drops HEAD again.
func (r *Router) Routes(_ context.Context) ([]RouteRef, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	refs := make([]RouteRef, 0, len(r.routes))
	for _, ri := range r.routes {
		if ri.hidden {
			continue
		}
		methods := []string{ri.method}
		if ri.method == http.MethodGet {
			methods = append(methods, http.MethodHead)
		}
		refs = append(refs, RouteRef{
			URI:     ri.pattern,
			Methods: methods,
			Handler: ri.handlerID,
			Name:    ri.name,
		})
	}
	return refs, nil
}

// Comment implements CommentSource with the comments given by WithComment.
func (r *Router) Comment(id HandlerID) (CommentBlock, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ri := range r.routes {
		if ri.handlerID == id && ri.comment != "" {
			return ParseCommentBlock(ri.comment), true
		}
	}
	return CommentBlock{}, false
}

// ContainerComment implements CommentSource with the comments given by
// Describe.
func (r *Router) ContainerComment(id HandlerID) (CommentBlock, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	raw, ok := r.containers[id.Container()]
	if !ok {
		return CommentBlock{}, false
	}
	return ParseCommentBlock(raw), true
}

func (r *Router) routeMiddleware() []Middleware { return nil }

// addRoute registers a routeInfo with the router's mux and stores it for
// documentation. Global middleware is applied in ServeHTTP, not here; only
// group middleware is baked into ri.handler.
func (r *Router) addRoute(ri routeInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pattern := ri.pattern
	if strings.HasSuffix(pattern, "/") && ri.wildcard {
		pattern += "{path...}"
	}
	r.mux.Handle(ri.method+" "+pattern, ri.handler)
	r.routes = append(r.routes, ri)
}
