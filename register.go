package apidoc

import "net/http"

// Registrar is the interface accepted by the registration functions.
// Both *Router and *Group implement it.
type Registrar interface {
	addRoute(ri routeInfo)
	routeMiddleware() []Middleware
}

// Handle registers h for method and pattern.
func Handle(reg Registrar, method, pattern string, h http.Handler, opts ...RouteOption) {
	ri := routeInfo{
		method:  method,
		pattern: pattern,
		handler: h,
	}
	for _, opt := range opts {
		opt(&ri)
	}

	routeMW := reg.routeMiddleware()
	for i := len(routeMW) - 1; i >= 0; i-- {
		ri.handler = routeMW[i](ri.handler)
	}

	reg.addRoute(ri)
}

// Get registers a GET route.
func Get(reg Registrar, pattern string, h http.HandlerFunc, opts ...RouteOption) {
	Handle(reg, http.MethodGet, pattern, h, opts...)
}

// Post registers a POST route.
func Post(reg Registrar, pattern string, h http.HandlerFunc, opts ...RouteOption) {
	Handle(reg, http.MethodPost, pattern, h, opts...)
}

// Put registers a PUT route.
func Put(reg Registrar, pattern string, h http.HandlerFunc, opts ...RouteOption) {
	Handle(reg, http.MethodPut, pattern, h, opts...)
}

// Patch registers a PATCH route.
func Patch(reg Registrar, pattern string, h http.HandlerFunc, opts ...RouteOption) {
	Handle(reg, http.MethodPatch, pattern, h, opts...)
}

// Delete registers a DELETE route.
func Delete(reg Registrar, pattern string, h http.HandlerFunc, opts ...RouteOption) {
	Handle(reg, http.MethodDelete, pattern, h, opts...)
}
