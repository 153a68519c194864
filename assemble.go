package apidoc

import (
	"crypto/md5" //nolint:gosec // route ids are content hashes, not security boundaries
	"encoding/hex"
	"net/http"
	"slices"
	"strings"
)

// HandlerID identifies the code behind a route: "Container.Method" for a
// method on a type, or a bare function name.
type HandlerID string

// Container returns the type part of a method handler, or "".
func (h HandlerID) Container() string {
	c, _, ok := strings.Cut(string(h), ".")
	if !ok {
		return ""
	}
	return c
}

// Method returns the method or function name.
func (h HandlerID) Method() string {
	_, m, ok := strings.Cut(string(h), ".")
	if !ok {
		return string(h)
	}
	return m
}

// RouteRef is a route as the route table reports it.
type RouteRef struct {
	URI     string    `json:"uri" yaml:"uri"`
	Methods []string  `json:"methods" yaml:"methods"`
	Handler HandlerID `json:"handler,omitempty" yaml:"handler,omitempty"`
	Name    string    `json:"name,omitempty" yaml:"name,omitempty"`
}

// DocMethods returns the route's methods upper-cased with HEAD removed.
func (r RouteRef) DocMethods() []string {
	out := make([]string, 0, len(r.Methods))
	for _, m := range r.Methods {
		m = strings.ToUpper(m)
		if m == http.MethodHead || slices.Contains(out, m) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// String formats the route as "[GET,POST] uri" for logs.
func (r RouteRef) String() string {
	return "[" + strings.Join(r.DocMethods(), ",") + "] " + r.URI
}

// RouteDoc is the documentation record of one route.
type RouteDoc struct {
	ID               string      `json:"id" yaml:"id"`
	Resource         string      `json:"resource" yaml:"resource"`
	Title            string      `json:"title" yaml:"title"`
	Description      string      `json:"description" yaml:"description"`
	Methods          []string    `json:"methods" yaml:"methods"`
	URI              string      `json:"uri" yaml:"uri"`
	Authenticated    bool        `json:"authenticated" yaml:"authenticated"`
	Permission       string      `json:"permission,omitempty" yaml:"permission,omitempty"`
	Parameters       []Parameter `json:"parameters" yaml:"parameters"`
	Response         Response    `json:"response" yaml:"response"`
	HasFileParameter bool        `json:"has_file_parameter" yaml:"has_file_parameter"`
	Warnings         []string    `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Method returns the first documented method.
func (d RouteDoc) Method() string {
	if len(d.Methods) == 0 {
		return http.MethodGet
	}
	return d.Methods[0]
}

// RouteID hashes the URI and the sorted method list, so the same route
// always gets the same id.
func RouteID(uri string, methods []string) string {
	sorted := slices.Clone(methods)
	slices.Sort(sorted)
	//nolint:gosec // see import
	sum := md5.Sum([]byte(uri + ":" + strings.Join(sorted, "")))
	return hex.EncodeToString(sum[:])
}

// Assemble builds the RouteDoc of a route from its parsed parts.
func Assemble(ref RouteRef, container, handler CommentBlock, params []Parameter, resp Response, warnings []string) RouteDoc {
	methods := ref.DocMethods()
	if params == nil {
		params = []Parameter{}
	}

	hasFile := false
	for _, p := range params {
		if p.Type == "file" {
			hasFile = true
			break
		}
	}

	return RouteDoc{
		ID:               RouteID(ref.URI, methods),
		Resource:         Resource(container, handler),
		Title:            handler.Short,
		Description:      handler.Long,
		Methods:          methods,
		URI:              ref.URI,
		Authenticated:    Authenticated(handler),
		Permission:       Permission(handler),
		Parameters:       params,
		Response:         resp,
		HasFileParameter: hasFile,
		Warnings:         warnings,
	}
}
