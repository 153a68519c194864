package apidoc

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// MarkdownOptions configures the Markdown reference.
type MarkdownOptions struct {
	Title          string
	BaseURL        string   // prefix of example request URLs
	Languages      []string // values accepted by the Language header
	RateLimit      string   // sentence describing request limits; omitted when empty
	CollectionURL  string   // link to the collection document; omitted when empty
	EnvironmentURL string
	Prepend        string // Markdown placed before the introduction
	Append         string // Markdown placed after the last group
}

type markdownData struct {
	MarkdownOptions
	Groups []RouteDocGroup
}

// MarkdownRenderer renders grouped route records. Each route is wrapped in
// <!-- START_<id> --> / <!-- END_<id> --> markers.
type MarkdownRenderer struct {
	opts MarkdownOptions
	tmpl *template.Template
}

// NewMarkdownRenderer parses the templates.
func NewMarkdownRenderer(opts MarkdownOptions) (*MarkdownRenderer, error) {
	if opts.Title == "" {
		opts.Title = "API Reference"
	}
	if opts.BaseURL == "" {
		opts.BaseURL = "http://localhost"
	}
	if len(opts.Languages) == 0 {
		opts.Languages = []string{"en"}
	}

	r := &MarkdownRenderer{opts: opts}
	tmpl, err := template.New("index.md.tmpl").Funcs(r.funcs()).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r.tmpl = tmpl
	return r, nil
}

// Render writes the full reference document.
func (r *MarkdownRenderer) Render(w io.Writer, groups []RouteDocGroup) error {
	return r.tmpl.ExecuteTemplate(w, "index.md.tmpl", markdownData{MarkdownOptions: r.opts, Groups: groups})
}

// RenderRoute returns the marked block of a single route.
func (r *MarkdownRenderer) RenderRoute(d RouteDoc) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "route", d); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *MarkdownRenderer) funcs() template.FuncMap {
	return template.FuncMap{
		"join": strings.Join,
		"url": func(uri string) string {
			return strings.TrimRight(r.opts.BaseURL, "/") + "/" + strings.TrimLeft(uri, "/")
		},
		"example": exampleString,
		"params":  paramsJSON,
		"pretty":  prettyJSON,
		"sendsBody": func(d RouteDoc) bool {
			m := d.Method()
			return m != http.MethodGet && m != http.MethodHead
		},
		"contentType": func(d RouteDoc) string {
			if d.HasFileParameter {
				return "multipart/form-data"
			}
			return "application/x-www-form-urlencoded"
		},
		"showResponse": func(d RouteDoc) bool {
			return d.Response.Shown || slices.Contains(d.Methods, http.MethodGet)
		},
	}
}

// paramsJSON encodes parameter examples as a JSON object in parameter
// order, indented for the JavaScript example.
func paramsJSON(params []Parameter) (string, error) {
	var buf bytes.Buffer
	buf.WriteString("{")
	for i, p := range params {
		k, err := json.Marshal(p.Name)
		if err != nil {
			return "", err
		}
		v, err := marshalNoEscape(p.Value)
		if err != nil {
			return "", err
		}
		if i > 0 {
			buf.WriteString(",")
		}
		fmt.Fprintf(&buf, "\n        %s: %s", k, v)
	}
	buf.WriteString("\n    }")
	return buf.String(), nil
}

// prettyJSON indents a response body without escaping HTML or unicode.
func prettyJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

func marshalNoEscape(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
