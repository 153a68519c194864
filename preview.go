package apidoc

import (
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
)

// PreviewOptions configures Preview.
type PreviewOptions struct {
	Title  string
	Logger *slog.Logger
	Rate   float64 // requests per second per client; 0 disables limiting
	Burst  int
}

// previewFiles are the artifacts listed on the preview page, in order.
var previewFiles = []string{IndexFile, CollectionFile, EnvironmentFile, "routes.json", "routes.yaml"}

// Preview returns a router serving the artifacts of a run written to dir.
// The page at / links every artifact present; files are served under
// /files/, and the collection and environment also at their own names.
func Preview(dir string, opts PreviewOptions) *Router {
	if opts.Title == "" {
		opts.Title = "API Reference"
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := New(WithTitle(opts.Title))
	r.Use(
		RequestID(),
		Logger(logger),
		Recovery(logger),
		RateLimit(RateLimitConfig{Rate: opts.Rate, Burst: opts.Burst}),
	)

	files := http.FileServerFS(os.DirFS(dir))
	tmpl := template.Must(template.New("preview").Parse(previewHTML))

	Get(r, "/{$}", func(w http.ResponseWriter, _ *http.Request) {
		page := previewPage{Title: opts.Title}
		for _, name := range previewFiles {
			info, err := os.Stat(filepath.Join(dir, name))
			if err != nil {
				continue
			}
			page.Files = append(page.Files, previewFile{Name: name, Size: humanize.Bytes(uint64(info.Size()))})
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		//nolint:errcheck,gosec // best-effort template render
		tmpl.Execute(w, page)
	}, WithHidden())

	Handle(r, http.MethodGet, "/files/", http.StripPrefix("/files", files), withWildcard(), WithHidden())

	for _, name := range []string{CollectionFile, EnvironmentFile} {
		Get(r, "/"+name, func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			http.ServeFile(w, req, filepath.Join(dir, name))
		}, WithHidden())
	}
	return r
}

type previewPage struct {
	Title string
	Files []previewFile
}

type previewFile struct {
	Name string
	Size string
}

const previewHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>{{.Title}}</title>
</head>
<body>
  <h1>{{.Title}}</h1>
  {{- if .Files}}
  <ul>
  {{- range .Files}}
    <li><a href="/files/{{.Name}}">{{.Name}}</a> ({{.Size}})</li>
  {{- end}}
  </ul>
  {{- else}}
  <p>No documentation has been generated yet.</p>
  {{- end}}
</body>
</html>`
