package apidoc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is a route table stored in a YAML or JSON file, for documenting
// an application from a separate process. It may also declare demo models
// and field-mapping transformers so example responses can be synthesized
// without Go code.
type Manifest struct {
	Table        []RouteRef                     `json:"routes" yaml:"routes"`
	Models       map[string]map[string]string   `json:"models,omitempty" yaml:"models,omitempty"`
	Transformers map[string]ManifestTransformer `json:"transformers,omitempty" yaml:"transformers,omitempty"`
}

// ManifestTransformer maps output keys to model fields. With no fields the
// model is passed through.
type ManifestTransformer struct {
	Model  string            `json:"model" yaml:"model"`
	Fields map[string]string `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// LoadManifest reads a manifest file. YAML is a superset of JSON, so one
// decoder handles both.
func LoadManifest(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	m, err := DecodeManifest(f)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return m, nil
}

// DecodeManifest decodes a YAML or JSON manifest.
func DecodeManifest(r io.Reader) (*Manifest, error) {
	var m Manifest
	if err := yaml.NewDecoder(r).Decode(&m); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return &m, nil
}

// Routes implements RouteTable.
func (m *Manifest) Routes(_ context.Context) ([]RouteRef, error) {
	return m.Table, nil
}

// Register adds the manifest's models and transformers to the registries.
// Model fields hold a parameter type ("email") or a generator directive
// ("number(1,100)").
func (m *Manifest) Register(models *Models, transformers *Transformers, gen ValueGenerator) {
	for name, fields := range m.Models {
		models.RegisterFactory(name, func(_ context.Context, _ string) (any, error) {
			out := make(map[string]any, len(fields))
			for field, spec := range fields {
				typ, directive := spec, ""
				if isDirective(spec) {
					typ, directive = "string", spec
				}
				//nolint:errcheck // generation falls back to a valid value
				out[field], _ = gen.Generate(typ, directive)
			}
			return out, nil
		})
	}
	for name, t := range m.Transformers {
		transformers.Register(name, fieldMapping(t))
	}
}

type fieldMapping ManifestTransformer

func (f fieldMapping) ModelName() string { return f.Model }

func (f fieldMapping) Transform(_ context.Context, model any) (any, error) {
	src, ok := model.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("model %T is not a field map", model)
	}
	if len(f.Fields) == 0 {
		return src, nil
	}
	out := make(map[string]any, len(f.Fields))
	for key, field := range f.Fields {
		out[key] = src[field]
	}
	return out, nil
}

// WriteManifest writes the router's route table as indented JSON.
func (r *Router) WriteManifest(w io.Writer) error {
	refs, err := r.Routes(context.Background())
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Manifest{Table: refs})
}

// WriteManifestYAML writes the router's route table as YAML.
func (r *Router) WriteManifestYAML(w io.Writer) error {
	refs, err := r.Routes(context.Background())
	if err != nil {
		return err
	}
	return yaml.NewEncoder(w).Encode(Manifest{Table: refs})
}
