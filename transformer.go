package apidoc

import (
	"context"
	"fmt"
	"reflect"
	"sync"
)

// Transformer converts a domain object to its public JSON representation.
type Transformer interface {
	Transform(ctx context.Context, model any) (any, error)
}

// TransformerFunc adapts a function to Transformer.
type TransformerFunc func(ctx context.Context, model any) (any, error)

// Transform calls f.
func (f TransformerFunc) Transform(ctx context.Context, model any) (any, error) {
	return f(ctx, model)
}

// ModelNamer is implemented by transformers that know their input model.
// @transformerModel overrides it.
type ModelNamer interface {
	ModelName() string
}

// TypedTransformer returns a Transformer whose input model is M. It
// accepts M or *M and names M as its model.
func TypedTransformer[M any](fn func(ctx context.Context, m M) (any, error)) Transformer {
	return typedTransformer[M]{fn: fn}
}

type typedTransformer[M any] struct {
	fn func(ctx context.Context, m M) (any, error)
}

func (t typedTransformer[M]) Transform(ctx context.Context, model any) (any, error) {
	switch v := model.(type) {
	case M:
		return t.fn(ctx, v)
	case *M:
		if v != nil {
			return t.fn(ctx, *v)
		}
	}
	return nil, fmt.Errorf("model %T is not %s", model, reflect.TypeFor[M]())
}

func (t typedTransformer[M]) ModelName() string {
	return modelName(reflect.TypeFor[M]())
}

func modelName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

// Transformers is a registry of named transformation mappings.
type Transformers struct {
	mu sync.RWMutex
	m  map[string]Transformer
}

// NewTransformers creates an empty registry.
func NewTransformers() *Transformers {
	return &Transformers{m: make(map[string]Transformer)}
}

// Register adds or replaces a transformer.
func (t *Transformers) Register(name string, tr Transformer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.m[name] = tr
}

// Lookup returns the transformer registered under name.
func (t *Transformers) Lookup(name string) (Transformer, bool) {
	if t == nil {
		return nil, false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	tr, ok := t.m[name]
	return tr, ok
}

// ModelProvider builds a demo instance of a model. It may fail; the next
// provider is tried.
type ModelProvider func(ctx context.Context, model string) (any, error)

// Models resolves demo instances through an ordered provider chain:
// factory, then finder (a store lookup), then a bare instance that always
// succeeds.
type Models struct {
	mu        sync.RWMutex
	factories map[string]ModelProvider
	finders   map[string]ModelProvider
	types     map[string]reflect.Type
}

// NewModels creates an empty registry.
func NewModels() *Models {
	return &Models{
		factories: make(map[string]ModelProvider),
		finders:   make(map[string]ModelProvider),
		types:     make(map[string]reflect.Type),
	}
}

// RegisterType records the Go type of a model so a bare instance can be
// built. zero may be a value or a pointer.
func (m *Models) RegisterType(name string, zero any) {
	t := reflect.TypeOf(zero)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.types[name] = t
}

// RegisterFactory sets the factory for a model.
func (m *Models) RegisterFactory(name string, p ModelProvider) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.factories[name] = p
}

// RegisterFinder sets the store lookup for a model.
func (m *Models) RegisterFinder(name string, p ModelProvider) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finders[name] = p
}

// Providers returns the provider chain for a model. The last provider
// never fails.
func (m *Models) Providers(name string) []ModelProvider {
	var chain []ModelProvider
	if m != nil {
		m.mu.RLock()
		if p, ok := m.factories[name]; ok {
			chain = append(chain, p)
		}
		if p, ok := m.finders[name]; ok {
			chain = append(chain, p)
		}
		m.mu.RUnlock()
	}
	return append(chain, m.bare)
}

// Resolve returns the first instance a provider builds.
func (m *Models) Resolve(ctx context.Context, name string) any {
	for _, p := range m.Providers(name) {
		v, err := p(ctx, name)
		if err == nil && v != nil {
			return v
		}
	}
	return map[string]any{}
}

func (m *Models) bare(_ context.Context, name string) (any, error) {
	if m != nil {
		m.mu.RLock()
		t, ok := m.types[name]
		m.mu.RUnlock()
		if ok {
			return reflect.New(t).Interface(), nil
		}
	}
	return map[string]any{}, nil
}
