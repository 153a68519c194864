package apidoc

import (
	"context"
	"encoding/json"
	"fmt"
)

// Response is the example response of a route. Shown tells renderers to
// print a response block even when Body is empty.
type Response struct {
	Body  any  `json:"body,omitempty" yaml:"body,omitempty"`
	Shown bool `json:"shown" yaml:"shown"`
}

// Resolver decides the example response of a route.
type Resolver struct {
	transformers *Transformers
	models       *Models
}

// NewResolver creates a Resolver. Either registry may be nil.
func NewResolver(transformers *Transformers, models *Models) *Resolver {
	return &Resolver{transformers: transformers, models: models}
}

// Resolve runs the resolution steps in order and stops at the first match:
// a literal @response, then a @transformer / @transformerCollection, then
// nothing. Errors describe degraded steps; they never stop resolution.
func (r *Resolver) Resolve(ctx context.Context, route string, b CommentBlock) (Response, []error) {
	var errs []error

	body, ok, err := LiteralResponse(route, b)
	if err != nil {
		errs = append(errs, err)
	} else if ok {
		return Response{Body: body, Shown: true}, nil
	}

	ref, ok := TransformerOf(b)
	if !ok {
		return Response{}, errs
	}

	body, err = r.transform(ctx, ref)
	if err != nil {
		errs = append(errs, &ResolutionError{Route: route, Ref: ref.Name, Err: err})
		return Response{}, errs
	}
	return Response{Body: body, Shown: true}, errs
}

func (r *Resolver) transform(ctx context.Context, ref TransformerRef) (out any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			out, err = nil, fmt.Errorf("transformer panicked: %v", rec)
		}
	}()

	tr, ok := r.transformers.Lookup(ref.Name)
	if !ok {
		return nil, ErrUnknownTransformer
	}

	model := ref.Model
	if model == "" {
		if mn, ok := tr.(ModelNamer); ok {
			model = mn.ModelName()
		}
	}
	demo := r.models.Resolve(ctx, model)

	var data any
	if ref.Collection {
		items := make([]any, 0, 2)
		for range 2 {
			v, err := tr.Transform(ctx, demo)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		data = items
	} else {
		v, err := tr.Transform(ctx, demo)
		if err != nil {
			return nil, err
		}
		data = v
	}

	raw, err := json.Marshal(map[string]any{"data": data})
	if err != nil {
		return nil, fmt.Errorf("encode transformed model: %w", err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode transformed model: %w", err)
	}
	return out, nil
}
