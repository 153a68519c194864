package apidoc_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/apidoc"
	"github.com/bjaus/apidoc/apidoctest"
)

var quiet = slog.New(slog.DiscardHandler)

type tableFunc func(ctx context.Context) ([]apidoc.RouteRef, error)

func (f tableFunc) Routes(ctx context.Context) ([]apidoc.RouteRef, error) { return f(ctx) }

type panicGenerator struct{}

func (panicGenerator) Generate(string, string) (any, error) { panic("generator exploded") }

func TestGenerator_Generate(t *testing.T) {
	t.Parallel()

	table := apidoctest.NewTable(
		apidoctest.Route("GET", "api/users/{id}", "UserController.show"),
		apidoctest.Route("GET", "api/ping", "ping"),
		apidoctest.Route("POST", "api/users", "UserController.store"),
		apidoctest.Route("GET", "api/secret", "SecretController.index"),
		apidoctest.Route("GET", "api/closure", ""),
		apidoctest.Route("GET", "internal/metrics", "metrics"),
	)
	source := apidoctest.NewSource(map[apidoc.HandlerID]string{
		"UserController.show":    "Show a user.\n@response {\"id\":1,\"name\":\"Ada\"}",
		"UserController.store":   "Create a user.\n@bodyParam name string\n@transformer App\\UserTransformer",
		"SecretController.index": "@hideFromAPIDocumentation",
	})
	source.Containers["UserController"] = "@resource Users"

	gen := apidoc.NewGenerator(table, source,
		apidoc.WithLogger(quiet),
		apidoc.WithValueGenerator(apidoctest.Faker()),
	)
	res, err := gen.Generate(context.Background(), apidoc.Filter{Prefixes: []string{"api/*"}})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Processed())
	skipped := res.Skipped()
	require.Len(t, skipped, 2)
	assert.Equal(t, "api/secret", skipped[0].Route.URI)
	assert.Equal(t, "hidden from documentation", skipped[0].Reason)
	assert.Equal(t, "api/closure", skipped[1].Route.URI)
	assert.Equal(t, "no handler to document", skipped[1].Reason)

	require.Len(t, res.Groups, 2)
	assert.Equal(t, "Users", res.Groups[0].Name)
	assert.Equal(t, "general", res.Groups[1].Name)

	show := res.Groups[0].Routes[0]
	assert.Equal(t, "api/users/{id}", show.URI)
	assert.True(t, show.Response.Shown)
	assert.Equal(t, map[string]any{"id": float64(1), "name": "Ada"}, show.Response.Body)
	assert.Empty(t, show.Warnings)

	store := res.Groups[0].Routes[1]
	assert.Equal(t, "api/users", store.URI)
	assert.False(t, store.Response.Shown)
	require.Len(t, store.Warnings, 1)
	assert.Contains(t, store.Warnings[0], `App\UserTransformer`)
	require.Len(t, store.Parameters, 1)

	ping := res.Groups[1].Routes[0]
	assert.Equal(t, "api/ping", ping.URI)
	assert.Empty(t, ping.Title)
	assert.Empty(t, ping.Description)
	assert.Empty(t, ping.Parameters)

	require.Error(t, res.Err())
	assert.ErrorIs(t, res.Err(), apidoc.ErrUnknownTransformer)
}

func TestGenerator_noFilter(t *testing.T) {
	t.Parallel()

	table := tableFunc(func(context.Context) ([]apidoc.RouteRef, error) {
		t.Error("route table read before the filter was checked")
		return nil, nil
	})

	_, err := apidoc.NewGenerator(table, nil).Generate(context.Background(), apidoc.Filter{Prefixes: []string{""}})

	var ce *apidoc.ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.ErrorIs(t, err, apidoc.ErrNoFilter)
	assert.True(t, apidoc.IsFatal(err))
}

func TestGenerator_tableError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	table := tableFunc(func(context.Context) ([]apidoc.RouteRef, error) { return nil, boom })

	_, err := apidoc.NewGenerator(table, nil).Generate(context.Background(), apidoc.Filter{Names: []string{"x"}})
	assert.ErrorIs(t, err, boom)
	assert.False(t, apidoc.IsFatal(err))
}

func TestGenerator_canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	table := apidoctest.NewTable(apidoctest.Route("GET", "a", "a"))
	_, err := apidoc.NewGenerator(table, nil, apidoc.WithLogger(quiet)).Generate(ctx, apidoc.Filter{Prefixes: []string{"*"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerator_panicIsolated(t *testing.T) {
	t.Parallel()

	table := apidoctest.NewTable(
		apidoctest.Route("POST", "a", "a"),
		apidoctest.Route("GET", "b", "b"),
	)
	source := apidoctest.NewSource(map[apidoc.HandlerID]string{"a": "@bodyParam x string"})

	res, err := apidoc.NewGenerator(table, source,
		apidoc.WithLogger(quiet),
		apidoc.WithValueGenerator(panicGenerator{}),
	).Generate(context.Background(), apidoc.Filter{Prefixes: []string{"*"}})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Processed())
	require.Len(t, res.Skipped(), 1)
	assert.Contains(t, res.Skipped()[0].Reason, "generator exploded")
	assert.Error(t, res.Err())
}

func TestGenerator_names(t *testing.T) {
	t.Parallel()

	named := apidoctest.Route("GET", "v1/users", "users")
	named.Name = "users.index"
	table := apidoctest.NewTable(named, apidoctest.Route("GET", "v1/posts", "posts"))

	res, err := apidoc.NewGenerator(table, nil, apidoc.WithLogger(quiet)).
		Generate(context.Background(), apidoc.Filter{Names: []string{"users.index"}})
	require.NoError(t, err)
	require.Len(t, res.Outcomes, 1)
	assert.Equal(t, "v1/users", res.Outcomes[0].Route.URI)
	assert.NoError(t, res.Err())
}

func TestGenerator_actingAs(t *testing.T) {
	t.Parallel()

	transformers := apidoc.NewTransformers()
	transformers.Register("Me", apidoc.TransformerFunc(func(ctx context.Context, _ any) (any, error) {
		id, ok := apidoc.ActingAs(ctx)
		if !ok {
			return nil, errors.New("no identity")
		}
		return id, nil
	}))

	table := apidoctest.NewTable(apidoctest.Route("GET", "me", "me"))
	source := apidoctest.NewSource(map[apidoc.HandlerID]string{"me": "@transformer Me"})

	res, err := apidoc.NewGenerator(table, source,
		apidoc.WithLogger(quiet),
		apidoc.WithResolver(apidoc.NewResolver(transformers, nil)),
		apidoc.WithActingAsID("9"),
	).Generate(context.Background(), apidoc.Filter{Prefixes: []string{"me"}})
	require.NoError(t, err)
	require.Len(t, res.Groups, 1)
	assert.Equal(t, map[string]any{"data": "9"}, res.Groups[0].Routes[0].Response.Body)
}

func TestFilter_Matches(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		filter apidoc.Filter
		ref    apidoc.RouteRef
		expect bool
	}{
		"glob crosses slashes":  {filter: apidoc.Filter{Prefixes: []string{"api/*"}}, ref: apidoc.RouteRef{URI: "api/v1/users"}, expect: true},
		"leading slash ignored": {filter: apidoc.Filter{Prefixes: []string{"api/*"}}, ref: apidoc.RouteRef{URI: "/api/users"}, expect: true},
		"exact":                 {filter: apidoc.Filter{Prefixes: []string{"ping"}}, ref: apidoc.RouteRef{URI: "ping"}, expect: true},
		"no match":              {filter: apidoc.Filter{Prefixes: []string{"api/*"}}, ref: apidoc.RouteRef{URI: "admin/users"}},
		"name":                  {filter: apidoc.Filter{Names: []string{"a"}}, ref: apidoc.RouteRef{URI: "x", Name: "a"}, expect: true},
		"unnamed route":         {filter: apidoc.Filter{Names: []string{"a"}}, ref: apidoc.RouteRef{URI: "x"}},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ok, err := tc.filter.Matches(tc.ref)
			require.NoError(t, err)
			assert.Equal(t, tc.expect, ok)
		})
	}
}

func TestFilter_invalidGlob(t *testing.T) {
	t.Parallel()

	_, err := apidoc.Filter{Prefixes: []string{"api/[a"}}.Matches(apidoc.RouteRef{})
	assert.True(t, apidoc.IsFatal(err))
}

func TestParsePrefixes(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"api/*", "v1/*"}, apidoc.ParsePrefixes(" api/* ,, v1/* "))
	assert.Empty(t, apidoc.ParsePrefixes(""))
}
