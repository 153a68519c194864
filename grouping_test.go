package apidoc_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/apidoc"
)

func TestGroupRoutes(t *testing.T) {
	t.Parallel()

	docs := []apidoc.RouteDoc{
		{ID: "1", Resource: "users", URI: "users"},
		{ID: "2", Resource: "Auth", URI: "login"},
		{ID: "3", Resource: "users", URI: "users/{id}"},
		{ID: "4", Resource: "general", URI: "ping"},
		{ID: "1", Resource: "users", URI: "users"},
	}

	groups := apidoc.GroupRoutes(docs)
	require.Len(t, groups, 3)

	assert.Equal(t, "Auth", groups[0].Name)
	assert.Equal(t, "general", groups[1].Name)
	assert.Equal(t, "users", groups[2].Name)

	uris := make([]string, 0, len(groups[2].Routes))
	for _, d := range groups[2].Routes {
		uris = append(uris, d.URI)
	}
	assert.Equal(t, []string{"users", "users/{id}", "users"}, uris)
}

func TestGroupRoutes_idempotent(t *testing.T) {
	t.Parallel()

	docs := []apidoc.RouteDoc{
		{ID: "a", Resource: "b"},
		{ID: "b", Resource: "a"},
		{ID: "c", Resource: "c"},
		{ID: "d", Resource: "a"},
	}

	first, err := json.Marshal(apidoc.GroupRoutes(docs))
	require.NoError(t, err)
	second, err := json.Marshal(apidoc.GroupRoutes(docs))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGroupRoutes_empty(t *testing.T) {
	t.Parallel()
	assert.Empty(t, apidoc.GroupRoutes(nil))
}
