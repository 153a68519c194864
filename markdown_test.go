package apidoc_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/apidoc"
)

func showUserDoc() apidoc.RouteDoc {
	return apidoc.RouteDoc{
		ID:            apidoc.RouteID("api/users/{id}", []string{"GET"}),
		Resource:      "Users",
		Title:         "Show a user",
		Description:   "Returns one user.",
		Methods:       []string{"GET"},
		URI:           "api/users/{id}",
		Authenticated: true,
		Permission:    "users.view",
		Parameters:    []apidoc.Parameter{},
		Response:      apidoc.Response{Body: map[string]any{"id": 1, "bio": "<b>hi</b>"}, Shown: true},
	}
}

func TestMarkdownRenderer_RenderRoute(t *testing.T) {
	t.Parallel()

	r, err := apidoc.NewMarkdownRenderer(apidoc.MarkdownOptions{BaseURL: "https://api.example.com/"})
	require.NoError(t, err)

	d := showUserDoc()
	md, err := r.RenderRoute(d)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(md, "<!-- START_"+d.ID+" -->"))
	assert.Contains(t, md, "<!-- END_"+d.ID+" -->")
	assert.Contains(t, md, "## Show a user")
	assert.Contains(t, md, "Returns one user.")
	assert.Contains(t, md, "<code>users.view</code>")
	assert.Contains(t, md, `curl -X GET "https://api.example.com/api/users/{id}"`)
	assert.Contains(t, md, `-H "Authorization: Bearer {access_token}"`)
	assert.Contains(t, md, "> Example response:")
	assert.Contains(t, md, `"bio": "<b>hi</b>"`)
	assert.Contains(t, md, "`GET api/users/{id}`")
	assert.NotContains(t, md, "does not require authentication")
	assert.NotContains(t, md, "#### Parameters")
}

func TestMarkdownRenderer_RenderRoute_parameters(t *testing.T) {
	t.Parallel()

	r, err := apidoc.NewMarkdownRenderer(apidoc.MarkdownOptions{})
	require.NoError(t, err)

	d := apidoc.RouteDoc{
		ID:      "abc",
		Methods: []string{"POST"},
		URI:     "api/users",
		Parameters: []apidoc.Parameter{
			{Name: "name", Type: "string", Required: true, Description: "Full name", Value: "Ada"},
			{Name: "avatar", Type: "file", Value: apidoc.FilePlaceholder},
		},
		HasFileParameter: true,
	}
	md, err := r.RenderRoute(d)
	require.NoError(t, err)

	assert.Contains(t, md, "## api/users")
	assert.Contains(t, md, "does not require authentication")
	assert.Contains(t, md, `-H "Content-Type: multipart/form-data"`)
	assert.Contains(t, md, `-d "name"="Ada"`)
	assert.Contains(t, md, `-F "avatar"="{file}"`)
	assert.Contains(t, md, "name | string | required | Full name")
	assert.Contains(t, md, "avatar | file | optional |")
	assert.NotContains(t, md, "> Example response:")
}

func TestMarkdownRenderer_Render(t *testing.T) {
	t.Parallel()

	r, err := apidoc.NewMarkdownRenderer(apidoc.MarkdownOptions{
		Title:          "Sample API",
		Languages:      []string{"en", "fr"},
		RateLimit:      "60 requests per minute.",
		CollectionURL:  "collection.json",
		EnvironmentURL: "environment.json",
		Prepend:        "PREPENDED",
		Append:         "APPENDED",
	})
	require.NoError(t, err)

	groups := []apidoc.RouteDocGroup{{Name: "Users", Routes: []apidoc.RouteDoc{showUserDoc()}}}

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, groups))
	md := buf.String()

	assert.True(t, strings.HasPrefix(md, "---\ntitle: Sample API\n"))
	assert.Contains(t, md, "Available languages are en, fr.")
	assert.Contains(t, md, "60 requests per minute.")
	assert.Contains(t, md, "[Get Postman Collection](collection.json)")
	assert.Contains(t, md, "\n# Users\n")

	prepend := strings.Index(md, "PREPENDED")
	intro := strings.Index(md, "# Introduction")
	group := strings.Index(md, "# Users")
	appendAt := strings.Index(md, "APPENDED")
	assert.True(t, prepend < intro && intro < group && group < appendAt)

	assert.Len(t, apidoc.RouteBlocks(md), 1)
}

func TestParamsJSON(t *testing.T) {
	t.Parallel()

	s, err := apidoc.ParamsJSON([]apidoc.Parameter{
		{Name: "b", Value: 1},
		{Name: "a", Value: "<x>"},
	})
	require.NoError(t, err)
	assert.Equal(t, "{\n        \"b\": 1,\n        \"a\": \"<x>\"\n    }", s)
}
