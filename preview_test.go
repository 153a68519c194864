package apidoc_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/apidoc"
	"github.com/bjaus/apidoc/apidoctest"
)

func TestPreview(t *testing.T) {
	t.Parallel()

	dir := apidoctest.WriteTree(t, map[string]string{
		apidoc.IndexFile:       "# Reference",
		apidoc.CollectionFile:  `{"info": {}}`,
		apidoc.EnvironmentFile: `{"values": []}`,
	})
	c := apidoctest.NewClient(t, apidoc.Preview(dir, apidoc.PreviewOptions{Title: "Docs", Logger: quiet}))

	t.Run("index page lists artifacts", func(t *testing.T) {
		t.Parallel()

		resp := c.Get(t, "/")
		assert.Equal(t, http.StatusOK, resp.Status)
		assert.Contains(t, resp.Headers.Get("Content-Type"), "text/html")
		assert.NotEmpty(t, resp.Headers.Get(apidoc.RequestIDHeader))

		page := string(resp.Body)
		assert.Contains(t, page, "<title>Docs</title>")
		assert.Contains(t, page, `href="/files/source/index.md"`)
		assert.Contains(t, page, `href="/files/collection.json"`)
		assert.NotContains(t, page, "routes.json")
	})

	t.Run("files", func(t *testing.T) {
		t.Parallel()

		resp := c.Get(t, "/files/source/index.md")
		assert.Equal(t, http.StatusOK, resp.Status)
		assert.Equal(t, "# Reference", string(resp.Body))

		assert.Equal(t, http.StatusNotFound, c.Get(t, "/files/missing.md").Status)
	})

	t.Run("collection and environment", func(t *testing.T) {
		t.Parallel()

		resp := c.Get(t, "/collection.json")
		assert.Equal(t, http.StatusOK, resp.Status)
		assert.Equal(t, "application/json", resp.Headers.Get("Content-Type"))

		var env map[string]any
		c.Get(t, "/environment.json").JSON(t, &env)
		assert.Contains(t, env, "values")
	})

	t.Run("unknown path", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, http.StatusNotFound, c.Get(t, "/nope").Status)
	})
}

func TestPreview_empty(t *testing.T) {
	t.Parallel()

	r := apidoc.Preview(t.TempDir(), apidoc.PreviewOptions{Logger: quiet})
	resp := apidoctest.NewClient(t, r).Get(t, "/")
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Contains(t, string(resp.Body), "No documentation has been generated yet.")
	assert.Contains(t, string(resp.Body), "API Reference")
}

func TestPreview_rateLimited(t *testing.T) {
	t.Parallel()

	r := apidoc.Preview(t.TempDir(), apidoc.PreviewOptions{Logger: quiet, Rate: 1, Burst: 1})
	c := apidoctest.NewClient(t, r)

	assert.Equal(t, http.StatusOK, c.Get(t, "/").Status)
	resp := c.Get(t, "/")
	assert.Equal(t, http.StatusTooManyRequests, resp.Status)
	assert.Equal(t, "1", resp.Headers.Get("Retry-After"))
}
