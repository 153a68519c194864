package apidoc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/apidoc"
	"github.com/bjaus/apidoc/apidoctest"
)

const handlersGo = `package handlers

// UserController serves users.
//
// @resource Users
type UserController struct{}

// Show a user.
//
// @response {"id": 1}
func (c *UserController) Show() {}

// Generic is documented through its base name.
type Repo[T any] struct{}

// List items.
func (r Repo[T]) List() {}

// Ping answers health checks.
// @unauthenticated
func Ping() {}

func undocumented() {}
`

func TestGoSource(t *testing.T) {
	t.Parallel()

	dir := apidoctest.WriteTree(t, map[string]string{
		"handlers/users.go":        handlersGo,
		"handlers/users_test.go":   "package handlers\n\n// Test only.\nfunc Hidden() {}\n",
		"vendor/x/x.go":            "package x\n\n// Vendored.\nfunc Vendored() {}\n",
		"testdata/y.go":            "package y\n\n// Fixture.\nfunc Fixture() {}\n",
		"handlers/notes/readme.md": "not go",
	})

	src, err := apidoc.NewGoSource(dir)
	require.NoError(t, err)
	assert.Equal(t, 3, src.Handlers())

	show, ok := src.Comment("UserController.Show")
	require.True(t, ok)
	assert.Equal(t, "Show a user.", show.Short)
	body, shown, err := apidoc.LiteralResponse("", show)
	require.NoError(t, err)
	assert.True(t, shown)
	assert.Equal(t, map[string]any{"id": float64(1)}, body)

	container, ok := src.ContainerComment("UserController.Show")
	require.True(t, ok)
	assert.Equal(t, "Users", apidoc.Resource(container, show))

	list, ok := src.Comment("Repo.List")
	require.True(t, ok)
	assert.Equal(t, "List items.", list.Short)

	ping, ok := src.Comment("Ping")
	require.True(t, ok)
	assert.False(t, apidoc.Authenticated(ping))

	for _, id := range []apidoc.HandlerID{"undocumented", "Hidden", "Vendored", "Fixture"} {
		_, ok := src.Comment(id)
		assert.False(t, ok, id)
	}
}

func TestGoSource_parseError(t *testing.T) {
	t.Parallel()

	dir := apidoctest.WriteTree(t, map[string]string{"bad.go": "package bad\nfunc {"})
	_, err := apidoc.NewGoSource(dir)
	assert.ErrorContains(t, err, "bad.go")
}

func TestSources(t *testing.T) {
	t.Parallel()

	first := apidoctest.NewSource(map[apidoc.HandlerID]string{"A.x": "From first."})
	second := apidoctest.NewSource(map[apidoc.HandlerID]string{"A.x": "From second.", "B.y": "Only second."})
	second.Containers["A"] = "@resource Alpha"

	src := apidoc.Sources{first, second}

	b, ok := src.Comment("A.x")
	require.True(t, ok)
	assert.Equal(t, "From first.", b.Short)

	b, ok = src.Comment("B.y")
	require.True(t, ok)
	assert.Equal(t, "Only second.", b.Short)

	c, ok := src.ContainerComment("A.x")
	require.True(t, ok)
	assert.Equal(t, "Alpha", apidoc.Resource(c, apidoc.CommentBlock{}))

	_, ok = src.Comment("C.z")
	assert.False(t, ok)
}

func TestGoSource_longDescription(t *testing.T) {
	t.Parallel()

	dir := apidoctest.WriteTree(t, map[string]string{
		"profile.go": `package handlers

type ProfileController struct{}

// Show a profile.
//
// Example:
//
//	curl -s /users/1 \
//	  -H 'Accept: application/json'
//
// *Note*: cached for 5 minutes.
func (c *ProfileController) Show() {}
`,
	})

	src, err := apidoc.NewGoSource(dir)
	require.NoError(t, err)

	b, ok := src.Comment("ProfileController.Show")
	require.True(t, ok)
	assert.Equal(t, "Show a profile.", b.Short)
	assert.Equal(t, "Example:\n\n\tcurl -s /users/1 \\\n\t  -H 'Accept: application/json'\n\n*Note*: cached for 5 minutes.", b.Long)
}
