package apidoc_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/apidoc"
)

func TestResource(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		container string
		handler   string
		expect    string
	}{
		"container wins":       {container: "@resource Users", handler: "@resource Other", expect: "Users"},
		"handler fallback":     {handler: "@resource Orders", expect: "Orders"},
		"first occurrence":     {container: "@resource A\n@resource B", expect: "A"},
		"default":              {expect: apidoc.DefaultResource},
		"empty resource skips": {container: "@resource", handler: "@resource Orders", expect: "Orders"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := apidoc.Resource(apidoc.ParseCommentBlock(tc.container), apidoc.ParseCommentBlock(tc.handler))
			assert.Equal(t, tc.expect, got)
		})
	}
}

func TestPresenceTags(t *testing.T) {
	t.Parallel()

	b := apidoc.ParseCommentBlock("Title\n@hideFromAPIDocumentation\n@unauthenticated")
	assert.True(t, apidoc.Hidden(b))
	assert.False(t, apidoc.Authenticated(b))

	empty := apidoc.CommentBlock{}
	assert.False(t, apidoc.Hidden(empty))
	assert.True(t, apidoc.Authenticated(empty))
}

func TestPermission(t *testing.T) {
	t.Parallel()

	b := apidoc.ParseCommentBlock("@permission   users.edit  \n@permission users.view")
	assert.Equal(t, "users.edit", apidoc.Permission(b))
	assert.Empty(t, apidoc.Permission(apidoc.CommentBlock{}))
}

func TestLiteralResponse(t *testing.T) {
	t.Parallel()

	t.Run("valid JSON", func(t *testing.T) {
		t.Parallel()

		body, ok, err := apidoc.LiteralResponse("[GET] users/{id}", apidoc.ParseCommentBlock(`@response {"id":1,"name":"Ada"}`))
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, map[string]any{"id": float64(1), "name": "Ada"}, body)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		t.Parallel()

		_, ok, err := apidoc.LiteralResponse("[GET] users", apidoc.ParseCommentBlock(`@response {"id":`))
		assert.True(t, ok)

		var pe *apidoc.ParseError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "[GET] users", pe.Route)
		assert.Equal(t, "response", pe.Field)
		assert.True(t, errors.Is(err, apidoc.ErrInvalidJSON))
	})

	t.Run("absent", func(t *testing.T) {
		t.Parallel()

		body, ok, err := apidoc.LiteralResponse("", apidoc.CommentBlock{})
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, body)
	})
}

func TestTransformerOf(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		raw    string
		expect apidoc.TransformerRef
		ok     bool
	}{
		"item": {
			raw:    `@transformer App\UserTransformer`,
			expect: apidoc.TransformerRef{Name: `App\UserTransformer`},
			ok:     true,
		},
		"collection with model": {
			raw:    "@transformerModel Account\n@transformerCollection Users",
			expect: apidoc.TransformerRef{Name: "Users", Collection: true, Model: "Account"},
			ok:     true,
		},
		"first of either kind": {
			raw:    "@transformerCollection A\n@transformer B",
			expect: apidoc.TransformerRef{Name: "A", Collection: true},
			ok:     true,
		},
		"empty name": {raw: "@transformer"},
		"absent":     {raw: "Title"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ref, ok := apidoc.TransformerOf(apidoc.ParseCommentBlock(tc.raw))
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expect, ref)
		})
	}
}
