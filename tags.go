package apidoc

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TagKind is the closed set of annotations the generator understands.
type TagKind int

// Recognized tag kinds. TagUnknown covers every other annotation.
const (
	TagUnknown TagKind = iota
	TagResource
	TagHide
	TagUnauthenticated
	TagPermission
	TagBodyParam
	TagResponse
	TagTransformer
	TagTransformerCollection
	TagTransformerModel
)

// DefaultResource is the group used when no @resource tag is present.
const DefaultResource = "general"

var tagNames = map[string]TagKind{
	"resource":                 TagResource,
	"hidefromapidocumentation": TagHide,
	"unauthenticated":          TagUnauthenticated,
	"permission":               TagPermission,
	"bodyparam":                TagBodyParam,
	"response":                 TagResponse,
	"transformer":              TagTransformer,
	"transformercollection":    TagTransformerCollection,
	"transformermodel":         TagTransformerModel,
}

// kindOf maps a tag name to its kind, case-insensitively.
func kindOf(name string) TagKind {
	if k, ok := tagNames[strings.ToLower(name)]; ok {
		return k
	}
	return TagUnknown
}

// String returns the canonical tag name.
func (k TagKind) String() string {
	switch k {
	case TagResource:
		return "resource"
	case TagHide:
		return "hideFromAPIDocumentation"
	case TagUnauthenticated:
		return "unauthenticated"
	case TagPermission:
		return "permission"
	case TagBodyParam:
		return "bodyParam"
	case TagResponse:
		return "response"
	case TagTransformer:
		return "transformer"
	case TagTransformerCollection:
		return "transformerCollection"
	case TagTransformerModel:
		return "transformerModel"
	case TagUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("TagKind(%d)", int(k))
	}
}

// firstTag returns the first tag of any of the given kinds.
func firstTag(b CommentBlock, kinds ...TagKind) (Tag, bool) {
	for _, t := range b.Tags {
		for _, k := range kinds {
			if t.Kind == k {
				return t, true
			}
		}
	}
	return Tag{}, false
}

// hasTag reports whether the block carries a tag of the given kind.
func hasTag(b CommentBlock, kind TagKind) bool {
	_, ok := firstTag(b, kind)
	return ok
}

// Resource returns the group name: the container's first @resource, then
// the handler's, then DefaultResource.
func Resource(container, handler CommentBlock) string {
	for _, b := range []CommentBlock{container, handler} {
		if t, ok := firstTag(b, TagResource); ok && t.Content != "" {
			return t.Content
		}
	}
	return DefaultResource
}

// Hidden reports whether the route is excluded from documentation.
func Hidden(b CommentBlock) bool {
	return hasTag(b, TagHide)
}

// Authenticated reports whether the route requires an authenticated caller.
func Authenticated(b CommentBlock) bool {
	return !hasTag(b, TagUnauthenticated)
}

// Permission returns the first @permission content, or "".
func Permission(b CommentBlock) string {
	t, ok := firstTag(b, TagPermission)
	if !ok {
		return ""
	}
	return strings.TrimSpace(t.Content)
}

// LiteralResponse decodes the first @response tag as JSON. ok is false when
// no such tag exists.
func LiteralResponse(route string, b CommentBlock) (body any, ok bool, err error) {
	t, found := firstTag(b, TagResponse)
	if !found {
		return nil, false, nil
	}
	if err := json.Unmarshal([]byte(t.Content), &body); err != nil {
		return nil, true, &ParseError{
			Route: route,
			Field: "response",
			Err:   fmt.Errorf("%w: %w", ErrInvalidJSON, err),
		}
	}
	return body, true, nil
}

// TransformerRef names the transformation mapping used to synthesize an
// example response.
type TransformerRef struct {
	Name       string
	Collection bool
	Model      string
}

// TransformerOf returns the first @transformer or @transformerCollection tag
// and the optional @transformerModel override.
func TransformerOf(b CommentBlock) (TransformerRef, bool) {
	t, ok := firstTag(b, TagTransformer, TagTransformerCollection)
	if !ok || strings.TrimSpace(t.Content) == "" {
		return TransformerRef{}, false
	}
	ref := TransformerRef{
		Name:       strings.TrimSpace(t.Content),
		Collection: t.Kind == TagTransformerCollection,
	}
	if m, ok := firstTag(b, TagTransformerModel); ok {
		ref.Model = strings.TrimSpace(m.Content)
	}
	return ref, true
}
