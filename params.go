package apidoc

import (
	"fmt"
	"strings"
)

// Parameter is one documented body parameter.
type Parameter struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Required    bool   `json:"required" yaml:"required"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Value       any    `json:"value" yaml:"value"`
}

// ValueGenerator produces example values. *Faker implements it.
type ValueGenerator interface {
	Generate(typ, directive string) (any, error)
}

var typeAliases = map[string]string{
	"int":    "integer",
	"bool":   "boolean",
	"double": "float",
}

// NormalizeType maps short type names to their canonical form. An empty
// type is "string"; unknown types are kept (lower-cased) as custom types.
func NormalizeType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	if t == "" {
		return "string"
	}
	if canon, ok := typeAliases[t]; ok {
		return canon
	}
	return t
}

// BodyParams interprets every @bodyParam tag of a block. The grammar is
//
//	<name> <type> [<directive>] [required|optional] <description...>
//
// A name wrapped in brackets is optional and the brackets win over an
// explicit "required" keyword (the conflict is reported). Otherwise the
// "optional" keyword makes a parameter optional and everything else is
// required. A later parameter with the same name replaces the earlier one
// in place.
//
// Malformed tags are dropped and reported; errors never stop the others
// from being parsed.
func BodyParams(route string, b CommentBlock, gen ValueGenerator) ([]Parameter, []error) {
	var (
		params []Parameter
		errs   []error
		index  = make(map[string]int)
	)

	for _, t := range b.Tags {
		if t.Kind != TagBodyParam {
			continue
		}

		spec, err := parseBodyParam(t.Content)
		if err != nil {
			errs = append(errs, &ParseError{Route: route, Field: spec.field(), Err: err})
			continue
		}
		if spec.conflict {
			errs = append(errs, &ParseError{Route: route, Field: spec.field(), Err: ErrConflictingMarkers})
		}

		value, err := gen.Generate(spec.typ, spec.directive)
		if err != nil {
			errs = append(errs, fmt.Errorf("route %s: bodyParam %s: %w", route, spec.name, err))
		}

		p := Parameter{
			Name:        spec.name,
			Type:        spec.typ,
			Required:    spec.required,
			Description: spec.description,
			Value:       value,
		}
		if i, ok := index[p.Name]; ok {
			params[i] = p
			continue
		}
		index[p.Name] = len(params)
		params = append(params, p)
	}

	return params, errs
}

type bodyParamSpec struct {
	name        string
	typ         string
	directive   string
	required    bool
	conflict    bool
	description string
}

func (s bodyParamSpec) field() string {
	if s.name == "" {
		return "bodyParam"
	}
	return "bodyParam " + s.name
}

func parseBodyParam(content string) (bodyParamSpec, error) {
	var spec bodyParamSpec

	tokens := strings.Fields(content)
	if len(tokens) == 0 {
		return spec, ErrMissingType
	}

	name := tokens[0]
	bracketed := len(name) > 2 && strings.HasPrefix(name, "[") && strings.HasSuffix(name, "]")
	spec.name = strings.Trim(name, "[]")

	if len(tokens) < 2 || isRequiredKeyword(tokens[1]) || isDirective(tokens[1]) {
		return spec, ErrMissingType
	}
	spec.typ = NormalizeType(tokens[1])

	rest := tokens[2:]
	if len(rest) > 0 && startsDirective(rest[0]) {
		if end := directiveEnd(rest); end >= 0 {
			spec.directive = strings.Join(rest[:end+1], " ")
			rest = rest[end+1:]
		}
	}

	keyword := ""
	if len(rest) > 0 && isRequiredKeyword(rest[0]) {
		keyword = strings.ToLower(rest[0])
		rest = rest[1:]
	}

	switch {
	case bracketed:
		spec.required = false
		spec.conflict = keyword == "required"
	case keyword == "optional":
		spec.required = false
	default:
		spec.required = true
	}

	spec.description = strings.Join(rest, " ")
	return spec, nil
}

func isRequiredKeyword(tok string) bool {
	switch strings.ToLower(tok) {
	case "required", "optional":
		return true
	}
	return false
}

// startsDirective reports whether tok opens a "name(" directive, which may
// continue over following tokens for static values containing spaces.
func startsDirective(tok string) bool {
	if isDirective(tok) {
		return true
	}
	open := strings.IndexByte(tok, '(')
	return open > 0 && isDirective(tok[:open+1]+")")
}

// directiveEnd returns the index of the token closing the directive opened
// by tokens[0], or -1 when it is never closed.
func directiveEnd(tokens []string) int {
	if strings.HasSuffix(tokens[0], ")") {
		return 0
	}
	for i, tok := range tokens[1:] {
		if strings.Contains(tok, "(") {
			return -1
		}
		if strings.HasSuffix(tok, ")") {
			return i + 1
		}
	}
	return -1
}
