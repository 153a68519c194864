package apidoc

// Test-only exports for internal functions.
var (
	CommentLines     = commentLines
	SplitDescription = splitDescription
	ParseDirective   = parseDirective
	IsDirective      = isDirective
	RouteBlocks      = routeBlocks
	AuthLifecycle    = authLifecycle
	ParamsJSON       = paramsJSON
)

// BodyParamSpec mirrors bodyParamSpec for external tests.
type BodyParamSpec struct {
	Name        string
	Type        string
	Directive   string
	Required    bool
	Conflict    bool
	Description string
}

// ParseBodyParam delegates to parseBodyParam.
func ParseBodyParam(content string) (BodyParamSpec, error) {
	s, err := parseBodyParam(content)
	return BodyParamSpec{
		Name:        s.name,
		Type:        s.typ,
		Directive:   s.directive,
		Required:    s.required,
		Conflict:    s.conflict,
		Description: s.description,
	}, err
}

// Matches compiles the filter and matches ref against it.
func (f Filter) Matches(ref RouteRef) (bool, error) {
	cf, err := f.compile()
	if err != nil {
		return false, err
	}
	return cf.match(ref), nil
}
