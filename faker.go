package apidoc

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
)

// FakerConfig configures example value generation. It is passed in
// explicitly; the generator never reads process-wide settings.
type FakerConfig struct {
	Seed   uint64 // 0 picks a random seed
	Locale string // reported to exporters; gofakeit data is English only
	IntMin int    // lower bound for "integer" (default 1)
	IntMax int    // upper bound for "integer" (default 11)
}

// Faker produces example values for documented parameters. Values are not
// stable across runs unless a seed is configured; they always conform to
// the declared type.
type Faker struct {
	cfg      FakerConfig
	faker    *gofakeit.Faker
	builtins map[string]func() any
	emails   map[string]struct{}
}

// NewFaker creates a Faker.
func NewFaker(cfg FakerConfig) *Faker {
	if cfg.IntMin == 0 && cfg.IntMax == 0 {
		cfg.IntMin, cfg.IntMax = 1, 11
	}
	if cfg.IntMax < cfg.IntMin {
		cfg.IntMin, cfg.IntMax = cfg.IntMax, cfg.IntMin
	}
	if cfg.Locale == "" {
		cfg.Locale = "en"
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	f := &Faker{
		cfg:    cfg,
		faker:  gofakeit.New(seed),
		emails: make(map[string]struct{}),
	}
	f.builtins = map[string]func() any{
		"integer":  func() any { return f.faker.IntRange(f.cfg.IntMin, f.cfg.IntMax) },
		"number":   f.float,
		"float":    f.float,
		"boolean":  func() any { return f.faker.Bool() },
		"string":   func() any { return f.faker.JobTitle() },
		"text":     func() any { return f.faker.Paragraph(1, 3, 10, " ") },
		"html":     func() any { return "<p>" + f.faker.Paragraph(2, 3, 10, "</p><p>") + "</p>" },
		"array":    func() any { return "[]" },
		"object":   func() any { return "{}" },
		"email":    func() any { return f.uniqueEmail() },
		"password": func() any { return f.faker.Password(true, true, true, false, false, 10) },
		"name":     func() any { return f.faker.Name() },
		"token":    func() any { return f.faker.Password(true, true, true, false, false, 60) },
		"file":     func() any { return FilePlaceholder },
	}
	return f
}

// FilePlaceholder is the example value of file parameters.
const FilePlaceholder = "{file}"

// Locale returns the configured locale.
func (f *Faker) Locale() string { return f.cfg.Locale }

// Bounds returns the configured integer range.
func (f *Faker) Bounds() (int, int) { return f.cfg.IntMin, f.cfg.IntMax }

// Generate returns an example value for a parameter of type typ. A
// directive of the form "name(a,b)" calls a named gofakeit generator with
// positional arguments and "static(v)" returns v. A custom type without a
// directive is tried as a generator name.
//
// Generation never fails: when a generator cannot run, the type's built-in
// generator (or the string generator) supplies the value and the returned
// *GeneratorError says why.
func (f *Faker) Generate(typ, directive string) (any, error) {
	typ = NormalizeType(typ)
	if directive == "" {
		if gen, ok := f.builtins[typ]; ok {
			return gen(), nil
		}
		directive = typ
	}

	v, err := f.invoke(directive)
	if err != nil {
		return f.fallback(typ), &GeneratorError{Generator: directive, Err: err}
	}
	return v, nil
}

func (f *Faker) fallback(typ string) any {
	if gen, ok := f.builtins[typ]; ok {
		return gen()
	}
	return f.builtins["string"]()
}

func (f *Faker) invoke(directive string) (v any, err error) {
	name, args := parseDirective(directive)
	if name == "static" {
		return strings.Join(args, ","), nil
	}

	if builtin, ok := f.builtins[strings.ToLower(name)]; ok && len(args) == 0 {
		return builtin(), nil
	}

	info := gofakeit.GetFuncLookup(strings.ToLower(name))
	if info == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGenerator, name)
	}
	if len(args) > len(info.Params) {
		return nil, fmt.Errorf("%s takes %d arguments, got %d", name, len(info.Params), len(args))
	}

	params := gofakeit.NewMapParams()
	for i, a := range args {
		params.Add(info.Params[i].Field, coerceArg(a))
	}

	defer func() {
		if rec := recover(); rec != nil {
			v, err = nil, fmt.Errorf("%s panicked: %v", name, rec)
		}
	}()
	return info.Generate(f.faker, params, info)
}

func (f *Faker) float() any {
	return math.Round(f.faker.Float64Range(0, 1000)*100) / 100
}

func (f *Faker) uniqueEmail() string {
	for range 32 {
		e := f.faker.Email()
		if _, seen := f.emails[e]; !seen {
			f.emails[e] = struct{}{}
			return e
		}
	}
	e := fmt.Sprintf("user%d@example.com", len(f.emails)+1)
	f.emails[e] = struct{}{}
	return e
}

// parseDirective splits "name(a,b)" into name and arguments. A bare name
// has no arguments.
func parseDirective(d string) (string, []string) {
	d = strings.TrimSpace(d)
	name, rest, ok := strings.Cut(d, "(")
	if !ok {
		return d, nil
	}
	rest = strings.TrimSuffix(rest, ")")
	if name == "static" {
		return name, []string{rest}
	}
	if strings.TrimSpace(rest) == "" {
		return strings.TrimSpace(name), nil
	}
	args := strings.Split(rest, ",")
	for i := range args {
		args[i] = strings.TrimSpace(args[i])
	}
	return strings.TrimSpace(name), args
}

// coerceArg normalizes boolean literals and strips surrounding quotes.
func coerceArg(a string) string {
	switch strings.ToLower(a) {
	case "true":
		return "true"
	case "false":
		return "false"
	}
	return strings.Trim(a, `"'`)
}

// isDirective reports whether tok has the "name(args)" shape.
func isDirective(tok string) bool {
	open := strings.IndexByte(tok, '(')
	if open <= 0 || !strings.HasSuffix(tok, ")") {
		return false
	}
	for _, r := range tok[:open] {
		if r != '_' && (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
