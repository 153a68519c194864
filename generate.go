package apidoc

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/gobwas/glob"
	"github.com/hashicorp/go-multierror"
	"github.com/samber/lo"
)

// Filter selects the routes to document. A route is selected when its name
// is listed in Names or its URI matches one of the Prefixes globs ("*"
// matches any run of characters, "/" included). At least one of the two
// must be set.
type Filter struct {
	Prefixes []string
	Names    []string
}

// ParsePrefixes splits a comma-separated prefix option.
func ParsePrefixes(s string) []string {
	return lo.Compact(lo.Map(strings.Split(s, ","), func(p string, _ int) string {
		return strings.TrimSpace(p)
	}))
}

type compiledFilter struct {
	names []string
	globs []glob.Glob
}

func (f Filter) compile() (compiledFilter, error) {
	prefixes := lo.Compact(f.Prefixes)
	names := lo.Compact(f.Names)
	if len(prefixes) == 0 && len(names) == 0 {
		return compiledFilter{}, &ConfigurationError{
			Reason: "provide either a route prefix or route names",
			Err:    ErrNoFilter,
		}
	}

	cf := compiledFilter{names: names}
	for _, p := range prefixes {
		g, err := glob.Compile(p)
		if err != nil {
			return compiledFilter{}, &ConfigurationError{Reason: fmt.Sprintf("route prefix %q", p), Err: err}
		}
		cf.globs = append(cf.globs, g)
	}
	return cf, nil
}

func (cf compiledFilter) match(ref RouteRef) bool {
	if ref.Name != "" && slices.Contains(cf.names, ref.Name) {
		return true
	}
	bare := strings.TrimPrefix(ref.URI, "/")
	for _, g := range cf.globs {
		if g.Match(ref.URI) || g.Match(bare) {
			return true
		}
	}
	return false
}

// Outcome records what happened to one selected route.
type Outcome struct {
	Route   RouteRef
	Skipped bool
	Reason  string
}

// Result is the output of a generation run.
type Result struct {
	Groups   []RouteDocGroup
	Outcomes []Outcome

	errs *multierror.Error
}

// Processed returns the number of documented routes.
func (r *Result) Processed() int {
	return lo.CountBy(r.Outcomes, func(o Outcome) bool { return !o.Skipped })
}

// Skipped returns the routes that were left out, with reasons.
func (r *Result) Skipped() []Outcome {
	return lo.Filter(r.Outcomes, func(o Outcome, _ int) bool { return o.Skipped })
}

// Err returns every per-route problem of the run, or nil. These never abort
// a run; callers decide whether to report or fail on them.
func (r *Result) Err() error {
	return r.errs.ErrorOrNil()
}

// Generator runs the documentation pipeline over a route table.
type Generator struct {
	table    RouteTable
	comments CommentSource
	values   ValueGenerator
	resolver *Resolver
	logger   *slog.Logger
	actingAs string
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithLogger sets the logger for per-route progress and warnings.
func WithLogger(l *slog.Logger) GeneratorOption {
	return func(g *Generator) {
		g.logger = l
	}
}

// WithValueGenerator sets the example value generator.
func WithValueGenerator(v ValueGenerator) GeneratorOption {
	return func(g *Generator) {
		g.values = v
	}
}

// WithResolver sets the example response resolver.
func WithResolver(r *Resolver) GeneratorOption {
	return func(g *Generator) {
		g.resolver = r
	}
}

// WithActingAsID sets the identity passed to model providers and
// transformers.
func WithActingAsID(id string) GeneratorOption {
	return func(g *Generator) {
		g.actingAs = id
	}
}

// NewGenerator creates a Generator. comments may be nil, in which case every
// route is documented without description or tags.
func NewGenerator(table RouteTable, comments CommentSource, opts ...GeneratorOption) *Generator {
	if comments == nil {
		comments = MapSource{}
	}
	g := &Generator{
		table:    table,
		comments: comments,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.values == nil {
		g.values = NewFaker(FakerConfig{})
	}
	if g.resolver == nil {
		g.resolver = NewResolver(nil, nil)
	}
	return g
}

// Generate documents every route selected by f. Only configuration errors
// and route table failures are returned; problems with single routes are
// logged, recorded on the route and collected in Result.Err.
func (g *Generator) Generate(ctx context.Context, f Filter) (*Result, error) {
	cf, err := f.compile()
	if err != nil {
		return nil, err
	}

	refs, err := g.table.Routes(ctx)
	if err != nil {
		return nil, fmt.Errorf("read route table: %w", err)
	}

	ctx = WithActingAs(ctx, g.actingAs)
	res := &Result{}
	var docs []RouteDoc

	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !cf.match(ref) {
			continue
		}

		doc, reason := g.process(ctx, ref, res)
		if reason != "" {
			g.logger.WarnContext(ctx, "skipping route", slog.String("route", ref.String()), slog.String("reason", reason))
			res.Outcomes = append(res.Outcomes, Outcome{Route: ref, Skipped: true, Reason: reason})
			continue
		}

		g.logger.InfoContext(ctx, "processed route", slog.String("route", ref.String()))
		res.Outcomes = append(res.Outcomes, Outcome{Route: ref})
		docs = append(docs, doc)
	}

	res.Groups = GroupRoutes(docs)
	g.logger.InfoContext(ctx, "generation finished",
		slog.Int("processed", res.Processed()),
		slog.Int("skipped", len(res.Skipped())),
	)
	return res, nil
}

// process documents one route. A non-empty reason means the route was
// skipped. Panics are contained to the route.
func (g *Generator) process(ctx context.Context, ref RouteRef, res *Result) (doc RouteDoc, reason string) {
	defer func() {
		if rec := recover(); rec != nil {
			err := fmt.Errorf("route %s: panic: %v", ref, rec)
			res.errs = multierror.Append(res.errs, err)
			doc, reason = RouteDoc{}, err.Error()
		}
	}()

	if ref.Handler == "" {
		return RouteDoc{}, "no handler to document"
	}

	block, _ := g.comments.Comment(ref.Handler)
	if Hidden(block) {
		return RouteDoc{}, "hidden from documentation"
	}
	container, _ := g.comments.ContainerComment(ref.Handler)

	name := ref.String()
	params, errs := BodyParams(name, block, g.values)
	resp, rerrs := g.resolver.Resolve(ctx, name, block)
	errs = append(errs, rerrs...)

	var warnings []string
	for _, err := range errs {
		g.logger.WarnContext(ctx, "degraded route", slog.String("route", name), slog.Any("err", err))
		warnings = append(warnings, err.Error())
		res.errs = multierror.Append(res.errs, err)
	}

	return Assemble(ref, container, block, params, resp, warnings), ""
}
