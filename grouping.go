package apidoc

import (
	"slices"

	"github.com/samber/lo"
)

// RouteDocGroup is the set of routes documented under one resource name,
// in discovery order.
type RouteDocGroup struct {
	Name   string     `json:"name" yaml:"name"`
	Routes []RouteDoc `json:"routes" yaml:"routes"`
}

// GroupRoutes groups records by resource. Groups are ordered by name
// byte-wise; routes keep their discovery order. Records sharing an id
// (duplicate registrations) are all kept.
func GroupRoutes(docs []RouteDoc) []RouteDocGroup {
	byName := lo.GroupBy(docs, func(d RouteDoc) string { return d.Resource })

	names := lo.Keys(byName)
	slices.Sort(names)

	return lo.Map(names, func(name string, _ int) RouteDocGroup {
		return RouteDocGroup{Name: name, Routes: byName[name]}
	})
}
