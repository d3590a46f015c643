package tgrouter

import (
	"context"
)

type RouteGroup interface {
	Route
	Use(middlewares ...Middleware)
}

// NewGroup bundles routes behind a shared filter. The first matching route
// handles the update, wrapped by the group middlewares.
func NewGroup(filter FilterMatcher, routes ...Route) RouteGroup {
	if filter == nil {
		filter = Any()
	}
	return &routeGroup{
		filter: filter,
		routes: routes,
	}
}

type routeGroup struct {
	filter      FilterMatcher
	routes      []Route
	middlewares []Middleware
}

func (g *routeGroup) Handle(ctx context.Context, u *Update) error {
	for _, route := range g.routes {
		if !route.Match(u) {
			continue
		}
		var h Handler = route
		for i := len(g.middlewares) - 1; i >= 0; i-- {
			h = g.middlewares[i](h)
		}
		return h.Handle(ctx, u)
	}
	return ErrRouteNotFound
}

func (g *routeGroup) Match(u *Update) bool {
	return g.filter.Match(u)
}

func (g *routeGroup) Use(middlewares ...Middleware) {
	g.middlewares = append(g.middlewares, middlewares...)
}
