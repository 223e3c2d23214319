package http

import (
	echo "github.com/labstack/echo/v4"
)

// Meta describes a route: its name, method, path templates and version.
type Meta struct {
	Name    string
	Method  string
	Paths   []string
	Version string
}

// Route pairs a descriptor with its handler.
type Route struct {
	Meta
	Handler echo.HandlerFunc
}

const ctxRouteMeta = "route.meta"

// RouteMetaFromCtx returns the descriptor of the matched route.
func RouteMetaFromCtx(c echo.Context) (Meta, bool) {
	m, ok := c.Get(ctxRouteMeta).(Meta)
	return m, ok
}

func withRouteMeta(m Meta) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(ctxRouteMeta, m)
			return next(c)
		}
	}
}

// registerRoutes adds every path of every route to g. The route's descriptor is
// put on the context before mws run.
func registerRoutes(g *echo.Group, routes []Route, mws ...echo.MiddlewareFunc) {
	for _, r := range routes {
		chain := make([]echo.MiddlewareFunc, 0, len(mws)+1)
		chain = append(chain, withRouteMeta(r.Meta))
		chain = append(chain, mws...)

		for _, p := range r.Paths {
			g.Add(r.Method, p, r.Handler, chain...)
		}
	}
}
