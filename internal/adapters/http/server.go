// Package http exposes the styleguide over HTTP: data endpoints, single
// renderings and deep-linkable preview pages.
package http

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/3-lines-studio/monocle/internal/observability"
	"github.com/3-lines-studio/monocle/internal/usecase"
)

// Router is any mux that registers handlers by pattern.
type Router interface {
	Handle(pattern string, handler http.Handler)
}

type ServerDeps struct {
	Render    *usecase.RenderService
	Catalog   usecase.Catalog
	Config    usecase.ConfigurationLookup
	Pages     *usecase.PageService
	ModuleURI string
	Locales   []string
	IsDev     bool
	Logger    zerolog.Logger
}

// Register mounts every endpoint on router. A *http.ServeMux gets method
// patterns and "{path...}" subtrees; other routers get plain paths and "/*".
func Register(router Router, deps ServerDeps) {
	observability.RegisterMetrics()

	api := NewAPIHandler(deps.Render, deps.Catalog, deps.Config, deps.Locales, deps.IsDev, deps.Logger)
	preview := NewPreviewHandler(deps.Pages, deps.ModuleURI, deps.Locales, deps.IsDev, deps.Logger)

	_, isServeMux := router.(*http.ServeMux)
	method := ""
	subtree := "/*"
	if isServeMux {
		method = "GET "
		subtree = "/{path...}"
	}

	handle := func(path, route string, h http.Handler) {
		router.Handle(method+path, RequestLogger(deps.Logger, route, h))
	}

	handle("/health", "/health", http.HandlerFunc(api.Health))
	handle("/items", "/items", http.HandlerFunc(api.Items))
	handle("/viewports", "/viewports", http.HandlerFunc(api.Viewports))
	handle("/render", "/render", http.HandlerFunc(api.Render))
	router.Handle(method+"/metrics", promhttp.Handler())

	base := strings.Trim(deps.ModuleURI, "/")
	if base == "" {
		handle(subtree, "preview", preview)
		return
	}
	handle("/"+base, "preview", preview)
	handle("/"+base+subtree, "preview", preview)
}

func NewRouter(deps ServerDeps) *http.ServeMux {
	mux := http.NewServeMux()
	Register(mux, deps)
	return mux
}
