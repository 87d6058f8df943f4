package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"slices"

	"github.com/rs/zerolog"

	"github.com/3-lines-studio/monocle/internal/core"
	"github.com/3-lines-studio/monocle/internal/usecase"
)

// APIHandler serves the data endpoints: items, viewports and single
// renderings.
type APIHandler struct {
	render  *usecase.RenderService
	catalog usecase.Catalog
	config  usecase.ConfigurationLookup
	locales []string
	isDev   bool
	logger  zerolog.Logger
}

func NewAPIHandler(render *usecase.RenderService, catalog usecase.Catalog, config usecase.ConfigurationLookup, locales []string, isDev bool, logger zerolog.Logger) *APIHandler {
	return &APIHandler{
		render:  render,
		catalog: catalog,
		config:  config,
		locales: locales,
		isDev:   isDev,
		logger:  logger,
	}
}

func (h *APIHandler) Health(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (h *APIHandler) Items(w http.ResponseWriter, req *http.Request) {
	site, ok := h.site(w, req)
	if !ok {
		return
	}

	objects, err := h.catalog.StyleguideObjects(req.Context(), site)
	if err != nil {
		h.logger.Error().Str("site", site).Err(err).Msg("failed to load styleguide objects")
		serveJSONError(w, statusFor(err), err)
		return
	}
	serveJSON(w, objects)
}

func (h *APIHandler) Viewports(w http.ResponseWriter, req *http.Request) {
	site, ok := h.site(w, req)
	if !ok {
		return
	}

	presets, err := h.config.SiteConfiguration(site, "ui", "viewportPresets")
	if err != nil {
		serveJSONError(w, http.StatusInternalServerError, err)
		return
	}
	if presets == nil {
		presets = map[string]any{}
	}
	serveJSON(w, presets)
}

func (h *APIHandler) Render(w http.ResponseWriter, req *http.Request) {
	site, ok := h.site(w, req)
	if !ok {
		return
	}

	query := req.URL.Query()
	props, err := parseProps(query.Get("props"))
	if err != nil {
		serveBadRequest(w, err)
		return
	}
	locales, err := parseLocales(query.Get("locales"), h.locales)
	if err != nil {
		serveBadRequest(w, err)
		return
	}
	propSet := query.Get("propSet")
	if propSet == "" {
		propSet = core.DefaultPropSet
	}

	name := query.Get("prototypeName")
	html, err := h.render.RenderPrototype(req.Context(), usecase.RenderInput{
		PrototypeName:  name,
		SitePackageKey: site,
		Props:          props,
		PropSet:        propSet,
		Locales:        locales,
	})
	if err != nil {
		h.logger.Error().Str("site", site).Str("prototype", name).Err(err).Msg("render failed")
		if name == "" {
			serveBadRequest(w, err)
			return
		}
		serveError(w, h.isDev, core.ErrorData{
			Heading:       "Rendering failed",
			PrototypeName: name,
			Message:       err.Error(),
		})
		return
	}
	serveHTML(w, html)
}

// site resolves the sitePackageKey query parameter, falling back to the
// default site.
func (h *APIHandler) site(w http.ResponseWriter, req *http.Request) (string, bool) {
	site := req.URL.Query().Get("sitePackageKey")
	if site == "" {
		def, err := h.config.DefaultSitePackageKey()
		if err != nil {
			serveJSONError(w, http.StatusNotFound, err)
			return "", false
		}
		return def, true
	}

	if !slices.Contains(h.config.SitePackageKeys(), site) {
		serveJSONError(w, http.StatusNotFound, core.ErrUnknownSite)
		return "", false
	}
	return site, true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrUnknownSite):
		return http.StatusNotFound
	case errors.Is(err, core.ErrRendererUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func serveJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(data)
}

func serveJSONError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"message": err.Error()},
	})
}
