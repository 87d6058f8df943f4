package http

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/3-lines-studio/monocle/internal/core"
	"github.com/3-lines-studio/monocle/internal/usecase"
)

// PreviewHandler serves deep links "<moduleURI>/<site>/<prototype>" as
// standalone preview pages.
type PreviewHandler struct {
	service   *usecase.PageService
	moduleURI string
	locales   []string
	isDev     bool
	logger    zerolog.Logger
}

func NewPreviewHandler(service *usecase.PageService, moduleURI string, locales []string, isDev bool, logger zerolog.Logger) http.Handler {
	return &PreviewHandler{
		service:   service,
		moduleURI: moduleURI,
		locales:   locales,
		isDev:     isDev,
		logger:    logger,
	}
}

func (h *PreviewHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
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

	output := h.service.ServePreview(req.Context(), usecase.PreviewPageInput{
		ModuleURI:   h.moduleURI,
		RequestPath: req.URL.Path,
		PropSet:     query.Get("propSet"),
		Props:       props,
		Locales:     locales,
	})

	if output.Error != nil {
		h.logger.Error().
			Str("path", req.URL.Path).
			Str("prototype", output.PrototypeName).
			Err(output.Error).
			Msg("preview failed")
		serveError(w, h.isDev, core.ErrorData{
			Heading:       "Preview failed",
			PrototypeName: output.PrototypeName,
			Message:       output.Error.Error(),
		})
		return
	}

	switch output.Action {
	case core.ActionRedirect:
		http.Redirect(w, req, output.RedirectURL, http.StatusFound)

	case core.ActionRenderPreview:
		serveHTML(w, output.HTML)

	default:
		h.logger.Debug().Str("path", req.URL.Path).AnErr("reason", output.NotFound).Msg("preview not found")
		http.NotFound(w, req)
	}
}
