package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"net/http"

	"github.com/3-lines-studio/monocle/internal/core"
)

func serveHTML(w http.ResponseWriter, html string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}

func serveBadRequest(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), http.StatusBadRequest)
}

// serveError renders the error page. The error message is only shown in dev
// mode.
func serveError(w http.ResponseWriter, isDev bool, data core.ErrorData) {
	data.IsDev = isDev

	var buf bytes.Buffer
	if err := core.ErrorTemplate.Execute(&buf, data); err != nil {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("<!doctype html><html><body><pre>" + html.EscapeString(data.Message) + "</pre></body></html>"))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write(buf.Bytes())
}

func parseProps(raw string) (map[string]any, error) {
	if raw == "" {
		return map[string]any{}, nil
	}
	var props map[string]any
	if err := json.Unmarshal([]byte(raw), &props); err != nil {
		return nil, fmt.Errorf("invalid props: %w", err)
	}
	if props == nil {
		props = map[string]any{}
	}
	return props, nil
}

func parseLocales(raw string, fallback []string) ([]string, error) {
	if raw == "" {
		return fallback, nil
	}
	var locales []string
	if err := json.Unmarshal([]byte(raw), &locales); err != nil {
		return nil, fmt.Errorf("invalid locales: %w", err)
	}
	return locales, nil
}
