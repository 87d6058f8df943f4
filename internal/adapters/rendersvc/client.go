// Package rendersvc talks to the rendering service that owns the site
// packages: it renders prototypes and lists styleguide objects.
package rendersvc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/3-lines-studio/monocle/internal/core"
	"github.com/3-lines-studio/monocle/internal/usecase"
)

const unixScheme = "unix://"

// RenderError is an error reported by the rendering service.
type RenderError struct {
	Message string
	Stack   string
	Errors  []string
}

func (e *RenderError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)

	if len(e.Errors) > 0 {
		sb.WriteString("\n\nErrors:")
		for i, msg := range e.Errors {
			fmt.Fprintf(&sb, "\n  %d. %s", i+1, msg)
		}
	}

	if e.Stack != "" {
		fmt.Fprintf(&sb, "\n\nStack:\n%s", e.Stack)
	}
	return sb.String()
}

type Client struct {
	baseURL string
	client  *http.Client
}

// New creates a client for baseURL, either an http(s) URL or
// "unix:///path/to/socket".
func New(baseURL string, timeout time.Duration) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("missing renderer url")
	}

	if socket, ok := strings.CutPrefix(baseURL, unixScheme); ok {
		if socket == "" {
			return nil, fmt.Errorf("missing socket path in %s", baseURL)
		}
		transport := &http.Transport{
			DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				var d net.Dialer
				return d.DialContext(ctx, "unix", socket)
			},
		}
		return &Client{
			baseURL: "http://localhost",
			client:  &http.Client{Transport: transport, Timeout: timeout},
		}, nil
	}

	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		return nil, fmt.Errorf("unsupported renderer url %s", baseURL)
	}

	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}, nil
}

func (c *Client) RenderPrototype(ctx context.Context, req usecase.RenderRequest) (string, error) {
	body := map[string]any{
		"prototypeName":  req.PrototypeName,
		"sitePackageKey": req.SitePackageKey,
		"props":          req.Props,
		"propSet":        req.PropSet,
		"locales":        req.Locales,
		"fusionRootPath": req.FusionRootPath,
	}

	result, err := c.postJSON(ctx, "/render", body)
	if err != nil {
		return "", err
	}
	return result.Get("html").String(), nil
}

func (c *Client) StyleguideObjects(ctx context.Context, sitePackageKey string) (map[string]core.StyleguideObject, error) {
	result, err := c.postJSON(ctx, "/items", map[string]any{"sitePackageKey": sitePackageKey})
	if err != nil {
		return nil, err
	}

	items := result.Get("items")
	if !items.Exists() || items.Type == gjson.Null {
		return map[string]core.StyleguideObject{}, nil
	}
	if !items.IsObject() {
		return nil, fmt.Errorf("unexpected items payload for %s", sitePackageKey)
	}

	objects, err := core.ParseStyleguideObjects([]byte(items.Raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode items: %w", err)
	}
	return objects, nil
}

func (c *Client) postJSON(ctx context.Context, endpoint string, body any) (gjson.Result, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return gjson.Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return gjson.Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("%w: %v", core.ErrRendererUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to read %s response: %w", endpoint, err)
	}

	if !gjson.ValidBytes(data) {
		return gjson.Result{}, fmt.Errorf("%s: unexpected response (status %d)", endpoint, resp.StatusCode)
	}

	result := gjson.ParseBytes(data)
	if renderErr := decodeError(result.Get("error")); renderErr != nil {
		return gjson.Result{}, renderErr
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return gjson.Result{}, fmt.Errorf("%s: status %d", endpoint, resp.StatusCode)
	}
	return result, nil
}

func decodeError(value gjson.Result) *RenderError {
	if !value.Exists() || value.Type == gjson.Null {
		return nil
	}
	if value.Type == gjson.String {
		return &RenderError{Message: value.String()}
	}

	renderErr := &RenderError{
		Message: value.Get("message").String(),
		Stack:   value.Get("stack").String(),
	}
	for _, nested := range value.Get("errors").Array() {
		renderErr.Errors = append(renderErr.Errors, nested.Get("message").String())
	}
	if renderErr.Message == "" {
		renderErr.Message = "render service error"
	}
	return renderErr
}
