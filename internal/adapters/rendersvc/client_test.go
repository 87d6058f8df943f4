package rendersvc

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/3-lines-studio/monocle/internal/core"
	"github.com/3-lines-studio/monocle/internal/usecase"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(server.URL, time.Second)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	return client
}

func TestRenderPrototype(t *testing.T) {
	var received map[string]any
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/render" {
			t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&received)
		_, _ = w.Write([]byte(`{"html":"<button>Hi</button>"}`))
	})

	html, err := client.RenderPrototype(context.Background(), usecase.RenderRequest{
		PrototypeName:  "Vendor.Site:Button",
		SitePackageKey: "Vendor.Site",
		Props:          map[string]any{"label": "Hi"},
		PropSet:        "__default",
		Locales:        []string{"en"},
		FusionRootPath: "resource://Vendor.Site/Private/Fusion",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if html != "<button>Hi</button>" {
		t.Errorf("Unexpected html: %s", html)
	}

	if received["prototypeName"] != "Vendor.Site:Button" || received["sitePackageKey"] != "Vendor.Site" {
		t.Errorf("Unexpected request body: %v", received)
	}
	if received["fusionRootPath"] != "resource://Vendor.Site/Private/Fusion" {
		t.Errorf("Expected fusion root path in request, got %v", received["fusionRootPath"])
	}
}

func TestRenderPrototypeError(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"No template found","stack":"at Runtime.render","errors":[{"message":"path prototype/X"}]}}`))
	})

	_, err := client.RenderPrototype(context.Background(), usecase.RenderRequest{PrototypeName: "X"})

	var renderErr *RenderError
	if !errors.As(err, &renderErr) {
		t.Fatalf("Expected RenderError, got %v", err)
	}
	if renderErr.Message != "No template found" || renderErr.Stack != "at Runtime.render" {
		t.Errorf("Unexpected render error: %+v", renderErr)
	}
	if len(renderErr.Errors) != 1 || renderErr.Errors[0] != "path prototype/X" {
		t.Errorf("Unexpected nested errors: %v", renderErr.Errors)
	}
	if !strings.Contains(err.Error(), "1. path prototype/X") || !strings.Contains(err.Error(), "Stack:\nat Runtime.render") {
		t.Errorf("Unexpected error text: %s", err.Error())
	}
}

func TestRenderPrototypeStringError(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	})

	_, err := client.RenderPrototype(context.Background(), usecase.RenderRequest{PrototypeName: "X"})
	if err == nil || err.Error() != "boom" {
		t.Errorf("Expected 'boom', got %v", err)
	}
}

func TestRenderPrototypeInvalidResponse(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("bad gateway"))
	})

	if _, err := client.RenderPrototype(context.Background(), usecase.RenderRequest{PrototypeName: "X"}); err == nil {
		t.Error("Expected error for non-JSON response")
	}
}

func TestStyleguideObjects(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/items" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["sitePackageKey"] != "Vendor.Site" {
			t.Errorf("Unexpected site: %s", body["sitePackageKey"])
		}
		_, _ = w.Write([]byte(`{"items":{"Vendor.Site:Button":{"title":"Button","path":"button","propSets":["primary"]}}}`))
	})

	objects, err := client.StyleguideObjects(context.Background(), "Vendor.Site")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	button, ok := objects["Vendor.Site:Button"]
	if !ok {
		t.Fatalf("Expected Button object, got %v", objects)
	}
	if button.Title != "Button" || button.Path != "button" || len(button.PropSets) != 1 {
		t.Errorf("Unexpected object: %+v", button)
	}
}

func TestStyleguideObjectsEmpty(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":null}`))
	})

	objects, err := client.StyleguideObjects(context.Background(), "Vendor.Site")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(objects) != 0 {
		t.Errorf("Expected no objects, got %v", objects)
	}
}

func TestUnreachableRenderer(t *testing.T) {
	client, err := New("http://127.0.0.1:1", 100*time.Millisecond)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	_, err = client.StyleguideObjects(context.Background(), "Vendor.Site")
	if !errors.Is(err, core.ErrRendererUnavailable) {
		t.Errorf("Expected ErrRendererUnavailable, got %v", err)
	}
}

func TestUnixSocket(t *testing.T) {
	socket := filepath.Join(t.TempDir(), "render.sock")
	listener, err := net.Listen("unix", socket)
	if err != nil {
		t.Skipf("unix sockets not available: %v", err)
	}

	server := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"html":"ok"}`))
	}))
	server.Listener = listener
	server.Start()
	t.Cleanup(server.Close)

	client, err := New("unix://"+socket, time.Second)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	html, err := client.RenderPrototype(context.Background(), usecase.RenderRequest{PrototypeName: "X"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if html != "ok" {
		t.Errorf("Expected 'ok', got '%s'", html)
	}
}

func TestNewValidatesURL(t *testing.T) {
	for _, url := range []string{"", "unix://", "ftp://renderer"} {
		if _, err := New(url, time.Second); err == nil {
			t.Errorf("Expected error for '%s'", url)
		}
	}
}
