package usecase

import (
	"context"
	"errors"
	iofs "io/fs"
	"sync"

	"github.com/3-lines-studio/monocle/internal/core"
)

type fakeRenderer struct {
	mu       sync.Mutex
	requests []RenderRequest
	fail     map[string]error
}

func (r *fakeRenderer) RenderPrototype(_ context.Context, req RenderRequest) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.requests = append(r.requests, req)
	if err, ok := r.fail[req.PrototypeName]; ok {
		return "", err
	}
	return "<div>" + req.SitePackageKey + "/" + req.PrototypeName + ":" + req.PropSet + "</div>", nil
}

type fakeCatalog struct {
	sites map[string]map[string]core.StyleguideObject
	err   error
	loads []string
}

func (c *fakeCatalog) StyleguideObjects(_ context.Context, sitePackageKey string) (map[string]core.StyleguideObject, error) {
	c.loads = append(c.loads, sitePackageKey)
	if c.err != nil {
		return nil, c.err
	}
	objects, ok := c.sites[sitePackageKey]
	if !ok {
		return nil, core.ErrUnknownSite
	}
	return objects, nil
}

func newCatalog() *fakeCatalog {
	return &fakeCatalog{sites: map[string]map[string]core.StyleguideObject{
		"Vendor.Site": {
			"Vendor.Site:Button": {Title: "Button", Path: "button", PropSets: []string{"primary"}},
			"Vendor.Site:Card":   {Title: "Card", Path: "card"},
		},
		"Vendor.Other": {
			"Vendor.Other:Teaser": {Title: "Teaser", Path: "teaser"},
		},
	}}
}

type fakeConfig struct {
	values  map[string]any
	sites   []string
	err     error
	lookups [][]string
}

func (c *fakeConfig) SiteConfiguration(sitePackageKey string, path ...string) (any, error) {
	c.lookups = append(c.lookups, append([]string{sitePackageKey}, path...))
	if c.err != nil {
		return nil, c.err
	}
	return c.values[sitePackageKey], nil
}

func (c *fakeConfig) SitePackageKeys() []string {
	return c.sites
}

func (c *fakeConfig) DefaultSitePackageKey() (string, error) {
	if len(c.sites) == 0 {
		return "", core.ErrUnknownSite
	}
	return c.sites[0], nil
}

type memFS struct {
	files map[string][]byte
	dirs  []string
	err   error
}

func newMemFS() *memFS {
	return &memFS{files: map[string][]byte{}}
}

func (m *memFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, iofs.ErrNotExist
	}
	return data, nil
}

func (m *memFS) ReadDir(string) ([]iofs.DirEntry, error) {
	return nil, errors.New("not supported")
}

func (m *memFS) FileExists(path string) bool {
	_, ok := m.files[path]
	return ok
}

func (m *memFS) WriteFile(path string, data []byte, _ iofs.FileMode) error {
	if m.err != nil {
		return m.err
	}
	m.files[path] = data
	return nil
}

func (m *memFS) MkdirAll(path string, _ iofs.FileMode) error {
	m.dirs = append(m.dirs, path)
	return nil
}

type fakeOutput struct {
	headers   []string
	files     []string
	warnings  int
	successes int
}

func (o *fakeOutput) PrintHeader(msg string) { o.headers = append(o.headers, msg) }
func (o *fakeOutput) PrintStep(emoji, msg string, args ...any) {}
func (o *fakeOutput) PrintSuccess(msg string, args ...any) { o.successes++ }
func (o *fakeOutput) PrintWarning(msg string, args ...any) { o.warnings++ }
func (o *fakeOutput) PrintError(msg string, args ...any) {}
func (o *fakeOutput) PrintFile(path string) { o.files = append(o.files, path) }
func (o *fakeOutput) PrintDone(msg string) {}

type fakeDocument struct {
	title string
}

func (d *fakeDocument) SetTitle(title string) {
	d.title = title
}

func (d *fakeDocument) Title() string {
	return d.title
}
