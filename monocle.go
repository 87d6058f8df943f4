// Package monocle mounts a living styleguide on an existing HTTP router.
// Prototypes are rendered by an external rendering service; per-site
// settings come from YAML files.
package monocle

import (
	iofs "io/fs"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/3-lines-studio/monocle/internal/adapters/env"
	"github.com/3-lines-studio/monocle/internal/adapters/fs"
	httpadapter "github.com/3-lines-studio/monocle/internal/adapters/http"
	"github.com/3-lines-studio/monocle/internal/adapters/rendersvc"
	"github.com/3-lines-studio/monocle/internal/adapters/siteconfig"
	"github.com/3-lines-studio/monocle/internal/usecase"
)

type Option func(*options)

type options struct {
	cfg      env.Config
	settings iofs.FS
	locales  []string
	logger   zerolog.Logger
}

// WithRendererURL sets the rendering service, an http(s) URL or
// "unix:///path/to/socket".
func WithRendererURL(url string) Option {
	return func(o *options) {
		o.cfg.RendererURL = url
	}
}

// WithModuleURI sets the path the previews are served under. Leading and
// trailing slashes are normalized.
func WithModuleURI(uri string) Option {
	return func(o *options) {
		o.cfg.ModuleURI = env.NormalizeModuleURI(uri)
	}
}

// WithSettings reads the settings files from fsys instead of the settings
// directory on disk. dir is relative to fsys.
func WithSettings(fsys iofs.FS, dir string) Option {
	return func(o *options) {
		o.settings = fsys
		o.cfg.SettingsDir = dir
	}
}

func WithDefaultSite(sitePackageKey string) Option {
	return func(o *options) {
		o.cfg.DefaultSite = sitePackageKey
	}
}

func WithLocales(locales ...string) Option {
	return func(o *options) {
		o.locales = locales
	}
}

func WithRenderTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.cfg.RenderTimeout = timeout
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

type App struct {
	deps httpadapter.ServerDeps
}

type router interface {
	http.Handler
	Handle(pattern string, handler http.Handler)
}

// New builds the styleguide from the MONOCLE_* environment, overridden by
// opts.
func New(opts ...Option) (*App, error) {
	o := &options{cfg: env.Load(), logger: zerolog.Nop()}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	var filesystem fs.FileSystem = fs.NewOSFileSystem()
	if o.settings != nil {
		filesystem = fs.NewReadOnlyFileSystem(o.settings)
	}

	config, err := siteconfig.New(filesystem, o.cfg.SettingsDir, o.cfg.DefaultSite)
	if err != nil {
		return nil, err
	}

	client, err := rendersvc.New(o.cfg.RendererURL, o.cfg.RenderTimeout)
	if err != nil {
		return nil, err
	}

	render := usecase.NewRenderService(client, config, filesystem)
	return &App{
		deps: httpadapter.ServerDeps{
			Render:    render,
			Catalog:   client,
			Config:    config,
			Pages:     usecase.NewPageService(render, client, config),
			ModuleURI: o.cfg.ModuleURI,
			Locales:   o.locales,
			IsDev:     o.cfg.Dev,
			Logger:    o.logger,
		},
	}, nil
}

// Wrap registers the styleguide routes on api and returns it.
func (a *App) Wrap(api router) http.Handler {
	if api == nil {
		panic("monocle: nil router passed to Wrap; use app.Handler()")
	}
	httpadapter.Register(api, a.deps)
	return api
}

func (a *App) Handler() http.Handler {
	return a.Wrap(http.NewServeMux())
}
