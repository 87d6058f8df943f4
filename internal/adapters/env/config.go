// Package env reads the process configuration from MONOCLE_* variables.
package env

import (
	"os"
	"strings"
	"time"
)

const (
	EnvDev           = "MONOCLE_DEV"
	EnvRendererURL   = "MONOCLE_RENDERER_URL"
	EnvModuleURI     = "MONOCLE_MODULE_URI"
	EnvSettingsDir   = "MONOCLE_SETTINGS_DIR"
	EnvListen        = "MONOCLE_LISTEN"
	EnvDefaultSite   = "MONOCLE_DEFAULT_SITE"
	EnvRenderTimeout = "MONOCLE_RENDER_TIMEOUT"
)

const (
	DefaultModuleURI     = "/monocle"
	DefaultSettingsDir   = "Configuration"
	DefaultListen        = ":8080"
	DefaultRenderTimeout = 30 * time.Second
)

type Config struct {
	Dev           bool
	RendererURL   string
	ModuleURI     string
	SettingsDir   string
	Listen        string
	DefaultSite   string
	RenderTimeout time.Duration
}

func Load() Config {
	return LoadFrom(os.Getenv)
}

func LoadFrom(getenv func(string) string) Config {
	cfg := Config{
		Dev:           getenv(EnvDev) == "1",
		RendererURL:   strings.TrimSpace(getenv(EnvRendererURL)),
		ModuleURI:     DefaultModuleURI,
		SettingsDir:   DefaultSettingsDir,
		Listen:        DefaultListen,
		DefaultSite:   strings.TrimSpace(getenv(EnvDefaultSite)),
		RenderTimeout: DefaultRenderTimeout,
	}

	if v := strings.TrimSpace(getenv(EnvModuleURI)); v != "" {
		cfg.ModuleURI = NormalizeModuleURI(v)
	}
	if v := strings.TrimSpace(getenv(EnvSettingsDir)); v != "" {
		cfg.SettingsDir = v
	}
	if v := strings.TrimSpace(getenv(EnvListen)); v != "" {
		cfg.Listen = v
	}
	if v := strings.TrimSpace(getenv(EnvRenderTimeout)); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.RenderTimeout = d
		}
	}
	return cfg
}

// NormalizeModuleURI returns uri with exactly one leading slash and no
// trailing slash. An empty uri yields DefaultModuleURI.
func NormalizeModuleURI(uri string) string {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return DefaultModuleURI
	}
	return "/" + strings.Trim(uri, "/")
}
