package main

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/3-lines-studio/monocle/internal/adapters/cli"
	"github.com/3-lines-studio/monocle/internal/adapters/env"
	"github.com/3-lines-studio/monocle/internal/adapters/fs"
	"github.com/3-lines-studio/monocle/internal/adapters/rendersvc"
	"github.com/3-lines-studio/monocle/internal/adapters/siteconfig"
	"github.com/3-lines-studio/monocle/internal/logging"
	"github.com/3-lines-studio/monocle/internal/usecase"
)

type app struct {
	cfg    env.Config
	logger zerolog.Logger
	output *cli.Output
	fs     *fs.OSFileSystem
	config *siteconfig.Service
}

func newApp(output *cli.Output) (*app, error) {
	cfg := env.Load()
	logger := logging.Init("monocle", cfg.Dev)
	filesystem := fs.NewOSFileSystem()

	config, err := siteconfig.New(filesystem, cfg.SettingsDir, cfg.DefaultSite)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	return &app{
		cfg:    cfg,
		logger: logger,
		output: output,
		fs:     filesystem,
		config: config,
	}, nil
}

func (a *app) client() (*rendersvc.Client, error) {
	if a.cfg.RendererURL == "" {
		return nil, fmt.Errorf("%s is not set", env.EnvRendererURL)
	}
	return rendersvc.New(a.cfg.RendererURL, a.cfg.RenderTimeout)
}

func (a *app) renderService(client *rendersvc.Client) *usecase.RenderService {
	return usecase.NewRenderService(client, a.config, a.fs)
}

// site returns packageKey, or the default site when empty.
func (a *app) site(packageKey string) (string, error) {
	if packageKey != "" {
		return packageKey, nil
	}
	return a.config.DefaultSitePackageKey()
}

func parseLocales(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	var locales []string
	if err := json.Unmarshal([]byte(raw), &locales); err != nil {
		return nil, fmt.Errorf("invalid --locales: %w", err)
	}
	return locales, nil
}

func parseProps(raw string) (map[string]any, error) {
	if raw == "" {
		return nil, nil
	}
	var props map[string]any
	if err := json.Unmarshal([]byte(raw), &props); err != nil {
		return nil, fmt.Errorf("invalid --props: %w", err)
	}
	return props, nil
}
