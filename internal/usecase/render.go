package usecase

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/3-lines-studio/monocle/internal/core"
	"github.com/3-lines-studio/monocle/internal/observability"
)

type RenderInput struct {
	PrototypeName  string
	SitePackageKey string
	Props          map[string]any
	PropSet        string
	Locales        []string
}

type RenderService struct {
	renderer Renderer
	config   ConfigurationLookup
	fs       FileSystem
}

func NewRenderService(renderer Renderer, config ConfigurationLookup, fs FileSystem) *RenderService {
	return &RenderService{
		renderer: renderer,
		config:   config,
		fs:       fs,
	}
}

// RenderPrototype resolves the site's fusion root path (cli.fusionRootPath)
// and delegates to the rendering service.
func (s *RenderService) RenderPrototype(ctx context.Context, input RenderInput) (string, error) {
	if s.renderer == nil {
		return "", core.ErrRendererUnavailable
	}
	if input.PrototypeName == "" {
		return "", fmt.Errorf("missing prototype name")
	}

	fusionRootPath, err := s.fusionRootPath(input.SitePackageKey)
	if err != nil {
		return "", err
	}

	props := input.Props
	if props == nil {
		props = map[string]any{}
	}

	html, err := s.renderer.RenderPrototype(ctx, RenderRequest{
		PrototypeName:  input.PrototypeName,
		SitePackageKey: input.SitePackageKey,
		Props:          props,
		PropSet:        input.PropSet,
		Locales:        input.Locales,
		FusionRootPath: fusionRootPath,
	})
	observability.RecordRender(input.SitePackageKey, err == nil)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", input.PrototypeName, err)
	}
	return html, nil
}

func (s *RenderService) fusionRootPath(sitePackageKey string) (string, error) {
	if s.config == nil {
		return "", nil
	}
	value, err := s.config.SiteConfiguration(sitePackageKey, "cli", "fusionRootPath")
	if err != nil {
		return "", fmt.Errorf("failed to read fusion root path: %w", err)
	}
	path, _ := value.(string)
	return path, nil
}

// ExportRendering writes html to dir/filename, creating dir as needed.
func (s *RenderService) ExportRendering(html, dir, filename string) (string, error) {
	target := filepath.Join(dir, filename)
	if err := s.fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	if err := s.fs.WriteFile(target, []byte(html), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", target, err)
	}
	return target, nil
}
