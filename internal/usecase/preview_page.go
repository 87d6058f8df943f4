package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/3-lines-studio/monocle/internal/core"
)

type PreviewPageInput struct {
	ModuleURI   string
	RequestPath string
	PropSet     string
	Props       map[string]any
	Locales     []string
}

type PreviewPageOutput struct {
	Action        core.PageAction
	HTML          string
	RedirectURL   string
	PrototypeName string
	// NotFound says why a request resolved to ActionNotFound.
	NotFound error
	Error    error
}

// PageService serves deep links into the styleguide as standalone pages.
type PageService struct {
	render  *RenderService
	catalog Catalog
	config  ConfigurationLookup
}

func NewPageService(render *RenderService, catalog Catalog, config ConfigurationLookup) *PageService {
	return &PageService{
		render:  render,
		catalog: catalog,
		config:  config,
	}
}

func (s *PageService) ServePreview(ctx context.Context, input PreviewPageInput) PreviewPageOutput {
	intent, matched := core.ParseRoutePath(input.ModuleURI, input.RequestPath)

	req := core.PageRequest{
		ModuleURI: input.ModuleURI,
		Intent:    intent,
		Matched:   matched,
		SiteKnown: matched && slices.Contains(s.config.SitePackageKeys(), intent.SitePackageKey),
	}

	if req.SiteKnown {
		objects, err := s.catalog.StyleguideObjects(ctx, intent.SitePackageKey)
		if err != nil {
			return PreviewPageOutput{
				Action: core.ActionRenderPreview,
				Error:  fmt.Errorf("failed to load styleguide objects: %w", err),
			}
		}
		req.Objects = objects
	}

	decision := core.DecidePageAction(req)

	switch decision.Action {
	case core.ActionNotFound:
		return PreviewPageOutput{Action: core.ActionNotFound, NotFound: notFoundReason(req)}

	case core.ActionRedirect:
		return PreviewPageOutput{
			Action:        core.ActionRedirect,
			RedirectURL:   decision.RedirectURL,
			PrototypeName: decision.PrototypeName,
		}

	case core.ActionRenderPreview:
		return s.renderPreview(ctx, input, intent, req.Objects)

	default:
		return PreviewPageOutput{
			Action: core.ActionRenderPreview,
			Error:  errors.New("unknown page action"),
		}
	}
}

func (s *PageService) renderPreview(ctx context.Context, input PreviewPageInput, intent core.RouteIntent, objects map[string]core.StyleguideObject) PreviewPageOutput {
	propSet := input.PropSet
	if propSet == "" {
		propSet = core.DefaultPropSet
	}
	if !objects[intent.PrototypeName].HasPropSet(propSet) {
		return PreviewPageOutput{
			Action:        core.ActionNotFound,
			PrototypeName: intent.PrototypeName,
			NotFound:      fmt.Errorf("prop set %s not declared by %s", propSet, intent.PrototypeName),
		}
	}

	body, err := s.render.RenderPrototype(ctx, RenderInput{
		PrototypeName:  intent.PrototypeName,
		SitePackageKey: intent.SitePackageKey,
		Props:          input.Props,
		PropSet:        propSet,
		Locales:        input.Locales,
	})
	if err != nil {
		return PreviewPageOutput{
			Action:        core.ActionRenderPreview,
			PrototypeName: intent.PrototypeName,
			Error:         err,
		}
	}

	html, err := core.RenderPreviewShell(core.PreviewShell{
		Title:     core.DeriveTitle(intent.PrototypeName, objects),
		BodyHTML:  body,
		Record:    core.NavigationRecord{PrototypeName: intent.PrototypeName, SitePackageKey: intent.SitePackageKey},
		PropSet:   propSet,
		ModuleURI: input.ModuleURI,
	})
	return PreviewPageOutput{
		Action:        core.ActionRenderPreview,
		HTML:          html,
		PrototypeName: intent.PrototypeName,
		Error:         err,
	}
}

func notFoundReason(req core.PageRequest) error {
	switch {
	case !req.Matched:
		return fmt.Errorf("path outside %s", req.ModuleURI)
	case !req.SiteKnown:
		return fmt.Errorf("%s: %w", req.Intent.SitePackageKey, core.ErrUnknownSite)
	case req.Intent.PrototypeName == "":
		return fmt.Errorf("no prototypes in %s: %w", req.Intent.SitePackageKey, core.ErrUnknownPrototype)
	default:
		return fmt.Errorf("%s: %w", req.Intent.PrototypeName, core.ErrUnknownPrototype)
	}
}
