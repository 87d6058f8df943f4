package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/3-lines-studio/monocle/internal/core"
	"github.com/3-lines-studio/monocle/internal/runner"
	"github.com/3-lines-studio/monocle/internal/store"
)

// SiteSwitch performs the switch-site task: it loads the styleguide objects
// of a newly selected site, selects a prototype and finishes the task. The
// prototype is the one named by the route that caused the switch, or the
// site's default prototype.
type SiteSwitch struct {
	catalog Catalog
	store   *store.Store
	logger  zerolog.Logger
}

func NewSiteSwitch(catalog Catalog, st *store.Store, logger zerolog.Logger) *SiteSwitch {
	return &SiteSwitch{catalog: catalog, store: st, logger: logger}
}

func (p *SiteSwitch) Run(ctx context.Context, eff runner.Effects) error {
	var pending *core.RouteIntent

	for {
		msg, err := eff.Take(ctx, core.KindRoute, core.KindSelectSite)
		if err != nil {
			return err
		}

		switch m := msg.(type) {
		case core.Route:
			decision := core.DecideRoute(m.Intent, p.store.CurrentlySelectedSitePackageKey())
			if decision.Action == core.RouteSwitchSite {
				intent := m.Intent
				pending = &intent
			} else {
				pending = nil
			}

		case core.SelectSite:
			target := pending
			pending = nil
			p.switchTo(ctx, eff, m.SitePackageKey, target)
		}
	}
}

func (p *SiteSwitch) switchTo(ctx context.Context, eff runner.Effects, sitePackageKey string, target *core.RouteIntent) {
	defer eff.Put(core.FinishTask{TaskID: core.TaskSwitchSite})

	objects, err := p.catalog.StyleguideObjects(ctx, sitePackageKey)
	if err != nil {
		p.logger.Error().Str("site", sitePackageKey).Err(err).Msg("failed to load styleguide objects")
		return
	}
	eff.Put(core.PrototypesLoaded{SitePackageKey: sitePackageKey, Objects: objects})

	name := core.DefaultPrototype(objects)
	if target != nil && target.SitePackageKey == sitePackageKey && target.PrototypeName != "" {
		if _, ok := objects[target.PrototypeName]; ok {
			name = target.PrototypeName
		} else {
			p.logger.Warn().
				Str("site", sitePackageKey).
				Str("prototype", target.PrototypeName).
				Msg("routed prototype not found, selecting default")
		}
	}

	if name != "" {
		eff.Put(core.SelectPrototype{PrototypeName: name})
	}
	p.logger.Debug().Str("site", sitePackageKey).Str("prototype", name).Msg("site switched")
}

// PreviewRenderer renders the selected prototype and signals the outcome
// with PrototypeReady or PrototypeRenderFailed. A prop set change re-renders
// the current prototype.
type PreviewRenderer struct {
	render  *RenderService
	store   *store.Store
	locales []string
	logger  zerolog.Logger
}

func NewPreviewRenderer(render *RenderService, st *store.Store, locales []string, logger zerolog.Logger) *PreviewRenderer {
	return &PreviewRenderer{render: render, store: st, locales: locales, logger: logger}
}

func (p *PreviewRenderer) Run(ctx context.Context, eff runner.Effects) error {
	for {
		msg, err := eff.Take(ctx, core.KindSelectPrototype, core.KindSelectPropSet)
		if err != nil {
			return err
		}

		var name string
		switch m := msg.(type) {
		case core.SelectPrototype:
			name = m.PrototypeName
		case core.SelectPropSet:
			name = p.store.CurrentlySelected().PrototypeName
		}
		if name == "" {
			continue
		}

		html, err := p.render.RenderPrototype(ctx, RenderInput{
			PrototypeName:  name,
			SitePackageKey: p.store.CurrentlySelectedSitePackageKey(),
			PropSet:        p.store.CurrentPropSet(),
			Locales:        p.locales,
		})
		if err != nil {
			p.logger.Warn().Str("prototype", name).Err(err).Msg("preview render failed")
			eff.Put(core.PrototypeRenderFailed{PrototypeName: name, Err: err})
			continue
		}
		eff.Put(core.PrototypeReady{PrototypeName: name, HTML: html})
	}
}
