package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/3-lines-studio/monocle/internal/adapters/cli"
	"github.com/3-lines-studio/monocle/internal/adapters/history"
	httpadapter "github.com/3-lines-studio/monocle/internal/adapters/http"
	"github.com/3-lines-studio/monocle/internal/adapters/tui"
	"github.com/3-lines-studio/monocle/internal/core"
	"github.com/3-lines-studio/monocle/internal/routing"
	"github.com/3-lines-studio/monocle/internal/runner"
	"github.com/3-lines-studio/monocle/internal/usecase"
)

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func runItems(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("items")
	format := fs.String("format", cli.FormatJSON, "output format (json|yaml)")
	packageKey := fs.String("package", "", "site package key")
	if err := fs.Parse(args); err != nil {
		return err
	}

	site, err := a.site(*packageKey)
	if err != nil {
		return err
	}
	client, err := a.client()
	if err != nil {
		return err
	}

	objects, err := client.StyleguideObjects(ctx, site)
	if err != nil {
		return fmt.Errorf("failed to load styleguide objects: %w", err)
	}
	return cli.WriteData(a.output.Writer(), objects, *format)
}

func runViewports(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("viewports")
	format := fs.String("format", cli.FormatJSON, "output format (json|yaml)")
	packageKey := fs.String("package", "", "site package key")
	if err := fs.Parse(args); err != nil {
		return err
	}

	site, err := a.site(*packageKey)
	if err != nil {
		return err
	}

	presets, err := a.config.SiteConfiguration(site, "ui", "viewportPresets")
	if err != nil {
		return err
	}
	if presets == nil {
		presets = map[string]any{}
	}
	return cli.WriteData(a.output.Writer(), presets, *format)
}

func runRender(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("render")
	prototype := fs.String("prototype", "", "prototype name")
	packageKey := fs.String("package", "", "site package key")
	propSet := fs.String("prop-set", core.DefaultPropSet, "prop set")
	rawProps := fs.String("props", "", "props as JSON object")
	rawLocales := fs.String("locales", "", "locales as JSON array")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *prototype == "" {
		return errors.New("missing --prototype")
	}

	props, err := parseProps(*rawProps)
	if err != nil {
		return err
	}
	locales, err := parseLocales(*rawLocales)
	if err != nil {
		return err
	}
	site, err := a.site(*packageKey)
	if err != nil {
		return err
	}
	client, err := a.client()
	if err != nil {
		return err
	}

	html, err := a.renderService(client).RenderPrototype(ctx, usecase.RenderInput{
		PrototypeName:  *prototype,
		SitePackageKey: site,
		Props:          props,
		PropSet:        *propSet,
		Locales:        locales,
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.output.Writer(), html)
	return err
}

func runExport(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("export")
	packageKey := fs.String("package", "", "site package key")
	rawLocales := fs.String("locales", "", "locales as JSON array")
	outDir := fs.String("out", "export", "export directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *packageKey == "" {
		return errors.New("missing --package")
	}

	locales, err := parseLocales(*rawLocales)
	if err != nil {
		return err
	}
	site, err := a.site(*packageKey)
	if err != nil {
		return err
	}
	client, err := a.client()
	if err != nil {
		return err
	}

	report := cli.NewExportReport(a.output, *outDir)
	service := usecase.NewExportService(a.renderService(client), client, a.output, a.logger)

	result := service.ExportSite(ctx, usecase.ExportInput{
		SitePackageKey: site,
		Locales:        locales,
		OutDir:         *outDir,
	})
	report.Render(result)
	return result.Error
}

func runServe(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("serve")
	listen := fs.String("listen", a.cfg.Listen, "listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := a.client()
	if err != nil {
		return err
	}
	render := a.renderService(client)

	router := httpadapter.NewRouter(httpadapter.ServerDeps{
		Render:    render,
		Catalog:   client,
		Config:    a.config,
		Pages:     usecase.NewPageService(render, client, a.config),
		ModuleURI: a.cfg.ModuleURI,
		IsDev:     a.cfg.Dev,
		Logger:    a.logger,
	})

	server := &http.Server{
		Addr:              *listen,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info().Str("addr", *listen).Str("moduleUri", a.cfg.ModuleURI).Msg("serving styleguide")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func runBrowse(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("browse")
	packageKey := fs.String("package", "", "site package key")
	if err := fs.Parse(args); err != nil {
		return err
	}

	site, err := a.site(*packageKey)
	if err != nil {
		return err
	}
	client, err := a.client()
	if err != nil {
		return err
	}

	hist := history.NewMemory()
	notifier := &tui.Notifier{}

	// The terminal is owned by the browser; session logs would corrupt it.
	session, err := usecase.NewSession(
		usecase.SessionConfig{ModuleURI: a.cfg.ModuleURI, ReadyWait: routing.ReadyBlocking},
		usecase.SessionDeps{
			Render:  a.renderService(client),
			Catalog: client,
			History: hist,
			Title:   notifier,
			Logger:  zerolog.Nop(),
		},
		runner.WithObserver(notifier.Notify),
	)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return session.Run(gctx)
	})
	g.Go(func() error {
		defer cancel()
		model := tui.NewModel(session, session.Store, hist, a.config.SitePackageKeys())
		return tui.Run(gctx, model, notifier)
	})

	session.Open(core.RouteIntent{SitePackageKey: site})
	return g.Wait()
}

func runDoctor(ctx context.Context, a *app, args []string) error {
	out := a.output
	out.PrintHeader("Monocle Doctor")

	if !a.fs.FileExists(a.cfg.SettingsDir) {
		out.PrintWarning("Settings directory %s not found", a.cfg.SettingsDir)
	} else {
		out.PrintSuccess("Settings directory %s", a.cfg.SettingsDir)
	}

	sites := a.config.SitePackageKeys()
	if len(sites) == 0 {
		out.PrintWarning("No site packages configured")
	} else {
		out.PrintSuccess("%d site packages", len(sites))
		for _, site := range sites {
			out.PrintFile(site)
		}
	}

	site, err := a.config.DefaultSitePackageKey()
	if err != nil {
		return err
	}
	out.PrintSuccess("Default site %s", site)

	client, err := a.client()
	if err != nil {
		return err
	}
	objects, err := client.StyleguideObjects(ctx, site)
	if err != nil {
		return fmt.Errorf("renderer at %s: %w", a.cfg.RendererURL, err)
	}
	out.PrintSuccess("Renderer at %s lists %d prototypes", a.cfg.RendererURL, len(objects))

	out.PrintDone("All checks passed")
	return nil
}
