package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/3-lines-studio/monocle/internal/core"
)

type ExportInput struct {
	SitePackageKey string
	Locales        []string
	OutDir         string
}

type ExportOutput struct {
	Files    []string
	Failures []ExportFailure
	Error    error
}

// ExportFailure is a rendering that could not be exported. Failures do not
// stop the export.
type ExportFailure struct {
	PrototypeName string
	PropSet       string
	Err           error
}

type ExportService struct {
	render  *RenderService
	catalog Catalog
	cli     CLIOutput
	logger  zerolog.Logger
}

func NewExportService(render *RenderService, catalog Catalog, cli CLIOutput, logger zerolog.Logger) *ExportService {
	return &ExportService{
		render:  render,
		catalog: catalog,
		cli:     cli,
		logger:  logger,
	}
}

// ExportSite renders every styleguide object of a site with its default
// props and with each of its prop sets, writing one HTML file per rendering.
func (s *ExportService) ExportSite(ctx context.Context, input ExportInput) ExportOutput {
	if input.SitePackageKey == "" {
		return ExportOutput{Error: fmt.Errorf("missing site package key")}
	}
	if input.OutDir == "" {
		return ExportOutput{Error: fmt.Errorf("missing export directory")}
	}

	s.cli.PrintHeader("Monocle Export")

	objects, err := s.catalog.StyleguideObjects(ctx, input.SitePackageKey)
	if err != nil {
		return ExportOutput{Error: fmt.Errorf("failed to load styleguide objects: %w", err)}
	}

	var output ExportOutput
	for _, name := range core.PrototypeNames(objects) {
		if err := ctx.Err(); err != nil {
			output.Error = err
			return output
		}

		obj := objects[name]
		propSets := append([]string{""}, obj.PropSets...)
		for _, propSet := range propSets {
			file, err := s.exportOne(ctx, input, name, obj, propSet)
			if err != nil {
				s.logger.Warn().
					Str("prototype", name).
					Str("propSet", propSet).
					Err(err).
					Msg("export failed")
				s.cli.PrintWarning("%s (%s): %v", name, propSetLabel(propSet), err)
				output.Failures = append(output.Failures, ExportFailure{PrototypeName: name, PropSet: propSet, Err: err})
				continue
			}
			s.cli.PrintFile(file)
			output.Files = append(output.Files, file)
		}
	}

	s.cli.PrintSuccess("Exported %d renderings (%d failed)", len(output.Files), len(output.Failures))
	return output
}

func (s *ExportService) exportOne(ctx context.Context, input ExportInput, name string, obj core.StyleguideObject, propSet string) (string, error) {
	html, err := s.render.RenderPrototype(ctx, RenderInput{
		PrototypeName:  name,
		SitePackageKey: input.SitePackageKey,
		PropSet:        propSet,
		Locales:        input.Locales,
	})
	if err != nil {
		return "", err
	}

	filename := core.ExportFileName(core.ObjectPath(name, obj), propSet)
	return s.render.ExportRendering(html, input.OutDir, filename)
}

func propSetLabel(propSet string) string {
	if propSet == "" {
		return "default"
	}
	return propSet
}
