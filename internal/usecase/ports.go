package usecase

import (
	"context"

	"github.com/3-lines-studio/monocle/internal/adapters/fs"
	"github.com/3-lines-studio/monocle/internal/core"
	"github.com/3-lines-studio/monocle/internal/routing"
)

// RenderRequest is everything the rendering service needs to render one
// prototype of a site package.
type RenderRequest struct {
	PrototypeName  string
	SitePackageKey string
	Props          map[string]any
	PropSet        string
	Locales        []string
	FusionRootPath string
}

type Renderer interface {
	RenderPrototype(ctx context.Context, req RenderRequest) (string, error)
}

// Catalog lists the styleguide objects of a site package.
type Catalog interface {
	StyleguideObjects(ctx context.Context, sitePackageKey string) (map[string]core.StyleguideObject, error)
}

// ConfigurationLookup resolves site configuration values. A missing path
// yields (nil, nil).
type ConfigurationLookup interface {
	SiteConfiguration(sitePackageKey string, path ...string) (any, error)
	SitePackageKeys() []string
	DefaultSitePackageKey() (string, error)
}

type CLIOutput interface {
	PrintHeader(msg string)
	PrintStep(emoji, msg string, args ...any)
	PrintSuccess(msg string, args ...any)
	PrintWarning(msg string, args ...any)
	PrintError(msg string, args ...any)
	PrintFile(path string)
	PrintDone(msg string)
}

type FileSystem = fs.FileSystem

// NavigableHistory is a History that can move through its entries.
type NavigableHistory interface {
	routing.History
	Back() (core.NavigationRecord, bool)
	Forward() (core.NavigationRecord, bool)
}
