package core

type PageAction int

const (
	ActionNotFound PageAction = iota
	ActionRedirect
	ActionRenderPreview
)

type PageRequest struct {
	ModuleURI string
	Intent    RouteIntent
	Matched   bool
	SiteKnown bool
	Objects   map[string]StyleguideObject
}

type PageDecision struct {
	Action        PageAction
	RedirectURL   string
	PrototypeName string
}

// DecidePageAction resolves a deep link. A link naming only the site
// redirects to the site's default prototype.
func DecidePageAction(req PageRequest) PageDecision {
	if !req.Matched || !req.SiteKnown {
		return PageDecision{Action: ActionNotFound}
	}

	if req.Intent.PrototypeName == "" {
		name := DefaultPrototype(req.Objects)
		if name == "" {
			return PageDecision{Action: ActionNotFound}
		}
		path := PrototypePath(req.Intent.SitePackageKey, name)
		return PageDecision{
			Action:        ActionRedirect,
			RedirectURL:   PrototypeURL(trimTrailingSlash(req.ModuleURI), path),
			PrototypeName: name,
		}
	}

	if _, ok := req.Objects[req.Intent.PrototypeName]; !ok {
		return PageDecision{Action: ActionNotFound}
	}

	return PageDecision{Action: ActionRenderPreview, PrototypeName: req.Intent.PrototypeName}
}

func trimTrailingSlash(uri string) string {
	for len(uri) > 0 && uri[len(uri)-1] == '/' {
		uri = uri[:len(uri)-1]
	}
	return uri
}
