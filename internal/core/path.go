package core

import (
	"net/url"
	"strings"
)

func NormalizePath(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if path != "/" && strings.HasSuffix(path, "/") {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}

// PrototypePath is the route path of a prototype relative to the module URI.
func PrototypePath(sitePackageKey, prototypeName string) string {
	return sitePackageKey + "/" + prototypeName
}

// PrototypeURL appends path to baseURL. baseURL is used verbatim.
func PrototypeURL(baseURL, path string) string {
	return baseURL + "/" + path
}

// ParseRoutePath reads a deep link below moduleURI back into a route intent.
// "<moduleURI>/<site>" yields an intent without prototype.
func ParseRoutePath(moduleURI, requestPath string) (RouteIntent, bool) {
	base := NormalizePath(moduleURI)
	requestPath = NormalizePath(requestPath)

	rest := requestPath
	if base != "/" {
		if requestPath != base && !strings.HasPrefix(requestPath, base+"/") {
			return RouteIntent{}, false
		}
		rest = strings.TrimPrefix(requestPath, base)
	}
	rest = strings.Trim(rest, "/")
	if rest == "" {
		return RouteIntent{}, false
	}

	site, prototype, _ := strings.Cut(rest, "/")
	site, err := url.PathUnescape(site)
	if err != nil {
		return RouteIntent{}, false
	}
	prototype, err = url.PathUnescape(prototype)
	if err != nil {
		return RouteIntent{}, false
	}
	if strings.Contains(prototype, "/") {
		return RouteIntent{}, false
	}

	return RouteIntent{SitePackageKey: site, PrototypeName: prototype}, true
}
