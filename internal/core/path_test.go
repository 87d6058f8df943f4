package core

import (
	"testing"
)

func TestPrototypeURL(t *testing.T) {
	path := PrototypePath("pkg", "Button")
	if path != "pkg/Button" {
		t.Errorf("Expected path 'pkg/Button', got '%s'", path)
	}

	url := PrototypeURL("/monocle", path)
	if url != "/monocle/pkg/Button" {
		t.Errorf("Expected url '/monocle/pkg/Button', got '%s'", url)
	}
}

func TestNormalizePath(t *testing.T) {
	tests := map[string]string{
		"":          "/",
		"/":         "/",
		"monocle":   "/monocle",
		"/monocle/": "/monocle",
	}
	for in, want := range tests {
		if got := NormalizePath(in); got != want {
			t.Errorf("NormalizePath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseRoutePath(t *testing.T) {
	tests := []struct {
		name      string
		moduleURI string
		path      string
		want      RouteIntent
		ok        bool
	}{
		{
			name:      "site and prototype",
			moduleURI: "/monocle",
			path:      "/monocle/Vendor.Site/Vendor.Site:Button",
			want:      RouteIntent{SitePackageKey: "Vendor.Site", PrototypeName: "Vendor.Site:Button"},
			ok:        true,
		},
		{
			name:      "site only",
			moduleURI: "/monocle/",
			path:      "/monocle/Vendor.Site/",
			want:      RouteIntent{SitePackageKey: "Vendor.Site"},
			ok:        true,
		},
		{
			name:      "escaped prototype",
			moduleURI: "/monocle",
			path:      "/monocle/Vendor.Site/Vendor.Site%3AButton",
			want:      RouteIntent{SitePackageKey: "Vendor.Site", PrototypeName: "Vendor.Site:Button"},
			ok:        true,
		},
		{
			name:      "root module uri",
			moduleURI: "/",
			path:      "/Vendor.Site/Vendor.Site:Card",
			want:      RouteIntent{SitePackageKey: "Vendor.Site", PrototypeName: "Vendor.Site:Card"},
			ok:        true,
		},
		{
			name:      "module uri itself",
			moduleURI: "/monocle",
			path:      "/monocle",
			ok:        false,
		},
		{
			name:      "outside module uri",
			moduleURI: "/monocle",
			path:      "/monocles/Vendor.Site",
			ok:        false,
		},
		{
			name:      "too many segments",
			moduleURI: "/monocle",
			path:      "/monocle/Vendor.Site/a/b",
			ok:        false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseRoutePath(tt.moduleURI, tt.path)
			if ok != tt.ok {
				t.Fatalf("ParseRoutePath() ok = %v, want %v", ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("ParseRoutePath() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestExportFileName(t *testing.T) {
	tests := []struct {
		path    string
		propSet string
		want    string
	}{
		{"button", "", "button_default.html"},
		{"button", DefaultPropSet, "button_default.html"},
		{"./atoms/button", "disabled", "atoms/button_disabled.html"},
		{"", "large", "prototype_large.html"},
	}
	for _, tt := range tests {
		if got := ExportFileName(tt.path, tt.propSet); got != tt.want {
			t.Errorf("ExportFileName(%q, %q) = %q, want %q", tt.path, tt.propSet, got, tt.want)
		}
	}
}

func TestObjectPath(t *testing.T) {
	if got := ObjectPath("Vendor.Site:Button", StyleguideObject{Path: "atoms/button"}); got != "atoms/button" {
		t.Errorf("Expected declared path, got '%s'", got)
	}
	if got := ObjectPath("Vendor.Site:Button", StyleguideObject{}); got != "vendor-site-button" {
		t.Errorf("Expected derived path 'vendor-site-button', got '%s'", got)
	}
}
