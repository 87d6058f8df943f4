package core

import (
	"strings"
)

// ExportFileName names the exported rendering of a styleguide object for a
// prop set. The default rendering uses the "_default" suffix.
func ExportFileName(objectPath, propSet string) string {
	name := strings.TrimPrefix(objectPath, "./")
	name = strings.TrimPrefix(name, "/")
	if name == "" {
		name = "prototype"
	}
	if propSet == "" || propSet == DefaultPropSet {
		propSet = "default"
	}
	return name + "_" + propSet + ".html"
}

// ObjectPath falls back to a filesystem-safe form of the prototype name when
// the styleguide object declares no path.
func ObjectPath(prototypeName string, obj StyleguideObject) string {
	if obj.Path != "" {
		return obj.Path
	}
	replacer := strings.NewReplacer(":", "-", ".", "-", "/", "-")
	return strings.ToLower(replacer.Replace(prototypeName))
}
