package core

import (
	"encoding/json"
	"sort"
)

// StyleguideObject describes one previewable prototype of a site package.
type StyleguideObject struct {
	Title       string         `json:"title" yaml:"title"`
	Path        string         `json:"path" yaml:"path"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	PropSets    []string       `json:"propSets,omitempty" yaml:"propSets,omitempty"`
	Options     map[string]any `json:"options,omitempty" yaml:"options,omitempty"`
}

func ParseStyleguideObjects(data []byte) (map[string]StyleguideObject, error) {
	var objects map[string]StyleguideObject
	if err := json.Unmarshal(data, &objects); err != nil {
		return nil, err
	}
	if objects == nil {
		objects = map[string]StyleguideObject{}
	}
	return objects, nil
}

func PrototypeNames(objects map[string]StyleguideObject) []string {
	names := make([]string, 0, len(objects))
	for name := range objects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultPrototype is the first prototype by name, or "" for an empty site.
func DefaultPrototype(objects map[string]StyleguideObject) string {
	names := PrototypeNames(objects)
	if len(names) == 0 {
		return ""
	}
	return names[0]
}

// HasPropSet reports whether obj declares propSet. The default prop set is
// always available.
func (obj StyleguideObject) HasPropSet(propSet string) bool {
	if propSet == "" || propSet == DefaultPropSet {
		return true
	}
	for _, name := range obj.PropSets {
		if name == propSet {
			return true
		}
	}
	return false
}
