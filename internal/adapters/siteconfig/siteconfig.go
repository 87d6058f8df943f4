// Package siteconfig resolves per-site configuration from YAML settings
// files: Settings.yaml holds the defaults and Settings.<PackageKey>.yaml
// overrides them for one site package.
package siteconfig

import (
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/goccy/go-yaml"
	"github.com/tidwall/gjson"

	"github.com/3-lines-studio/monocle/internal/adapters/fs"
	"github.com/3-lines-studio/monocle/internal/core"
)

const (
	defaultsFile = "Settings.yaml"
	filePrefix   = "Settings."
	fileSuffix   = ".yaml"
)

type Service struct {
	dir         string
	fs          fs.FileSystem
	defaultSite string

	mu       sync.Mutex
	defaults map[string]any
	sites    []string
	merged   map[string][]byte
}

// New loads the defaults and the list of site packages found in dir.
// defaultSite overrides the default site package when not empty.
func New(filesystem fs.FileSystem, dir, defaultSite string) (*Service, error) {
	s := &Service{
		dir:         dir,
		fs:          filesystem,
		defaultSite: defaultSite,
		merged:      map[string][]byte{},
	}

	defaults, err := s.readYAML(defaultsFile)
	if err != nil {
		return nil, err
	}
	s.defaults = defaults

	sites, err := s.discoverSites()
	if err != nil {
		return nil, err
	}
	s.sites = sites
	return s, nil
}

// SiteConfiguration returns the value at path for a site. Path segments may
// themselves be dotted ("ui.viewportPresets"). A missing value is (nil, nil).
func (s *Service) SiteConfiguration(sitePackageKey string, segments ...string) (any, error) {
	doc, err := s.document(sitePackageKey)
	if err != nil {
		return nil, err
	}

	result := gjson.GetBytes(doc, lookupPath(segments))
	if !result.Exists() {
		return nil, nil
	}
	return result.Value(), nil
}

func (s *Service) SitePackageKeys() []string {
	return append([]string(nil), s.sites...)
}

func (s *Service) DefaultSitePackageKey() (string, error) {
	if s.defaultSite != "" {
		return s.defaultSite, nil
	}
	if len(s.sites) == 0 {
		return "", fmt.Errorf("no site packages configured in %s: %w", s.dir, core.ErrUnknownSite)
	}
	return s.sites[0], nil
}

func (s *Service) document(sitePackageKey string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if doc, ok := s.merged[sitePackageKey]; ok {
		return doc, nil
	}

	merged := deepMerge(nil, s.defaults)
	if sitePackageKey != "" {
		site, err := s.readYAML(filePrefix + sitePackageKey + fileSuffix)
		if err != nil {
			return nil, err
		}
		merged = deepMerge(merged, site)
	}

	doc, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("failed to encode settings of %s: %w", sitePackageKey, err)
	}
	s.merged[sitePackageKey] = doc
	return doc, nil
}

// readYAML returns an empty map when the file does not exist.
func (s *Service) readYAML(name string) (map[string]any, error) {
	file := path.Join(s.dir, name)
	if !s.fs.FileExists(file) {
		return map[string]any{}, nil
	}

	data, err := s.fs.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file, err)
	}

	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", file, err)
	}
	if values == nil {
		values = map[string]any{}
	}
	return values, nil
}

func (s *Service) discoverSites() ([]string, error) {
	if listed, ok := s.defaults["sites"].([]any); ok {
		sites := make([]string, 0, len(listed))
		for _, item := range listed {
			if key, ok := item.(string); ok && key != "" {
				sites = append(sites, key)
			}
		}
		sort.Strings(sites)
		return sites, nil
	}

	if !s.fs.FileExists(s.dir) {
		return nil, nil
	}
	entries, err := s.fs.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.dir, err)
	}

	var sites []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == defaultsFile {
			continue
		}
		if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		key := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix)
		if key != "" {
			sites = append(sites, key)
		}
	}
	sort.Strings(sites)
	return sites, nil
}

// deepMerge merges src over dst. Nested maps merge, every other value
// (lists included) is replaced.
func deepMerge(dst, src map[string]any) map[string]any {
	out := make(map[string]any, len(dst)+len(src))
	for k, v := range dst {
		out[k] = v
	}
	for k, v := range src {
		srcMap, srcOK := v.(map[string]any)
		dstMap, dstOK := out[k].(map[string]any)
		if srcOK && dstOK {
			out[k] = deepMerge(dstMap, srcMap)
			continue
		}
		if srcOK {
			out[k] = deepMerge(nil, srcMap)
			continue
		}
		out[k] = v
	}
	return out
}

func lookupPath(segments []string) string {
	var parts []string
	for _, segment := range segments {
		for _, part := range strings.Split(segment, ".") {
			if part != "" {
				parts = append(parts, escape(part))
			}
		}
	}
	return strings.Join(parts, ".")
}

func escape(part string) string {
	replacer := strings.NewReplacer("*", `\*`, "?", `\?`, "|", `\|`, "#", `\#`, "@", `\@`)
	return replacer.Replace(part)
}
