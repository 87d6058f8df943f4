// Package store holds the selection state of one UI session. State changes
// only through Apply; readers use the selector methods.
package store

import (
	"sync"

	"github.com/3-lines-studio/monocle/internal/core"
)

// Preview is the last rendering outcome of the selected prototype.
type Preview struct {
	PrototypeName string
	HTML          string
	Err           error
	Ready         bool
}

type Store struct {
	mu             sync.RWMutex
	sitePackageKey string
	prototypeName  string
	propSet        string
	objects        map[string]core.StyleguideObject
	objectsSite    string
	preview        Preview
}

// New creates a store with sitePackageKey active and no prototype selected.
func New(sitePackageKey string) *Store {
	return &Store{
		sitePackageKey: sitePackageKey,
		propSet:        core.DefaultPropSet,
		objects:        map[string]core.StyleguideObject{},
	}
}

// Apply reduces msg into the state. Unknown messages are ignored.
func (s *Store) Apply(msg core.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch m := msg.(type) {
	case core.SelectSite:
		if m.SitePackageKey != s.sitePackageKey {
			s.objects = map[string]core.StyleguideObject{}
			s.objectsSite = ""
		}
		s.sitePackageKey = m.SitePackageKey
		s.prototypeName = ""
		s.preview = Preview{}

	case core.SelectPrototype:
		s.prototypeName = m.PrototypeName
		s.preview = Preview{PrototypeName: m.PrototypeName}

	case core.SelectPropSet:
		propSet := m.PropSet
		if propSet == "" {
			propSet = core.DefaultPropSet
		}
		s.propSet = propSet

	case core.PrototypesLoaded:
		if m.SitePackageKey != s.sitePackageKey {
			return
		}
		objects := make(map[string]core.StyleguideObject, len(m.Objects))
		for name, obj := range m.Objects {
			objects[name] = obj
		}
		s.objects = objects
		s.objectsSite = m.SitePackageKey

	case core.PrototypeReady:
		if m.PrototypeName == s.prototypeName {
			s.preview = Preview{PrototypeName: m.PrototypeName, HTML: m.HTML, Ready: true}
		}

	case core.PrototypeRenderFailed:
		if m.PrototypeName == s.prototypeName {
			s.preview = Preview{PrototypeName: m.PrototypeName, Err: m.Err, Ready: true}
		}
	}
}

func (s *Store) CurrentlySelectedSitePackageKey() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sitePackageKey
}

// CurrentlySelected returns the selection with its title derived from the
// loaded styleguide objects.
func (s *Store) CurrentlySelected() core.Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return core.Selection{
		SitePackageKey: s.sitePackageKey,
		PrototypeName:  s.prototypeName,
		Title:          core.DeriveTitle(s.prototypeName, s.objects),
	}
}

func (s *Store) CurrentPropSet() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.propSet
}

// StyleguideObjects returns a copy of the objects loaded for the active site.
func (s *Store) StyleguideObjects() map[string]core.StyleguideObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	objects := make(map[string]core.StyleguideObject, len(s.objects))
	for name, obj := range s.objects {
		objects[name] = obj
	}
	return objects
}

// ObjectsLoaded reports whether the styleguide objects of the active site
// have been loaded.
func (s *Store) ObjectsLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.objectsSite != "" && s.objectsSite == s.sitePackageKey
}

func (s *Store) Preview() Preview {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.preview
}
