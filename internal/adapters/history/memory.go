// Package history implements the browser history mechanism in memory, for
// sessions that do not run in a browser.
package history

import (
	"sync"

	"github.com/3-lines-studio/monocle/internal/core"
)

// Entry is one history entry.
type Entry struct {
	Record core.NavigationRecord
	Title  string
	URL    string
}

// Memory is a session history with back/forward navigation. Pushing drops
// every entry after the current one.
type Memory struct {
	mu      sync.RWMutex
	entries []Entry
	index   int
}

func NewMemory() *Memory {
	return &Memory{index: -1}
}

// State returns the record of the current entry, or nil before the first
// entry is written.
func (m *Memory) State() *core.NavigationRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.index < 0 {
		return nil
	}
	record := m.entries[m.index].Record
	return &record
}

func (m *Memory) ReplaceState(record core.NavigationRecord, title, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := Entry{Record: record, Title: title, URL: url}
	if m.index < 0 {
		m.entries = []Entry{entry}
		m.index = 0
		return nil
	}
	m.entries[m.index] = entry
	return nil
}

func (m *Memory) PushState(record core.NavigationRecord, title, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = append(m.entries[:m.index+1], Entry{Record: record, Title: title, URL: url})
	m.index = len(m.entries) - 1
	return nil
}

func (m *Memory) Back() (core.NavigationRecord, bool) {
	return m.move(-1)
}

func (m *Memory) Forward() (core.NavigationRecord, bool) {
	return m.move(1)
}

func (m *Memory) move(delta int) (core.NavigationRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.index + delta
	if m.index < 0 || next < 0 || next >= len(m.entries) {
		return core.NavigationRecord{}, false
	}
	m.index = next
	return m.entries[next].Record, true
}

// Current returns the current entry.
func (m *Memory) Current() (Entry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.index < 0 {
		return Entry{}, false
	}
	return m.entries[m.index], true
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *Memory) CanGoBack() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.index > 0
}

func (m *Memory) CanGoForward() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.index >= 0 && m.index < len(m.entries)-1
}
