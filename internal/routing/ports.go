// Package routing keeps navigation state (URL, history stack, document
// title) and the selection store consistent in both directions.
//
// HistorySync follows prototype selections into history. DirectRoutingSync
// turns route intents (deep links, back/forward) into selection messages.
// Both run as cooperative processes on a runner.Runner.
package routing

import (
	"github.com/3-lines-studio/monocle/internal/core"
)

// Environment provides the module base URL.
type Environment interface {
	ModuleURI() string
}

// Selectors is the read-only view of the selection store.
type Selectors interface {
	CurrentlySelectedSitePackageKey() string
	CurrentlySelected() core.Selection
}

// History is the browser history mechanism. State returns nil when the
// current entry carries no navigation record.
type History interface {
	State() *core.NavigationRecord
	ReplaceState(record core.NavigationRecord, title, url string) error
	PushState(record core.NavigationRecord, title, url string) error
}

// TitleSink receives the document title.
type TitleSink interface {
	SetTitle(title string)
}

// StaticEnvironment is an Environment with a fixed module URI.
type StaticEnvironment string

func (e StaticEnvironment) ModuleURI() string {
	return string(e)
}
