package core

type HistoryAction int

const (
	HistoryReplace HistoryAction = iota
	HistoryPush
)

func (a HistoryAction) String() string {
	if a == HistoryPush {
		return "push"
	}
	return "replace"
}

// DecideHistoryAction replaces the current entry when there is no record
// yet or the record already points at next; any other change is pushed.
func DecideHistoryAction(current *NavigationRecord, next NavigationRecord) HistoryAction {
	if current == nil || current.Equal(next) {
		return HistoryReplace
	}
	return HistoryPush
}

type RouteAction int

const (
	RouteSelectPrototype RouteAction = iota
	RouteSwitchSite
)

func (a RouteAction) String() string {
	if a == RouteSwitchSite {
		return "switch-site"
	}
	return "select-prototype"
}

// RouteDecision is the outcome of a direct route. Messages are dispatched in
// slice order.
type RouteDecision struct {
	Action   RouteAction
	Messages []Message
}

// DecideRoute selects the prototype directly when the route stays on the
// active site and names a prototype. Everything else (another site, or no
// prototype) goes through a site switch. Intents are not validated.
func DecideRoute(intent RouteIntent, currentSitePackageKey string) RouteDecision {
	if intent.SitePackageKey == currentSitePackageKey && intent.PrototypeName != "" {
		return RouteDecision{
			Action:   RouteSelectPrototype,
			Messages: []Message{SelectPrototype{PrototypeName: intent.PrototypeName}},
		}
	}

	return RouteDecision{
		Action: RouteSwitchSite,
		Messages: []Message{
			AddTask{TaskID: TaskSwitchSite},
			SelectSite{SitePackageKey: intent.SitePackageKey},
		},
	}
}

// DocumentTitle formats the title written to the document title sink.
func DocumentTitle(title string) string {
	return Namespace + ": " + title
}
