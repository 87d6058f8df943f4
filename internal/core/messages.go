package core

// Kind identifies a message variant.
type Kind int

const (
	KindRoute Kind = iota
	KindSelectPrototype
	KindSelectSite
	KindSelectPropSet
	KindPrototypeReady
	KindPrototypeRenderFailed
	KindPrototypesLoaded
	KindAddTask
	KindFinishTask
)

var kindNames = map[Kind]string{
	KindRoute:                 "routing/route",
	KindSelectPrototype:       "prototypes/select",
	KindSelectSite:            "sites/select",
	KindSelectPropSet:         "propSets/select",
	KindPrototypeReady:        "prototypes/ready",
	KindPrototypeRenderFailed: "prototypes/renderFailed",
	KindPrototypesLoaded:      "prototypes/loaded",
	KindAddTask:               "business/addTask",
	KindFinishTask:            "business/finishTask",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Message is the closed set of messages exchanged between the store, the
// task queue and the cooperative processes.
type Message interface {
	Kind() Kind
}

// Route requests navigation to a site/prototype pair.
type Route struct {
	Intent RouteIntent
}

// SelectPrototype selects a prototype of the active site.
type SelectPrototype struct {
	PrototypeName string
}

// SelectSite selects a site package.
type SelectSite struct {
	SitePackageKey string
}

// SelectPropSet selects the prop set used for previews.
type SelectPropSet struct {
	PropSet string
}

// PrototypeReady signals that rendering of the selected prototype completed.
type PrototypeReady struct {
	PrototypeName string
	HTML          string
}

// PrototypeRenderFailed signals that rendering of the selected prototype
// did not produce HTML.
type PrototypeRenderFailed struct {
	PrototypeName string
	Err           error
}

// PrototypesLoaded carries the styleguide objects of a site package.
type PrototypesLoaded struct {
	SitePackageKey string
	Objects        map[string]StyleguideObject
}

// AddTask appends a business task to the task queue.
type AddTask struct {
	TaskID string
}

// FinishTask removes the oldest pending occurrence of a business task.
type FinishTask struct {
	TaskID string
}

func (Route) Kind() Kind                 { return KindRoute }
func (SelectPrototype) Kind() Kind       { return KindSelectPrototype }
func (SelectSite) Kind() Kind            { return KindSelectSite }
func (SelectPropSet) Kind() Kind         { return KindSelectPropSet }
func (PrototypeReady) Kind() Kind        { return KindPrototypeReady }
func (PrototypeRenderFailed) Kind() Kind { return KindPrototypeRenderFailed }
func (PrototypesLoaded) Kind() Kind      { return KindPrototypesLoaded }
func (AddTask) Kind() Kind               { return KindAddTask }
func (FinishTask) Kind() Kind            { return KindFinishTask }

// NewRoute builds a route message.
func NewRoute(sitePackageKey, prototypeName string) Route {
	return Route{Intent: RouteIntent{SitePackageKey: sitePackageKey, PrototypeName: prototypeName}}
}
