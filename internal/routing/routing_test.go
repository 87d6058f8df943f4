package routing

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/3-lines-studio/monocle/internal/business"
	"github.com/3-lines-studio/monocle/internal/core"
	"github.com/3-lines-studio/monocle/internal/runner"
	"github.com/3-lines-studio/monocle/internal/store"
)

type historyCall struct {
	op     string
	record core.NavigationRecord
	title  string
	url    string
}

type fakeHistory struct {
	state *core.NavigationRecord
	calls []historyCall
	err   error
}

func (h *fakeHistory) State() *core.NavigationRecord {
	return h.state
}

func (h *fakeHistory) ReplaceState(record core.NavigationRecord, title, url string) error {
	return h.write("replace", record, title, url)
}

func (h *fakeHistory) PushState(record core.NavigationRecord, title, url string) error {
	return h.write("push", record, title, url)
}

func (h *fakeHistory) write(op string, record core.NavigationRecord, title, url string) error {
	if h.err != nil {
		return h.err
	}
	h.calls = append(h.calls, historyCall{op: op, record: record, title: title, url: url})
	rec := record
	h.state = &rec
	return nil
}

type fakeTitle struct {
	titles []string
}

func (f *fakeTitle) SetTitle(title string) {
	f.titles = append(f.titles, title)
}

type countingEnv struct {
	uri   string
	reads int
}

func (e *countingEnv) ModuleURI() string {
	e.reads++
	return e.uri
}

type fixture struct {
	runner  *runner.Runner
	store   *store.Store
	queue   *business.Queue
	history *fakeHistory
	title   *fakeTitle
	env     *countingEnv
	puts    []core.Message
}

func newFixture(t *testing.T, wait ReadyWait) *fixture {
	t.Helper()

	f := &fixture{
		store:   store.New("A"),
		queue:   business.NewQueue(),
		history: &fakeHistory{},
		title:   &fakeTitle{},
		env:     &countingEnv{uri: "/monocle"},
	}
	f.store.Apply(core.PrototypesLoaded{
		SitePackageKey: "A",
		Objects: map[string]core.StyleguideObject{
			"X":      {Title: "Prototype X"},
			"Y":      {Title: "Prototype Y"},
			"Button": {Title: "Button"},
		},
	})

	f.runner = runner.New(
		runner.WithReducer(f.store),
		runner.WithReducer(f.queue),
		runner.WithObserver(func(msg core.Message) { f.puts = append(f.puts, msg) }),
	)

	coordinator := &Coordinator{
		History: NewHistorySync(f.env, f.store, f.history, f.title, WithReadyWait(wait)),
		Direct:  NewDirectRoutingSync(f.store, zerolog.Nop()),
	}
	if err := coordinator.Register(f.runner); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	return f
}

func (f *fixture) dispatch(t *testing.T, msgs ...core.Message) {
	t.Helper()
	for _, msg := range msgs {
		f.runner.Dispatch(msg)
	}
	if err := f.runner.Drain(context.Background()); err != nil {
		t.Fatalf("Drain() error = %v", err)
	}
}

func (f *fixture) selectAndRender(t *testing.T, prototype string) {
	t.Helper()
	f.dispatch(t,
		core.SelectPrototype{PrototypeName: prototype},
		core.PrototypeReady{PrototypeName: prototype},
	)
}

func TestFirstSelectionReplaces(t *testing.T) {
	f := newFixture(t, ReadyBlocking)

	f.selectAndRender(t, "X")

	if len(f.history.calls) != 1 {
		t.Fatalf("Expected 1 history call, got %d", len(f.history.calls))
	}
	call := f.history.calls[0]
	if call.op != "replace" {
		t.Errorf("Expected replace on bootstrap, got %s", call.op)
	}
	if call.url != "/monocle/A/X" {
		t.Errorf("Expected url '/monocle/A/X', got '%s'", call.url)
	}
	if call.record != (core.NavigationRecord{PrototypeName: "X", SitePackageKey: "A"}) {
		t.Errorf("Unexpected record %#v", call.record)
	}
	if call.title != "Monocle: Prototype X" {
		t.Errorf("Expected title 'Monocle: Prototype X', got '%s'", call.title)
	}
}

func TestReplaceVersusPush(t *testing.T) {
	f := newFixture(t, ReadyBlocking)

	f.selectAndRender(t, "X")
	f.selectAndRender(t, "X")
	f.selectAndRender(t, "Y")
	f.selectAndRender(t, "Y")
	f.selectAndRender(t, "X")

	want := []string{"replace", "replace", "push", "replace", "push"}
	if len(f.history.calls) != len(want) {
		t.Fatalf("Expected %d history calls, got %d", len(want), len(f.history.calls))
	}
	for i, op := range want {
		if f.history.calls[i].op != op {
			t.Errorf("call %d: expected %s, got %s", i, op, f.history.calls[i].op)
		}
	}
}

func TestExternalHistoryStateIsRespected(t *testing.T) {
	f := newFixture(t, ReadyBlocking)
	f.history.state = &core.NavigationRecord{PrototypeName: "Y", SitePackageKey: "A"}

	f.selectAndRender(t, "Y")
	f.history.state = &core.NavigationRecord{PrototypeName: "Y", SitePackageKey: "B"}
	f.selectAndRender(t, "Y")

	if f.history.calls[0].op != "replace" {
		t.Errorf("Expected replace for record equal to selection, got %s", f.history.calls[0].op)
	}
	if f.history.calls[1].op != "push" {
		t.Errorf("Expected push for record of another site, got %s", f.history.calls[1].op)
	}
}

func TestTitleWrittenOncePerIteration(t *testing.T) {
	f := newFixture(t, ReadyBlocking)

	f.selectAndRender(t, "X")
	f.selectAndRender(t, "X")
	f.selectAndRender(t, "Button")

	want := []string{"Monocle: Prototype X", "Monocle: Prototype X", "Monocle: Button"}
	if len(f.title.titles) != len(want) {
		t.Fatalf("Expected %d titles, got %v", len(want), f.title.titles)
	}
	for i := range want {
		if f.title.titles[i] != want[i] {
			t.Errorf("title %d: expected '%s', got '%s'", i, want[i], f.title.titles[i])
		}
	}
}

func TestBaseURLReadOnce(t *testing.T) {
	f := newFixture(t, ReadyBlocking)

	f.selectAndRender(t, "X")
	f.env.uri = "/changed"
	f.selectAndRender(t, "Y")

	if f.env.reads != 1 {
		t.Errorf("Expected module URI read once, got %d", f.env.reads)
	}
	if f.history.calls[1].url != "/monocle/A/Y" {
		t.Errorf("Expected cached base url, got '%s'", f.history.calls[1].url)
	}
}

func TestBlockingWaitDefersHistory(t *testing.T) {
	f := newFixture(t, ReadyBlocking)

	f.dispatch(t, core.SelectPrototype{PrototypeName: "X"})
	if len(f.history.calls) != 0 || len(f.title.titles) != 0 {
		t.Fatal("Expected no history or title update before ready")
	}

	f.dispatch(t, core.PrototypeReady{PrototypeName: "X"})
	if len(f.history.calls) != 1 || len(f.title.titles) != 1 {
		t.Fatalf("Expected history and title after ready, got %d calls, %d titles", len(f.history.calls), len(f.title.titles))
	}
}

func TestRenderFailureEndsWait(t *testing.T) {
	f := newFixture(t, ReadyBlocking)

	f.dispatch(t,
		core.SelectPrototype{PrototypeName: "X"},
		core.PrototypeRenderFailed{PrototypeName: "X", Err: errors.New("boom")},
	)

	if len(f.history.calls) != 1 {
		t.Errorf("Expected history update after failed render, got %d", len(f.history.calls))
	}
}

func TestBlockingWaitSkipsOtherPrototypes(t *testing.T) {
	f := newFixture(t, ReadyBlocking)

	f.dispatch(t,
		core.SelectPrototype{PrototypeName: "X"},
		core.PrototypeReady{PrototypeName: "Y"},
	)
	if len(f.history.calls) != 0 {
		t.Fatalf("Expected ready of another prototype to be skipped, got %#v", f.history.calls)
	}

	f.dispatch(t, core.PrototypeReady{PrototypeName: "X"})
	if len(f.history.calls) != 1 || f.history.calls[0].record.PrototypeName != "X" {
		t.Errorf("Expected history on X, got %#v", f.history.calls)
	}
}

func TestSelectionDuringWaitSupersedes(t *testing.T) {
	f := newFixture(t, ReadyBlocking)

	f.dispatch(t,
		core.SelectPrototype{PrototypeName: "X"},
		core.SelectPrototype{PrototypeName: "Y"},
		core.PrototypeReady{PrototypeName: "X"},
		core.PrototypeReady{PrototypeName: "Y"},
	)

	if len(f.history.calls) != 1 {
		t.Fatalf("Expected 1 history call, got %#v", f.history.calls)
	}
	call := f.history.calls[0]
	if call.record.PrototypeName != "Y" || call.url != "/monocle/A/Y" {
		t.Errorf("Expected history on Y, got %#v", call)
	}
	if len(f.title.titles) != 1 || f.title.titles[0] != "Monocle: Prototype Y" {
		t.Errorf("Expected title 'Monocle: Prototype Y', got %v", f.title.titles)
	}
}

func TestFireAndForgetDoesNotWait(t *testing.T) {
	f := newFixture(t, ReadyFireAndForget)

	f.dispatch(t, core.SelectPrototype{PrototypeName: "X"})
	f.dispatch(t, core.SelectPrototype{PrototypeName: "Y"})

	if len(f.history.calls) != 2 {
		t.Fatalf("Expected 2 history calls without ready, got %d", len(f.history.calls))
	}
	if f.history.calls[0].op != "replace" || f.history.calls[1].op != "push" {
		t.Errorf("Unexpected ops %s, %s", f.history.calls[0].op, f.history.calls[1].op)
	}
}

func TestHistoryFailureStopsProcess(t *testing.T) {
	f := newFixture(t, ReadyFireAndForget)
	f.history.err = errors.New("history unavailable")

	f.dispatch(t, core.SelectPrototype{PrototypeName: "X"})
	f.history.err = nil
	f.dispatch(t, core.SelectPrototype{PrototypeName: "Y"})

	if len(f.history.calls) != 0 {
		t.Errorf("Expected failed process to stop writing history, got %d calls", len(f.history.calls))
	}
	if len(f.title.titles) != 0 {
		t.Errorf("Expected no title after failed history write, got %v", f.title.titles)
	}
}

func putsAfter(msgs []core.Message, kind core.Kind) []core.Message {
	for i, msg := range msgs {
		if msg.Kind() == kind {
			return msgs[i+1:]
		}
	}
	return nil
}

func TestSameSiteDirectRoute(t *testing.T) {
	f := newFixture(t, ReadyBlocking)

	f.dispatch(t, core.NewRoute("A", "X"))

	out := putsAfter(f.puts, core.KindRoute)
	if len(out) != 1 {
		t.Fatalf("Expected 1 dispatched message, got %#v", out)
	}
	if sel, ok := out[0].(core.SelectPrototype); !ok || sel.PrototypeName != "X" {
		t.Errorf("Expected SelectPrototype{X}, got %#v", out[0])
	}
	if f.queue.Len() != 0 {
		t.Errorf("Expected no task queued, got %d", f.queue.Len())
	}
	if f.store.CurrentlySelected().PrototypeName != "X" {
		t.Errorf("Expected store to select X")
	}
}

func TestCrossSiteDirectRoute(t *testing.T) {
	f := newFixture(t, ReadyBlocking)

	f.dispatch(t, core.NewRoute("B", "X"))

	out := putsAfter(f.puts, core.KindRoute)
	if len(out) != 2 {
		t.Fatalf("Expected 2 dispatched messages, got %#v", out)
	}
	if task, ok := out[0].(core.AddTask); !ok || task.TaskID != core.TaskSwitchSite {
		t.Errorf("Expected AddTask{switch-site}, got %#v", out[0])
	}
	if site, ok := out[1].(core.SelectSite); !ok || site.SitePackageKey != "B" {
		t.Errorf("Expected SelectSite{B}, got %#v", out[1])
	}
	for _, msg := range out {
		if msg.Kind() == core.KindSelectPrototype {
			t.Errorf("Unexpected prototype selection %#v", msg)
		}
	}
	if !f.queue.IsPending(core.TaskSwitchSite) {
		t.Error("Expected switch-site task pending")
	}
	if f.store.CurrentlySelectedSitePackageKey() != "B" {
		t.Error("Expected store to switch to site B")
	}
	if len(f.history.calls) != 0 {
		t.Error("Direct routing must not touch history")
	}
}

func TestNoPrototypeRouteSwitchesSite(t *testing.T) {
	f := newFixture(t, ReadyBlocking)

	f.dispatch(t, core.NewRoute("A", ""))

	out := putsAfter(f.puts, core.KindRoute)
	if len(out) != 2 {
		t.Fatalf("Expected 2 dispatched messages, got %#v", out)
	}
	if _, ok := out[0].(core.AddTask); !ok {
		t.Errorf("Expected AddTask first, got %#v", out[0])
	}
	if site, ok := out[1].(core.SelectSite); !ok || site.SitePackageKey != "A" {
		t.Errorf("Expected SelectSite{A}, got %#v", out[1])
	}
	if f.queue.Len() != 1 {
		t.Errorf("Expected 1 task queued, got %d", f.queue.Len())
	}
}

func TestRouteThenHistoryRoundTrip(t *testing.T) {
	f := newFixture(t, ReadyBlocking)

	f.dispatch(t, core.NewRoute("A", "Y"), core.PrototypeReady{PrototypeName: "Y"})

	if len(f.history.calls) != 1 || f.history.calls[0].url != "/monocle/A/Y" {
		t.Fatalf("Expected routed selection to reach history, got %#v", f.history.calls)
	}
}
