package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/3-lines-studio/monocle/internal/business"
	"github.com/3-lines-studio/monocle/internal/core"
	"github.com/3-lines-studio/monocle/internal/observability"
	"github.com/3-lines-studio/monocle/internal/routing"
	"github.com/3-lines-studio/monocle/internal/runner"
	"github.com/3-lines-studio/monocle/internal/store"
)

type SessionConfig struct {
	ModuleURI string
	Locales   []string
	ReadyWait routing.ReadyWait
}

type SessionDeps struct {
	Render  *RenderService
	Catalog Catalog
	History NavigableHistory
	Title   routing.TitleSink
	Logger  zerolog.Logger
}

// Session is one UI session: the selection store, the task queue and every
// cooperative process, living until the context passed to Run ends.
type Session struct {
	Store   *store.Store
	Tasks   *business.Queue
	runner  *runner.Runner
	history NavigableHistory
}

// NewSession wires a session. Processes wake in this order: history sync,
// direct routing, site switch, preview rendering.
func NewSession(cfg SessionConfig, deps SessionDeps, opts ...runner.Option) (*Session, error) {
	st := store.New("")
	tasks := business.NewQueue()

	runnerOpts := []runner.Option{
		runner.WithLogger(deps.Logger),
		runner.WithReducer(st),
		runner.WithReducer(tasks),
		runner.WithObserver(func(msg core.Message) {
			observability.RecordMessage(msg.Kind().String())
		}),
	}
	r := runner.New(append(runnerOpts, opts...)...)

	coordinator := &routing.Coordinator{
		History: routing.NewHistorySync(
			routing.StaticEnvironment(cfg.ModuleURI),
			st,
			deps.History,
			deps.Title,
			routing.WithReadyWait(cfg.ReadyWait),
			routing.WithHistoryLogger(deps.Logger),
		),
		Direct: routing.NewDirectRoutingSync(st, deps.Logger),
	}
	if err := coordinator.Register(r); err != nil {
		return nil, fmt.Errorf("failed to register routing: %w", err)
	}

	siteSwitch := NewSiteSwitch(deps.Catalog, st, deps.Logger)
	if err := r.Spawn("site-switch", siteSwitch.Run); err != nil {
		return nil, err
	}

	preview := NewPreviewRenderer(deps.Render, st, cfg.Locales, deps.Logger)
	if err := r.Spawn("preview-renderer", preview.Run); err != nil {
		return nil, err
	}

	return &Session{
		Store:   st,
		Tasks:   tasks,
		runner:  r,
		history: deps.History,
	}, nil
}

// Open routes to the initial target of the session (a deep link or the
// default site).
func (s *Session) Open(intent core.RouteIntent) {
	s.runner.Dispatch(core.Route{Intent: intent})
}

func (s *Session) Dispatch(msg core.Message) {
	s.runner.Dispatch(msg)
}

// Back moves history one entry back and routes to it.
func (s *Session) Back() bool {
	record, ok := s.history.Back()
	if !ok {
		return false
	}
	s.runner.Dispatch(core.Route{Intent: record.Intent()})
	return true
}

// Forward moves history one entry forward and routes to it.
func (s *Session) Forward() bool {
	record, ok := s.history.Forward()
	if !ok {
		return false
	}
	s.runner.Dispatch(core.Route{Intent: record.Intent()})
	return true
}

func (s *Session) Run(ctx context.Context) error {
	return s.runner.Run(ctx)
}

// Drain handles every queued message and returns. Used when the session is
// driven step by step instead of through Run.
func (s *Session) Drain(ctx context.Context) error {
	return s.runner.Drain(ctx)
}
