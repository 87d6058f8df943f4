package routing

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/3-lines-studio/monocle/internal/core"
	"github.com/3-lines-studio/monocle/internal/runner"
)

// ReadyWait controls whether HistorySync waits for the rendering of a
// selected prototype before touching history.
type ReadyWait int

const (
	// ReadyBlocking waits for PrototypeReady or PrototypeRenderFailed.
	ReadyBlocking ReadyWait = iota
	// ReadyFireAndForget updates history right after the selection, so the
	// URL and title may change before the preview has rendered.
	ReadyFireAndForget
)

func (w ReadyWait) String() string {
	if w == ReadyFireAndForget {
		return "fire-and-forget"
	}
	return "blocking"
}

type HistoryOption func(*HistorySync)

func WithReadyWait(wait ReadyWait) HistoryOption {
	return func(h *HistorySync) {
		h.readyWait = wait
	}
}

func WithHistoryLogger(logger zerolog.Logger) HistoryOption {
	return func(h *HistorySync) {
		h.logger = logger
	}
}

// HistorySync writes every prototype selection into history and the
// document title.
type HistorySync struct {
	env       Environment
	selectors Selectors
	history   History
	title     TitleSink
	readyWait ReadyWait
	logger    zerolog.Logger
}

func NewHistorySync(env Environment, selectors Selectors, history History, title TitleSink, opts ...HistoryOption) *HistorySync {
	h := &HistorySync{
		env:       env,
		selectors: selectors,
		history:   history,
		title:     title,
		readyWait: ReadyBlocking,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// Run is the process body. The base URL is read once for the lifetime of
// the process. A failing history write ends the process with that error.
func (h *HistorySync) Run(ctx context.Context, eff runner.Effects) error {
	baseURL := h.env.ModuleURI()

	for {
		msg, err := eff.Take(ctx, core.KindSelectPrototype)
		if err != nil {
			return err
		}
		target := h.snapshot(msg.(core.SelectPrototype).PrototypeName)

		if h.readyWait == ReadyBlocking {
			if target, err = h.awaitRendered(ctx, eff, target); err != nil {
				return err
			}
		}

		path := core.PrototypePath(target.record.SitePackageKey, target.record.PrototypeName)
		if err := h.apply(target.record, core.DocumentTitle(target.title), core.PrototypeURL(baseURL, path)); err != nil {
			return err
		}
	}
}

type historyTarget struct {
	record core.NavigationRecord
	title  string
}

// snapshot captures the site and title at selection time.
func (h *HistorySync) snapshot(prototypeName string) historyTarget {
	return historyTarget{
		record: core.NavigationRecord{
			PrototypeName:  prototypeName,
			SitePackageKey: h.selectors.CurrentlySelectedSitePackageKey(),
		},
		title: h.selectors.CurrentlySelected().Title,
	}
}

// awaitRendered waits for the rendering outcome of target. A selection made
// while waiting replaces target; outcomes of other prototypes are skipped.
func (h *HistorySync) awaitRendered(ctx context.Context, eff runner.Effects, target historyTarget) (historyTarget, error) {
	for {
		msg, err := eff.Take(ctx, core.KindSelectPrototype, core.KindPrototypeReady, core.KindPrototypeRenderFailed)
		if err != nil {
			return target, err
		}

		var rendered string
		switch m := msg.(type) {
		case core.SelectPrototype:
			h.logger.Debug().
				Str("superseded", target.record.PrototypeName).
				Str("prototype", m.PrototypeName).
				Msg("selection changed before render")
			target = h.snapshot(m.PrototypeName)
			continue
		case core.PrototypeReady:
			rendered = m.PrototypeName
		case core.PrototypeRenderFailed:
			rendered = m.PrototypeName
		}
		if rendered == target.record.PrototypeName {
			return target, nil
		}
	}
}

func (h *HistorySync) apply(record core.NavigationRecord, title, url string) error {
	action := core.DecideHistoryAction(h.history.State(), record)

	var err error
	switch action {
	case core.HistoryPush:
		err = h.history.PushState(record, title, url)
	default:
		err = h.history.ReplaceState(record, title, url)
	}
	if err != nil {
		return err
	}

	h.title.SetTitle(title)

	h.logger.Debug().
		Str("action", action.String()).
		Str("url", url).
		Str("title", title).
		Msg("history updated")
	return nil
}
