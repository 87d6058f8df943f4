package routing

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/3-lines-studio/monocle/internal/core"
	"github.com/3-lines-studio/monocle/internal/runner"
)

// DirectRoutingSync turns route intents into selection messages. It never
// reads or writes history.
type DirectRoutingSync struct {
	selectors Selectors
	logger    zerolog.Logger
}

func NewDirectRoutingSync(selectors Selectors, logger zerolog.Logger) *DirectRoutingSync {
	return &DirectRoutingSync{selectors: selectors, logger: logger}
}

func (d *DirectRoutingSync) Run(ctx context.Context, eff runner.Effects) error {
	for {
		msg, err := eff.Take(ctx, core.KindRoute)
		if err != nil {
			return err
		}
		intent := msg.(core.Route).Intent

		decision := core.DecideRoute(intent, d.selectors.CurrentlySelectedSitePackageKey())
		for _, out := range decision.Messages {
			eff.Put(out)
		}

		d.logger.Debug().
			Str("site", intent.SitePackageKey).
			Str("prototype", intent.PrototypeName).
			Str("action", decision.Action.String()).
			Msg("route handled")
	}
}

// Coordinator bundles both routing processes.
type Coordinator struct {
	History *HistorySync
	Direct  *DirectRoutingSync
}

// Register spawns the history process before the direct-routing process.
func (c *Coordinator) Register(r *runner.Runner) error {
	if err := r.Spawn("history-sync", c.History.Run); err != nil {
		return err
	}
	return r.Spawn("direct-routing-sync", c.Direct.Run)
}
