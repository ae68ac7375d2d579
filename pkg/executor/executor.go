// Package executor replays the deferred action script. There is one
// interpreter; what an action does is decided by the Strategy it is run
// with. Installation and template location use the same action log with
// different strategies bound.
package executor

import (
	"context"

	"github.com/arthur-debert/conman/pkg/errors"
	"github.com/arthur-debert/conman/pkg/logging"
	"github.com/arthur-debert/conman/pkg/types"
)

// Strategy decides what each tagged action does when the log is replayed
type Strategy interface {
	ConfigFile(ctx context.Context, action types.ConfigFileAction) error
	Plugin(ctx context.Context, action types.PluginAction) error
}

// Execute replays actions strictly in recorded order, exactly once each.
// Plugin actions may have ordering-sensitive side effects invisible to the
// core, so no reordering or batching ever happens here. The first error
// stops the replay.
func Execute(ctx context.Context, actions []types.Action, strategy Strategy) error {
	logger := logging.GetLogger("executor")

	for i, action := range actions {
		logger.Debug().
			Int("index", i).
			Str("verb", action.Verb()).
			Msg("Executing action")

		var err error
		switch a := action.(type) {
		case types.ConfigFileAction:
			err = strategy.ConfigFile(ctx, a)
		case types.PluginAction:
			err = strategy.Plugin(ctx, a)
		default:
			err = errors.Newf(errors.ErrInternal, "unknown action type %T", action)
		}

		if err != nil {
			return errors.Wrapf(err, errors.ErrInternal, "action %d (%s) failed", i, action.Verb())
		}
	}

	return nil
}
