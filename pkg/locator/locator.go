// Package locator answers the reverse question: given an installed
// destination, which template produced it? It replays the same deferred
// action script as installation, but with a probe strategy bound in place
// of the installer, so nothing is written while searching.
package locator

import (
	"context"
	"path/filepath"

	"github.com/arthur-debert/conman/pkg/errors"
	"github.com/arthur-debert/conman/pkg/executor"
	"github.com/arthur-debert/conman/pkg/logging"
	"github.com/arthur-debert/conman/pkg/paths"
	"github.com/arthur-debert/conman/pkg/types"
)

// probeStrategy matches config_file destinations against one target.
// Plugin actions are not searchable: only the built-in action records a
// template-to-destination link.
type probeStrategy struct {
	target   string
	found    string
	hasMatch bool
}

func (p *probeStrategy) ConfigFile(ctx context.Context, action types.ConfigFileAction) error {
	if p.hasMatch {
		return nil
	}
	if Canonical(action.Destination) == p.target {
		p.found = action.TemplatePath
		p.hasMatch = true
	}
	return nil
}

func (p *probeStrategy) Plugin(ctx context.Context, action types.PluginAction) error {
	return nil
}

// Locate scans the accumulated actions for the config_file action whose
// destination resolves to destination, and returns the originating
// template. A miss means the file was not created by conman (or only by a
// plugin action) and is reported as ErrNotManaged.
func Locate(ctx context.Context, actions []types.Action, destination string) (string, error) {
	logger := logging.GetLogger("locator")

	probe := &probeStrategy{target: Canonical(destination)}
	if err := executor.Execute(ctx, actions, probe); err != nil {
		return "", err
	}

	if !probe.hasMatch {
		logger.Debug().Str("destination", destination).Msg("No recorded action matches")
		return "", errors.Newf(errors.ErrNotManaged,
			"%s was not created by conman", destination)
	}

	logger.Debug().
		Str("destination", destination).
		Str("template", probe.found).
		Msg("Located originating template")
	return probe.found, nil
}

// Canonical resolves a path for comparison: home-expanded, absolute, and
// with symlinks evaluated when the path exists. Recorded destinations may
// be spelled ~/.profile while the user asks about the absolute path; both
// must canonicalize identically.
func Canonical(path string) string {
	abs := paths.Normalize(path)
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}
