// Package apply implements the apply command: run the whole pipeline and
// install every generated config file.
package apply

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/arthur-debert/conman/pkg/core"
	"github.com/arthur-debert/conman/pkg/logging"
)

// Options defines the options for the Apply command
type Options struct {
	// Root overrides the configured config root
	Root string

	// BackupRoot overrides the configured backup root
	BackupRoot string

	// Force installs over hand-edited destinations without prompting
	Force bool

	// Out receives user-facing output (optional, defaults to stdout)
	Out io.Writer
}

// Apply expands every template under the config root and installs the
// results, returning a tally of what happened.
func Apply(ctx context.Context, opts Options) (core.Summary, error) {
	log := logging.GetLogger("commands.apply")
	log.Debug().Str("root", opts.Root).Bool("force", opts.Force).Msg("Executing command")

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	rt, err := core.NewRuntime(core.RuntimeOptions{
		Root:       opts.Root,
		BackupRoot: opts.BackupRoot,
		Force:      opts.Force,
		Out:        out,
	})
	if err != nil {
		return core.Summary{}, err
	}

	summary, err := rt.Apply(ctx)
	if err != nil {
		return summary, err
	}

	fmt.Fprintf(out, "%d templates, %d actions: %d installed, %d declined",
		summary.Templates, summary.Actions, summary.Installed, summary.Declined)
	if summary.Failures > 0 {
		fmt.Fprintf(out, ", %d failed to expand", summary.Failures)
	}
	fmt.Fprintln(out)
	return summary, nil
}
