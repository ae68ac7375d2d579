// Package edit implements the edit command: map an installed file back to
// the template that generates it and open that template in the editor.
package edit

import (
	"context"
	"io"
	"os"

	"github.com/arthur-debert/conman/pkg/core"
	"github.com/arthur-debert/conman/pkg/errors"
	"github.com/arthur-debert/conman/pkg/logging"
)

// Options defines the options for the Edit command
type Options struct {
	// Root overrides the configured config root
	Root string

	// BackupRoot overrides the configured backup root
	BackupRoot string

	// Destination is the installed file to trace back
	Destination string

	// LocateOnly prints the template path instead of opening an editor
	LocateOnly bool

	// Out receives user-facing output (optional, defaults to stdout)
	Out io.Writer
}

// Edit locates the template behind opts.Destination and opens it. With
// LocateOnly set it only prints the template path.
func Edit(ctx context.Context, opts Options) error {
	log := logging.GetLogger("commands.edit")
	log.Debug().Str("destination", opts.Destination).Msg("Executing command")

	if opts.Destination == "" {
		return errors.New(errors.ErrInvalidInput, "a destination path is required")
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	rt, err := core.NewRuntime(core.RuntimeOptions{
		Root:       opts.Root,
		BackupRoot: opts.BackupRoot,
		Out:        out,
	})
	if err != nil {
		return err
	}

	if opts.LocateOnly {
		template, err := rt.Locate(ctx, opts.Destination)
		if err != nil {
			return err
		}
		_, err = io.WriteString(out, template+"\n")
		return err
	}

	return rt.Edit(ctx, opts.Destination)
}
