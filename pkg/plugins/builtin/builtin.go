// Package builtin ships the plugin that conman registers out of the box:
// small filesystem verbs templates commonly need alongside installed
// config files.
package builtin

import (
	"context"
	"path/filepath"

	"github.com/arthur-debert/conman/pkg/errors"
	"github.com/arthur-debert/conman/pkg/plugins"
)

// New returns the built-in plugin. Verbs:
//
//	ensure_dir(path)            create a directory (and parents)
//	link_file(target, linkpath) create or refresh a symlink
func New() plugins.Plugin {
	return plugins.Plugin{
		Name: "base",
		Registrations: []plugins.Registration{
			{Verb: "ensure_dir", Handler: "ensure_dir"},
			{Verb: "link_file", Handler: "link_file"},
		},
		Handlers: map[string]plugins.Handler{
			"ensure_dir": ensureDir,
			"link_file":  linkFile,
		},
	}
}

func ensureDir(ctx context.Context, env *plugins.Env, args []string) error {
	if len(args) != 1 {
		return errors.Newf(errors.ErrInvalidInput, "ensure_dir expects 1 argument, got %d", len(args))
	}

	path := args[0]
	if err := env.FS.MkdirAll(path, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "ensure_dir %s", path)
	}

	env.Logger.Debug().Str("path", path).Msg("Ensured directory")
	return nil
}

func linkFile(ctx context.Context, env *plugins.Env, args []string) error {
	if len(args) != 2 {
		return errors.Newf(errors.ErrInvalidInput, "link_file expects 2 arguments, got %d", len(args))
	}

	target, linkPath := args[0], args[1]

	// Refresh an existing symlink; never clobber a real file.
	if existing, err := env.FS.Readlink(linkPath); err == nil {
		if existing == target {
			return nil
		}
		if err := env.FS.Remove(linkPath); err != nil {
			return errors.Wrapf(err, errors.ErrFileWrite, "link_file: cannot replace %s", linkPath)
		}
	} else if _, statErr := env.FS.Stat(linkPath); statErr == nil {
		return errors.Newf(errors.ErrFileWrite,
			"link_file: %s exists and is not a symlink", linkPath)
	}

	if err := env.FS.MkdirAll(filepath.Dir(linkPath), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "link_file: parent of %s", linkPath)
	}
	if err := env.FS.Symlink(target, linkPath); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "link_file %s -> %s", linkPath, target)
	}

	env.Logger.Debug().Str("link", linkPath).Str("target", target).Msg("Created symlink")
	return nil
}
