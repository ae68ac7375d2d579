package core

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/conman/pkg/config"
	"github.com/arthur-debert/conman/pkg/engine"
	"github.com/arthur-debert/conman/pkg/filesystem"
	"github.com/arthur-debert/conman/pkg/logging"
	"github.com/arthur-debert/conman/pkg/paths"
	"github.com/arthur-debert/conman/pkg/plugins"
	"github.com/arthur-debert/conman/pkg/plugins/builtin"
	"github.com/arthur-debert/conman/pkg/types"
	"github.com/arthur-debert/conman/pkg/ui"
)

// Runtime carries everything one pipeline run needs. There is no ambient
// state: commands build a Runtime, pass it down, and throw it away.
type Runtime struct {
	Config    *config.Config
	Paths     paths.Paths
	FS        types.FS
	Engine    engine.Engine
	Plugins   *plugins.Set
	Confirmer types.Confirmer
	Out       io.Writer
	Force     bool
	Logger    zerolog.Logger
}

// RuntimeOptions are the command-line level overrides for NewRuntime
type RuntimeOptions struct {
	// Root overrides the configured config root
	Root string

	// BackupRoot overrides the configured backup root
	BackupRoot string

	// Force installs without prompting on conflicts
	Force bool

	// Out receives user-facing output; defaults to stdout
	Out io.Writer
}

// NewRuntime resolves configuration and wires the production dependency
// set: the real filesystem, the external m4 engine, and the built-in
// plugin registrations.
func NewRuntime(opts RuntimeOptions) (*Runtime, error) {
	// The config file is searched where the config root can be known before
	// loading it: the --root flag, the environment, then the XDG config dir.
	cfg, err := config.Load(opts.Root, os.Getenv("CONMAN_ROOT"),
		filepath.Join(xdg.ConfigHome, "conman"))
	if err != nil {
		return nil, err
	}

	root := opts.Root
	if root == "" {
		root = cfg.Root
	}
	backupRoot := opts.BackupRoot
	if backupRoot == "" {
		backupRoot = cfg.BackupRoot
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	p, err := paths.New(root, backupRoot)
	if err != nil {
		return nil, err
	}
	if p.UsedFallback() {
		fmt.Fprintf(out, "Warning: no config root configured, using the current directory: %s\n",
			p.ConfigRoot())
	}

	set, err := plugins.NewSet(builtin.New())
	if err != nil {
		return nil, err
	}

	return &Runtime{
		Config:    cfg,
		Paths:     p,
		FS:        filesystem.NewOS(),
		Engine:    engine.NewM4(cfg.Engine.Binary, cfg.Engine.Args),
		Plugins:   set,
		Confirmer: ui.NewConsoleConfirmer(),
		Out:       out,
		Force:     opts.Force,
		Logger:    logging.GetLogger("core"),
	}, nil
}
