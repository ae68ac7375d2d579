package executor

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/conman/pkg/engine"
	"github.com/arthur-debert/conman/pkg/errors"
	"github.com/arthur-debert/conman/pkg/installer"
	"github.com/arthur-debert/conman/pkg/logging"
	"github.com/arthur-debert/conman/pkg/plugins"
	"github.com/arthur-debert/conman/pkg/types"
)

// InstallStrategy is the phase-2 strategy that actually materializes files:
// config_file actions re-expand their template for the requested output
// block and hand the result to the installer; plugin actions dispatch to
// their registered handlers.
type InstallStrategy struct {
	Engine       engine.Engine
	FS           types.FS
	Installer    *installer.Installer
	Plugins      *plugins.Set
	ScratchDir   string
	ScriptPath   string
	SearchPath   string
	PreludeFiles []string
	Logger       zerolog.Logger

	// Tallied while executing
	Installed int
	Declined  int

	seq int
}

// ConfigFile implements Strategy
func (s *InstallStrategy) ConfigFile(ctx context.Context, action types.ConfigFileAction) error {
	res, err := s.Engine.Expand(ctx, engine.Request{
		TemplatePath: action.TemplatePath,
		ScriptPath:   s.ScriptPath,
		OutputID:     action.OutputID,
		SearchPath:   s.SearchPath,
		PreludeFiles: s.PreludeFiles,
	})
	if err != nil {
		return errors.Wrapf(err, errors.ErrExpansionFailed,
			"cannot generate output %q of %s", action.OutputID, action.TemplatePath)
	}
	// Deferred records emitted by this second expansion are already in the
	// script; only the text matters here.

	s.seq++
	generated := filepath.Join(s.ScratchDir, fmt.Sprintf("generated-%d", s.seq))
	if err := s.FS.WriteFile(generated, []byte(res.Text), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite,
			"cannot stage generated output for %s", action.DisplayName)
	}

	result, err := s.Installer.InstallNamed(generated, action.Destination, action.DisplayName)
	if err != nil {
		return err
	}

	switch result {
	case types.Installed:
		s.Installed++
	case types.Declined:
		s.Declined++
	}
	return nil
}

// Plugin implements Strategy
func (s *InstallStrategy) Plugin(ctx context.Context, action types.PluginAction) error {
	logger := s.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = logging.GetLogger("executor.plugin")
	}
	env := &plugins.Env{FS: s.FS, Logger: logger}
	return s.Plugins.Dispatch(ctx, env, action)
}
