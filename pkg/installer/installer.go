// Package installer performs the conflict-aware installation of a generated
// file to its destination. The backup mirror is the memory of what conman
// last wrote: a destination that differs from its backup was edited
// out-of-band and is never overwritten without explicit confirmation.
package installer

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/conman/pkg/errors"
	"github.com/arthur-debert/conman/pkg/logging"
	"github.com/arthur-debert/conman/pkg/paths"
	"github.com/arthur-debert/conman/pkg/types"
	"github.com/arthur-debert/conman/pkg/ui"
)

// Options configures an Installer
type Options struct {
	FS        types.FS
	Paths     paths.Paths
	Confirmer types.Confirmer

	// Out receives diffs and install messages; defaults to os.Stdout
	Out io.Writer

	// Force overwrites unconditionally, skipping every comparison
	Force bool

	Logger zerolog.Logger
}

// Installer copies generated files into place with backup bookkeeping
type Installer struct {
	fs        types.FS
	paths     paths.Paths
	confirmer types.Confirmer
	out       io.Writer
	force     bool
	logger    zerolog.Logger
}

// New creates an Installer
func New(opts Options) *Installer {
	logger := opts.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = logging.GetLogger("installer")
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	return &Installer{
		fs:        opts.FS,
		paths:     opts.Paths,
		confirmer: opts.Confirmer,
		out:       out,
		force:     opts.Force,
		logger:    logger,
	}
}

// Install places the freshly generated file at generatedPath onto
// destination, refusing to clobber out-of-band edits without confirmation.
//
// The decision table:
//   - force: copy unconditionally
//   - destination absent: first install, copy
//   - backup present and identical to destination: unchanged since the
//     last run, copy
//   - backup present but different: hand-edited since the last run, show
//     the diff and ask
//   - no backup but destination present: not created by conman, diff the
//     destination against the new content and ask
//
// A decline returns (Declined, nil) and leaves destination and backup
// byte-for-byte untouched. After any successful install,
// backup == destination == generated content.
func (ins *Installer) Install(generatedPath, destination string) (types.InstallResult, error) {
	return ins.InstallNamed(generatedPath, destination, destination)
}

// InstallNamed is Install with a display name for prompts and logs
func (ins *Installer) InstallNamed(generatedPath, destination, displayName string) (types.InstallResult, error) {
	// Templates write destinations like ~/.profile; the file, its backup
	// and every later comparison must use the same absolute path.
	destination = paths.Normalize(destination)

	generated, err := ins.fs.ReadFile(generatedPath)
	if err != nil {
		return types.InstallUnknown, errors.Wrapf(err, errors.ErrInstallFailed,
			"cannot read generated file for %s", displayName)
	}

	logger := ins.logger.With().
		Str("destination", destination).
		Str("name", displayName).
		Logger()

	if ins.force {
		logger.Info().Msg("Force mode, installing unconditionally")
		return ins.copyIntoPlace(generated, destination)
	}

	destContent, destErr := ins.fs.ReadFile(destination)
	if destErr != nil {
		if !stderrors.Is(destErr, fs.ErrNotExist) {
			return types.InstallUnknown, errors.Wrapf(destErr, errors.ErrInstallFailed,
				"cannot read destination %s", destination)
		}
		// First install: nothing to protect.
		logger.Info().Msg("First install")
		return ins.copyIntoPlace(generated, destination)
	}

	backupPath := ins.paths.BackupPath(destination)
	backupContent, backupErr := ins.fs.ReadFile(backupPath)
	switch {
	case backupErr == nil && bytes.Equal(backupContent, destContent):
		// Unmodified since the last run.
		logger.Debug().Msg("Destination matches backup, installing")
		return ins.copyIntoPlace(generated, destination)

	case backupErr == nil:
		// Hand-edited since the last run.
		logger.Warn().Msg("Destination modified out-of-band")
		header := fmt.Sprintf("%s has been modified since conman last wrote it:", displayName)
		if err := ui.WriteDiff(ins.out, header, "last installed", "current", string(backupContent), string(destContent)); err != nil {
			return types.InstallUnknown, err
		}
		return ins.confirmAndCopy(generated, destination, displayName, logger)

	case stderrors.Is(backupErr, fs.ErrNotExist):
		// Destination exists but conman never wrote it.
		logger.Warn().Msg("Destination exists but is not managed")
		header := fmt.Sprintf("%s exists but was not created by conman:", displayName)
		if err := ui.WriteDiff(ins.out, header, "current", "generated", string(destContent), string(generated)); err != nil {
			return types.InstallUnknown, err
		}
		return ins.confirmAndCopy(generated, destination, displayName, logger)

	default:
		return types.InstallUnknown, errors.Wrapf(backupErr, errors.ErrInstallFailed,
			"cannot read backup %s", backupPath)
	}
}

func (ins *Installer) confirmAndCopy(generated []byte, destination, displayName string, logger zerolog.Logger) (types.InstallResult, error) {
	ok, err := ins.confirmer.Confirm(fmt.Sprintf("Overwrite %s?", displayName))
	if err != nil {
		return types.InstallUnknown, errors.Wrapf(err, errors.ErrInstallFailed,
			"confirmation failed for %s", displayName)
	}
	if !ok {
		// Decline is a normal outcome: skip, not an error.
		logger.Info().Msg("Overwrite declined, skipping")
		return types.Declined, nil
	}
	return ins.copyIntoPlace(generated, destination)
}

// copyIntoPlace writes content to the destination and its mirrored backup,
// creating parent directories as needed. This establishes the invariant
// the next run's comparison relies on.
func (ins *Installer) copyIntoPlace(content []byte, destination string) (types.InstallResult, error) {
	backupPath := ins.paths.BackupPath(destination)

	for _, dir := range []string{filepath.Dir(destination), filepath.Dir(backupPath)} {
		if err := ins.fs.MkdirAll(dir, 0755); err != nil {
			return types.InstallUnknown, errors.Wrapf(err, errors.ErrDirCreate,
				"cannot create %s", dir)
		}
	}

	if err := ins.fs.WriteFile(destination, content, 0644); err != nil {
		return types.InstallUnknown, errors.Wrapf(err, errors.ErrFileWrite,
			"cannot write %s", destination)
	}
	if err := ins.fs.WriteFile(backupPath, content, 0644); err != nil {
		return types.InstallUnknown, errors.Wrapf(err, errors.ErrFileWrite,
			"cannot write backup %s", backupPath)
	}

	ins.logger.Info().Str("destination", destination).Msg("Installed")
	return types.Installed, nil
}
