// Package status implements the status command: enumerate every file
// conman has installed, by walking the backup mirror, and report whether
// each destination is still pristine, hand-edited, or gone.
package status

import (
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/conman/pkg/errors"
	"github.com/arthur-debert/conman/pkg/filesystem"
	"github.com/arthur-debert/conman/pkg/installer"
	"github.com/arthur-debert/conman/pkg/logging"
	"github.com/arthur-debert/conman/pkg/paths"
	"github.com/arthur-debert/conman/pkg/types"
	"github.com/arthur-debert/conman/pkg/ui"
)

// Options defines the options for the Status command
type Options struct {
	// Root overrides the configured config root
	Root string

	// BackupRoot overrides the configured backup root
	BackupRoot string

	// FileSystem is the filesystem to use (optional, defaults to OS filesystem)
	FileSystem types.FS

	// Out receives the report (optional, defaults to stdout)
	Out io.Writer
}

// Status reports on every managed destination. The backup mirror is the
// record of what conman installed: each file under the backup root mirrors
// an absolute destination path.
func Status(opts Options) ([]types.ManagedFile, error) {
	log := logging.GetLogger("commands.status")

	fs := opts.FileSystem
	if fs == nil {
		fs = filesystem.NewOS()
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	p, err := paths.New(opts.Root, opts.BackupRoot)
	if err != nil {
		return nil, err
	}

	backupRoot := p.BackupRoot()
	log.Debug().Str("backupRoot", backupRoot).Msg("Scanning backup mirror")

	var files []types.ManagedFile
	if _, err := fs.Stat(backupRoot); err == nil {
		files, err = collect(fs, backupRoot, backupRoot)
		if err != nil {
			return nil, err
		}
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Destination < files[j].Destination
	})

	ui.WriteManagedFiles(out, files)
	return files, nil
}

// collect walks the backup mirror. A backup file's path relative to the
// backup root is its destination's absolute path.
func collect(fs types.FS, backupRoot, dir string) ([]types.ManagedFile, error) {
	entries, err := fs.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", dir)
	}

	var files []types.ManagedFile
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			sub, err := collect(fs, backupRoot, path)
			if err != nil {
				return nil, err
			}
			files = append(files, sub...)
			continue
		}

		rel, err := filepath.Rel(backupRoot, path)
		if err != nil {
			continue
		}
		destination := filepath.Join("/", rel)

		files = append(files, types.ManagedFile{
			Destination: destination,
			BackupPath:  path,
			State:       installer.Classify(fs, destination, path),
		})
	}
	return files, nil
}
