// Package paths provides centralized path handling for conman.
// It implements XDG Base Directory compliance and resolves the config root,
// the backup root, and the mirrored backup path for any destination.
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/conman/pkg/errors"
)

// Environment variable names
const (
	// EnvConfigRoot is the primary environment variable for the config root
	EnvConfigRoot = "CONMAN_ROOT"

	// EnvBackupRoot overrides the backup root location
	EnvBackupRoot = "CONMAN_BACKUP_ROOT"

	// EnvDataDir overrides the XDG data directory for conman
	EnvDataDir = "CONMAN_DATA_DIR"
)

// Directory and file names under conman's own directories.
// These are internal layout, not user-configurable.
const (
	// ConmanDirName is the directory name for conman-specific files
	ConmanDirName = "conman"

	// BackupsDir is the subdirectory of the data dir holding backups
	BackupsDir = "backups"

	// LogFileName is the name of the log file
	LogFileName = "conman.log"
)

// Paths provides centralized path management for conman
type Paths interface {
	// ConfigRoot returns the directory templates are discovered under
	ConfigRoot() string

	// UsedFallback reports whether the config root fell back to the cwd
	UsedFallback() bool

	// BackupRoot returns the directory backups mirror destinations under
	BackupRoot() string

	// BackupPath maps a destination path to its mirrored backup path
	BackupPath(destination string) string

	// DataDir returns the XDG data directory for conman
	DataDir() string

	// ConfigDir returns the XDG config directory for conman
	ConfigDir() string

	// StateDir returns the XDG state directory for conman
	StateDir() string

	// LogFilePath returns the path of the log file
	LogFilePath() string
}

type paths struct {
	configRoot   string
	backupRoot   string
	xdgData      string
	xdgConfig    string
	xdgState     string
	usedFallback bool
}

// New creates a Paths instance rooted at configRoot. If configRoot is empty
// it is resolved from CONMAN_ROOT, falling back to the current directory.
// backupRoot may be empty, in which case CONMAN_BACKUP_ROOT or the default
// under the XDG data directory is used.
func New(configRoot, backupRoot string) (Paths, error) {
	p := &paths{}

	if configRoot == "" {
		if env := os.Getenv(EnvConfigRoot); env != "" {
			p.configRoot = expandHome(env)
		} else {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, errors.Wrap(err, errors.ErrFileAccess, "failed to determine working directory")
			}
			p.configRoot = cwd
			p.usedFallback = true
		}
	} else {
		p.configRoot = expandHome(configRoot)
	}

	absRoot, err := filepath.Abs(p.configRoot)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for config root")
	}
	p.configRoot = absRoot

	p.setupXDGDirs()

	if backupRoot == "" {
		backupRoot = os.Getenv(EnvBackupRoot)
	}
	if backupRoot == "" {
		backupRoot = filepath.Join(p.xdgData, BackupsDir)
	}
	absBackup, err := filepath.Abs(expandHome(backupRoot))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for backup root")
	}
	p.backupRoot = absBackup

	return p, nil
}

// setupXDGDirs initializes XDG directories, respecting environment overrides
func (p *paths) setupXDGDirs() {
	if dataDir := os.Getenv(EnvDataDir); dataDir != "" {
		p.xdgData = expandHome(dataDir)
	} else {
		p.xdgData = filepath.Join(xdg.DataHome, ConmanDirName)
	}

	p.xdgConfig = filepath.Join(xdg.ConfigHome, ConmanDirName)

	// XDG state, with a manual fallback for environments without it
	if stateDir := os.Getenv("XDG_STATE_HOME"); stateDir != "" {
		p.xdgState = filepath.Join(stateDir, ConmanDirName)
	} else {
		homeDir, _ := os.UserHomeDir()
		p.xdgState = filepath.Join(homeDir, ".local", "state", ConmanDirName)
	}
}

func (p *paths) ConfigRoot() string  { return p.configRoot }
func (p *paths) UsedFallback() bool  { return p.usedFallback }
func (p *paths) BackupRoot() string  { return p.backupRoot }
func (p *paths) DataDir() string     { return p.xdgData }
func (p *paths) ConfigDir() string   { return p.xdgConfig }
func (p *paths) StateDir() string    { return p.xdgState }
func (p *paths) LogFilePath() string { return filepath.Join(p.xdgState, LogFileName) }

// BackupPath mirrors an absolute destination path under the backup root.
// /etc/a.conf becomes <backupRoot>/etc/a.conf.
func (p *paths) BackupPath(destination string) string {
	rel := strings.TrimPrefix(Normalize(destination), string(filepath.Separator))
	return filepath.Join(p.backupRoot, rel)
}

// Normalize expands a leading ~ and makes the path absolute. Destinations
// are normalized once, so the installed file, its backup mirror, status
// reconstruction and the locator all agree on the same path for inputs
// like ~/.profile.
func Normalize(path string) string {
	abs, err := filepath.Abs(expandHome(path))
	if err != nil {
		return path
	}
	return abs
}

// expandHome expands a leading ~ to the user's home directory
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
