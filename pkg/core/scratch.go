package core

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/conman/pkg/errors"
)

// ScriptFileName is the deferred action script's name inside the scratch dir
const ScriptFileName = "actions.script"

// Scratch is the per-run temporary area: the action script, the generated
// preludes, and staged output files all live here. It must be released on
// every exit path, success or not.
type Scratch struct {
	// Dir is the scratch directory
	Dir string

	// ScriptPath is the deferred action script file
	ScriptPath string
}

// NewScratch creates the scratch directory with an empty action script path
// reserved. Callers defer Close.
func NewScratch() (*Scratch, error) {
	dir, err := os.MkdirTemp("", "conman-*")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrDirCreate, "failed to create scratch directory")
	}

	return &Scratch{
		Dir:        dir,
		ScriptPath: filepath.Join(dir, ScriptFileName),
	}, nil
}

// Close removes the scratch directory and everything in it
func (s *Scratch) Close() {
	if s == nil || s.Dir == "" {
		return
	}
	_ = os.RemoveAll(s.Dir)
	s.Dir = ""
}
