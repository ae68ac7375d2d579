package installer

import (
	"bytes"

	"github.com/arthur-debert/conman/pkg/types"
)

// Classify reports a managed destination's state relative to its backup:
// the same comparison Install performs, exposed for status reporting.
func Classify(fs types.FS, destination, backupPath string) types.FileState {
	backup, err := fs.ReadFile(backupPath)
	if err != nil {
		// No backup on record; callers only ask about recorded files.
		return types.StateMissing
	}

	dest, err := fs.ReadFile(destination)
	if err != nil {
		return types.StateMissing
	}

	if bytes.Equal(backup, dest) {
		return types.StateOK
	}
	return types.StateModified
}
