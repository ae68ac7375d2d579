package types

// InstallResult describes the outcome of a single installation attempt.
type InstallResult int

const (
	// InstallUnknown is the zero value and never a valid outcome
	InstallUnknown InstallResult = iota

	// Installed means the destination and its backup were written
	Installed

	// Declined means the human refused the overwrite; nothing was written.
	// This is a normal outcome, not an error.
	Declined
)

// String returns a human-readable form of the result
func (r InstallResult) String() string {
	switch r {
	case Installed:
		return "installed"
	case Declined:
		return "declined"
	default:
		return "unknown"
	}
}

// FileState classifies a managed destination relative to its backup.
type FileState int

const (
	// StateOK means destination and backup are byte-identical
	StateOK FileState = iota

	// StateModified means the destination was edited out-of-band
	StateModified

	// StateMissing means a backup exists but the destination is gone
	StateMissing
)

// String returns a human-readable form of the state
func (s FileState) String() string {
	switch s {
	case StateOK:
		return "ok"
	case StateModified:
		return "modified"
	case StateMissing:
		return "missing"
	default:
		return "unknown"
	}
}

// ManagedFile is one destination reconstructed from the backup store,
// as reported by the status command.
type ManagedFile struct {
	Destination string
	BackupPath  string
	State       FileState
}
