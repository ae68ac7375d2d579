package ui

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"

	"github.com/arthur-debert/conman/pkg/types"
)

// stateStyle returns the pterm style for a managed-file state
func stateStyle(state types.FileState) *pterm.Style {
	switch state {
	case types.StateOK:
		return pterm.NewStyle(pterm.FgGreen)
	case types.StateModified:
		return pterm.NewStyle(pterm.FgYellow, pterm.Bold)
	case types.StateMissing:
		return pterm.NewStyle(pterm.FgRed)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}

// WriteManagedFiles renders the status command's listing
func WriteManagedFiles(w io.Writer, files []types.ManagedFile) {
	if len(files) == 0 {
		fmt.Fprintln(w, "no managed files on record")
		return
	}

	for _, f := range files {
		label := stateStyle(f.State).Sprint(f.State.String())
		fmt.Fprintf(w, "%-10s %s\n", label, f.Destination)
	}
}
