package main

import (
	stderrors "errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/charmbracelet/lipgloss"

	"github.com/arthur-debert/conman/cmd/conman"
)

var errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

func main() {
	rootCmd := conman.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		// When the user's editor exits non-zero, mirror its exit code
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}

		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}
