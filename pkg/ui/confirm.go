package ui

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"

	"github.com/arthur-debert/conman/pkg/logging"
	"github.com/arthur-debert/conman/pkg/types"
)

// consoleConfirmer asks on the controlling terminal. Anything but an
// explicit yes is a decline; a non-interactive stdin always declines so a
// scripted run can never silently overwrite hand-edited files.
type consoleConfirmer struct{}

// NewConsoleConfirmer returns the interactive Confirmer used in production
func NewConsoleConfirmer() types.Confirmer {
	return &consoleConfirmer{}
}

func (c *consoleConfirmer) Confirm(prompt string) (bool, error) {
	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		logger := logging.GetLogger("ui")
		logger.Warn().Str("prompt", prompt).Msg("No terminal available, declining")
		return false, nil
	}

	return pterm.DefaultInteractiveConfirm.
		WithDefaultValue(false).
		Show(prompt)
}

// StaticConfirmer answers every prompt the same way; tests and --force-like
// callers use it.
type StaticConfirmer struct {
	Answer  bool
	Prompts []string
}

// Confirm implements types.Confirmer
func (s *StaticConfirmer) Confirm(prompt string) (bool, error) {
	s.Prompts = append(s.Prompts, prompt)
	return s.Answer, nil
}
