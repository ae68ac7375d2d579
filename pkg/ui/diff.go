package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/arthur-debert/conman/pkg/errors"
)

var (
	diffHeaderStyle = lipgloss.NewStyle().Bold(true)
	diffAddStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	diffDelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// Diff renders a unified diff between two file contents
func Diff(fromLabel, toLabel, fromContent, toContent string) (string, error) {
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(fromContent),
		B:        difflib.SplitLines(toContent),
		FromFile: fromLabel,
		ToFile:   toLabel,
		Context:  3,
	}

	text, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to compute diff")
	}
	return text, nil
}

// WriteDiff renders a styled unified diff to w
func WriteDiff(w io.Writer, header, fromLabel, toLabel, fromContent, toContent string) error {
	text, err := Diff(fromLabel, toLabel, fromContent, toContent)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, diffHeaderStyle.Render(header))
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "+"):
			fmt.Fprintln(w, diffAddStyle.Render(line))
		case strings.HasPrefix(line, "-"):
			fmt.Fprintln(w, diffDelStyle.Render(line))
		default:
			fmt.Fprintln(w, line)
		}
	}
	return nil
}
