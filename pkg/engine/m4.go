package engine

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/arthur-debert/conman/pkg/errors"
	"github.com/arthur-debert/conman/pkg/logging"
	"github.com/rs/zerolog"
)

// M4 runs GNU m4 as the macro expansion engine
type M4 struct {
	binary string
	args   []string
	logger zerolog.Logger
}

// NewM4 creates an M4 engine. binary defaults to "m4"; args are extra
// arguments from configuration, passed on every invocation.
func NewM4(binary string, args []string) *M4 {
	if binary == "" {
		binary = "m4"
	}
	return &M4{
		binary: binary,
		args:   args,
		logger: logging.GetLogger("engine.m4"),
	}
}

// argv builds the full argument vector for one invocation: configured
// args, per-request extras, the include path, the three -D bindings,
// then the prelude files in order and the template last.
func (m *M4) argv(req Request) []string {
	argv := make([]string, 0, len(m.args)+len(req.ExtraArgs)+len(req.PreludeFiles)+10)
	argv = append(argv, m.args...)
	argv = append(argv, req.ExtraArgs...)
	if req.SearchPath != "" {
		argv = append(argv, "-I", req.SearchPath)
	}
	argv = append(argv,
		"-D", BindSource+"="+req.TemplatePath,
		"-D", BindScript+"="+req.ScriptPath,
		"-D", BindOutput+"="+req.OutputID,
	)
	argv = append(argv, req.PreludeFiles...)
	argv = append(argv, req.TemplatePath)
	return argv
}

// Expand implements Engine by invoking the external engine once per
// template. A non-zero exit is an expansion failure for that template
// only; the caller skips it and continues. No retry.
func (m *M4) Expand(ctx context.Context, req Request) (Result, error) {
	argv := m.argv(req)

	m.logger.Debug().
		Str("binary", m.binary).
		Str("template", req.TemplatePath).
		Str("outputId", req.OutputID).
		Msg("Invoking macro engine")

	cmd := exec.CommandContext(ctx, m.binary, argv...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if execErr, ok := err.(*exec.Error); ok {
			return Result{}, errors.Wrapf(execErr, errors.ErrEngineMissing,
				"macro engine %q not runnable", m.binary)
		}
		return Result{}, errors.Wrapf(err, errors.ErrExpansionFailed,
			"macro engine failed for %s: %s", req.TemplatePath, firstLine(stderr.String()))
	}

	return SplitOutput(stdout.String())
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
