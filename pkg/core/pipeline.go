package core

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/arthur-debert/conman/pkg/engine"
	"github.com/arthur-debert/conman/pkg/errors"
	"github.com/arthur-debert/conman/pkg/executor"
	"github.com/arthur-debert/conman/pkg/installer"
	"github.com/arthur-debert/conman/pkg/locator"
	"github.com/arthur-debert/conman/pkg/script"
	"github.com/arthur-debert/conman/pkg/types"
)

// Plan is phase 1: templates discovered, every one expanded in planning
// mode, and the deferred action script accumulated. The direct text of the
// planning pass is discarded; only the script is trusted.
type Plan struct {
	// Templates are the discovered top-level templates, sorted
	Templates []string

	// Actions is the parsed action script, in emission order
	Actions []types.Action

	// Failed maps template path to its expansion error. A failed template
	// contributes no actions but does not stop the run.
	Failed map[string]error

	scratch      *Scratch
	preludeFiles []string
}

// Close releases the plan's scratch area
func (p *Plan) Close() {
	p.scratch.Close()
}

// Summary is what one apply run did
type Summary struct {
	// Templates is how many templates were discovered
	Templates int

	// Actions is how many deferred actions the script held
	Actions int

	// Installed and Declined tally config_file outcomes
	Installed int
	Declined  int

	// Failures is how many templates failed to expand
	Failures int
}

// BuildPlan runs discovery and the planning expansion pass. On success the
// caller owns the returned plan and must Close it.
func (rt *Runtime) BuildPlan(ctx context.Context) (*Plan, error) {
	root := rt.Paths.ConfigRoot()
	templates, err := Discover(rt.FS, root,
		rt.Config.Templates.Extension, rt.Config.Templates.IncludePrefix)
	if err != nil {
		return nil, err
	}
	rt.Logger.Info().Int("templates", len(templates)).Str("root", root).
		Msg("discovered templates")

	scratch, err := NewScratch()
	if err != nil {
		return nil, err
	}

	plan, err := rt.expandAll(ctx, scratch, templates)
	if err != nil {
		scratch.Close()
		return nil, err
	}
	return plan, nil
}

func (rt *Runtime) expandAll(ctx context.Context, scratch *Scratch, templates []string) (*Plan, error) {
	basePrelude, err := engine.WriteBasePrelude(rt.FS, scratch.Dir)
	if err != nil {
		return nil, err
	}
	pluginPrelude, err := rt.Plugins.WritePrelude(rt.FS, scratch.Dir)
	if err != nil {
		return nil, err
	}
	preludes := []string{basePrelude, pluginPrelude}
	for _, mf := range rt.Config.Plugins.MacroFiles {
		if !filepath.IsAbs(mf) {
			mf = filepath.Join(rt.Paths.ConfigRoot(), mf)
		}
		preludes = append(preludes, mf)
	}

	sc, err := script.New(rt.FS, scratch.ScriptPath)
	if err != nil {
		return nil, err
	}

	failed := make(map[string]error)
	for _, tpl := range templates {
		res, err := rt.Engine.Expand(ctx, engine.Request{
			TemplatePath: tpl,
			ScriptPath:   scratch.ScriptPath,
			SearchPath:   rt.Paths.ConfigRoot(),
			PreludeFiles: preludes,
		})
		if err != nil {
			rt.Logger.Warn().Err(err).Str("template", tpl).
				Msg("template failed to expand, skipping")
			failed[tpl] = err
			continue
		}
		for _, d := range res.Deferred {
			if err := sc.Append(d.Verb, d.Args); err != nil {
				return nil, err
			}
		}
	}

	actions, err := sc.Actions()
	if err != nil {
		return nil, err
	}

	return &Plan{
		Templates:    templates,
		Actions:      actions,
		Failed:       failed,
		scratch:      scratch,
		preludeFiles: preludes,
	}, nil
}

// Apply runs the whole pipeline: plan, then execute every deferred action
// in order, installing config files and dispatching plugin verbs. A failed
// template costs only its own actions; a failed action stops execution.
func (rt *Runtime) Apply(ctx context.Context) (Summary, error) {
	plan, err := rt.BuildPlan(ctx)
	if err != nil {
		return Summary{}, err
	}
	defer plan.Close()

	ins := installer.New(installer.Options{
		FS:        rt.FS,
		Paths:     rt.Paths,
		Confirmer: rt.Confirmer,
		Out:       rt.Out,
		Force:     rt.Force,
		Logger:    rt.Logger,
	})
	strategy := &executor.InstallStrategy{
		Engine:       rt.Engine,
		FS:           rt.FS,
		Installer:    ins,
		Plugins:      rt.Plugins,
		ScratchDir:   plan.scratch.Dir,
		ScriptPath:   plan.scratch.ScriptPath,
		SearchPath:   rt.Paths.ConfigRoot(),
		PreludeFiles: plan.preludeFiles,
		Logger:       rt.Logger,
	}

	summary := Summary{
		Templates: len(plan.Templates),
		Actions:   len(plan.Actions),
		Failures:  len(plan.Failed),
	}
	if err := executor.Execute(ctx, plan.Actions, strategy); err != nil {
		summary.Installed = strategy.Installed
		summary.Declined = strategy.Declined
		return summary, err
	}
	summary.Installed = strategy.Installed
	summary.Declined = strategy.Declined
	rt.Logger.Info().
		Int("installed", summary.Installed).
		Int("declined", summary.Declined).
		Int("failures", summary.Failures).
		Msg("apply finished")
	return summary, nil
}

// Locate maps an installed destination back to the template that produces
// it. Plugin actions are skipped; the first config_file action whose
// destination matches, wins.
func (rt *Runtime) Locate(ctx context.Context, destination string) (string, error) {
	plan, err := rt.BuildPlan(ctx)
	if err != nil {
		return "", err
	}
	defer plan.Close()

	return locator.Locate(ctx, plan.Actions, destination)
}

// Edit locates the template behind destination and opens it in the user's
// editor, blocking until the editor exits.
func (rt *Runtime) Edit(ctx context.Context, destination string) error {
	template, err := rt.Locate(ctx, destination)
	if err != nil {
		return err
	}

	editor := rt.Config.Editor
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vi"
	}
	rt.Logger.Debug().Str("editor", editor).Str("template", template).
		Msg("opening template")

	cmd := exec.CommandContext(ctx, editor, template)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "editor %s failed", editor)
	}
	return nil
}
