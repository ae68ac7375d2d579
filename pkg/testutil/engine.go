package testutil

import (
	"context"

	"github.com/arthur-debert/conman/pkg/engine"
	"github.com/arthur-debert/conman/pkg/errors"
)

// FakeEngine is an in-process stand-in for the external macro engine.
// Planning expansions (empty output id) yield canned deferred records;
// generation expansions yield canned text per (template, output id) pair.
type FakeEngine struct {
	// Plans maps a template path to the deferred records its planning
	// expansion emits.
	Plans map[string][]engine.Deferred

	// Outputs maps OutputKey(template, outputID) to generated text
	Outputs map[string]string

	// FailOn lists template paths whose expansion always fails
	FailOn map[string]bool

	// Calls records every expansion request in order
	Calls []engine.Request
}

// NewFakeEngine creates an empty FakeEngine
func NewFakeEngine() *FakeEngine {
	return &FakeEngine{
		Plans:   make(map[string][]engine.Deferred),
		Outputs: make(map[string]string),
		FailOn:  make(map[string]bool),
	}
}

// OutputKey builds the Outputs map key for a template and output id
func OutputKey(templatePath, outputID string) string {
	return templatePath + "\x00" + outputID
}

// PlanConfigFile registers a planning record: template emits a config_file
// action for the given output block and destination, and the generation
// expansion for that block yields text.
func (f *FakeEngine) PlanConfigFile(templatePath, outputID, name, destination, text string) {
	f.Plans[templatePath] = append(f.Plans[templatePath], engine.Deferred{
		Verb: "config_file",
		Args: []string{outputID, name, destination, templatePath},
	})
	f.Outputs[OutputKey(templatePath, outputID)] = text
}

// PlanDeferred registers an arbitrary deferred record for a template's
// planning expansion.
func (f *FakeEngine) PlanDeferred(templatePath, verb string, args ...string) {
	f.Plans[templatePath] = append(f.Plans[templatePath], engine.Deferred{
		Verb: verb,
		Args: args,
	})
}

// Expand implements engine.Engine
func (f *FakeEngine) Expand(ctx context.Context, req engine.Request) (engine.Result, error) {
	f.Calls = append(f.Calls, req)

	if f.FailOn[req.TemplatePath] {
		return engine.Result{}, errors.Newf(errors.ErrExpansionFailed,
			"fake engine failure for %s", req.TemplatePath)
	}

	if req.OutputID == "" {
		return engine.Result{Deferred: f.Plans[req.TemplatePath]}, nil
	}

	text, ok := f.Outputs[OutputKey(req.TemplatePath, req.OutputID)]
	if !ok {
		return engine.Result{}, errors.Newf(errors.ErrExpansionFailed,
			"fake engine has no output %q for %s", req.OutputID, req.TemplatePath)
	}
	return engine.Result{Text: text}, nil
}
