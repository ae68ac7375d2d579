package engine

import (
	"context"
	"strings"
)

// Binding names the adapter defines for every expansion. Templates and
// prelude macros can reference these like any other macro.
const (
	// BindSource is the path of the template being expanded
	BindSource = "CONMAN_SOURCE"

	// BindScript is the path of the deferred action script
	BindScript = "CONMAN_SCRIPT"

	// BindOutput is the requested output identifier; empty while planning
	BindOutput = "CONMAN_OUTPUT"
)

// Request is the fixed binding set for one expansion
type Request struct {
	// TemplatePath is the macro source file to expand
	TemplatePath string

	// ScriptPath is where deferred actions accumulate; passed to the
	// engine as a binding so templates can refer to it
	ScriptPath string

	// OutputID selects the named output block to emit. Empty means
	// planning only: no block is emitted, deferred actions still are.
	OutputID string

	// SearchPath is the include search directory
	SearchPath string

	// PreludeFiles are expanded, in order, before the template so their
	// definitions are visible inside it
	PreludeFiles []string

	// ExtraArgs are appended to the engine invocation verbatim
	ExtraArgs []string
}

// Deferred is one action record extracted from expansion output
type Deferred struct {
	Verb string
	Args []string
}

// Result is what one expansion produced
type Result struct {
	// Text is the direct expansion output with marker lines removed
	Text string

	// Deferred are the action records the expansion emitted, in order
	Deferred []Deferred
}

// Engine expands one template with the given bindings. A non-nil error
// means the whole expansion is untrusted: callers must discard any partial
// output and carry on with the next template.
type Engine interface {
	Expand(ctx context.Context, req Request) (Result, error)
}

// SplitOutput separates raw expansion output into direct text and deferred
// action records. Marker lines are emitted by the prelude's defer macros
// into a late diversion, so they normally arrive after the direct text, but
// interleaved markers are handled too.
func SplitOutput(raw string) (Result, error) {
	var res Result
	var text []string

	for _, line := range strings.Split(raw, "\n") {
		if !strings.HasPrefix(line, markerPrefix) {
			text = append(text, line)
			continue
		}

		deferred, err := parseMarkerLine(line)
		if err != nil {
			return Result{}, err
		}
		res.Deferred = append(res.Deferred, deferred)
	}

	res.Text = strings.Join(text, "\n")
	return res, nil
}
