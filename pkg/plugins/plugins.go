// Package plugins implements the plugin command registry. A plugin
// contributes macro verbs to the template language; a verb never executes
// when a template is expanded. Instead the generated macro records a
// deferred action naming the plugin's handler, and the handler runs when
// the accumulated action script is executed. Expansion stays a pure
// planning phase.
package plugins

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/conman/pkg/errors"
	"github.com/arthur-debert/conman/pkg/registry"
	"github.com/arthur-debert/conman/pkg/types"
)

// PreludeFileName is the generated plugin prelude's file name inside the
// scratch dir
const PreludeFileName = "plugins.m4"

// Env is what a handler gets to work with at execution time
type Env struct {
	FS     types.FS
	Logger zerolog.Logger
}

// Handler executes one deferred plugin action. Arguments arrive already
// unescaped, exactly as they appeared at the verb's call site.
type Handler func(ctx context.Context, env *Env, args []string) error

// Registration binds one macro verb to a named handler
type Registration struct {
	// Verb is the macro name templates call
	Verb string

	// Handler is the action name recorded in the deferred script
	Handler string
}

// Plugin is one provider of verbs and their handlers
type Plugin struct {
	// Name identifies the plugin in logs and errors
	Name string

	// Registrations lists the verbs this plugin defines
	Registrations []Registration

	// Handlers maps handler names to their implementations
	Handlers map[string]Handler
}

// Set is the assembled plugin table for one run: every verb registration
// plus a handler registry keyed by handler name. It is built once at
// startup and threaded through the pipeline; there is no global state.
type Set struct {
	registrations []Registration
	handlers      registry.Registry[Handler]
}

// NewSet assembles a plugin table. Duplicate verbs or handler names across
// plugins are registration errors.
func NewSet(plugins ...Plugin) (*Set, error) {
	s := &Set{
		handlers: registry.New[Handler](),
	}

	seenVerbs := make(map[string]string)
	for _, p := range plugins {
		for _, reg := range p.Registrations {
			if !validMacroName(reg.Verb) {
				return nil, errors.Newf(errors.ErrVerbInvalid,
					"plugin %s declares invalid verb name %q", p.Name, reg.Verb)
			}
			if !validMacroName(reg.Handler) {
				return nil, errors.Newf(errors.ErrVerbInvalid,
					"plugin %s declares invalid handler name %q", p.Name, reg.Handler)
			}
			if reg.Handler == types.ConfigFileVerb {
				return nil, errors.Newf(errors.ErrVerbInvalid,
					"plugin %s may not rebind the built-in %s action", p.Name, types.ConfigFileVerb)
			}
			if owner, dup := seenVerbs[reg.Verb]; dup {
				return nil, errors.Newf(errors.ErrVerbExists,
					"verb %q declared by both %s and %s", reg.Verb, owner, p.Name)
			}
			if _, ok := p.Handlers[reg.Handler]; !ok {
				return nil, errors.Newf(errors.ErrVerbInvalid,
					"plugin %s declares verb %q without handler %q", p.Name, reg.Verb, reg.Handler)
			}
			seenVerbs[reg.Verb] = p.Name
			s.registrations = append(s.registrations, reg)
		}

		for name, h := range p.Handlers {
			if err := s.handlers.Register(name, h); err != nil {
				return nil, errors.Wrapf(err, errors.ErrVerbExists,
					"plugin %s: handler %q", p.Name, name)
			}
		}
	}

	return s, nil
}

// Verbs returns the declared verb registrations in declaration order
func (s *Set) Verbs() []Registration {
	out := make([]Registration, len(s.registrations))
	copy(out, s.registrations)
	return out
}

// Dispatch runs the handler a deferred plugin action names
func (s *Set) Dispatch(ctx context.Context, env *Env, action types.PluginAction) error {
	handler, err := s.handlers.Get(action.Handler)
	if err != nil {
		return errors.Newf(errors.ErrVerbUnknown,
			"no plugin handler registered for action %q", action.Handler)
	}
	return handler(ctx, env, action.Arguments)
}

// Prelude generates the m4 stanzas that define every registered verb.
// Each definition forwards the call's arguments to _cm_defer (from the
// base prelude), which records the deferred action with escaped fields.
func (s *Set) Prelude() string {
	var b strings.Builder
	b.WriteString("divert(-1)\n")
	for _, reg := range s.registrations {
		fmt.Fprintf(&b, "define(`%s', `_cm_defer(`%s', $@)')\n", reg.Verb, reg.Handler)
	}
	b.WriteString("divert(-1)dnl\n")
	return b.String()
}

// WritePrelude materializes the generated prelude inside dir and returns
// its path.
func (s *Set) WritePrelude(fs types.FS, dir string) (string, error) {
	path := filepath.Join(dir, PreludeFileName)
	if err := fs.WriteFile(path, []byte(s.Prelude()), 0644); err != nil {
		return "", errors.Wrapf(err, errors.ErrFileWrite, "failed to write plugin prelude to %s", path)
	}
	return path, nil
}

// validMacroName matches the script codec's notion of a legal action name
func validMacroName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
