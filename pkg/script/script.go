package script

import (
	stderrors "errors"
	"io/fs"
	"strings"

	"github.com/arthur-debert/conman/pkg/errors"
	"github.com/arthur-debert/conman/pkg/types"
)

// Script is a file-backed deferred action script. It is created empty at
// process start, appended to during template expansion, and read back for
// execution. The file outlives nothing: the scratch area it lives in is
// deleted at process end.
type Script struct {
	path string
	fs   types.FS
}

// New creates the script file empty, truncating any previous content
func New(filesystem types.FS, path string) (*Script, error) {
	if err := filesystem.WriteFile(path, nil, 0644); err != nil {
		return nil, errors.Wrapf(err, errors.ErrScriptWrite, "failed to create action script at %s", path)
	}
	return &Script{path: path, fs: filesystem}, nil
}

// Open wraps an existing script file without truncating it
func Open(filesystem types.FS, path string) *Script {
	return &Script{path: path, fs: filesystem}
}

// Path returns the script file location
func (s *Script) Path() string { return s.path }

// Append records one deferred action at the end of the script
func (s *Script) Append(verb string, args []string) error {
	line, err := EncodeRecord(verb, args)
	if err != nil {
		return err
	}

	current, err := s.fs.ReadFile(s.path)
	if err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return errors.Wrapf(err, errors.ErrScriptWrite, "failed to read action script at %s", s.path)
	}

	updated := append(current, []byte(line+"\n")...)
	if err := s.fs.WriteFile(s.path, updated, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrScriptWrite, "failed to append to action script at %s", s.path)
	}
	return nil
}

// Actions parses the whole script into tagged actions, in recorded order
func (s *Script) Actions() ([]types.Action, error) {
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrScriptParse, "failed to read action script at %s", s.path)
	}

	return Parse(string(data))
}

// Parse converts script text into tagged actions. A config_file record
// becomes a ConfigFileAction; everything else is a PluginAction dispatched
// by handler name at execution time.
func Parse(text string) ([]types.Action, error) {
	var actions []types.Action

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		verb, args, err := DecodeRecord(line)
		if err != nil {
			return nil, err
		}

		if verb == types.ConfigFileVerb {
			if len(args) != 4 {
				return nil, errors.Newf(errors.ErrScriptParse,
					"config_file expects 4 arguments, got %d: %q", len(args), line)
			}
			actions = append(actions, types.ConfigFileAction{
				OutputID:     args[0],
				DisplayName:  args[1],
				Destination:  args[2],
				TemplatePath: args[3],
			})
			continue
		}

		actions = append(actions, types.PluginAction{
			Handler:   verb,
			Arguments: args,
		})
	}

	return actions, nil
}
