// Package genconfig implements the gen-config command: print the default
// configuration as a starting point, or the fully resolved configuration
// for debugging which file or variable set a value.
package genconfig

import (
	"io"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/conman/pkg/config"
	"github.com/arthur-debert/conman/pkg/errors"
	"github.com/arthur-debert/conman/pkg/logging"
)

// ConfigFileName is the file Write mode creates in the XDG config dir
const ConfigFileName = "conman.toml"

// Options defines the options for the GenConfig command
type Options struct {
	// Root is the config root, consulted when resolving the full config
	Root string

	// Resolved prints the configuration after files and environment
	// overrides are applied, instead of the commented defaults.
	Resolved bool

	// Write saves the defaults to the XDG config dir instead of printing.
	// An existing file is never overwritten.
	Write bool

	// Out receives the output (optional, defaults to stdout)
	Out io.Writer
}

// Result reports what GenConfig produced
type Result struct {
	// Content is the configuration text
	Content string

	// Path is the file written, if Write was set and the file was new
	Path string
}

// GenConfig renders the configuration per opts
func GenConfig(opts Options) (*Result, error) {
	log := logging.GetLogger("commands.genconfig")

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	content, err := render(opts)
	if err != nil {
		return nil, err
	}
	result := &Result{Content: content}

	if !opts.Write {
		if _, err := io.WriteString(out, content); err != nil {
			return nil, errors.Wrap(err, errors.ErrFileWrite, "failed to write configuration")
		}
		return result, nil
	}

	target := filepath.Join(xdg.ConfigHome, "conman", ConfigFileName)
	if _, err := os.Stat(target); err == nil {
		log.Warn().Str("path", target).Msg("Config file already exists, not overwriting")
		return result, nil
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", filepath.Dir(target))
	}
	if err := os.WriteFile(target, []byte(content), 0644); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", target)
	}

	log.Info().Str("path", target).Msg("Written config file")
	result.Path = target
	return result, nil
}

func render(opts Options) (string, error) {
	if !opts.Resolved {
		return string(config.DefaultTOML()), nil
	}

	cfg, err := config.Load(opts.Root, os.Getenv("CONMAN_ROOT"),
		filepath.Join(xdg.ConfigHome, "conman"))
	if err != nil {
		return "", err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to render resolved configuration")
	}
	return string(data), nil
}
