// Package config loads conman's configuration: embedded defaults, then an
// optional conman.toml or conman.yaml from the config root or the XDG config
// dir, then CONMAN_* environment variables. Later sources win.
package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"strings"

	koanftoml "github.com/knadh/koanf/parsers/toml"
	koanfyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/conman/pkg/errors"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// EnvPrefix is the prefix of environment variables that override config keys.
// CONMAN_ENGINE_BINARY=gm4 overrides engine.binary.
const EnvPrefix = "CONMAN_"

// Config is the fully resolved configuration for one conman run
type Config struct {
	// Root is the config root templates are discovered under
	Root string `koanf:"root"`

	// BackupRoot is where backups mirror destination paths
	BackupRoot string `koanf:"backup_root"`

	// Editor is the program `conman edit` opens templates with
	Editor string `koanf:"editor"`

	Engine    EngineConfig    `koanf:"engine"`
	Templates TemplatesConfig `koanf:"templates"`
	Plugins   PluginsConfig   `koanf:"plugins"`
}

// EngineConfig configures the external macro expansion engine
type EngineConfig struct {
	Binary string   `koanf:"binary"`
	Args   []string `koanf:"args"`
}

// TemplatesConfig configures template discovery
type TemplatesConfig struct {
	Extension     string `koanf:"extension"`
	IncludePrefix string `koanf:"include_prefix"`
}

// PluginsConfig configures plugin-contributed macro files
type PluginsConfig struct {
	MacroFiles []string `koanf:"macro_files"`
}

// rawBytesProvider adapts an embedded byte slice to koanf's Provider
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New(errors.ErrInternal, "rawBytesProvider does not implement Read")
}

// Default returns the embedded default configuration without consulting
// files or the environment.
func Default() (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, koanftoml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load embedded defaults")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal embedded defaults")
	}
	return &cfg, nil
}

// Load resolves the configuration for a run. searchDirs are tried in order
// for a conman.toml or conman.yaml; typically the config root first, then
// the XDG config dir. The first file found wins; env overrides always apply.
func Load(searchDirs ...string) (*Config, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, koanftoml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load embedded defaults")
	}

	// 2. First config file found in the search dirs
	if path, parser, ok := findConfigFile(searchDirs); ok {
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", path)
		}
	}

	// 3. Environment overrides: CONMAN_ENGINE_BINARY -> engine.binary
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		// ROOT and BACKUP_ROOT are top-level keys, everything else with an
		// underscore is section_key.
		switch key {
		case "root", "backup_root", "editor":
			return key
		}
		return strings.Replace(key, "_", ".", 1)
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	return &cfg, nil
}

// findConfigFile returns the first conman.toml or conman.yaml in searchDirs
func findConfigFile(searchDirs []string) (string, koanf.Parser, bool) {
	candidates := []struct {
		name   string
		parser koanf.Parser
	}{
		{"conman.toml", koanftoml.Parser()},
		{"conman.yaml", koanfyaml.Parser()},
	}

	for _, dir := range searchDirs {
		if dir == "" {
			continue
		}
		for _, c := range candidates {
			path := filepath.Join(dir, c.name)
			if _, err := os.Stat(path); err == nil {
				return path, c.parser, true
			}
		}
	}
	return "", nil, false
}

// DefaultTOML returns the embedded defaults file verbatim, for genconfig
func DefaultTOML() []byte {
	out := make([]byte, len(defaultConfig))
	copy(out, defaultConfig)
	return out
}
