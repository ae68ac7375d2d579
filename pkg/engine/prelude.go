package engine

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/conman/pkg/errors"
	"github.com/arthur-debert/conman/pkg/types"
)

// PreludeFileName is the base prelude's file name inside the scratch dir
const PreludeFileName = "prelude.m4"

// basePrelude is the built-in macro prelude, expanded before every
// template. It defines the deferred-action machinery and the named output
// block macros. %US% stands for the unit separator byte, substituted below
// so the Go source stays printable.
//
// The defer macros write marker lines into diversion 9; m4 flushes
// diversions in ascending order at end of input, so markers always follow
// the direct output and SplitOutput can strip them out.
var basePrelude = strings.ReplaceAll(strings.Join([]string{
	"divert(-1)",
	"changecom",
	"define(`_cm_marker', `@conman-defer@')",
	"define(`_cm_us', `%US%')",
	"dnl _cm_esc mirrors the adapter's field escaping: percent first, then",
	"dnl separator bytes and newlines.",
	"define(`_cm_esc', `patsubst(patsubst(patsubst(`$1', `%', `%25'), `%US%', `%1F'), `",
	"', `%0A')')",
	"dnl _cm_fields renders , separated arguments as escaped marker fields.",
	"dnl A lone empty argument emits nothing: verb() must record the same",
	"dnl zero fields as the adapter writes for an argument-less action.",
	"define(`_cm_fields', `ifelse(`$#', `0', `', `$#$1', `1', `',",
	"	`$#', `1', `_cm_us()_cm_esc(`$1')',",
	"	`_cm_us()_cm_esc(`$1')_cm_fields(shift($@))')')",
	"dnl _cm_defer records one deferred action without disturbing the current",
	"dnl diversion. The verb name is requoted on output: it is always a",
	"dnl defined macro, and emitting it bare would expand it again.",
	"define(`_cm_defer', `pushdef(`_cm_div', divnum)divert(9)dnl",
	"_cm_marker()_cm_us()`$1'_cm_fields(shift($@))",
	"divert(_cm_div)popdef(`_cm_div')')",
	"dnl config_file(id, name, destination) defers generation + installation",
	"dnl of one of this template's output blocks.",
	"define(`config_file', `_cm_defer(`config_file', `$1', `$2', `$3', CONMAN_SOURCE)')",
	"dnl Output block selection: only the block whose id matches the",
	"dnl requested CONMAN_OUTPUT binding is emitted.",
	"define(`begin_output', `ifelse(`$1', CONMAN_OUTPUT, `divert(0)', `divert(-1)')')",
	"define(`end_output', `divert(-1)')",
	"divert(-1)dnl",
	"",
}, "\n"), "%US%", fieldSep)

// BasePrelude returns the built-in prelude text
func BasePrelude() string {
	return basePrelude
}

// WriteBasePrelude materializes the built-in prelude inside dir and
// returns its path.
func WriteBasePrelude(fs types.FS, dir string) (string, error) {
	path := filepath.Join(dir, PreludeFileName)
	if err := fs.WriteFile(path, []byte(basePrelude), 0644); err != nil {
		return "", errors.Wrapf(err, errors.ErrFileWrite, "failed to write base prelude to %s", path)
	}
	return path, nil
}
