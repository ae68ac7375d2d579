// Package script implements the deferred action script: an ordered,
// append-only log of install actions accumulated while templates are
// expanded and replayed verbatim in a second phase.
//
// On disk the script is newline-delimited records of the form
//
//	verb("arg", "arg", ...)
//
// where every argument is escaped as a Go string literal, so arguments
// containing quotes, parentheses, commas, or newlines round-trip exactly.
// In memory records are parsed into the tagged variants of pkg/types;
// execution never re-splits flat text.
package script
