package engine

import (
	"strings"

	"github.com/arthur-debert/conman/pkg/errors"
)

// Marker protocol between the prelude macros and the adapter. A deferred
// action is one line
//
//	@conman-defer@<US>verb<US>field<US>field...
//
// where <US> is the ASCII unit separator and every field is
// percent-escaped so arbitrary argument bytes survive the line-oriented
// transport. The escaping is mirrored by the _cm_esc macro in the prelude.
const (
	markerPrefix = "@conman-defer@"
	fieldSep     = "\x1f"
)

// EscapeField encodes one argument for transport in a marker line.
// Only the bytes that would corrupt the line structure are escaped:
// percent itself, the field separator, and line breaks.
func EscapeField(s string) string {
	r := strings.NewReplacer(
		"%", "%25",
		fieldSep, "%1F",
		"\r", "%0D",
		"\n", "%0A",
	)
	return r.Replace(s)
}

// UnescapeField reverses EscapeField
func UnescapeField(s string) string {
	r := strings.NewReplacer(
		"%0A", "\n",
		"%0D", "\r",
		"%1F", fieldSep,
		"%25", "%",
	)
	return r.Replace(s)
}

// MarkerLine renders a deferred action in the marker protocol. The prelude
// macros produce exactly this form; the Go side exists for fakes and tests.
func MarkerLine(verb string, args []string) string {
	fields := make([]string, 0, len(args)+2)
	fields = append(fields, markerPrefix, verb)
	for _, a := range args {
		fields = append(fields, EscapeField(a))
	}
	return strings.Join(fields, fieldSep)
}

// parseMarkerLine decodes one marker line into a Deferred record
func parseMarkerLine(line string) (Deferred, error) {
	fields := strings.Split(line, fieldSep)
	if len(fields) < 2 || fields[0] != markerPrefix {
		return Deferred{}, errors.Newf(errors.ErrExpansionFailed, "malformed deferred action marker: %q", line)
	}

	verb := fields[1]
	if verb == "" {
		return Deferred{}, errors.Newf(errors.ErrExpansionFailed, "deferred action marker missing verb: %q", line)
	}

	args := make([]string, 0, len(fields)-2)
	for _, f := range fields[2:] {
		args = append(args, UnescapeField(f))
	}
	return Deferred{Verb: verb, Args: args}, nil
}
