package script

import (
	"strconv"
	"strings"

	"github.com/arthur-debert/conman/pkg/errors"
)

// EncodeRecord renders one deferred action as a single script line,
// without the trailing newline.
func EncodeRecord(verb string, args []string) (string, error) {
	if !validVerbName(verb) {
		return "", errors.Newf(errors.ErrScriptWrite, "invalid action name %q", verb)
	}

	var b strings.Builder
	b.WriteString(verb)
	b.WriteByte('(')
	for i, arg := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Quote(arg))
	}
	b.WriteByte(')')
	return b.String(), nil
}

// DecodeRecord parses one script line back into an action name and its
// argument list. Quoted arguments may contain raw commas and parentheses,
// so parsing is quote-aware rather than a split.
func DecodeRecord(line string) (string, []string, error) {
	open := strings.IndexByte(line, '(')
	if open < 0 || !strings.HasSuffix(line, ")") {
		return "", nil, errors.Newf(errors.ErrScriptParse, "malformed record: %q", line)
	}

	verb := line[:open]
	if !validVerbName(verb) {
		return "", nil, errors.Newf(errors.ErrScriptParse, "invalid action name in record: %q", line)
	}

	body := line[open+1 : len(line)-1]
	if body == "" {
		return verb, nil, nil
	}

	var args []string
	rest := body
	for {
		quoted, err := strconv.QuotedPrefix(rest)
		if err != nil {
			return "", nil, errors.Wrapf(err, errors.ErrScriptParse, "malformed argument in record: %q", line)
		}
		arg, err := strconv.Unquote(quoted)
		if err != nil {
			return "", nil, errors.Wrapf(err, errors.ErrScriptParse, "unquotable argument in record: %q", line)
		}
		args = append(args, arg)

		rest = rest[len(quoted):]
		if rest == "" {
			break
		}
		if !strings.HasPrefix(rest, ", ") {
			return "", nil, errors.Newf(errors.ErrScriptParse, "malformed argument separator in record: %q", line)
		}
		rest = rest[2:]
	}

	return verb, args, nil
}

// validVerbName reports whether s is a legal action name:
// a letter or underscore followed by letters, digits, or underscores.
func validVerbName(s string) bool {
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
