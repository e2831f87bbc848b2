package autoversion

import (
	"bytes"
	"strings"
)

// assignment is a parsed version-assignment line:
//
//	[indent] identifier [ws] = [ws] quote value quote [tail] [eol]
//
// Every piece except value is kept verbatim so that rewriting the line only
// changes the version text.
type assignment struct {
	indent     string
	identifier string
	separator  string
	quote      byte
	value      string
	tail       string
	eol        string
}

// format renders the line back to text.
func (a assignment) format() string {
	q := string(a.quote)
	return a.indent + a.identifier + a.separator + q + a.value + q + a.tail + a.eol
}

// withValue returns a copy of a carrying a new value.
func (a assignment) withValue(value string) assignment {
	a.value = value
	return a
}

// newAssignment builds the canonical line used when a file has no assignment yet.
func newAssignment(identifier, value string) assignment {
	return assignment{
		identifier: identifier,
		separator:  " = ",
		quote:      '"',
		value:      value,
		eol:        "\n",
	}
}

// parseAssignment parses a single line (including its line terminator, if any).
func parseAssignment(line, identifier string) (assignment, bool) {
	var a assignment

	body := line
	switch {
	case strings.HasSuffix(body, "\r\n"):
		a.eol = "\r\n"
	case strings.HasSuffix(body, "\n"):
		a.eol = "\n"
	}
	body = body[:len(body)-len(a.eol)]

	rest := strings.TrimLeft(body, " \t")
	a.indent = body[:len(body)-len(rest)]

	if !strings.HasPrefix(rest, identifier) {
		return assignment{}, false
	}
	a.identifier = identifier
	rest = rest[len(identifier):]

	// The identifier must end here, otherwise "__version__x" would match.
	afterIdent := strings.TrimLeft(rest, " \t")
	if !strings.HasPrefix(afterIdent, "=") {
		return assignment{}, false
	}
	afterEq := strings.TrimLeft(afterIdent[1:], " \t")
	a.separator = rest[:len(rest)-len(afterEq)]
	rest = afterEq

	if rest == "" || (rest[0] != '"' && rest[0] != '\'') {
		return assignment{}, false
	}
	a.quote = rest[0]
	rest = rest[1:]

	end := strings.IndexAny(rest, `"'`)
	if end < 0 || rest[end] != a.quote {
		return assignment{}, false
	}
	a.value = rest[:end]
	a.tail = rest[end+1:]
	return a, true
}

// span locates an assignment inside a larger document.
type span struct {
	start, end int
	line       assignment
}

const bom = "\ufeff"

// findAssignment returns the first assignment line for identifier in content
// whose value is accepted by valid. A nil valid accepts any value.
// A byte order mark at the start of the file is kept as part of the indent.
func findAssignment(content []byte, identifier string, valid func(string) bool) (span, bool) {
	offset := 0
	for _, line := range bytes.SplitAfter(content, []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		text, prefix := string(line), ""
		if offset == 0 && strings.HasPrefix(text, bom) {
			text, prefix = text[len(bom):], bom
		}
		if a, ok := parseAssignment(text, identifier); ok && (valid == nil || valid(a.value)) {
			a.indent = prefix + a.indent
			return span{start: offset, end: offset + len(line), line: a}, true
		}
		offset += len(line)
	}
	return span{}, false
}

// findVersion prefers the first assignment holding a well-formed version and
// falls back to the first assignment of any value.
func findVersion(content []byte, identifier string) (span, bool) {
	if sp, ok := findAssignment(content, identifier, isVersion); ok {
		return sp, true
	}
	return findAssignment(content, identifier, nil)
}

func isVersion(s string) bool {
	_, err := ParseVersion(s)
	return err == nil
}

// replaceAssignment rewrites content so that it carries value as the version.
// Only the line findVersion picks is touched; when there is none a new line
// is appended. All other bytes are preserved.
func replaceAssignment(content []byte, identifier, value string) []byte {
	if sp, ok := findVersion(content, identifier); ok {
		out := make([]byte, 0, len(content)+len(value))
		out = append(out, content[:sp.start]...)
		out = append(out, sp.line.withValue(value).format()...)
		out = append(out, content[sp.end:]...)
		return out
	}

	line := newAssignment(identifier, value)
	out := make([]byte, 0, len(content)+len(identifier)+len(value)+8)
	out = append(out, content...)
	if len(out) > 0 && out[len(out)-1] != '\n' {
		if bytes.Contains(content, []byte("\r\n")) {
			line.eol = "\r\n"
			out = append(out, '\r')
		}
		out = append(out, '\n')
	} else if bytes.HasSuffix(content, []byte("\r\n")) {
		line.eol = "\r\n"
	}
	return append(out, line.format()...)
}
