package autoversion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAssignment(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		ok    bool
		value string
		quote byte
	}{
		{"double quotes", `__version__ = "1.2.3"`, true, "1.2.3", '"'},
		{"single quotes", `__version__ = '1.2.3'`, true, "1.2.3", '\''},
		{"no spaces", `__version__="1.2.3"`, true, "1.2.3", '"'},
		{"wide spaces", "  __version__ \t=   \"4.5.6\"  # comment\n", true, "4.5.6", '"'},
		{"malformed value still parses", `__version__ = "banana"`, true, "banana", '"'},
		{"crlf", "__version__ = \"1.0.0\"\r\n", true, "1.0.0", '"'},
		{"mismatched quotes", `__version__ = "1.2.3'`, false, "", 0},
		{"unquoted", `__version__ = 1.2.3`, false, "", 0},
		{"longer identifier", `__version__x = "1.2.3"`, false, "", 0},
		{"prefixed identifier", `my__version__ = "1.2.3"`, false, "", 0},
		{"comparison", `if __version__ == "1.2.3":`, false, "", 0},
		{"empty", "", false, "", 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a, ok := parseAssignment(tc.line, DefaultIdentifier)
			assert.Equal(t, tc.ok, ok)
			if !ok {
				return
			}
			assert.Equal(t, tc.value, a.value)
			assert.Equal(t, tc.quote, a.quote)
			assert.Equal(t, tc.line, a.format(), "format must reproduce the parsed line")
		})
	}
}

func TestReplaceAssignment(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{
			name:     "empty file",
			content:  "",
			expected: "__version__ = \"2.0.0\"\n",
		},
		{
			name:     "replace keeps surroundings",
			content:  "# header\n\n__version__ = \"1.2.3\"\nOTHER = 'x'\n",
			expected: "# header\n\n__version__ = \"2.0.0\"\nOTHER = 'x'\n",
		},
		{
			name:     "keeps quote style, indent and tail",
			content:  "    __version__='1.2.3'  # managed\n",
			expected: "    __version__='2.0.0'  # managed\n",
		},
		{
			name:     "replaces malformed value",
			content:  "__version__ = \"oops\"\n",
			expected: "__version__ = \"2.0.0\"\n",
		},
		{
			name:     "only first assignment changes",
			content:  "__version__ = \"1.0.0\"\n__version__ = \"1.0.0\"\n",
			expected: "__version__ = \"2.0.0\"\n__version__ = \"1.0.0\"\n",
		},
		{
			name:     "append after trailing newline",
			content:  "name = \"pkg\"\n",
			expected: "name = \"pkg\"\n__version__ = \"2.0.0\"\n",
		},
		{
			name:     "append without trailing newline",
			content:  "name = \"pkg\"",
			expected: "name = \"pkg\"\n__version__ = \"2.0.0\"\n",
		},
		{
			name:     "crlf file keeps crlf",
			content:  "a = 1\r\n__version__ = \"1.0.0\"\r\nb = 2\r\n",
			expected: "a = 1\r\n__version__ = \"2.0.0\"\r\nb = 2\r\n",
		},
		{
			name:     "crlf append",
			content:  "a = 1\r\n",
			expected: "a = 1\r\n__version__ = \"2.0.0\"\r\n",
		},
		{
			name:     "skips malformed assignment for a valid one",
			content:  "__version__ = \"dev\"\n__version__ = \"1.2.3\"\n",
			expected: "__version__ = \"dev\"\n__version__ = \"2.0.0\"\n",
		},
		{
			name:     "byte order mark",
			content:  "\ufeff__version__ = '1.2.3'\n",
			expected: "\ufeff__version__ = '2.0.0'\n",
		},
		{
			name:     "byte order mark only counts at file start",
			content:  "x = 1\n\ufeff__version__ = \"1.0.0\"\n",
			expected: "x = 1\n\ufeff__version__ = \"1.0.0\"\n__version__ = \"2.0.0\"\n",
		},
		{
			name:     "last line without newline",
			content:  "x = 1\n__version__ = \"1.0.0\"",
			expected: "x = 1\n__version__ = \"2.0.0\"",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := replaceAssignment([]byte(tc.content), DefaultIdentifier, "2.0.0")
			assert.Equal(t, tc.expected, string(got))
		})
	}
}

func TestFindAssignmentCustomIdentifier(t *testing.T) {
	content := []byte("package version\n\nvar Version = \"0.3.1\"\n")
	_, ok := findAssignment(content, "Version", nil)
	assert.False(t, ok, "identifier must start the line")

	content = []byte("[tool]\nversion = \"0.3.1\"\n")
	sp, ok := findAssignment(content, "version", nil)
	assert.True(t, ok)
	assert.Equal(t, "0.3.1", sp.line.value)
	assert.Equal(t, len("[tool]\n"), sp.start)
}
