package xml2texi

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"
)

type escMap struct {
	char byte
	seq  []byte
}

var texinfoEscaper = []escMap{
	{'@', []byte("@@")},
	{'{', []byte("@{")},
	{'}', []byte("@}")},
}

// argEscaper also protects the argument separator of multi-argument
// commands such as @ref and @uref.
var argEscaper = append([]escMap{{',', []byte("@comma{}")}}, texinfoEscaper...)

func escapeWith(out *bytes.Buffer, s []byte, table []escMap) {
	var start, end int
	for end < len(s) {
		c := s[end]
		for i := 0; i < len(table); i++ {
			if c == table[i].char {
				out.Write(s[start:end])
				out.Write(table[i].seq)
				start = end + 1
				break
			}
		}
		end++
	}
	if start < len(s) {
		out.Write(s[start:])
	}
}

// escapeTexinfo quotes the characters Texinfo treats specially in text.
func escapeTexinfo(s string) string {
	var out bytes.Buffer
	escapeWith(&out, []byte(s), texinfoEscaper)
	return out.String()
}

// escapeArg quotes s for use as an argument of a command taking several
// comma separated arguments.
func escapeArg(s string) string {
	var out bytes.Buffer
	escapeWith(&out, []byte(s), argEscaper)
	return out.String()
}

// asciify replaces every non-ASCII rune with a @U{} command.
func asciify(s string) string {
	if isASCII(s) {
		return s
	}
	var out strings.Builder
	for _, r := range s {
		if r < utf8.RuneSelf {
			out.WriteRune(r)
			continue
		}
		fmt.Fprintf(&out, "@U{%04x}", r)
	}
	return out.String()
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// nodeName makes s usable as a Texinfo node name. Commas, colons and
// periods confuse Info readers, and so do parentheses, braces and @.
func nodeName(s string, ascii bool) string {
	var out strings.Builder
	runes := []rune(collapse(s))
	for i, r := range runes {
		switch r {
		case '.', ',', ':':
			if i+1 < len(runes) && runes[i+1] != ' ' {
				out.WriteByte('-')
			}
		case '(', ')', '@', '{', '}':
		default:
			if ascii && r >= utf8.RuneSelf {
				continue
			}
			out.WriteRune(r)
		}
	}
	return collapse(out.String())
}

// squash folds runs of white space into a single space, keeping a leading
// and trailing space if there was white space there.
func squash(s string) string {
	var out strings.Builder
	space := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			space = true
			continue
		}
		if space {
			out.WriteByte(' ')
			space = false
		}
		out.WriteRune(r)
	}
	if space {
		out.WriteByte(' ')
	}
	return out.String()
}
