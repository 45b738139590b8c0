package xml2texi

import (
	"bytes"
	"strings"
)

// linespan implements a minimal line iterator over '\n' delimited content
type linespan struct{ begin, end int }

// next updates begin and end to point to the next line
func (sc *linespan) next(content []byte) bool {
	sc.begin = sc.end
	if sc.begin >= len(content) {
		return false
	}

	off := bytes.IndexByte(content[sc.begin:], '\n')
	if off >= 0 {
		sc.end = sc.begin + off + 1
		return true
	}

	sc.end = len(content)
	return true
}

// lines splits content into lines without their line endings, expanding
// tabs to eight column stops.
func lines(content []byte) []string {
	var out []string
	var sc linespan
	for sc.next(content) {
		line := strings.TrimRight(string(content[sc.begin:sc.end]), "\r\n")
		out = append(out, expandTabs(line))
	}
	return out
}

func expandTabs(line string) string {
	if !strings.Contains(line, "\t") {
		return line
	}
	var out strings.Builder
	col := 0
	for _, r := range line {
		if r == '\t' {
			n := 8 - col%8
			out.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		out.WriteRune(r)
		col++
	}
	return out.String()
}

// dedent drops leading and trailing blank lines and the indentation common
// to all other lines. The result ends in a newline unless it is empty.
func dedent(content []byte) string {
	all := lines(content)
	for len(all) > 0 && strings.TrimSpace(all[0]) == "" {
		all = all[1:]
	}
	for len(all) > 0 && strings.TrimSpace(all[len(all)-1]) == "" {
		all = all[:len(all)-1]
	}
	if len(all) == 0 {
		return ""
	}
	indent := -1
	for _, l := range all {
		if strings.TrimSpace(l) == "" {
			continue
		}
		n := len(l) - len(strings.TrimLeft(l, " "))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	var out strings.Builder
	for _, l := range all {
		if len(l) >= indent {
			l = l[indent:]
		} else {
			l = ""
		}
		out.WriteString(strings.TrimRight(l, " "))
		out.WriteByte('\n')
	}
	return out.String()
}
