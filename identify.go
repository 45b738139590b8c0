package xml2texi

import (
	"regexp"
	"strings"
)

// Title returns the trimmed text of front/title, or "".
func Title(t *Tree) string {
	return strings.TrimSpace(t.Root().Find("front/title").Text())
}

// IDStrategy derives a document identifier such as "RFC 9126" or
// "draft-ietf-oauth-par-10". It returns "" when it has no opinion.
type IDStrategy func(t *Tree, basename string) string

var reRFCBasename = regexp.MustCompile(`^rfc(\d+)$`)

// NumberAttr uses the number attribute of the root.
func NumberAttr(t *Tree, _ string) string {
	if n := t.Root().Get("number"); n != "" {
		return "RFC " + n
	}
	return ""
}

// SeriesInfoRFC uses the first front/seriesInfo named RFC.
func SeriesInfoRFC(t *Tree, _ string) string {
	for _, si := range t.Root().FindAll("front/seriesInfo") {
		if si.Get("name") == "RFC" && si.Get("value") != "" {
			return "RFC " + si.Get("value")
		}
	}
	return ""
}

// BasenameRFC trusts a file name of the form rfcNNNN. Drafts published as
// RFCs are often fetched as draft XML but stored under the RFC name.
func BasenameRFC(_ *Tree, basename string) string {
	if m := reRFCBasename.FindStringSubmatch(basename); m != nil {
		return "RFC " + m[1]
	}
	return ""
}

// DocName uses the docName attribute of the root.
func DocName(t *Tree, _ string) string {
	return t.Root().Get("docName")
}

// Strategies returns the identifier strategies in order of precedence.
func Strategies() []IDStrategy {
	return []IDStrategy{NumberAttr, SeriesInfoRFC, BasenameRFC, DocName}
}

// Identify runs Strategies and returns the first identifier found.
func Identify(t *Tree, basename string) string {
	return IdentifyWith(Strategies(), t, basename)
}

func IdentifyWith(strategies []IDStrategy, t *Tree, basename string) string {
	for _, s := range strategies {
		if id := s(t, basename); id != "" {
			return id
		}
	}
	return ""
}
