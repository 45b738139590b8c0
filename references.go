package xml2texi

import (
	"net/url"
	"path"
	"strings"
)

// references.go turns bibxml include file names into stub <reference>
// elements when the file itself cannot be read.

var (
	// Targets used for stub references.
	CitationsRFC = "https://www.rfc-editor.org/info/rfc"
	CitationsID  = "https://datatracker.ietf.org/doc/"
)

const (
	referenceRFC      = "reference.RFC."
	referenceID       = "reference.I-D.draft-"
	referenceIDLatest = "reference.I-D."
	ext               = ".xml"
)

// referenceStub builds a <reference> from a bibxml file name such as
// reference.RFC.2119.xml or reference.I-D.ietf-oauth-par.xml. It returns
// nil for anything else.
func referenceStub(href string) *Node {
	name := href
	if u, err := url.Parse(href); err == nil && u.Path != "" {
		name = u.Path
	}
	name = path.Base(name)
	if !strings.HasSuffix(name, ext) {
		return nil
	}
	name = strings.TrimSuffix(name, ext)

	switch {
	case strings.HasPrefix(name, referenceRFC):
		num := strings.TrimLeft(name[len(referenceRFC):], "0")
		if num == "" || strings.Trim(num, "0123456789") != "" {
			return nil
		}
		return newStub("RFC"+name[len(referenceRFC):], "RFC "+num, CitationsRFC+num, "RFC", num)

	case strings.HasPrefix(name, referenceID):
		draft := "draft-" + name[len(referenceID):]
		anchor := "I-D." + strings.TrimPrefix(trimDraftVersion(draft), "draft-")
		return newStub(anchor, draft, CitationsID+draft, "Internet-Draft", draft)

	case strings.HasPrefix(name, referenceIDLatest):
		short := name[len(referenceIDLatest):]
		if short == "" {
			return nil
		}
		draft := "draft-" + short
		return newStub("I-D."+short, draft, CitationsID+draft, "Internet-Draft", draft)
	}
	return nil
}

func newStub(anchor, title, target, series, value string) *Node {
	ref := NewElement("reference", "anchor", anchor, "target", target)
	front := NewElement("front")
	t := NewElement("title")
	t.AppendChild(NewText(title))
	front.AppendChild(t)
	ref.AppendChild(front)
	ref.AppendChild(NewElement("seriesInfo", "name", series, "value", value))
	return ref
}

// trimDraftVersion removes a trailing two digit revision, "-03".
func trimDraftVersion(name string) string {
	i := strings.LastIndexByte(name, '-')
	if i < 0 || len(name)-i != 3 {
		return name
	}
	if strings.Trim(name[i+1:], "0123456789") != "" {
		return name
	}
	return name[:i]
}
