package xml2texi

import (
	"strings"
	"testing"

	"github.com/russross/xml2texi/errors"
)

const prepInput = `<?rfc toc="yes"?>
<rfc number="9126" sortRefs="true">
  <?v3xml2rfc silence="warning"?>
  <?rfc compact="yes"?>
  <front><title>T</title></front>
  <middle>
    <section anchor="intro"><name>Introduction</name>
      <section><name>Terms</name></section>
      <section numbered="false"><name>Aside</name></section>
      <section><name>More</name></section>
    </section>
    <section><name>Second</name>
      <figure><artwork>x</artwork></figure>
    </section>
  </middle>
  <back>
    <references><name>References</name>
      <references><name>Normative</name>
        <reference anchor="RFC8259"/>
        <reference anchor="RFC2119"/>
      </references>
    </references>
    <section><name>Extra</name><section><name>Detail</name></section></section>
    <section numbered="false"><name>Acknowledgements</name></section>
    <section><name>Other</name></section>
  </back>
</rfc>`

func prepped(t *testing.T, input string) *Tree {
	t.Helper()
	tree, err := Normalize(mustParse(t, input, testOptions()), testOptions())
	if err != nil {
		t.Fatalf("%+v", err)
	}
	return tree
}

func TestPrepNumbering(t *testing.T) {
	root := prepped(t, prepInput).Root()
	var pns []string
	for _, s := range root.Elements("") {
		if s.Is("section") || s.Is("references") {
			pns = append(pns, s.Get("pn"))
		}
	}
	expected := []string{
		"section-1", "section-1.1", "section-unnumbered-1", "section-1.2",
		"section-2",
		"section-3", "section-3.1",
		"section-appendix.a", "section-appendix.a.1",
		"section-unnumbered-2",
		"section-appendix.b",
	}
	if got, want := strings.Join(pns, " "), strings.Join(expected, " "); got != want {
		t.Errorf("\n%s", diff(want, got))
	}
	if got := root.Find("middle/section").Get("anchor"); got != "intro" {
		t.Errorf("existing anchor replaced: %q", got)
	}
	if got := root.FindAll("middle/section")[1].Get("anchor"); got != "section-2" {
		t.Errorf("missing anchor: got %q", got)
	}
	if got := root.Find("middle/section/figure").Get("pn"); got != "figure-1" {
		t.Errorf("figure pn: got %q", got)
	}
}

func TestPrepFront(t *testing.T) {
	root := prepped(t, prepInput).Root()
	si := root.Find("front/seriesInfo")
	if si == nil || si.Get("name") != "RFC" || si.Get("value") != "9126" {
		t.Fatalf("seriesInfo: %v", si)
	}
	if si.Prev == nil || !si.Prev.Is("title") {
		t.Errorf("seriesInfo should follow the title")
	}
	date := root.Find("front/date")
	if date.Get("year") != "2024" || date.Get("month") != "March" || date.Get("day") != "7" {
		t.Errorf("date: %v", date.Attr)
	}
	if got := root.Get("prepTime"); got != "2024-03-07T12:00:00Z" {
		t.Errorf("prepTime: got %q", got)
	}
	if NeedsPrep(&Tree{Doc: root.Parent}) {
		t.Errorf("prepared tree still needs prep")
	}
}

func TestPrepDraftSeriesInfo(t *testing.T) {
	root := prepped(t, `<rfc docName="draft-ietf-oauth-par-10"><front><title>T</title>`+
		`<date year="2021"/></front></rfc>`).Root()
	si := root.Find("front/seriesInfo")
	if si.Get("name") != "Internet-Draft" || si.Get("value") != "draft-ietf-oauth-par-10" {
		t.Errorf("seriesInfo: %v", si.Attr)
	}
	if got := root.Find("front/date").Get("month"); got != "" {
		t.Errorf("partial date should keep its year only, got month %q", got)
	}
}

func TestPrepSortRefs(t *testing.T) {
	root := prepped(t, prepInput).Root()
	var anchors []string
	for _, r := range root.Elements("reference") {
		anchors = append(anchors, r.Get("anchor"))
	}
	if got := strings.Join(anchors, ","); got != "RFC2119,RFC8259" {
		t.Errorf("got %s", got)
	}
}

func TestPrepProcessingInstructions(t *testing.T) {
	tree := prepped(t, prepInput)
	var targets []string
	tree.Doc.Walk(func(n *Node, entering bool) WalkStatus {
		if entering && n.Type == ProcInst {
			targets = append(targets, n.Target)
		}
		return GoToNext
	})
	if got := strings.Join(targets, ","); got != V3PITarget {
		t.Errorf("got %q", got)
	}
	if tree.Root().Get("tocInclude") != "true" {
		t.Errorf("toc processing instruction not applied")
	}
}

func TestPrepNoTree(t *testing.T) {
	tree := mustParse(t, `<html><body/></html>`, testOptions())
	got, err := Prep(tree, testOptions(), nil)
	if got != nil {
		t.Errorf("expected no tree")
	}
	if !errors.Is(err, ErrNoTree) {
		t.Errorf("expected ErrNoTree, got %v", err)
	}
}

func TestPrepStrict(t *testing.T) {
	opts := testOptions()
	opts.Liberal = false

	_, err := Prep(mustParse(t, `<rfc><middle/></rfc>`, opts), opts, nil)
	if err == nil || !strings.Contains(err.Error(), "missing <front>") {
		t.Errorf("missing front: got %v", err)
	}

	dup := `<rfc><front/><middle><section anchor="a"/><section anchor="a"/></middle></rfc>`
	_, err = Prep(mustParse(t, dup, opts), opts, nil)
	if err == nil || !strings.Contains(err.Error(), "duplicate anchor") {
		t.Errorf("duplicate anchor: got %v", err)
	}

	tree, err := Prep(mustParse(t, dup, testOptions()), testOptions(), nil)
	if err != nil || tree == nil {
		t.Errorf("liberal mode should accept duplicate anchors: %v", err)
	}
}

func TestAppendixLetter(t *testing.T) {
	for n, want := range map[int]string{1: "a", 26: "z", 27: "aa", 28: "ab", 52: "az", 53: "ba"} {
		if got := appendixLetter(n); got != want {
			t.Errorf("%d: got %q, want %q", n, got, want)
		}
	}
}
