package xml2texi

import (
	"strings"
	"testing"
)

func upgraded(t *testing.T, input string) *Tree {
	t.Helper()
	tree := mustParse(t, input, testOptions())
	if err := Upgrade(tree, testOptions()); err != nil {
		t.Fatalf("%+v", err)
	}
	return tree
}

func TestUpgradeTitles(t *testing.T) {
	tree := upgraded(t, `<rfc><middle><section title="Intro"><figure title="Fig"><artwork>x</artwork></figure></section></middle></rfc>`)
	root := tree.Root()
	if root.Get("version") != "3" {
		t.Errorf("version: got %q", root.Get("version"))
	}
	section := root.Find("middle/section")
	if _, ok := section.Lookup("title"); ok {
		t.Errorf("title attribute kept")
	}
	if got := section.Child("name").Text(); got != "Intro" {
		t.Errorf("section name: got %q", got)
	}
	if got := section.Find("figure/name").Text(); got != "Fig" {
		t.Errorf("figure name: got %q", got)
	}
}

func TestUpgradeListHoisting(t *testing.T) {
	tree := upgraded(t, `<rfc><middle><section><t>Before<list style="numbers"><t>one</t><t>two</t></list>after</t></section></middle></rfc>`)
	section := tree.Root().Find("middle/section")
	if got := strings.Join(childNames(section), ","); got != "t,ol,t" {
		t.Fatalf("children: got %s\n%s", got, section)
	}
	ol := section.Child("ol")
	if got := strings.Join(childNames(ol), ","); got != "li,li" {
		t.Errorf("items: got %s", got)
	}
	kids := section.Children("t")
	if kids[0].Text() != "Before" || kids[1].Text() != "after" {
		t.Errorf("split paragraphs: %q %q", kids[0].Text(), kids[1].Text())
	}
}

func TestUpgradeListStyles(t *testing.T) {
	var tests = []struct {
		style, name, typ, empty string
	}{
		{"symbols", "ul", "", ""},
		{"letters", "ol", "a", ""},
		{"format (%d)", "ol", "(%d)", ""},
		{"empty", "ul", "", "true"},
		{"", "ul", "", "true"},
	}
	for _, test := range tests {
		style := ""
		if test.style != "" {
			style = ` style="` + test.style + `"`
		}
		tree := upgraded(t, `<rfc><middle><section><t><list`+style+`><t>x</t></list></t></section></middle></rfc>`)
		section := tree.Root().Find("middle/section")
		if got := strings.Join(childNames(section), ","); got != test.name {
			t.Errorf("%q: children %s, want %s", test.style, got, test.name)
			continue
		}
		list := section.Child(test.name)
		if list.Get("type") != test.typ {
			t.Errorf("%q: type %q, want %q", test.style, list.Get("type"), test.typ)
		}
		if list.Get("empty") != test.empty {
			t.Errorf("%q: empty %q, want %q", test.style, list.Get("empty"), test.empty)
		}
	}
}

func TestUpgradeHangingAndNested(t *testing.T) {
	tree := upgraded(t, `<rfc><middle><section><t><list style="hanging">`+
		`<t hangText="Term">Def<list style="symbols"><t>inner</t></list></t>`+
		`</list></t></section></middle></rfc>`)
	section := tree.Root().Find("middle/section")
	if got := strings.Join(childNames(section), ","); got != "dl" {
		t.Fatalf("children: got %s\n%s", got, section)
	}
	dl := section.Child("dl")
	if got := strings.Join(childNames(dl), ","); got != "dt,dd" {
		t.Fatalf("dl: got %s", got)
	}
	if got := dl.Child("dt").Text(); got != "Term" {
		t.Errorf("dt: got %q", got)
	}
	if dl.Find("dd/ul/li") == nil {
		t.Errorf("nested list not kept inside dd:\n%s", dl)
	}
}

func TestUpgradeInline(t *testing.T) {
	tree := upgraded(t, `<rfc><middle><section><t><spanx style="verb">a</spanx><spanx>b</spanx>`+
		`<spanx style="strong">c</spanx><vspace blankLines="1"/></t></section></middle></rfc>`)
	tt := tree.Root().Find("middle/section/t")
	if got := strings.Join(childNames(tt), ","); got != "tt,em,strong,br" {
		t.Errorf("got %s", got)
	}
	if _, ok := tt.Child("br").Lookup("blankLines"); ok {
		t.Errorf("blankLines kept")
	}
}

func TestUpgradeTexttable(t *testing.T) {
	tree := upgraded(t, `<rfc><middle><section><texttable anchor="codes" title="Codes">`+
		`<preamble>Pre</preamble><ttcol align="left">Code</ttcol><ttcol>Meaning</ttcol>`+
		`<c>1</c><c>one</c><c>2</c><c>two</c><postamble>Post</postamble></texttable></section></middle></rfc>`)
	section := tree.Root().Find("middle/section")
	if got := strings.Join(childNames(section), ","); got != "t,table,t" {
		t.Fatalf("children: got %s\n%s", got, section)
	}
	table := section.Child("table")
	if table.Get("anchor") != "codes" || table.Child("name").Text() != "Codes" {
		t.Errorf("table head: %s", table)
	}
	if got := len(table.FindAll("tbody/tr")); got != 2 {
		t.Errorf("rows: got %d", got)
	}
	if got := table.Find("thead/tr/th").Get("align"); got != "left" {
		t.Errorf("align: got %q", got)
	}
}

func TestUpgradePIs(t *testing.T) {
	tree := upgraded(t, `<?rfc toc="yes"?><?rfc sortrefs="yes" symrefs='no'?><rfc/>`)
	root := tree.Root()
	for attr, want := range map[string]string{"tocInclude": "true", "sortRefs": "true", "symRefs": "false"} {
		if got := root.Get(attr); got != want {
			t.Errorf("%s: got %q, want %q", attr, got, want)
		}
	}
}

func TestUpgradeVocabularyV3(t *testing.T) {
	opts := testOptions()
	opts.Vocabulary = "v3"
	tree := mustParse(t, `<rfc><middle><section title="Intro"/></middle></rfc>`, opts)
	if err := Upgrade(tree, opts); err != nil {
		t.Fatal(err)
	}
	if tree.Root().Find("middle/section/name") != nil {
		t.Errorf("v3 vocabulary should not be rewritten")
	}
}
