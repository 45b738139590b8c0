//
// Helper functions for unit testing
//

package xml2texi

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/pmezard/go-difflib/difflib"
)

var testDate = time.Date(2024, time.March, 7, 12, 0, 0, 0, time.UTC)

func testOptions() Options {
	opts := DefaultOptions()
	opts.Date = testDate
	return opts
}

// diff returns a unified diff of expected and actual.
func diff(expected, actual string) string {
	d, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(expected),
		B:        difflib.SplitLines(actual),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  2,
	})
	return d
}

func mustParse(t *testing.T, input string, opts Options) *Tree {
	t.Helper()
	tree, err := Parse(strings.NewReader(input), "test.xml", opts)
	if err != nil {
		t.Fatalf("parse: %+v", err)
	}
	return tree
}

func renderTexinfo(t *testing.T, tree *Tree, opts Options) string {
	t.Helper()
	tree, err := Normalize(tree, opts)
	if err != nil {
		t.Fatalf("normalize: %+v", err)
	}
	var out bytes.Buffer
	if err := NewTexinfoWriter(tree, opts).Render(&out); err != nil {
		t.Fatalf("render: %+v", err)
	}
	return out.String()
}

const blockHead = "@chapter Test\n"

// runTexinfoBlock renders input as the body of a single section and returns
// the Texinfo between the chapter line and @bye.
func runTexinfoBlock(t *testing.T, input string, opts Options) string {
	t.Helper()
	doc := `<rfc number="9999" category="std"><front><title>Block</title></front>` +
		`<middle><section anchor="test"><name>Test</name>` + input + `</section></middle></rfc>`
	out := renderTexinfo(t, mustParse(t, doc, opts), opts)
	start := strings.Index(out, blockHead)
	end := strings.LastIndex(out, "\n@bye\n")
	if start < 0 || end < start {
		t.Fatalf("unexpected output:\n%s", out)
	}
	return strings.TrimSpace(out[start+len(blockHead) : end])
}

func doTestsBlock(t *testing.T, tests []string) {
	doTestsBlockOpts(t, tests, testOptions())
}

func doTestsBlockOpts(t *testing.T, tests []string, opts Options) {
	t.Helper()
	for i := 0; i+1 < len(tests); i += 2 {
		input := tests[i]
		expected := strings.TrimSpace(tests[i+1])
		actual := runTexinfoBlock(t, input, opts)
		if actual != expected {
			t.Errorf("\nInput   [%#v]\n%s", input, diff(expected, actual))
		}
	}
}
