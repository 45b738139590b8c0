// Package xml2texi converts RFC and Internet-Draft XML to Texinfo.
//
// Both the original xml2rfc vocabulary (v2, RFC 7749) and the current one
// (v3, RFC 7991) are accepted. A document goes through four steps:
//
//	tree, err := xml2texi.ParseFile("rfc9126.xml", opts) // XML -> Node tree
//	tree, err = xml2texi.Normalize(tree, opts)           // Upgrade + Prep
//	w := xml2texi.NewTexinfoWriter(tree, opts)
//	err = w.Write("rfc9126.texi")                        // Texinfo manual
//
// Parse resolves XInclude elements and external entities. Bibliography
// includes that cannot be read locally are replaced with a stub
// <reference>, so citations still render. Upgrade rewrites v2 constructs
// (<list>, <spanx>, <texttable>, title attributes, ...) into their v3
// form, and Prep fills in what the RFC Editor's prep tool would: series
// info, dates, section and float numbers, anchors and reference order.
//
// Options come from DefaultOptions and are never shared between
// conversions; WithLocalInfoFiles derives a changed copy.
//
// Identify and Title extract the label and title used in the Info dir
// entry. The rfc2texi command in this repository drives the whole
// pipeline, including makeinfo and the dir file.
package xml2texi
