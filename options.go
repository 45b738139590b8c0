package xml2texi

import (
	"time"

	"go.uber.org/zap"
)

// V3PITarget is the processing instruction target that survives Prep.
const V3PITarget = "v3xml2rfc"

// Options controls parsing, normalization and rendering of one document.
// It is a value type: build one with DefaultOptions for every conversion
// and adjust the copy.
type Options struct {
	Quiet                bool   // suppress warnings from the library
	Verbose              bool   // log skipped includes and other details
	AllowLocalFileAccess bool   // resolve local xi:include hrefs through FS
	UTF8                 bool   // emit UTF-8; otherwise non-ASCII becomes @U{}
	Vocabulary           string // "v2v3" upgrades v2 input, "v3" trusts it
	NoDTD                bool   // never validate against a DTD
	Liberal              bool   // tolerate malformed input where possible

	// LocalInfoFiles holds base names of Info files (without ".info") built
	// in the same run; references to them become cross-manual links.
	LocalInfoFiles map[string]bool

	Date   time.Time          // date used by Prep
	FS     FileSystem         // includes are read from here; nil uses Dir(".")
	Logger *zap.SugaredLogger // nil discards
}

// DefaultOptions returns the settings used for converting RFC XML to Info.
func DefaultOptions() Options {
	return Options{
		Quiet:                true,
		Verbose:              false,
		AllowLocalFileAccess: true,
		UTF8:                 true,
		Vocabulary:           "v2v3",
		NoDTD:                true,
		Liberal:              true,
		LocalInfoFiles:       map[string]bool{},
		Date:                 time.Now().UTC(),
	}
}

// WithLocalInfoFiles returns a copy of o using a private copy of names.
func (o Options) WithLocalInfoFiles(names map[string]bool) Options {
	set := make(map[string]bool, len(names))
	for k, v := range names {
		if v {
			set[k] = true
		}
	}
	o.LocalInfoFiles = set
	return o
}

// HasLocalInfoFile reports whether name.info is built alongside this document.
func (o Options) HasLocalInfoFile(name string) bool {
	return o.LocalInfoFiles[name]
}

func (o Options) fs() FileSystem {
	if o.FS != nil {
		return o.FS
	}
	return Dir("")
}
