// Package config loads the optional rfc2texi.toml settings file.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/russross/xml2texi/errors"
	"github.com/russross/xml2texi/specs"
)

// FileName is the settings file looked up in the base directory.
const FileName = "rfc2texi.toml"

// Duration is a time.Duration that decodes from strings like "30s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return errors.Wrapf(err, "invalid duration %q", text)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

type Settings struct {
	OutputDir      string   `toml:"output_dir"`
	CacheDir       string   `toml:"cache_dir"`
	SpecsFile      string   `toml:"specs_file"`
	Makeinfo       string   `toml:"makeinfo"`
	RFCURL         string   `toml:"rfc_url"`
	DraftURL       string   `toml:"draft_url"`
	FetchTimeout   Duration `toml:"fetch_timeout"`
	CompileTimeout Duration `toml:"compile_timeout"`
	DumpXML        bool     `toml:"dump_xml"`
}

// Default returns the settings used when no file is present.
func Default() Settings {
	return Settings{
		OutputDir: ".",
		CacheDir:  "xml",
		SpecsFile: "specs.conf",
		Makeinfo:  "makeinfo",
		RFCURL:    specs.DefaultRFCURL,
		DraftURL:  specs.DefaultDraftURL,
	}
}

// Load reads path on top of the defaults. A missing file is only an error
// when required is set; otherwise the defaults are returned.
func Load(path string, required bool) (Settings, error) {
	s := Default()
	md, err := toml.DecodeFile(path, &s)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return Default(), nil
		}
		return Settings{}, errors.Wrapf(err, "reading %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Settings{}, errors.Newf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if s.Makeinfo == "" {
		return Settings{}, errors.Newf("%s: makeinfo must not be empty", path)
	}
	return s, nil
}

// Resolve makes the directory and file fields absolute relative to base.
func (s Settings) Resolve(base string) Settings {
	s.OutputDir = resolve(base, s.OutputDir)
	s.CacheDir = resolve(base, s.CacheDir)
	s.SpecsFile = resolve(base, s.SpecsFile)
	return s
}

func resolve(base, p string) string {
	if p == "" {
		p = "."
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}
