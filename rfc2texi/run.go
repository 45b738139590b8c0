package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/russross/xml2texi/config"
	"github.com/russross/xml2texi/errors"
	"github.com/russross/xml2texi/fetch"
	"github.com/russross/xml2texi/infodir"
	"github.com/russross/xml2texi/logger"
	"github.com/russross/xml2texi/makeinfo"
	"github.com/russross/xml2texi/specs"
)

// maxWarnings is how many compiler diagnostic lines are shown per file.
const maxWarnings = 5

type app struct {
	log      *zap.SugaredLogger
	settings config.Settings
	compiler *makeinfo.Compiler
	fetcher  *fetch.Fetcher
	verbose  bool
}

func newApp(f cliFlags, stdout io.Writer) (*app, error) {
	dir := f.dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "finding the current directory")
		}
		dir = wd
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving %s", f.dir)
	}

	path, required := f.config, f.config != ""
	if !required {
		path = filepath.Join(dir, config.FileName)
	}
	settings, err := config.Load(path, required)
	if err != nil {
		return nil, err
	}
	settings = settings.Resolve(dir)
	if f.makeinfo != "" {
		settings.Makeinfo = f.makeinfo
	}
	if f.dumpXML {
		settings.DumpXML = true
	}

	compiler, err := makeinfo.New(settings.Makeinfo)
	if err != nil {
		return nil, err
	}
	log := logger.New(stdout, f.verbose)
	return &app{
		log:      log,
		settings: settings,
		compiler: compiler,
		fetcher:  fetch.New(fetch.WithLogger(log)),
		verbose:  f.verbose,
	}, nil
}

// run converts the files in args, or everything in the specs file when
// args is empty or sync is set.
func (a *app) run(ctx context.Context, args []string, sync bool) error {
	var files []string
	if len(args) > 0 && !sync {
		for _, arg := range args {
			abs, err := filepath.Abs(arg)
			if err != nil {
				return errors.Wrapf(err, "resolving %s", arg)
			}
			files = append(files, abs)
		}
	} else {
		var err error
		if files, err = a.sync(ctx); err != nil {
			return err
		}
	}

	if len(files) == 0 {
		a.log.Info("No files to convert.")
		return errFatal
	}

	local := a.localInfoFiles(files)
	var entries []infodir.Entry
	for _, f := range files {
		if entry, ok := a.convertFile(ctx, f, local); ok {
			entries = append(entries, entry)
		}
	}

	if len(entries) > 0 {
		dw := infodir.Writer{Dir: a.settings.OutputDir, Log: a.log}
		if _, err := dw.Write(entries); err != nil {
			return err
		}
	}

	a.log.Infof("\nConverted %d/%d files.", len(entries), len(files))
	return nil
}

// sync reads the specs file and fetches every entry into the cache. It
// returns the paths that are available locally.
func (a *app) sync(ctx context.Context) ([]string, error) {
	conf := a.settings.SpecsFile
	parser := specs.Parser{RFCURL: a.settings.RFCURL, DraftURL: a.settings.DraftURL}
	entries, err := parser.ParseFile(conf, func(line string) {
		a.log.Infof("  Warning: skipping unrecognized line: %s", line)
	})
	if errors.Is(err, specs.ErrNotFound) {
		a.log.Infof("No specs.conf found at %s", conf)
		a.log.Info("Create one or pass XML files as arguments.")
		return nil, errFatal
	}
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		a.log.Info("No specs found in specs.conf")
		return nil, errFatal
	}

	if err := os.MkdirAll(a.settings.CacheDir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating %s", a.settings.CacheDir)
	}
	a.log.Infof("Found %d specs in specs.conf\n", len(entries))

	var files []string
	for _, e := range entries {
		dst := filepath.Join(a.settings.CacheDir, e.Name+".xml")
		fctx, cancel := withTimeout(ctx, a.settings.FetchTimeout.Duration)
		res, err := a.fetcher.Fetch(fctx, e.URL, dst)
		cancel()
		if err != nil {
			a.log.Infof("  FAILED to fetch %s: %v", e.Name, err)
			a.log.Debugf("%+v", err)
			continue
		}
		files = append(files, res.Path)
	}
	return files, nil
}

// localInfoFiles returns the base names documents may link to: every input
// plus every manual already present in the output directory.
func (a *app) localInfoFiles(files []string) map[string]bool {
	local := make(map[string]bool)
	for _, f := range files {
		local[baseName(f)] = true
	}
	existing, _ := filepath.Glob(filepath.Join(a.settings.OutputDir, "*.info"))
	for _, f := range existing {
		local[baseName(f)] = true
	}
	return local
}

func baseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// withTimeout is context.WithTimeout where zero means no limit.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
