package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/russross/xml2texi"
	"github.com/russross/xml2texi/errors"
	"github.com/russross/xml2texi/infodir"
	"github.com/russross/xml2texi/makeinfo"
)

// convertFile renders path to Texinfo and compiles it. ok is false when
// no Info file came out of it.
func (a *app) convertFile(ctx context.Context, path string, local map[string]bool) (entry infodir.Entry, ok bool) {
	a.log.Infof("  Parsing %s ...", filepath.Base(path))

	base := baseName(path)
	texi := filepath.Join(a.settings.OutputDir, base+".texi")
	info := filepath.Join(a.settings.OutputDir, base+".info")

	id, title, err := a.render(path, base, texi, local)
	if err != nil {
		if errors.Is(err, xml2texi.ErrNoTree) {
			a.log.Infof("  FAILED: prep tool returned no tree for %s", base)
		} else {
			a.log.Infof("  ERROR in xml2rfc processing: %v", err)
		}
		a.log.Debugf("%+v", err)
		return infodir.Entry{}, false
	}

	cctx, cancel := withTimeout(ctx, a.settings.CompileTimeout.Duration)
	lines, err := a.compiler.Compile(cctx, texi, info)
	cancel()
	if err != nil {
		lines = append(lines, err.Error())
	}
	shown, more := makeinfo.Summarize(lines, maxWarnings)
	for _, l := range shown {
		a.log.Infof("    %s", l)
	}
	if more > 0 {
		a.log.Infof("    ... and %d more warnings", more)
	}

	if _, err := os.Stat(info); err != nil {
		a.log.Infof("  FAILED: %s", filepath.Base(info))
		return infodir.Entry{}, false
	}
	a.log.Infof("  -> %s", filepath.Base(info))
	return infodir.Entry{Filename: filepath.Base(info), ID: id, Title: title}, true
}

// render parses, prepares and writes one document. Panics in the library
// are returned as errors.
func (a *app) render(path, base, texi string, local map[string]bool) (id, title string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Recovered(r)
		}
	}()

	opts := xml2texi.DefaultOptions().WithLocalInfoFiles(local)
	opts.Verbose = a.verbose
	opts.Logger = a.log

	tree, err := xml2texi.ParseFile(path, opts)
	if err != nil {
		return "", "", err
	}
	if tree, err = xml2texi.Normalize(tree, opts); err != nil {
		return "", "", err
	}
	if a.settings.DumpXML {
		if err := a.dumpXML(tree, filepath.Join(a.settings.OutputDir, base+".prepped.xml")); err != nil {
			return "", "", err
		}
	}

	id = xml2texi.Identify(tree, base)
	title = xml2texi.Title(tree)
	if err := xml2texi.NewTexinfoWriter(tree, opts).Write(texi); err != nil {
		return "", "", err
	}
	return id, title, nil
}

func (a *app) dumpXML(tree *xml2texi.Tree, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating xml dump")
	}
	if err := xml2texi.WriteXML(f, tree.Doc); err != nil {
		f.Close()
		return err
	}
	return errors.Wrapf(f.Close(), "closing %s", path)
}
