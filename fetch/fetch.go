// Package fetch downloads XML sources into the local cache.
//
// A file that already exists is never fetched again: existence is the
// whole cache check. Downloads land in a ".part" file first and are renamed
// into place, so an interrupted transfer does not leave a truncated
// document behind to be picked up as cached on the next run.
package fetch

import (
	"context"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	getter "github.com/hashicorp/go-getter"
	"go.uber.org/zap"

	"github.com/russross/xml2texi/errors"
	"github.com/russross/xml2texi/logger"
)

// ErrUnsupportedScheme is returned for sources that are not http, https or
// file URLs.
var ErrUnsupportedScheme = errors.New("unsupported URL scheme")

type Result struct {
	Path   string
	Cached bool
}

type Fetcher struct {
	client *http.Client
	log    *zap.SugaredLogger
}

type Option func(*Fetcher)

// WithHTTPClient sets the client used for transfers.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(f *Fetcher) { f.log = l }
}

func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		client: http.DefaultClient,
		log:    logger.Nop(),
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Fetch makes sure dst exists, downloading src into it if it does not.
func (f *Fetcher) Fetch(ctx context.Context, src, dst string) (Result, error) {
	if _, err := os.Stat(dst); err == nil {
		f.log.Infof("  [cached] %s", filepath.Base(dst))
		return Result{Path: dst, Cached: true}, nil
	}

	u, err := url.Parse(src)
	if err != nil {
		return Result{}, errors.Wrapf(err, "parsing %q", src)
	}
	switch u.Scheme {
	case "http", "https", "file":
	default:
		return Result{}, errors.Wrapf(ErrUnsupportedScheme, "%q", src)
	}

	f.log.Infof("  Fetching %s ...", src)

	part := dst + ".part"
	os.Remove(part)

	httpGetter := &getter.HttpGetter{Client: f.client}
	client := &getter.Client{
		Ctx:  ctx,
		Src:  src,
		Dst:  part,
		Mode: getter.ClientModeFile,
		Getters: map[string]getter.Getter{
			"http":  httpGetter,
			"https": httpGetter,
			"file":  &getter.FileGetter{Copy: true},
		},
	}
	if err := client.Get(); err != nil {
		os.Remove(part)
		return Result{}, errors.Wrapf(err, "fetching %s", src)
	}
	if err := os.Rename(part, dst); err != nil {
		os.Remove(part)
		return Result{}, errors.Wrapf(err, "moving %s into place", filepath.Base(dst))
	}
	f.log.Debugw("fetched", "url", src, "path", dst)
	return Result{Path: dst}, nil
}
