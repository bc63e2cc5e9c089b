// Package pipeline resolves a URL to the fingerprint of its thumbnails,
// rendering and caching them on a miss.
package pipeline

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/creatorstation/urlshot/internal/artifact"
	"github.com/creatorstation/urlshot/internal/cacheindex"
	"github.com/creatorstation/urlshot/pkg/fingerprint"
	"github.com/gofiber/fiber/v2/log"
)

// Renderer captures a full-size screenshot and returns its path.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}

// Deriver writes every configured size for fp from source.
type Deriver interface {
	DeriveAll(ctx context.Context, source, fp string) error
}

// Pipeline sequences cache lookup, render, derive, cleanup and insert.
// Concurrent misses for the same URL are not collapsed: each renders and
// overwrites the same files.
type Pipeline struct {
	index    cacheindex.Index
	renderer Renderer
	deriver  Deriver
	store    *artifact.Store
	sizes    map[string]bool
	maxAge   time.Duration
	now      func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithNowFunc sets the clock used to stamp new records.
func WithNowFunc(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

func New(index cacheindex.Index, renderer Renderer, deriver Deriver, store *artifact.Store, sizes []string, maxAge time.Duration, opts ...Option) *Pipeline {
	p := &Pipeline{
		index:    index,
		renderer: renderer,
		deriver:  deriver,
		store:    store,
		sizes:    make(map[string]bool, len(sizes)),
		maxAge:   maxAge,
		now:      time.Now,
	}
	for _, name := range sizes {
		p.sizes[name] = true
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Resolve returns the fingerprint under which url's thumbnails are stored.
//
// A fresh cache record short-circuits everything. Otherwise the page is
// rendered, every size is derived, the full-size render is removed and a new
// record is inserted, in that order. The first failure aborts the sequence
// and no record is written; files already produced are left as they are.
//
// Cancelling ctx does not stop a resolve in progress.
func (p *Pipeline) Resolve(ctx context.Context, url, size string) (string, error) {
	if !p.sizes[size] {
		return "", ErrUnknownSize
	}

	ctx = context.WithoutCancel(ctx)

	rec, err := p.index.LookupFresh(ctx, url, p.maxAge)
	if err != nil {
		return "", &Error{Stage: StageLookup, URL: url, Err: err}
	}
	if rec != nil {
		return rec.Fingerprint, nil
	}

	return p.process(ctx, url)
}

func (p *Pipeline) process(ctx context.Context, url string) (string, error) {
	fp := fingerprint.Of(url)
	start := time.Now()

	source, err := p.renderer.Render(ctx, url)
	if err != nil {
		return "", &Error{Stage: StageRender, URL: url, Err: err}
	}

	if err := p.deriver.DeriveAll(ctx, source, fp); err != nil {
		return "", &Error{Stage: StageDerive, URL: url, Err: err}
	}

	// A concurrent resolve of the same URL may have removed it already.
	if err := p.store.Remove(source); err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", &Error{Stage: StageCleanup, URL: url, Err: err}
	}

	err = p.index.Insert(ctx, cacheindex.Record{
		URL:         url,
		Fingerprint: fp,
		CreatedAt:   p.now(),
	})
	if err != nil {
		return "", &Error{Stage: StageInsert, URL: url, Err: err}
	}

	log.Infof("rendered %s as %s in %s", url, fp, time.Since(start).Round(time.Millisecond))
	return fp, nil
}
