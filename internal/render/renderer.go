// Package render turns a URL into a full-size screenshot using a shared
// headless browser.
package render

import (
	"context"
	"fmt"
	"time"

	"github.com/creatorstation/urlshot/internal/artifact"
	"github.com/creatorstation/urlshot/pkg/fingerprint"
	"github.com/gofiber/fiber/v2/log"
)

// Viewport is the browser window size, which is also the capture size.
type Viewport struct {
	Width  int
	Height int
}

// Browser hands out isolated sessions. Implementations are shared by every
// request and must be safe for concurrent use.
type Browser interface {
	NewSession(viewport Viewport) (Session, error)
}

// Session is one isolated page. It is used by a single render and then closed.
type Session interface {
	// Navigate opens url and returns once the page's load event fires, or
	// with an error if navigation fails. Closing the session unblocks it.
	Navigate(url string) error

	// Capture returns a JPEG of the viewport.
	Capture(viewport Viewport) ([]byte, error)

	Close() error
}

// Renderer captures screenshots into the artifact store.
type Renderer struct {
	browser  Browser
	store    *artifact.Store
	viewport Viewport
	timeout  time.Duration
}

func New(browser Browser, store *artifact.Store, viewport Viewport, timeout time.Duration) *Renderer {
	return &Renderer{
		browser:  browser,
		store:    store,
		viewport: viewport,
		timeout:  timeout,
	}
}

// Render loads url and writes a viewport-sized JPEG to the URL's full-size
// artifact path, which it returns. Only the render timeout bounds the work.
func (r *Renderer) Render(_ context.Context, url string) (string, error) {
	session, err := r.browser.NewSession(r.viewport)
	if err != nil {
		return "", &Error{Kind: KindSession, URL: url, Err: err}
	}
	defer func() {
		if err := session.Close(); err != nil {
			log.Warnf("could not close render session for %s: %v", url, err)
		}
	}()

	timer := time.NewTimer(r.timeout)
	defer timer.Stop()

	loaded := make(chan error, 1)
	go func() {
		loaded <- session.Navigate(url)
	}()

	select {
	case err := <-loaded:
		timer.Stop()
		if err != nil {
			return "", &Error{Kind: KindLoadFailed, URL: url, Err: err}
		}
	case <-timer.C:
		return "", &Error{Kind: KindTimeout, URL: url, Err: fmt.Errorf("page did not load within %s", r.timeout)}
	}

	shot, err := session.Capture(r.viewport)
	if err != nil {
		return "", &Error{Kind: KindCapture, URL: url, Err: err}
	}

	path := r.store.Path(fingerprint.Of(url), "")
	if err := r.store.WriteBytes(path, shot); err != nil {
		return "", &Error{Kind: KindCapture, URL: url, Err: err}
	}

	return path, nil
}
