// Package derive produces the configured thumbnail sizes from a full-size
// render.
package derive

import (
	"context"
	"fmt"
	"image"
	"io"

	"github.com/creatorstation/urlshot/internal/artifact"
	"github.com/creatorstation/urlshot/pkg/img"
	"golang.org/x/sync/errgroup"
)

// Size is one thumbnail variant.
type Size struct {
	Name   string
	Width  int
	Height int
}

// Error reports the size that could not be produced. An empty Size means the
// source image itself could not be read.
type Error struct {
	Size string
	Err  error
}

func (e *Error) Error() string {
	if e.Size == "" {
		return fmt.Sprintf("derive: source: %v", e.Err)
	}
	return fmt.Sprintf("derive %s: %v", e.Size, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Deriver resizes full-size renders into every configured size.
type Deriver struct {
	store   *artifact.Store
	sizes   []Size
	quality int
}

func New(store *artifact.Store, sizes []Size, jpegQuality int) *Deriver {
	return &Deriver{store: store, sizes: sizes, quality: jpegQuality}
}

// DeriveAll writes one stretched JPEG per configured size for fingerprint fp,
// reading from source. Every size is attempted; the first failure is
// returned. Files already written for other sizes are left in place.
func (d *Deriver) DeriveAll(ctx context.Context, source, fp string) error {
	src, err := d.decode(source)
	if err != nil {
		return &Error{Err: err}
	}

	var g errgroup.Group
	for _, size := range d.sizes {
		size := size
		g.Go(func() error {
			if err := d.derive(src, fp, size); err != nil {
				return &Error{Size: size.Name, Err: err}
			}
			return nil
		})
	}
	return g.Wait()
}

func (d *Deriver) decode(source string) (image.Image, error) {
	f, err := d.store.Open(source)
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", source, err)
	}
	defer f.Close()

	return img.Decode(f)
}

func (d *Deriver) derive(src image.Image, fp string, size Size) error {
	resized, err := img.Stretch(src, size.Width, size.Height)
	if err != nil {
		return err
	}

	return d.store.WriteFile(d.store.Path(fp, size.Name), func(w io.Writer) error {
		return img.EncodeJPEG(w, resized, d.quality)
	})
}
