package img

import (
	"fmt"
	"image"
	"io"

	"github.com/sunshineplan/imgconv"
)

// DefaultQuality is the JPEG quality used when none is configured.
const DefaultQuality = 90

// Decode reads an image in any format imgconv understands.
func Decode(r io.Reader) (image.Image, error) {
	img, err := imgconv.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("error decoding image: %w", err)
	}
	return img, nil
}

// Stretch resizes src to exactly width x height. The aspect ratio is not
// preserved.
func Stretch(src image.Image, width, height int) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid target size %dx%d", width, height)
	}

	return imgconv.Resize(src, &imgconv.ResizeOption{
		Width:  width,
		Height: height,
	}), nil
}

// EncodeJPEG writes img to w as a JPEG.
func EncodeJPEG(w io.Writer, img image.Image, quality int) error {
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}

	err := imgconv.Write(w, img, &imgconv.FormatOption{
		Format:       imgconv.JPEG,
		EncodeOption: []imgconv.EncodeOption{imgconv.Quality(quality)},
	})
	if err != nil {
		return fmt.Errorf("error encoding JPEG: %w", err)
	}
	return nil
}
