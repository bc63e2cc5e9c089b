package derive

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/creatorstation/urlshot/internal/artifact"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSizes = []Size{
	{Name: "large", Width: 500, Height: 375},
	{Name: "medium", Width: 300, Height: 225},
	{Name: "small", Width: 200, Height: 150},
	{Name: "tiny", Width: 100, Height: 75},
	{Name: "tall", Width: 50, Height: 400},
}

const fp = "0a1b2c3d"

func writeSource(t *testing.T, store *artifact.Store, w, h int) string {
	t.Helper()
	m := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y += 7 {
		for x := 0; x < w; x++ {
			m.Set(x, y, color.RGBA{G: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, m, nil))

	path := store.Path(fp, "")
	require.NoError(t, store.WriteBytes(path, buf.Bytes()))
	return path
}

func newTestStore(t *testing.T) *artifact.Store {
	t.Helper()
	store, err := artifact.Open("/imgs", artifact.WithFs(afero.NewMemMapFs()))
	require.NoError(t, err)
	return store
}

func TestDeriveAllProducesEverySize(t *testing.T) {
	store := newTestStore(t)
	source := writeSource(t, store, 1024, 768)

	require.NoError(t, New(store, testSizes, 85).DeriveAll(context.Background(), source, fp))

	for _, size := range testSizes {
		f, err := store.Open(store.Path(fp, size.Name))
		require.NoError(t, err, size.Name)
		cfg, err := jpeg.DecodeConfig(f)
		f.Close()
		require.NoError(t, err, size.Name)
		assert.Equal(t, size.Width, cfg.Width, size.Name)
		assert.Equal(t, size.Height, cfg.Height, size.Name)
	}

	entries, err := store.List()
	require.NoError(t, err)
	assert.Len(t, entries, len(testSizes)+1, "N variants plus the untouched source")
}

func TestDeriveAllMissingSource(t *testing.T) {
	store := newTestStore(t)

	err := New(store, testSizes, 85).DeriveAll(context.Background(), store.Path(fp, ""), fp)
	var derr *Error
	require.ErrorAs(t, err, &derr)
	assert.Empty(t, derr.Size)
}

func TestDeriveAllFailsOnBadSize(t *testing.T) {
	store := newTestStore(t)
	source := writeSource(t, store, 64, 48)

	sizes := []Size{
		{Name: "ok", Width: 10, Height: 10},
		{Name: "broken", Width: 0, Height: 10},
	}
	err := New(store, sizes, 85).DeriveAll(context.Background(), source, fp)
	var derr *Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "broken", derr.Size)

	ok, err := store.Exists(store.Path(fp, "broken"))
	require.NoError(t, err)
	assert.False(t, ok)
}
