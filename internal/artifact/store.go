// Package artifact owns the on-disk layout of rendered images.
//
// Every image lives flat under the store root and is named after its
// fingerprint: "<fp>-<label>.jpg" for a sized variant and "<fp>.jpg" for the
// transient full-size render.
package artifact

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/creatorstation/urlshot/pkg/fingerprint"
	"github.com/spf13/afero"
)

const (
	// FileMode is the permission stored images end up with. Images may be
	// served by a web server running as another user.
	FileMode os.FileMode = 0o644

	// Ext is the extension shared by every stored image.
	Ext = ".jpg"

	// TempPrefix marks files that are still being written.
	TempPrefix = ".tmp-"
)

// Store resolves and manages image files under a root directory.
type Store struct {
	root string
	fs   afero.Fs
}

// Option configures a Store.
type Option func(*Store)

// WithFs sets the filesystem the store writes to. Tests use afero.NewMemMapFs.
func WithFs(fs afero.Fs) Option {
	return func(s *Store) {
		s.fs = fs
	}
}

// Open returns a store rooted at root, creating the directory if needed.
func Open(root string, options ...Option) (*Store, error) {
	s := &Store{
		root: root,
		fs:   afero.NewOsFs(),
	}
	for _, option := range options {
		option(s)
	}

	if err := s.fs.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("could not create image directory: %w", err)
	}

	return s, nil
}

// Name formats the file name for a fingerprint and optional size label.
func Name(fp, label string) string {
	if label == "" {
		return fp + Ext
	}
	return fp + "-" + label + Ext
}

// Root returns the directory the store writes to.
func (s *Store) Root() string { return s.root }

// Fs returns the underlying filesystem.
func (s *Store) Fs() afero.Fs { return s.fs }

// Path returns the location of an image inside the store.
func (s *Store) Path(fp, label string) string {
	return filepath.Join(s.root, Name(fp, label))
}

// Open opens a stored image for reading.
func (s *Store) Open(path string) (afero.File, error) {
	return s.fs.Open(path)
}

// WriteFile stores whatever write produces at path. Content goes to a temp file in the same
// directory first and is renamed into place, so readers never observe a
// partially written image.
func (s *Store) WriteFile(path string, write func(io.Writer) error) error {
	tmp, err := afero.TempFile(s.fs, filepath.Dir(path), TempPrefix+"*")
	if err != nil {
		return fmt.Errorf("could not create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := write(tmp); err != nil {
		tmp.Close()
		s.fs.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		s.fs.Remove(tmpName)
		return fmt.Errorf("could not sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		s.fs.Remove(tmpName)
		return fmt.Errorf("could not close %s: %w", tmpName, err)
	}

	// Temp files are created 0600.
	if err := s.fs.Chmod(tmpName, FileMode); err != nil {
		s.fs.Remove(tmpName)
		return fmt.Errorf("could not chmod %s: %w", tmpName, err)
	}

	if err := s.fs.Rename(tmpName, path); err != nil {
		s.fs.Remove(tmpName)
		return fmt.Errorf("could not move image into place: %w", err)
	}
	return nil
}

// WriteBytes stores data at path atomically.
func (s *Store) WriteBytes(path string, data []byte) error {
	return s.WriteFile(path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// Remove deletes the image at path.
func (s *Store) Remove(path string) error {
	return s.fs.Remove(path)
}

// Exists reports whether an image is present at path.
func (s *Store) Exists(path string) (bool, error) {
	return afero.Exists(s.fs, path)
}

// Entry describes a file found in the store root.
type Entry struct {
	Path string
	Info os.FileInfo
}

// List returns the regular files in the store root.
func (s *Store) List() ([]Entry, error) {
	infos, err := afero.ReadDir(s.fs, s.root)
	if err != nil {
		return nil, fmt.Errorf("could not read image directory: %w", err)
	}

	entries := make([]Entry, 0, len(infos))
	for _, info := range infos {
		if info.IsDir() {
			continue
		}
		entries = append(entries, Entry{
			Path: filepath.Join(s.root, info.Name()),
			Info: info,
		})
	}
	return entries, nil
}

// Parse splits a stored file name into fingerprint and size label. The label
// is empty for a full-size render. ok is false for names the store did not
// produce.
func Parse(name string) (fp, label string, ok bool) {
	base, found := strings.CutSuffix(name, Ext)
	if !found || strings.HasPrefix(name, TempPrefix) {
		return "", "", false
	}
	fp, label, _ = strings.Cut(base, "-")
	if !fingerprint.Valid(fp) {
		return "", "", false
	}
	return fp, label, true
}
