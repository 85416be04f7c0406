// Package font stores embedded font files and exposes them to font parsers.
//
// A Catalog is append-only. Files are exposed through an Enumerator, which
// walks the catalog by index, and a Stream per file, which supports range
// reads without copying. Parsers that want an io.ReaderAt or io.Seeker can
// consume a Stream directly.
package font

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Errors returned by the catalog and its streams.
var (
	// ErrEmptyFontData is returned when a font file has no bytes.
	ErrEmptyFontData = errors.New("font: empty font data")

	// ErrNoCurrentFile is returned by Enumerator.Current before the first
	// MoveNext or after the enumerator is exhausted.
	ErrNoCurrentFile = errors.New("font: enumerator has no current file")

	// ErrFragmentOutOfRange is returned for reads outside the file.
	ErrFragmentOutOfRange = errors.New("font: fragment out of range")
)

// File is one embedded font file.
type File struct {
	name string
	data []byte
}

// Name returns the file name the font was registered with.
func (f *File) Name() string { return f.name }

// Size returns the file length in bytes.
func (f *File) Size() int64 { return int64(len(f.data)) }

// Open returns a new stream positioned at the start of the file.
func (f *File) Open() *Stream { return &Stream{file: f} }

// Catalog is an append-only set of embedded font files.
//
// Catalog is not safe for concurrent use.
type Catalog struct {
	files []*File
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{}
}

// AddFontFile appends a font file and returns its index.
// The data slice is copied and can be reused after this call.
func (c *Catalog) AddFontFile(name string, data []byte) (int, error) {
	if len(data) == 0 {
		return -1, fmt.Errorf("%w: %q", ErrEmptyFontData, name)
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	c.files = append(c.files, &File{name: name, data: buf})
	return len(c.files) - 1, nil
}

// AddFontFileFromPath reads a font file from disk and appends it.
func (c *Catalog) AddFontFileFromPath(path string) (int, error) {
	// #nosec G304 -- font path is provided by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return -1, fmt.Errorf("font: failed to read font file: %w", err)
	}
	return c.AddFontFile(filepath.Base(path), data)
}

// Len returns the number of files in the catalog.
func (c *Catalog) Len() int {
	return len(c.files)
}

// File returns the file at index i, or nil when i is out of range.
func (c *Catalog) File(i int) *File {
	if i < 0 || i >= len(c.files) {
		return nil
	}
	return c.files[i]
}

// Enumerator returns an enumerator over the files present now.
// Files appended later are not visited.
func (c *Catalog) Enumerator() *Enumerator {
	return &Enumerator{files: c.files[:len(c.files):len(c.files)], index: -1}
}

// Enumerator walks a catalog by index.
//
//	e := catalog.Enumerator()
//	for e.MoveNext() {
//		s, _ := e.Current()
//		...
//	}
type Enumerator struct {
	files []*File
	index int
}

// MoveNext advances to the next file and reports whether one exists.
func (e *Enumerator) MoveNext() bool {
	if e.index < len(e.files) {
		e.index++
	}
	return e.index < len(e.files)
}

// Index returns the catalog index of the current file, or -1.
func (e *Enumerator) Index() int {
	if e.index < 0 || e.index >= len(e.files) {
		return -1
	}
	return e.index
}

// Current opens a stream on the current file.
func (e *Enumerator) Current() (*Stream, error) {
	if e.index < 0 || e.index >= len(e.files) {
		return nil, ErrNoCurrentFile
	}
	return e.files[e.index].Open(), nil
}
