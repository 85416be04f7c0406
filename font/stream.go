package font

import (
	"errors"
	"fmt"
	"io"
)

// Stream gives random access to the bytes of one catalog file.
//
// Fragments returned by ReadFragment alias the catalog buffer and must not
// be modified. The catalog must outlive every stream opened on it.
type Stream struct {
	file *File
	pos  int64
}

// Name returns the name of the underlying file.
func (s *Stream) Name() string { return s.file.name }

// Size returns the file length in bytes.
func (s *Stream) Size() int64 { return int64(len(s.file.data)) }

// ReadFragment returns length bytes starting at offset without copying.
func (s *Stream) ReadFragment(offset, length int64) ([]byte, error) {
	size := s.Size()
	if offset < 0 || length < 0 || offset > size || length > size-offset {
		return nil, fmt.Errorf("%w: offset %d length %d size %d", ErrFragmentOutOfRange, offset, length, size)
	}
	return s.file.data[offset : offset+length : offset+length], nil
}

// Bytes returns the whole file without copying.
func (s *Stream) Bytes() []byte {
	return s.file.data[:len(s.file.data):len(s.file.data)]
}

// Read implements io.Reader.
func (s *Stream) Read(p []byte) (int, error) {
	if s.pos >= s.Size() {
		return 0, io.EOF
	}
	n := copy(p, s.file.data[s.pos:])
	s.pos += int64(n)
	return n, nil
}

// ReadAt implements io.ReaderAt.
func (s *Stream) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, errors.New("font: negative offset")
	}
	if off >= s.Size() {
		return 0, io.EOF
	}
	n := copy(p, s.file.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Seek implements io.Seeker.
func (s *Stream) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = s.pos + offset
	case io.SeekEnd:
		abs = s.Size() + offset
	default:
		return 0, errors.New("font: invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("font: negative position")
	}
	s.pos = abs
	return abs, nil
}
