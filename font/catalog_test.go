package font

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogAppendOnly(t *testing.T) {
	c := NewCatalog()
	i, err := c.AddFontFile("a.ttf", []byte{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 0, i)

	i, err = c.AddFontFile("b.ttf", []byte{4, 5})
	require.NoError(t, err)
	assert.Equal(t, 1, i)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, "b.ttf", c.File(1).Name())
	assert.Nil(t, c.File(2))
	assert.Nil(t, c.File(-1))

	_, err = c.AddFontFile("empty.ttf", nil)
	assert.ErrorIs(t, err, ErrEmptyFontData)
	assert.Equal(t, 2, c.Len())
}

func TestCatalogCopiesData(t *testing.T) {
	c := NewCatalog()
	data := []byte{1, 2, 3}
	_, err := c.AddFontFile("a.ttf", data)
	require.NoError(t, err)
	data[0] = 9

	s := c.File(0).Open()
	assert.Equal(t, []byte{1, 2, 3}, s.Bytes())
}

func TestEnumerator(t *testing.T) {
	c := NewCatalog()
	for _, name := range []string{"a", "b", "c"} {
		_, err := c.AddFontFile(name, []byte(name))
		require.NoError(t, err)
	}

	e := c.Enumerator()
	_, err := e.Current()
	assert.ErrorIs(t, err, ErrNoCurrentFile)
	assert.Equal(t, -1, e.Index())

	// files added after enumeration started are not visited
	_, err = c.AddFontFile("d", []byte("d"))
	require.NoError(t, err)

	var names []string
	for e.MoveNext() {
		s, err := e.Current()
		require.NoError(t, err)
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{"a", "b", "c"}, names)

	assert.False(t, e.MoveNext())
	_, err = e.Current()
	assert.ErrorIs(t, err, ErrNoCurrentFile)
}

func TestStreamReadFragment(t *testing.T) {
	c := NewCatalog()
	_, err := c.AddFontFile("f", []byte("0123456789"))
	require.NoError(t, err)
	s := c.File(0).Open()

	assert.Equal(t, int64(10), s.Size())

	frag, err := s.ReadFragment(2, 3)
	require.NoError(t, err)
	assert.Equal(t, "234", string(frag))

	frag, err = s.ReadFragment(10, 0)
	require.NoError(t, err)
	assert.Empty(t, frag)

	tests := []struct {
		name           string
		offset, length int64
	}{
		{"negative offset", -1, 2},
		{"negative length", 0, -1},
		{"past end", 8, 3},
		{"offset past end", 11, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.ReadFragment(tt.offset, tt.length)
			assert.ErrorIs(t, err, ErrFragmentOutOfRange)
		})
	}
}

func TestStreamReaderInterfaces(t *testing.T) {
	c := NewCatalog()
	_, err := c.AddFontFile("f", []byte("abcdef"))
	require.NoError(t, err)
	s := c.File(0).Open()

	all, err := io.ReadAll(s)
	require.NoError(t, err)
	assert.Equal(t, "abcdef", string(all))

	pos, err := s.Seek(-2, io.SeekEnd)
	require.NoError(t, err)
	assert.Equal(t, int64(4), pos)
	buf := make([]byte, 4)
	n, err := s.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "ef", string(buf[:n]))

	n, err = s.ReadAt(buf[:3], 1)
	require.NoError(t, err)
	assert.Equal(t, "bcd", string(buf[:n]))

	n, err = s.ReadAt(buf, 4)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 2, n)

	_, err = s.Seek(-1, io.SeekStart)
	assert.Error(t, err)
}
