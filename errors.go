package textengine

import (
	"errors"

	"github.com/gogpu/textengine/stylecache"
	"github.com/gogpu/textengine/surface"
)

// ErrNullParameter is returned when a required handle or buffer is nil, or
// when the engine has been freed.
var ErrNullParameter = errors.New("textengine: null parameter")

// ErrOddLength is returned when a UTF-16 byte buffer has an odd length.
var ErrOddLength = errors.New("textengine: odd UTF-16 byte length")

// ShapingError reports a failure to resolve a face or shape text.
type ShapingError = stylecache.ShapingError

// RenderError reports a failed drawing operation.
type RenderError = surface.RenderError
