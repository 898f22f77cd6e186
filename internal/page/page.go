// Package page implements the page I/O primitive (§4.1): reading a
// fixed-size, page-aligned buffer from a member image.
package page

import (
	"fmt"
	"io"

	"github.com/Anthya1104/raid-forensic/internal/raiderr"
)

// Page is a fixed-length byte buffer read from or written to a single
// member image at a page-aligned offset.
type Page []byte

// ReadPage reads the page at pageIndex (0-based, in units of size) from
// r using a positional read, never mutating r's seek position. All
// offsets handed to this layer are page-aligned by construction (§3 of
// the design doc); there is no cross-page read primitive here.
func ReadPage(r io.ReaderAt, size int64, pageIndex int64) (Page, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: page size must be positive, got %d", raiderr.ErrBadShape, size)
	}

	buf := make(Page, size)
	off := pageIndex * size

	n, err := r.ReadAt(buf, off)
	if n == int(size) {
		return buf, nil
	}
	if err == nil {
		err = io.ErrUnexpectedEOF
	}
	return nil, fmt.Errorf("%w: read %d/%d bytes at offset %d: %v", raiderr.ErrIoShort, n, size, off, err)
}
