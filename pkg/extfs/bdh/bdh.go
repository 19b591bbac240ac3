// Package bdh implements the Block Device Handle: positioned, exact-size
// reads and writes over an imgsrc.Source, with short reads/writes treated
// as hard errors rather than silently returning partial data.
package bdh

import (
	"github.com/pkg/errors"

	"github.com/jchank/extedit/pkg/extfs/imgsrc"
	"github.com/jchank/extedit/pkg/extfs/model"
)

// Handle is a thin wrapper over an imgsrc.Source enforcing the pread_exact/
// pwrite_exact contract spec'd for metadata access: every read or write
// either fully succeeds or returns an error, never a partial result.
type Handle struct {
	src imgsrc.Source
}

// Open resolves path through imgsrc.Open and wraps the result.
func Open(path string) (*Handle, error) {
	src, err := imgsrc.Open(path)
	if err != nil {
		return nil, errors.Wrapf(model.ErrOpen, "bdh: open %s: %v", path, err)
	}
	return &Handle{src: src}, nil
}

// Close releases the underlying source.
func (h *Handle) Close() error {
	return h.src.Close()
}

// Size returns the total addressable byte length of the underlying image.
func (h *Handle) Size() int64 { return h.src.Size() }

// ReadOnly reports whether writes will fail.
func (h *Handle) ReadOnly() bool { return h.src.ReadOnly() }

// PreadExact reads exactly len(buf) bytes starting at off, or returns an
// error (including on a short read).
func (h *Handle) PreadExact(buf []byte, off int64) error {
	n, err := h.src.ReadAt(buf, off)
	if err != nil {
		return errors.Wrapf(model.ErrIO, "bdh: read %d bytes at offset %d: %v", len(buf), off, err)
	}
	if n != len(buf) {
		return errors.Wrapf(model.ErrIO, "bdh: short read at offset %d: got %d of %d bytes", off, n, len(buf))
	}
	return nil
}

// PwriteExact writes exactly len(buf) bytes at off, or returns an error
// (including on a short write). Fails immediately if the handle was opened
// read-only.
func (h *Handle) PwriteExact(buf []byte, off int64) error {
	if h.src.ReadOnly() {
		return errors.Wrap(model.ErrReadOnly, "bdh: write attempted on a read-only handle")
	}
	n, err := h.src.WriteAt(buf, off)
	if err != nil {
		return errors.Wrapf(model.ErrIO, "bdh: write %d bytes at offset %d: %v", len(buf), off, err)
	}
	if n != len(buf) {
		return errors.Wrapf(model.ErrIO, "bdh: short write at offset %d: wrote %d of %d bytes", off, n, len(buf))
	}
	return nil
}
