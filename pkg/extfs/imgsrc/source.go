// Package imgsrc resolves the byte stream that the block device handle
// reads and writes through: a plain raw image or block device, a VMware
// sparse-extent (VMDK) container, optionally wrapped again by a GPT
// partition window. Every variant satisfies the same Source interface, so
// nothing above this layer needs to know which one it is talking to.
package imgsrc

import (
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/jchank/extedit/pkg/extfs/model"
)

// Source is the byte-addressable stream a block device handle operates on.
type Source interface {
	io.ReaderAt
	io.WriterAt
	io.Closer
	Size() int64
	ReadOnly() bool
}

// rawSource is a plain file or block device, opened either read-write or,
// when that fails with permission denied, read-only.
type rawSource struct {
	f        *os.File
	size     int64
	readOnly bool
}

func openRaw(path string) (*rawSource, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	readOnly := false
	if err != nil {
		if !os.IsPermission(err) {
			return nil, errors.Wrapf(model.ErrOpen, "imgsrc: open %s: %v", path, err)
		}
		f, err = os.OpenFile(path, os.O_RDONLY, 0)
		if err != nil {
			return nil, errors.Wrapf(model.ErrOpen, "imgsrc: open %s read-only: %v", path, err)
		}
		readOnly = true
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(model.ErrOpen, "imgsrc: stat %s: %v", path, err)
	}
	return &rawSource{f: f, size: info.Size(), readOnly: readOnly}, nil
}

func (r *rawSource) ReadAt(p []byte, off int64) (int, error) { return r.f.ReadAt(p, off) }

func (r *rawSource) WriteAt(p []byte, off int64) (int, error) {
	if r.readOnly {
		return 0, errors.Wrap(model.ErrReadOnly, "imgsrc: write to read-only source")
	}
	return r.f.WriteAt(p, off)
}

func (r *rawSource) Close() error  { return r.f.Close() }
func (r *rawSource) Size() int64   { return r.size }
func (r *rawSource) ReadOnly() bool { return r.readOnly }

// windowSource restricts an underlying Source to the byte range
// [offset, offset+size), translating every access. Used to bind the block
// device handle to one GPT partition inside a larger disk image.
type windowSource struct {
	base   Source
	offset int64
	size   int64
}

func newWindow(base Source, offset, size int64) *windowSource {
	return &windowSource{base: base, offset: offset, size: size}
}

func (w *windowSource) bounds(p []byte, off int64) error {
	if off < 0 || off+int64(len(p)) > w.size {
		return errors.Errorf("imgsrc: access [%d,%d) out of partition window of size %d", off, off+int64(len(p)), w.size)
	}
	return nil
}

func (w *windowSource) ReadAt(p []byte, off int64) (int, error) {
	if err := w.bounds(p, off); err != nil {
		return 0, err
	}
	return w.base.ReadAt(p, w.offset+off)
}

func (w *windowSource) WriteAt(p []byte, off int64) (int, error) {
	if err := w.bounds(p, off); err != nil {
		return 0, err
	}
	return w.base.WriteAt(p, w.offset+off)
}

func (w *windowSource) Close() error   { return w.base.Close() }
func (w *windowSource) Size() int64    { return w.size }
func (w *windowSource) ReadOnly() bool { return w.base.ReadOnly() }
