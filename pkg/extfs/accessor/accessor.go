// Package accessor implements the Metadata Accessor: typed read/write
// operations for inodes and blocks, and allocation queries against the
// block and inode bitmaps, all built on top of Structure Addressing and
// the Block Device Handle.
package accessor

import (
	"github.com/pkg/errors"

	"github.com/jchank/extedit/pkg/extfs/addr"
	"github.com/jchank/extedit/pkg/extfs/bdh"
	"github.com/jchank/extedit/pkg/extfs/bitmap"
	"github.com/jchank/extedit/pkg/extfs/layout"
	"github.com/jchank/extedit/pkg/extfs/model"
)

// Accessor couples a block device handle to the layout model it was
// derived from.
type Accessor struct {
	H *bdh.Handle
	L *layout.Layout
}

// New builds an accessor over an already-loaded handle and layout.
func New(h *bdh.Handle, l *layout.Layout) *Accessor {
	return &Accessor{H: h, L: l}
}

// ReadInode reads and decodes inode number ino (1-based).
func (a *Accessor) ReadInode(ino uint64) (*model.Inode, error) {
	r, err := addr.Of(a.L, addr.InodeRecord, ino)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, r.Length)
	if err := a.H.PreadExact(buf, r.Offset); err != nil {
		return nil, errors.Wrapf(err, "accessor: read inode %d", ino)
	}
	return model.DecodeInode(buf, a.L.Superblock.InodeSize())
}

// WriteInode encodes and writes inode number ino.
func (a *Accessor) WriteInode(ino uint64, in *model.Inode) error {
	r, err := addr.Of(a.L, addr.InodeRecord, ino)
	if err != nil {
		return err
	}
	buf := in.Encode(a.L.Superblock.InodeSize())
	if int64(len(buf)) != r.Length {
		return errors.Errorf("accessor: encoded inode %d is %d bytes, expected %d", ino, len(buf), r.Length)
	}
	return a.H.PwriteExact(buf, r.Offset)
}

// ReadBlock reads the raw contents of block number b.
func (a *Accessor) ReadBlock(b uint64) ([]byte, error) {
	r, err := addr.Of(a.L, addr.Block, b)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, r.Length)
	if err := a.H.PreadExact(buf, r.Offset); err != nil {
		return nil, errors.Wrapf(err, "accessor: read block %d", b)
	}
	return buf, nil
}

// WriteBlock writes the raw contents of block number b. buf must be
// exactly one block long.
func (a *Accessor) WriteBlock(b uint64, buf []byte) error {
	r, err := addr.Of(a.L, addr.Block, b)
	if err != nil {
		return err
	}
	if int64(len(buf)) != r.Length {
		return errors.Errorf("accessor: block %d write is %d bytes, expected %d", b, len(buf), r.Length)
	}
	return a.H.PwriteExact(buf, r.Offset)
}

// IsBlockAllocated reports whether block b is marked used in its group's
// block bitmap.
func (a *Accessor) IsBlockAllocated(b uint64) (bool, error) {
	sb := a.L.Superblock
	if b < uint64(sb.FirstDataBlock) || b >= uint64(sb.TotalBlocks) {
		return false, errors.Wrapf(model.ErrOutOfRange, "accessor: block %d", b)
	}
	g := (b - uint64(sb.FirstDataBlock)) / uint64(sb.BlocksPerGroup)
	pos := (b - uint64(sb.FirstDataBlock)) % uint64(sb.BlocksPerGroup)
	buf, err := a.readBitmap(addr.BlockBitmap, uint32(g))
	if err != nil {
		return false, err
	}
	return bitmap.Get(buf, uint32(pos)), nil
}

// IsInodeAllocated reports whether inode ino is marked used in its group's
// inode bitmap.
func (a *Accessor) IsInodeAllocated(ino uint64) (bool, error) {
	sb := a.L.Superblock
	if ino < 1 || ino > uint64(sb.TotalInodes) {
		return false, errors.Wrapf(model.ErrOutOfRange, "accessor: inode %d", ino)
	}
	g := (ino - 1) / uint64(sb.InodesPerGroup)
	pos := (ino - 1) % uint64(sb.InodesPerGroup)
	buf, err := a.readBitmap(addr.InodeBitmap, uint32(g))
	if err != nil {
		return false, err
	}
	return bitmap.Get(buf, uint32(pos)), nil
}

func (a *Accessor) readBitmap(kind addr.Kind, group uint32) ([]byte, error) {
	r, err := addr.Of(a.L, kind, uint64(group))
	if err != nil {
		return nil, err
	}
	buf := make([]byte, r.Length)
	if err := a.H.PreadExact(buf, r.Offset); err != nil {
		return nil, errors.Wrapf(err, "accessor: read %v for group %d", kind, group)
	}
	return buf, nil
}

// SetBlockAllocated sets or clears block b's bit in its group's block
// bitmap and writes the bitmap block back.
func (a *Accessor) SetBlockAllocated(b uint64, allocated bool) error {
	return a.setBit(addr.BlockBitmap, a.groupOfBlock(b), a.posOfBlock(b), allocated)
}

// SetInodeAllocated sets or clears inode ino's bit in its group's inode
// bitmap and writes the bitmap block back.
func (a *Accessor) SetInodeAllocated(ino uint64, allocated bool) error {
	sb := a.L.Superblock
	g := uint32((ino - 1) / uint64(sb.InodesPerGroup))
	pos := uint32((ino - 1) % uint64(sb.InodesPerGroup))
	return a.setBit(addr.InodeBitmap, g, pos, allocated)
}

func (a *Accessor) groupOfBlock(b uint64) uint32 {
	sb := a.L.Superblock
	return uint32((b - uint64(sb.FirstDataBlock)) / uint64(sb.BlocksPerGroup))
}

func (a *Accessor) posOfBlock(b uint64) uint32 {
	sb := a.L.Superblock
	return uint32((b - uint64(sb.FirstDataBlock)) % uint64(sb.BlocksPerGroup))
}

func (a *Accessor) setBit(kind addr.Kind, group, pos uint32, set bool) error {
	r, err := addr.Of(a.L, kind, uint64(group))
	if err != nil {
		return err
	}
	buf := make([]byte, r.Length)
	if err := a.H.PreadExact(buf, r.Offset); err != nil {
		return errors.Wrapf(err, "accessor: read %v for group %d", kind, group)
	}
	if set {
		bitmap.Set(buf, pos)
	} else {
		bitmap.Clear(buf, pos)
	}
	return a.H.PwriteExact(buf, r.Offset)
}
