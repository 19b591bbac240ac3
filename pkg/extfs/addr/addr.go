// Package addr implements Structure Addressing: mapping a symbolic target
// (the superblock, a group descriptor, an inode, a block, or a group's
// block/inode allocation bitmap) to the (offset, length) byte range it
// occupies in the underlying image.
package addr

import (
	"github.com/pkg/errors"

	"github.com/jchank/extedit/pkg/extfs/layout"
	"github.com/jchank/extedit/pkg/extfs/model"
)

// Kind identifies the category of structure being addressed.
type Kind int

const (
	Superblock Kind = iota
	GroupDesc
	InodeRecord
	Block
	BlockBitmap
	InodeBitmap
)

func (k Kind) String() string {
	switch k {
	case Superblock:
		return "superblock"
	case GroupDesc:
		return "group descriptor"
	case InodeRecord:
		return "inode"
	case Block:
		return "block"
	case BlockBitmap:
		return "block bitmap"
	case InodeBitmap:
		return "inode bitmap"
	default:
		return "unknown"
	}
}

// Range is a byte range within the underlying image.
type Range struct {
	Offset int64
	Length int64
}

// Of computes the byte range for the given (kind, id) target. id means:
// group index for GroupDesc/BlockBitmap/InodeBitmap, inode number
// (1-based) for InodeRecord, block number for Block, and is ignored for
// Superblock.
func Of(l *layout.Layout, kind Kind, id uint64) (Range, error) {
	sb := l.Superblock
	switch kind {
	case Superblock:
		return Range{Offset: model.SuperblockOffset, Length: model.SuperblockSize}, nil

	case GroupDesc:
		g := uint32(id)
		if g >= l.GroupCount() {
			return Range{}, errors.Wrapf(model.ErrOutOfRange, "addr: group %d (have %d groups)", g, l.GroupCount())
		}
		descSize := int64(sb.GroupDescSize())
		return Range{Offset: l.GDTByteOffset() + int64(g)*descSize, Length: descSize}, nil

	case InodeRecord:
		ino := id
		if ino < 1 || ino > uint64(sb.TotalInodes) {
			return Range{}, errors.Wrapf(model.ErrOutOfRange, "addr: inode %d (1..%d)", ino, sb.TotalInodes)
		}
		ipg := uint64(sb.InodesPerGroup)
		g := (ino - 1) / ipg
		idx := (ino - 1) % ipg
		if g >= uint64(l.GroupCount()) {
			return Range{}, errors.Wrapf(model.ErrOutOfRange, "addr: inode %d maps to out-of-range group %d", ino, g)
		}
		inodeSize := int64(sb.InodeSize())
		tableStart := int64(l.Groups[g].InodeTable) * int64(sb.BlockSize())
		return Range{Offset: tableStart + int64(idx)*inodeSize, Length: inodeSize}, nil

	case Block:
		b := id
		if b >= uint64(sb.TotalBlocks) {
			return Range{}, errors.Wrapf(model.ErrOutOfRange, "addr: block %d (have %d blocks)", b, sb.TotalBlocks)
		}
		bs := int64(sb.BlockSize())
		return Range{Offset: int64(b) * bs, Length: bs}, nil

	case BlockBitmap:
		g := uint32(id)
		if g >= l.GroupCount() {
			return Range{}, errors.Wrapf(model.ErrOutOfRange, "addr: group %d (have %d groups)", g, l.GroupCount())
		}
		bs := int64(sb.BlockSize())
		return Range{Offset: int64(l.Groups[g].BlockBitmap) * bs, Length: bs}, nil

	case InodeBitmap:
		g := uint32(id)
		if g >= l.GroupCount() {
			return Range{}, errors.Wrapf(model.ErrOutOfRange, "addr: group %d (have %d groups)", g, l.GroupCount())
		}
		bs := int64(sb.BlockSize())
		return Range{Offset: int64(l.Groups[g].InodeBitmap) * bs, Length: bs}, nil

	default:
		return Range{}, errors.Errorf("addr: unknown target kind %v", kind)
	}
}
