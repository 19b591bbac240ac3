// Package classify implements the Address-Range Classifier: given a block
// number, determines which region of the filesystem it belongs to.
package classify

import (
	"github.com/pkg/errors"

	"github.com/jchank/extedit/pkg/extfs/layout"
	"github.com/jchank/extedit/pkg/extfs/model"
)

// Category is one of the regions a block can belong to.
type Category int

const (
	Reserved Category = iota
	SuperblockCopy
	GroupDescTableCopy
	BlockBitmapBlock
	InodeBitmapBlock
	InodeTableBlock
	DataBlock
)

func (c Category) String() string {
	switch c {
	case Reserved:
		return "reserved"
	case SuperblockCopy:
		return "superblock"
	case GroupDescTableCopy:
		return "group descriptor table"
	case BlockBitmapBlock:
		return "block bitmap"
	case InodeBitmapBlock:
		return "inode bitmap"
	case InodeTableBlock:
		return "inode table"
	case DataBlock:
		return "data"
	default:
		return "unknown"
	}
}

// Result is the classifier's verdict for one block.
type Result struct {
	Category Category
	Group    uint32
}

// hasSuperblockBackup reports whether block group g carries a redundant
// copy of the superblock and group descriptor table. With
// RO_COMPAT_SPARSE_SUPER set, only groups 0, 1, and powers of 3, 5 and 7
// carry a copy; without it, every group does (the pre-sparse-super
// convention); group 0 always does (it holds the primary copy).
func hasSuperblockBackup(sb *model.Superblock, g uint32) bool {
	if g == 0 {
		return true
	}
	if sb.FeatureROCompat&model.ROCompatSparseSuper == 0 {
		return true
	}
	if g == 1 {
		return true
	}
	for _, base := range []uint32{3, 5, 7} {
		p := base
		for p <= g {
			if p == g {
				return true
			}
			p *= base
		}
	}
	return false
}

// Classify determines which region block b belongs to.
func Classify(l *layout.Layout, b uint64) (Result, error) {
	sb := l.Superblock
	if b >= uint64(sb.TotalBlocks) {
		return Result{}, errors.Wrapf(model.ErrOutOfRange, "classify: block %d (have %d blocks)", b, sb.TotalBlocks)
	}
	if b < uint64(sb.FirstDataBlock) {
		return Result{Category: Reserved}, nil
	}

	bpg := uint64(sb.BlocksPerGroup)
	g := (b - uint64(sb.FirstDataBlock)) / bpg
	if g >= uint64(l.GroupCount()) {
		return Result{Category: DataBlock, Group: uint32(g)}, nil
	}
	groupStart := uint64(sb.FirstDataBlock) + g*bpg

	if hasSuperblockBackup(sb, uint32(g)) {
		gdtBlocks := gdtBlockSpan(l)
		if b == groupStart {
			return Result{Category: SuperblockCopy, Group: uint32(g)}, nil
		}
		if b > groupStart && b <= groupStart+gdtBlocks {
			return Result{Category: GroupDescTableCopy, Group: uint32(g)}, nil
		}
	}

	gd := l.Groups[g]
	if b == gd.BlockBitmap {
		return Result{Category: BlockBitmapBlock, Group: uint32(g)}, nil
	}
	if b == gd.InodeBitmap {
		return Result{Category: InodeBitmapBlock, Group: uint32(g)}, nil
	}
	inodeTableBlocks := inodeTableBlockSpan(l)
	if b >= gd.InodeTable && b < gd.InodeTable+inodeTableBlocks {
		return Result{Category: InodeTableBlock, Group: uint32(g)}, nil
	}

	return Result{Category: DataBlock, Group: uint32(g)}, nil
}

func gdtBlockSpan(l *layout.Layout) uint64 {
	bs := uint64(l.Superblock.BlockSize())
	total := uint64(l.GroupCount()) * uint64(l.Superblock.GroupDescSize())
	return (total + bs - 1) / bs
}

func inodeTableBlockSpan(l *layout.Layout) uint64 {
	sb := l.Superblock
	bs := uint64(sb.BlockSize())
	total := uint64(sb.InodesPerGroup) * uint64(sb.InodeSize())
	return (total + bs - 1) / bs
}
