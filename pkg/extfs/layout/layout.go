// Package layout loads and caches the superblock and group descriptor
// table of an open filesystem, and knows how to recompute them after an
// edit that might have touched either region.
package layout

import (
	"github.com/pkg/errors"

	"github.com/jchank/extedit/pkg/extfs/bdh"
	"github.com/jchank/extedit/pkg/extfs/model"
)

// Layout caches the superblock and group descriptor table read at open
// time (or after the most recent Reload).
type Layout struct {
	Superblock *model.Superblock
	Groups     []*model.GroupDescriptor
}

// Load reads the superblock at its fixed offset, validates the magic
// number, then reads the group descriptor table that starts in the block
// following the one holding the superblock.
func Load(h *bdh.Handle) (*Layout, error) {
	l := &Layout{}
	if err := l.Reload(h); err != nil {
		return nil, err
	}
	return l, nil
}

// Reload re-reads the superblock and group descriptor table from the
// handle, replacing any cached copies. Called after a save that touched
// the superblock or group descriptor region, since either can change the
// geometry (block size, group count, descriptor size) used elsewhere.
func (l *Layout) Reload(h *bdh.Handle) error {
	buf := make([]byte, model.SuperblockSize)
	if err := h.PreadExact(buf, model.SuperblockOffset); err != nil {
		return errors.Wrap(err, "layout: read superblock")
	}
	sb, err := model.DecodeSuperblock(buf)
	if err != nil {
		return err
	}
	if sb.Magic != model.Magic {
		return errors.Wrapf(model.ErrNotExtFilesystem, "layout: bad magic 0x%04x", sb.Magic)
	}
	bs := sb.BlockSize()
	if bs < 1024 || bs > 65536 || bs&(bs-1) != 0 {
		return errors.Wrapf(model.ErrUnsupportedBlock, "layout: block size %d", bs)
	}

	groupCount := sb.GroupCount()
	descSize := sb.GroupDescSize()
	gdtOffset := gdtByteOffset(sb)

	gdtBuf := make([]byte, uint32(groupCount)*descSize)
	if err := h.PreadExact(gdtBuf, gdtOffset); err != nil {
		return errors.Wrap(err, "layout: read group descriptor table")
	}

	groups := make([]*model.GroupDescriptor, groupCount)
	for i := uint32(0); i < groupCount; i++ {
		entry := gdtBuf[i*descSize : (i+1)*descSize]
		gd, err := model.DecodeGroupDescriptor(entry, sb.Is64Bit())
		if err != nil {
			return errors.Wrapf(err, "layout: decode group descriptor %d", i)
		}
		groups[i] = gd
	}

	l.Superblock = sb
	l.Groups = groups
	return nil
}

// gdtByteOffset returns the absolute byte offset of the group descriptor
// table: the block immediately following the one holding the superblock.
func gdtByteOffset(sb *model.Superblock) int64 {
	bs := int64(sb.BlockSize())
	if bs == 1024 {
		// Superblock occupies block 1 entirely (block 0 is boot block).
		return 2 * bs
	}
	// Larger block sizes: the superblock lives at the start of block 0,
	// and the GDT starts at the following block.
	return bs
}

// VariantLabel returns the human-facing "ext2"/"ext3"/"ext4" classification.
func (l *Layout) VariantLabel() string { return l.Superblock.Variant() }

// BlockSize is a convenience accessor.
func (l *Layout) BlockSize() uint32 { return l.Superblock.BlockSize() }

// GroupCount is a convenience accessor.
func (l *Layout) GroupCount() uint32 { return uint32(len(l.Groups)) }

// GDTByteOffset returns the absolute byte offset of the group descriptor
// table for the currently cached superblock.
func (l *Layout) GDTByteOffset() int64 { return gdtByteOffset(l.Superblock) }
