package extfs

import (
	"github.com/pkg/errors"

	"github.com/jchank/extedit/pkg/extfs/accessor"
	"github.com/jchank/extedit/pkg/extfs/addr"
	"github.com/jchank/extedit/pkg/extfs/bdh"
	"github.com/jchank/extedit/pkg/extfs/classify"
	"github.com/jchank/extedit/pkg/extfs/editor"
	"github.com/jchank/extedit/pkg/extfs/layout"
	"github.com/jchank/extedit/pkg/extfs/model"
)

// Handle is the external entry point: an open filesystem image, with its
// layout cached and ready for metadata access, addressing, classification
// and editing.
type Handle struct {
	bdh      *bdh.Handle
	layout   *layout.Layout
	accessor *accessor.Accessor
}

// Open opens path (raw image, block device, or VMDK-wrapped, optionally
// GPT-partitioned), validates the ext2/3/4 magic, and loads its layout.
func Open(path string) (*Handle, error) {
	h, err := bdh.Open(path)
	if err != nil {
		return nil, wrap(err, "extfs: open")
	}
	l, err := layout.Load(h)
	if err != nil {
		h.Close()
		return nil, wrap(err, "extfs: load layout")
	}
	return &Handle{bdh: h, layout: l, accessor: accessor.New(h, l)}, nil
}

// Close releases the underlying image.
func (fh *Handle) Close() error { return fh.bdh.Close() }

// ReadOnly reports whether the image was opened read-only (e.g. because
// the caller lacks write permission on the underlying path).
func (fh *Handle) ReadOnly() bool { return fh.bdh.ReadOnly() }

// Variant returns "ext2", "ext3" or "ext4".
func (fh *Handle) Variant() string { return fh.layout.VariantLabel() }

// Superblock returns the cached superblock.
func (fh *Handle) Superblock() *model.Superblock { return fh.layout.Superblock }

// GroupCount returns the number of block groups.
func (fh *Handle) GroupCount() uint32 { return fh.layout.GroupCount() }

// GroupDescriptor returns the cached descriptor for group g.
func (fh *Handle) GroupDescriptor(g uint32) (*model.GroupDescriptor, error) {
	if g >= fh.layout.GroupCount() {
		return nil, errors.Wrapf(ErrOutOfRange, "extfs: group %d (have %d groups)", g, fh.layout.GroupCount())
	}
	return fh.layout.Groups[g], nil
}

// ReadInode reads and decodes inode number ino.
func (fh *Handle) ReadInode(ino uint64) (*model.Inode, error) {
	return fh.accessor.ReadInode(ino)
}

// IsBlockAllocated reports whether block b is marked used.
func (fh *Handle) IsBlockAllocated(b uint64) (bool, error) {
	return fh.accessor.IsBlockAllocated(b)
}

// IsInodeAllocated reports whether inode ino is marked used.
func (fh *Handle) IsInodeAllocated(ino uint64) (bool, error) {
	return fh.accessor.IsInodeAllocated(ino)
}

// Classify returns the Address-Range Classifier's verdict for block b.
func (fh *Handle) Classify(b uint64) (classify.Result, error) {
	return classify.Classify(fh.layout, b)
}

// AddressOf resolves a symbolic target to its byte range.
func (fh *Handle) AddressOf(kind addr.Kind, id uint64) (addr.Range, error) {
	return addr.Of(fh.layout, kind, id)
}

// Summary is a point-in-time snapshot of whole-filesystem statistics, the
// data behind the "summary" CLI subcommand.
type Summary struct {
	Variant          string
	BlockSize        uint32
	TotalBlocks      uint32
	FreeBlocks       uint32
	TotalInodes      uint32
	FreeInodes       uint32
	GroupCount       uint32
	FeatureCompat    uint32
	FeatureIncompat  uint32
	FeatureROCompat  uint32
}

// Summarize builds a Summary from the cached layout.
func (fh *Handle) Summarize() Summary {
	sb := fh.layout.Superblock
	return Summary{
		Variant:         sb.Variant(),
		BlockSize:       sb.BlockSize(),
		TotalBlocks:     sb.TotalBlocks,
		FreeBlocks:      sb.UnallocatedBlocks,
		TotalInodes:     sb.TotalInodes,
		FreeInodes:      sb.UnallocatedInodes,
		GroupCount:      fh.layout.GroupCount(),
		FeatureCompat:   sb.FeatureCompat,
		FeatureIncompat: sb.FeatureIncompat,
		FeatureROCompat: sb.FeatureROCompat,
	}
}

// OpenEditor opens a Byte Editor Core session against the addressed
// target.
func (fh *Handle) OpenEditor(kind addr.Kind, id uint64) (*editor.Session, error) {
	return editor.Open(fh.bdh, fh.layout, fh.accessor, kind, id)
}
