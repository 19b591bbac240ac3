// Package fixture builds small synthetic ext2 images in memory for tests,
// avoiding any dependency on a real mke2fs-produced file.
package fixture

import (
	"os"

	"github.com/jchank/extedit/pkg/extfs/model"
)

// Image is a minimal single-group ext2 filesystem: 1024-byte blocks, one
// block group, a handful of inodes, laid out exactly as a real mke2fs
// image would be (boot block, superblock, GDT, bitmaps, inode table, data).
type Image struct {
	BlockSize    uint32
	TotalBlocks  uint32
	TotalInodes  uint32
	InodesPerGrp uint32
	InodeSize    uint32

	BlockBitmapBlock uint32
	InodeBitmapBlock uint32
	InodeTableBlock  uint32
	InodeTableBlocks uint32
	FirstDataBlock   uint32

	Bytes []byte
}

// New builds a 4096-block, 128-inode, single-group image.
func New() *Image {
	img := &Image{
		BlockSize:    1024,
		TotalBlocks:  4096,
		TotalInodes:  128,
		InodesPerGrp: 128,
		InodeSize:    128,
	}
	img.BlockBitmapBlock = 3
	img.InodeBitmapBlock = 4
	img.InodeTableBlock = 5
	img.InodeTableBlocks = (img.InodesPerGrp*img.InodeSize + img.BlockSize - 1) / img.BlockSize
	img.FirstDataBlock = 1

	img.Bytes = make([]byte, int(img.TotalBlocks)*int(img.BlockSize))

	sb := &model.Superblock{
		TotalInodes:       img.TotalInodes,
		TotalBlocks:       img.TotalBlocks,
		UnallocatedBlocks: img.TotalBlocks - 20,
		UnallocatedInodes: img.TotalInodes - 2,
		FirstDataBlock:    img.FirstDataBlock,
		LogBlockSize:      0,
		BlocksPerGroup:    8192,
		InodesPerGroup:    img.InodesPerGrp,
		Magic:             model.Magic,
		RevLevel:          1,
		InodeSizeRaw:      uint16(img.InodeSize),
		FirstIno:          model.FirstNonReservedNo,
	}
	copy(img.Bytes[model.SuperblockOffset:], sb.Encode())

	gd := &model.GroupDescriptor{
		BlockBitmap:     uint64(img.BlockBitmapBlock),
		InodeBitmap:     uint64(img.InodeBitmapBlock),
		InodeTable:      uint64(img.InodeTableBlock),
		FreeBlocksCount: img.TotalBlocks - 20,
		FreeInodesCount: img.TotalInodes - 2,
		UsedDirsCount:   1,
	}
	gdtOffset := 2 * int64(img.BlockSize) // block 2, following boot block(0) + superblock block(1)
	copy(img.Bytes[gdtOffset:], gd.Encode())

	// Mark inode 1 and 2 (reserved + root) allocated in the inode bitmap.
	bitmapOff := int64(img.InodeBitmapBlock) * int64(img.BlockSize)
	img.Bytes[bitmapOff] = 0x03

	// Mark the metadata blocks (FirstDataBlock..InodeTableBlock+InodeTableBlocks-1)
	// allocated in the block bitmap.
	blockBitmapOff := int64(img.BlockBitmapBlock) * int64(img.BlockSize)
	lastMeta := img.InodeTableBlock + img.InodeTableBlocks
	for b := img.FirstDataBlock; b < lastMeta; b++ {
		pos := b - img.FirstDataBlock
		img.Bytes[blockBitmapOff+int64(pos/8)] |= 1 << (pos % 8)
	}

	// Write a root directory inode (number 2) with a plausible mode/size.
	rootOff := int64(img.InodeTableBlock)*int64(img.BlockSize) + int64(model.RootInode-1)*int64(img.InodeSize)
	in := &model.Inode{}
	in.Mode = model.ModeTypeDir | 0755
	in.SizeLower = uint32(img.BlockSize)
	in.LinksCount = 2
	in.Blocks = img.BlockSize / 512
	copy(img.Bytes[rootOff:], in.Encode(img.InodeSize))

	return img
}

// WriteTemp writes the image to a temp file and returns its path; the
// caller is responsible for removing it.
func (img *Image) WriteTemp() (string, error) {
	f, err := os.CreateTemp("", "extfs-fixture-*.img")
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := f.Write(img.Bytes); err != nil {
		return "", err
	}
	return f.Name(), nil
}
