package model

import (
	"encoding/binary"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// offsetOf returns the byte offset of a field pointer (e.g. &sb.Magic)
// relative to the struct pointer (e.g. &sb) it came from.
func offsetOf(base, field interface{}) uintptr {
	return reflect.ValueOf(field).Pointer() - reflect.ValueOf(base).Pointer()
}

func TestSuperblockSize(t *testing.T) {
	var sb Superblock
	assert.Equal(t, SuperblockSize, binary.Size(sb))
}

func TestSuperblockFieldOffsets(t *testing.T) {
	var sb Superblock
	assert.EqualValues(t, 56, offsetOf(&sb, &sb.Magic), "Magic offset")
	assert.EqualValues(t, 0x54, offsetOf(&sb, &sb.FirstIno), "FirstIno offset")
	assert.EqualValues(t, 0x58, offsetOf(&sb, &sb.InodeSizeRaw), "InodeSizeRaw offset")
	assert.EqualValues(t, 0x5C, offsetOf(&sb, &sb.FeatureCompat), "FeatureCompat offset")
}

func TestGroupDescriptorSizes(t *testing.T) {
	var gd32 GroupDescriptor32
	assert.Equal(t, GroupDescSize32, binary.Size(gd32))

	var gd64 GroupDescriptor64
	assert.Equal(t, GroupDescSize64, binary.Size(gd64))
}

func TestInodeClassicSize(t *testing.T) {
	var in InodeClassic
	assert.Equal(t, DefaultInodeSize, binary.Size(in))
}

func TestGroupCountTracksBlocksCount(t *testing.T) {
	sb := &Superblock{TotalBlocks: 4096, BlocksPerGroup: 8192, TotalInodes: 1 << 20, InodesPerGroup: 128, FirstDataBlock: 1}
	assert.EqualValues(t, 1, sb.GroupCount(), "huge inode count must not inflate the group count")

	// Editing s_blocks_count down must be reflected immediately, with no
	// inode-derived floor holding the count at a stale value.
	sb.TotalBlocks = 100
	assert.EqualValues(t, 1, sb.GroupCount())

	sb.TotalBlocks = 20000
	assert.EqualValues(t, 3, sb.GroupCount())
}

func TestSuperblockRoundTrip(t *testing.T) {
	sb := &Superblock{
		TotalInodes:    128,
		TotalBlocks:    4096,
		FirstDataBlock: 1,
		LogBlockSize:   0,
		BlocksPerGroup: 8192,
		InodesPerGroup: 128,
		Magic:          Magic,
		RevLevel:       1,
		InodeSizeRaw:   128,
	}
	buf := sb.Encode()
	require.Len(t, buf, SuperblockSize)

	got, err := DecodeSuperblock(buf)
	require.NoError(t, err)
	assert.Equal(t, sb.TotalInodes, got.TotalInodes)
	assert.Equal(t, sb.TotalBlocks, got.TotalBlocks)
	assert.Equal(t, Magic, got.Magic)
	assert.Equal(t, "ext2", got.Variant())
}

func TestGroupDescriptorRoundTrip32(t *testing.T) {
	gd := &GroupDescriptor{BlockBitmap: 3, InodeBitmap: 4, InodeTable: 5, FreeBlocksCount: 10, FreeInodesCount: 20, UsedDirsCount: 2}
	buf := gd.Encode()
	require.Len(t, buf, GroupDescSize32)

	got, err := DecodeGroupDescriptor(buf, false)
	require.NoError(t, err)
	assert.EqualValues(t, 3, got.BlockBitmap)
	assert.EqualValues(t, 5, got.InodeTable)
	assert.EqualValues(t, 20, got.FreeInodesCount)
}

func TestGroupDescriptorRoundTrip64(t *testing.T) {
	gd := &GroupDescriptor{Is64: true, BlockBitmap: 1 << 33, InodeTable: 5, FreeBlocksCount: 1 << 17}
	buf := gd.Encode()
	require.Len(t, buf, GroupDescSize64)

	got, err := DecodeGroupDescriptor(buf, true)
	require.NoError(t, err)
	assert.EqualValues(t, 1<<33, got.BlockBitmap)
	assert.EqualValues(t, 1<<17, got.FreeBlocksCount)
}

func TestInodeRoundTripWithExtra(t *testing.T) {
	in := &Inode{}
	in.Mode = ModeTypeRegular | 0644
	in.SizeLower = 42
	in.LinksCount = 1
	in.Extra = []byte{1, 2, 3, 4}

	buf := in.Encode(160)
	require.Len(t, buf, 160)

	got, err := DecodeInode(buf, 160)
	require.NoError(t, err)
	assert.True(t, got.IsRegular())
	assert.EqualValues(t, 42, got.Size())
	require.Len(t, got.Extra, 32)
	assert.EqualValues(t, 1, got.Extra[0])
	assert.EqualValues(t, 4, got.Extra[3])
}
