package layout_test

import (
	"os"
	"testing"

	stderrors "errors"

	"github.com/jchank/extedit/pkg/extfs/bdh"
	"github.com/jchank/extedit/pkg/extfs/internal/fixture"
	"github.com/jchank/extedit/pkg/extfs/layout"
	"github.com/jchank/extedit/pkg/extfs/model"
)

func openFixture(t *testing.T) (*bdh.Handle, func()) {
	t.Helper()
	img := fixture.New()
	path, err := img.WriteTemp()
	if err != nil {
		t.Fatal(err)
	}
	h, err := bdh.Open(path)
	if err != nil {
		os.Remove(path)
		t.Fatal(err)
	}
	return h, func() {
		h.Close()
		os.Remove(path)
	}
}

func TestLoad(t *testing.T) {
	h, cleanup := openFixture(t)
	defer cleanup()

	l, err := layout.Load(h)
	if err != nil {
		t.Fatal(err)
	}
	if l.Superblock.Magic != 0xEF53 {
		t.Fatalf("bad magic 0x%x", l.Superblock.Magic)
	}
	if l.GroupCount() != 1 {
		t.Fatalf("GroupCount() = %d, want 1", l.GroupCount())
	}
	if l.VariantLabel() != "ext2" {
		t.Fatalf("VariantLabel() = %s, want ext2", l.VariantLabel())
	}
	if l.BlockSize() != 1024 {
		t.Fatalf("BlockSize() = %d, want 1024", l.BlockSize())
	}
}

func TestLoadRejectsBadMagic(t *testing.T) {
	img := fixture.New()
	// Corrupt the magic field (superblock offset 1024 + field offset 56).
	img.Bytes[1024+56] = 0x00
	img.Bytes[1024+57] = 0x00
	path, err := img.WriteTemp()
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(path)

	h, err := bdh.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	_, err = layout.Load(h)
	if err == nil {
		t.Fatal("expected an error for a bad magic number")
	}
	if !stderrors.Is(err, model.ErrNotExtFilesystem) {
		t.Fatalf("error %v does not match ErrNotExtFilesystem", err)
	}
}

func TestReloadPicksUpSuperblockEdit(t *testing.T) {
	h, cleanup := openFixture(t)
	defer cleanup()

	l, err := layout.Load(h)
	if err != nil {
		t.Fatal(err)
	}

	buf := make([]byte, 4)
	buf[0] = 0x39
	buf[1] = 0x30
	buf[2] = 0x00
	buf[3] = 0x00
	// s_free_blocks_count lives at superblock offset 12.
	if err := h.PwriteExact(buf, 1024+12); err != nil {
		t.Fatal(err)
	}
	if err := l.Reload(h); err != nil {
		t.Fatal(err)
	}
	if l.Superblock.UnallocatedBlocks != 0x3039 {
		t.Fatalf("UnallocatedBlocks after reload = %d, want %d", l.Superblock.UnallocatedBlocks, 0x3039)
	}
}
