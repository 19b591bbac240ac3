package extfs_test

import (
	"errors"
	"os"
	"testing"

	"github.com/jchank/extedit/pkg/extfs"
	"github.com/jchank/extedit/pkg/extfs/addr"
	"github.com/jchank/extedit/pkg/extfs/internal/fixture"
)

func openTestImage(t *testing.T) (*extfs.Handle, func()) {
	t.Helper()
	img := fixture.New()
	path, err := img.WriteTemp()
	if err != nil {
		t.Fatal(err)
	}
	h, err := extfs.Open(path)
	if err != nil {
		os.Remove(path)
		t.Fatal(err)
	}
	return h, func() {
		h.Close()
		os.Remove(path)
	}
}

func TestOpenAndSummarize(t *testing.T) {
	h, cleanup := openTestImage(t)
	defer cleanup()

	if h.Variant() != "ext2" {
		t.Fatalf("Variant() = %s, want ext2", h.Variant())
	}
	sum := h.Summarize()
	if sum.TotalBlocks != 4096 {
		t.Fatalf("Summary.TotalBlocks = %d, want 4096", sum.TotalBlocks)
	}
	if sum.GroupCount != 1 {
		t.Fatalf("Summary.GroupCount = %d, want 1", sum.GroupCount)
	}
}

func TestOpenReadInodeAndClassify(t *testing.T) {
	h, cleanup := openTestImage(t)
	defer cleanup()

	in, err := h.ReadInode(2)
	if err != nil {
		t.Fatal(err)
	}
	if !in.IsDirectory() {
		t.Fatal("expected root inode to be a directory")
	}

	res, err := h.Classify(5)
	if err != nil {
		t.Fatal(err)
	}
	if res.Category.String() != "inode table" {
		t.Fatalf("Classify(5) = %s, want inode table", res.Category.String())
	}
}

func TestOpenEditorSessionEndToEnd(t *testing.T) {
	h, cleanup := openTestImage(t)
	defer cleanup()

	s, err := h.OpenEditor(addr.Block, 200)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetByte(0, 0x7A); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(); err != nil {
		t.Fatal(err)
	}

	rng, err := h.AddressOf(addr.Block, 200)
	if err != nil {
		t.Fatal(err)
	}
	if rng.Length != int64(h.Superblock().BlockSize()) {
		t.Fatalf("AddressOf block length = %d, want %d", rng.Length, h.Superblock().BlockSize())
	}
}

func TestGroupDescriptorOutOfRange(t *testing.T) {
	h, cleanup := openTestImage(t)
	defer cleanup()

	if _, err := h.GroupDescriptor(5); !errors.Is(err, extfs.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
}
