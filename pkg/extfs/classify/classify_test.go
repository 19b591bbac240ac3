package classify_test

import (
	"errors"
	"os"
	"testing"

	"github.com/jchank/extedit/pkg/extfs/bdh"
	"github.com/jchank/extedit/pkg/extfs/classify"
	"github.com/jchank/extedit/pkg/extfs/internal/fixture"
	"github.com/jchank/extedit/pkg/extfs/layout"
	"github.com/jchank/extedit/pkg/extfs/model"
)

func openLayout(t *testing.T) (*layout.Layout, func()) {
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
	l, err := layout.Load(h)
	if err != nil {
		h.Close()
		os.Remove(path)
		t.Fatal(err)
	}
	return l, func() {
		h.Close()
		os.Remove(path)
	}
}

func TestClassifyReservedBlockZero(t *testing.T) {
	l, cleanup := openLayout(t)
	defer cleanup()

	r, err := classify.Classify(l, 0)
	if err != nil {
		t.Fatal(err)
	}
	if r.Category != classify.Reserved {
		t.Fatalf("block 0 classified as %v, want reserved", r.Category)
	}
}

func TestClassifySuperblockCopy(t *testing.T) {
	l, cleanup := openLayout(t)
	defer cleanup()

	r, err := classify.Classify(l, 1)
	if err != nil {
		t.Fatal(err)
	}
	if r.Category != classify.SuperblockCopy {
		t.Fatalf("block 1 classified as %v, want superblock", r.Category)
	}
}

func TestClassifyGroupDescTableCopy(t *testing.T) {
	l, cleanup := openLayout(t)
	defer cleanup()

	r, err := classify.Classify(l, 2)
	if err != nil {
		t.Fatal(err)
	}
	if r.Category != classify.GroupDescTableCopy {
		t.Fatalf("block 2 classified as %v, want group descriptor table", r.Category)
	}
}

func TestClassifyBitmapBlocks(t *testing.T) {
	l, cleanup := openLayout(t)
	defer cleanup()

	r, err := classify.Classify(l, 3)
	if err != nil {
		t.Fatal(err)
	}
	if r.Category != classify.BlockBitmapBlock {
		t.Fatalf("block 3 classified as %v, want block bitmap", r.Category)
	}

	r, err = classify.Classify(l, 4)
	if err != nil {
		t.Fatal(err)
	}
	if r.Category != classify.InodeBitmapBlock {
		t.Fatalf("block 4 classified as %v, want inode bitmap", r.Category)
	}
}

func TestClassifyInodeTableBlock(t *testing.T) {
	l, cleanup := openLayout(t)
	defer cleanup()

	r, err := classify.Classify(l, 5)
	if err != nil {
		t.Fatal(err)
	}
	if r.Category != classify.InodeTableBlock {
		t.Fatalf("block 5 classified as %v, want inode table", r.Category)
	}
}

func TestClassifyDataBlock(t *testing.T) {
	l, cleanup := openLayout(t)
	defer cleanup()

	r, err := classify.Classify(l, 100)
	if err != nil {
		t.Fatal(err)
	}
	if r.Category != classify.DataBlock {
		t.Fatalf("block 100 classified as %v, want data", r.Category)
	}
	if r.Group != 0 {
		t.Fatalf("block 100 group = %d, want 0", r.Group)
	}
}

func TestClassifyOutOfRange(t *testing.T) {
	l, cleanup := openLayout(t)
	defer cleanup()

	if _, err := classify.Classify(l, 999999); !errors.Is(err, model.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange for out-of-range block, got %v", err)
	}
}
