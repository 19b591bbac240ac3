package editor_test

import (
	"os"
	"testing"

	"github.com/jchank/extedit/pkg/extfs/accessor"
	"github.com/jchank/extedit/pkg/extfs/addr"
	"github.com/jchank/extedit/pkg/extfs/bdh"
	"github.com/jchank/extedit/pkg/extfs/editor"
	"github.com/jchank/extedit/pkg/extfs/internal/fixture"
	"github.com/jchank/extedit/pkg/extfs/layout"
)

func openSession(t *testing.T, kind addr.Kind, id uint64) (*editor.Session, *bdh.Handle, func()) {
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
	a := accessor.New(h, l)
	s, err := editor.Open(h, l, a, kind, id)
	if err != nil {
		h.Close()
		os.Remove(path)
		t.Fatal(err)
	}
	return s, h, func() {
		h.Close()
		os.Remove(path)
	}
}

func TestOpenStartsInViewingMode(t *testing.T) {
	s, _, cleanup := openSession(t, addr.Block, 100)
	defer cleanup()

	if s.Mode() != editor.Viewing {
		t.Fatalf("Mode() = %v, want Viewing", s.Mode())
	}
	if s.Dirty() {
		t.Fatal("freshly opened session should not be dirty")
	}
	if s.Cursor() != 0 {
		t.Fatalf("Cursor() = %d, want 0", s.Cursor())
	}
}

func TestTwoPressNibbleEditing(t *testing.T) {
	s, _, cleanup := openSession(t, addr.Block, 100)
	defer cleanup()

	before := s.Bytes()[0]
	_ = before

	// First press: replaces only the high nibble, cursor stays put.
	if err := s.InputHexNibble(0xA); err != nil {
		t.Fatal(err)
	}
	if s.Cursor() != 0 {
		t.Fatalf("cursor advanced after first nibble press, got %d", s.Cursor())
	}
	if s.Mode() != editor.Editing {
		t.Fatalf("Mode() = %v, want Editing", s.Mode())
	}
	if got := s.Bytes()[0]; got&0xF0 != 0xA0 {
		t.Fatalf("byte after first press = 0x%02x, want high nibble 0xA", got)
	}

	// Second press at the same position: replaces the low nibble and
	// advances the cursor.
	if err := s.InputHexNibble(0x5); err != nil {
		t.Fatal(err)
	}
	if got := s.Bytes()[0]; got != 0xA5 {
		t.Fatalf("byte after second press = 0x%02x, want 0xA5", got)
	}
	if s.Cursor() != 1 {
		t.Fatalf("cursor after second press = %d, want 1", s.Cursor())
	}
}

func TestMovingCursorAbandonsPendingNibble(t *testing.T) {
	s, _, cleanup := openSession(t, addr.Block, 100)
	defer cleanup()

	if err := s.InputHexNibble(0xF); err != nil {
		t.Fatal(err)
	}
	// Move away before completing the pair.
	s.MoveCursor(1)
	s.MoveCursor(-1)

	// A fresh nibble press at the original position must again replace the
	// high nibble (the pending latch was abandoned), not complete the pair.
	if err := s.InputHexNibble(0x1); err != nil {
		t.Fatal(err)
	}
	if s.Cursor() != 0 {
		t.Fatalf("cursor advanced on what should be a fresh high-nibble press, got %d", s.Cursor())
	}
	if got := s.Bytes()[0]; got&0xF0 != 0x10 {
		t.Fatalf("byte = 0x%02x, want high nibble 0x1 (latch should have been abandoned)", got)
	}
}

func TestSetByteBypassesLatch(t *testing.T) {
	s, _, cleanup := openSession(t, addr.Block, 100)
	defer cleanup()

	if err := s.SetByte(3, 0xFF); err != nil {
		t.Fatal(err)
	}
	if got := s.Bytes()[3]; got != 0xFF {
		t.Fatalf("byte 3 = 0x%02x, want 0xFF", got)
	}
	if !s.Dirty() {
		t.Fatal("session should be dirty after SetByte")
	}
}

func TestSetByteOutOfRange(t *testing.T) {
	s, _, cleanup := openSession(t, addr.Block, 100)
	defer cleanup()

	if err := s.SetByte(-1, 0); err == nil {
		t.Fatal("expected error for negative position")
	}
	if err := s.SetByte(len(s.Bytes()), 0); err == nil {
		t.Fatal("expected error for position at buffer length")
	}
}

func TestSaveClearsDirtyAndPersists(t *testing.T) {
	s, h, cleanup := openSession(t, addr.Block, 100)
	defer cleanup()

	if err := s.SetByte(0, 0x42); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(); err != nil {
		t.Fatal(err)
	}
	if s.Dirty() {
		t.Fatal("session should not be dirty after Save")
	}
	if s.Mode() != editor.Viewing {
		t.Fatalf("Mode() after Save = %v, want Viewing", s.Mode())
	}

	rng := s.Range()
	buf := make([]byte, 1)
	if err := h.PreadExact(buf, rng.Offset); err != nil {
		t.Fatal(err)
	}
	if buf[0] != 0x42 {
		t.Fatalf("persisted byte = 0x%02x, want 0x42", buf[0])
	}
}

func TestSaveOnSuperblockReloadsLayout(t *testing.T) {
	img := fixture.New()
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
	l, err := layout.Load(h)
	if err != nil {
		t.Fatal(err)
	}
	a := accessor.New(h, l)

	s, err := editor.Open(h, l, a, addr.Superblock, 0)
	if err != nil {
		t.Fatal(err)
	}
	// s_free_blocks_count lives at superblock offset 12.
	if err := s.SetByte(12, 0x39); err != nil {
		t.Fatal(err)
	}
	if err := s.SetByte(13, 0x30); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(); err != nil {
		t.Fatal(err)
	}
	if l.Superblock.UnallocatedBlocks != 0x3039 {
		t.Fatalf("UnallocatedBlocks after save = %d, want %d", l.Superblock.UnallocatedBlocks, 0x3039)
	}
}

func TestFieldRangesForSuperblock(t *testing.T) {
	s, _, cleanup := openSession(t, addr.Superblock, 0)
	defer cleanup()

	ranges := s.FieldRanges()
	if len(ranges) == 0 {
		t.Fatal("expected non-empty field ranges for superblock")
	}
	found := false
	for _, r := range ranges {
		if r.Name == "s_magic" {
			found = true
			if r.Offset != 56 || r.Length != 2 {
				t.Fatalf("s_magic range = %+v, want offset=56 length=2", r)
			}
		}
	}
	if !found {
		t.Fatal("expected s_magic field range")
	}
}

func TestFieldRangesNilForRawBlock(t *testing.T) {
	s, _, cleanup := openSession(t, addr.Block, 100)
	defer cleanup()

	if s.FieldRanges() != nil {
		t.Fatal("expected nil field ranges for a raw data block")
	}
}
