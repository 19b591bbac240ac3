// Package editor implements the Byte Editor Core: a small state machine
// over a target-length buffer (not a row/column grid) holding an exact
// copy of one addressed structure's on-disk bytes. Edits are byte-level;
// the editor has no notion of the structure's field boundaries beyond the
// cosmetic ranges FieldRanges reports for rendering.
package editor

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/jchank/extedit/pkg/extfs/accessor"
	"github.com/jchank/extedit/pkg/extfs/addr"
	"github.com/jchank/extedit/pkg/extfs/bdh"
	"github.com/jchank/extedit/pkg/extfs/layout"
)

// Mode is the editor's coarse state.
type Mode int

const (
	Viewing Mode = iota
	Editing
)

// FieldRange names a cosmetic sub-range of the buffer, for rendering only.
type FieldRange struct {
	Name   string
	Offset int
	Length int
}

// Session is one open editing session against a single addressed
// structure. Only one Session should be open against a given Handle's
// underlying bytes at a time (spec's single-writer model).
type Session struct {
	ID uuid.UUID

	h    *bdh.Handle
	l    *layout.Layout
	a    *accessor.Accessor
	kind addr.Kind
	id   uint64
	rng  addr.Range

	buf   []byte
	dirty bool
	mode  Mode

	cursor int

	// latchActive/latchPos implement the mandated two-press nibble
	// variant: the first hex digit at a position replaces the high
	// nibble and leaves the cursor in place; the second replaces the low
	// nibble and advances the cursor. Moving the cursor any other way
	// clears the latch, so a stray half-written nibble never silently
	// completes at a different position.
	latchActive bool
	latchPos    int

	scrollOffset int
}

// Open reads the addressed target's current bytes into a fresh Viewing
// session.
func Open(h *bdh.Handle, l *layout.Layout, a *accessor.Accessor, kind addr.Kind, id uint64) (*Session, error) {
	rng, err := addr.Of(l, kind, id)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, rng.Length)
	if err := h.PreadExact(buf, rng.Offset); err != nil {
		return nil, errors.Wrapf(err, "editor: open %v %d", kind, id)
	}
	return &Session{
		ID:   uuid.New(),
		h:    h,
		l:    l,
		a:    a,
		kind: kind,
		id:   id,
		rng:  rng,
		buf:  buf,
		mode: Viewing,
	}, nil
}

// Kind, TargetID, Range and Bytes expose the session's identity and
// current (possibly unsaved) buffer contents.
func (s *Session) Kind() addr.Kind   { return s.kind }
func (s *Session) TargetID() uint64  { return s.id }
func (s *Session) Range() addr.Range { return s.rng }
func (s *Session) Bytes() []byte     { return append([]byte(nil), s.buf...) }
func (s *Session) Dirty() bool       { return s.dirty }
func (s *Session) Cursor() int       { return s.cursor }
func (s *Session) Mode() Mode        { return s.mode }

// MoveCursor moves the cursor by delta bytes, clamped to the buffer, and
// clears any pending nibble latch.
func (s *Session) MoveCursor(delta int) {
	s.cursor = clamp(s.cursor+delta, 0, len(s.buf)-1)
	s.latchActive = false
}

// SetCursor moves the cursor to an absolute position, clamped to the
// buffer, and clears any pending nibble latch.
func (s *Session) SetCursor(pos int) {
	s.cursor = clamp(pos, 0, len(s.buf)-1)
	s.latchActive = false
}

// InputHexNibble feeds one hex digit (0-15) at the current cursor
// position, implementing the high-first, replace-both-halves variant: the
// first digit at a position replaces the byte's high nibble in place; the
// second replaces the low nibble and advances the cursor. A move away
// between the two presses abandons the pending pair rather than letting it
// complete somewhere else.
func (s *Session) InputHexNibble(value byte) error {
	if value > 0xF {
		return errors.Errorf("editor: nibble value 0x%x out of range", value)
	}
	if len(s.buf) == 0 {
		return errors.New("editor: empty buffer")
	}
	s.mode = Editing
	cur := s.buf[s.cursor]

	if !s.latchActive || s.latchPos != s.cursor {
		s.buf[s.cursor] = (cur & 0x0F) | (value << 4)
		s.latchActive = true
		s.latchPos = s.cursor
		s.dirty = true
		return nil
	}

	s.buf[s.cursor] = (cur & 0xF0) | value
	s.dirty = true
	s.latchActive = false
	s.cursor = clamp(s.cursor+1, 0, len(s.buf)-1)
	return nil
}

// SetByte directly overwrites one whole byte, bypassing the nibble latch.
// Used by non-interactive callers (the CLI's --set flag) that already know
// the full byte value.
func (s *Session) SetByte(pos int, value byte) error {
	if pos < 0 || pos >= len(s.buf) {
		return errors.Errorf("editor: position %d out of range [0,%d)", pos, len(s.buf))
	}
	s.buf[pos] = value
	s.dirty = true
	s.latchActive = false
	s.mode = Editing
	return nil
}

// Scroll adjusts the rendering viewport's first visible row, clamped so it
// never runs past the end of the buffer given bytesPerRow columns.
func (s *Session) Scroll(deltaRows, bytesPerRow int) {
	if bytesPerRow <= 0 {
		return
	}
	totalRows := (len(s.buf) + bytesPerRow - 1) / bytesPerRow
	maxOffset := totalRows - 1
	if maxOffset < 0 {
		maxOffset = 0
	}
	s.scrollOffset = clamp(s.scrollOffset+deltaRows, 0, maxOffset)
}

// ScrollOffset returns the current first visible row.
func (s *Session) ScrollOffset() int { return s.scrollOffset }

// Save writes the buffer back to its addressed range and, if the edited
// region was the superblock or a group descriptor, triggers a layout
// reload so cached geometry stays consistent with what was just written.
func (s *Session) Save() error {
	if err := s.h.PwriteExact(s.buf, s.rng.Offset); err != nil {
		return errors.Wrap(err, "editor: save")
	}
	s.dirty = false
	s.mode = Viewing
	if s.kind == addr.Superblock || s.kind == addr.GroupDesc {
		if err := s.l.Reload(s.h); err != nil {
			return errors.Wrap(err, "editor: reload layout after save")
		}
	}
	return nil
}

// Close discards the session. Unsaved edits are lost; callers that want to
// persist changes must call Save first.
func (s *Session) Close() error {
	return nil
}

// FieldRanges reports cosmetic sub-ranges of the buffer for known
// structure kinds, for use by a renderer highlighting named fields. It
// returns nil for kinds with no named substructure (raw blocks, bitmaps).
func (s *Session) FieldRanges() []FieldRange {
	switch s.kind {
	case addr.Superblock:
		return superblockFieldRanges
	case addr.GroupDesc:
		if s.l.Superblock.Is64Bit() {
			return groupDesc64FieldRanges
		}
		return groupDesc32FieldRanges
	case addr.InodeRecord:
		return inodeFieldRanges
	default:
		return nil
	}
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

var superblockFieldRanges = []FieldRange{
	{"s_inodes_count", 0, 4},
	{"s_blocks_count", 4, 4},
	{"s_r_blocks_count", 8, 4},
	{"s_free_blocks_count", 12, 4},
	{"s_free_inodes_count", 16, 4},
	{"s_first_data_block", 20, 4},
	{"s_log_block_size", 24, 4},
	{"s_blocks_per_group", 32, 4},
	{"s_inodes_per_group", 40, 4},
	{"s_magic", 56, 2},
	{"s_state", 58, 2},
	{"s_rev_level", 76, 4},
	{"s_first_ino", 84, 4},
	{"s_inode_size", 88, 2},
	{"s_feature_compat", 92, 4},
	{"s_feature_incompat", 96, 4},
	{"s_feature_ro_compat", 100, 4},
	{"s_uuid", 104, 16},
	{"s_volume_name", 120, 16},
}

var groupDesc32FieldRanges = []FieldRange{
	{"bg_block_bitmap", 0, 4},
	{"bg_inode_bitmap", 4, 4},
	{"bg_inode_table", 8, 4},
	{"bg_free_blocks_count", 12, 2},
	{"bg_free_inodes_count", 14, 2},
	{"bg_used_dirs_count", 16, 2},
}

var groupDesc64FieldRanges = append(append([]FieldRange{}, groupDesc32FieldRanges...), []FieldRange{
	{"bg_block_bitmap_hi", 32, 4},
	{"bg_inode_bitmap_hi", 36, 4},
	{"bg_inode_table_hi", 40, 4},
	{"bg_free_blocks_count_hi", 44, 2},
	{"bg_free_inodes_count_hi", 46, 2},
	{"bg_used_dirs_count_hi", 48, 2},
}...)

var inodeFieldRanges = []FieldRange{
	{"i_mode", 0, 2},
	{"i_uid", 2, 2},
	{"i_size", 4, 4},
	{"i_atime", 8, 4},
	{"i_ctime", 12, 4},
	{"i_mtime", 16, 4},
	{"i_dtime", 20, 4},
	{"i_gid", 24, 2},
	{"i_links_count", 26, 2},
	{"i_blocks", 28, 4},
	{"i_flags", 32, 4},
	{"i_block", 40, 60},
	{"i_generation", 100, 4},
	{"i_file_acl", 104, 4},
	{"i_size_high", 108, 4},
}
