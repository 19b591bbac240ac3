package render

import (
	"fmt"
	"time"

	"github.com/jchank/extedit/pkg/extfs/model"
)

// PermissionsString renders a mode word as the classical ls -l ten
// character string: type indicator followed by three rwx triplets.
func PermissionsString(mode uint16) string {
	buf := []byte("----------")
	switch mode & model.ModeTypeMask {
	case model.ModeTypeDir:
		buf[0] = 'd'
	case model.ModeTypeSymlink:
		buf[0] = 'l'
	case model.ModeTypeChar:
		buf[0] = 'c'
	case model.ModeTypeBlock:
		buf[0] = 'b'
	case model.ModeTypeFIFO:
		buf[0] = 'p'
	case model.ModeTypeSocket:
		buf[0] = 's'
	}
	bits := []struct {
		mask uint16
		ch   byte
		pos  int
	}{
		{0400, 'r', 1}, {0200, 'w', 2}, {0100, 'x', 3},
		{0040, 'r', 4}, {0020, 'w', 5}, {0010, 'x', 6},
		{0004, 'r', 7}, {0002, 'w', 8}, {0001, 'x', 9},
	}
	for _, b := range bits {
		if mode&b.mask != 0 {
			buf[b.pos] = b.ch
		}
	}

	// setuid/setgid/sticky ride the execute positions: lowercase when the
	// underlying x bit is also set, uppercase when it isn't.
	if mode&04000 != 0 {
		if buf[3] == 'x' {
			buf[3] = 's'
		} else {
			buf[3] = 'S'
		}
	}
	if mode&02000 != 0 {
		if buf[6] == 'x' {
			buf[6] = 's'
		} else {
			buf[6] = 'S'
		}
	}
	if mode&01000 != 0 {
		if buf[9] == 'x' {
			buf[9] = 't'
		} else {
			buf[9] = 'T'
		}
	}
	return string(buf)
}

// FormatInode renders one inode's fields, including its permission string
// and combined size.
func FormatInode(ino uint64, in *model.Inode) string {
	return fmt.Sprintf(
		"inode %d:\n  mode:   0%o (%s)\n  uid:    %d\n  gid:    %d\n  size:   %s\n  links:  %d\n  blocks: %d\n  flags:  0x%x\n  atime:  %s\n  ctime:  %s\n  mtime:  %s\n  dtime:  %s\n",
		ino, in.Mode, PermissionsString(in.Mode), in.UID, in.GID, FormatSize(in.Size()), in.LinksCount, in.Blocks, in.Flags,
		formatEpoch(in.AccessTime), formatEpoch(in.ChangeTime), formatEpoch(in.ModificationTime), formatEpoch(in.DeletionTime))
}

func formatEpoch(t uint32) string {
	if t == 0 {
		return "-"
	}
	return time.Unix(int64(t), 0).UTC().Format(time.RFC3339)
}
