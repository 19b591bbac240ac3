package model

import "github.com/pkg/errors"

// Sentinel error categories, spec §7's taxonomy. Declared here, the lowest
// package in the dependency graph, so every layer above it — from bdh and
// imgsrc up through the root Handle API — can wrap and return the same
// values without an import cycle. Open, I/O, layout-validation and
// addressing failures wrap one of these and can be matched with errors.Is;
// argument and decode errors (a bad nibble or byte position in the editor,
// a wrong-length inode or block write, a short decode buffer) are plain
// errors that match none of them. The original OS/IO error text, where one
// exists, is folded into the wrapping message.
var (
	ErrOpen               = errors.New("open failed")
	ErrNotExtFilesystem   = errors.New("not an ext2/ext3/ext4 filesystem")
	ErrUnsupportedBlock   = errors.New("unsupported block size")
	ErrUnsupportedFeature = errors.New("unsupported feature")
	ErrOutOfRange         = errors.New("address out of range")
	ErrReadOnly           = errors.New("image opened read-only")
	ErrIO                 = errors.New("i/o error")
)
