package imgsrc

import (
	"bytes"
	"encoding/binary"
	"unicode/utf16"

	"github.com/pkg/errors"
)

// GPT layout constants, per the UEFI specification.
const (
	gptSectorSize      = 512
	gptSignature       = 0x5452415020494645 // "EFI PART"
	gptHeaderLBA       = 1
	gptHeaderSize      = 92
	gptEntrySize       = 128
	gptEntriesLBA      = gptHeaderLBA + 1
)

type gptHeader struct {
	Signature      uint64
	Revision       [4]byte
	HeaderSize     uint32
	CRC            uint32
	_              uint32
	CurrentLBA     uint64
	BackupLBA      uint64
	FirstUsableLBA uint64
	LastUsableLBA  uint64
	GUID           [16]byte
	StartLBAParts  uint64
	NoOfParts      uint32
	SizePartEntry  uint32
	CRCParts       uint32
	_              [420]byte
}

type gptEntry struct {
	TypeGUID      [16]byte
	PartitionGUID [16]byte
	FirstLBA      uint64
	LastLBA       uint64
	_             uint64
	Name          [72]byte
}

func (e gptEntry) nameString() string {
	units := make([]uint16, 36)
	_ = binary.Read(bytes.NewReader(e.Name[:]), binary.LittleEndian, &units)
	n := 0
	for n < len(units) && units[n] != 0 {
		n++
	}
	return string(utf16.Decode(units[:n]))
}

func (e gptEntry) isEmpty() bool {
	for _, b := range e.TypeGUID {
		if b != 0 {
			return false
		}
	}
	return true
}

// rootFilesystemNames are the partition names this tool recognizes as
// carrying the ext2/3/4 payload when the image is GPT-partitioned. A raw
// image with no GPT at all is assumed to be the filesystem itself.
var rootFilesystemNames = map[string]bool{
	"vorteil-root": true,
	"root":         true,
	"linux root":   true,
	"rootfs":       true,
}

// findRootPartition reads the primary GPT header and entry array from src
// and returns the byte range of the partition this tool should treat as the
// filesystem payload. ok is false when src carries no GPT at all, in which
// case the caller should treat the whole source as the filesystem.
func findRootPartition(src Source) (offset, size int64, ok bool, err error) {
	hdrBuf := make([]byte, gptSectorSize)
	if _, err := src.ReadAt(hdrBuf, gptHeaderLBA*gptSectorSize); err != nil {
		return 0, 0, false, nil
	}
	var hdr gptHeader
	if err := binary.Read(bytes.NewReader(hdrBuf), binary.LittleEndian, &hdr); err != nil {
		return 0, 0, false, nil
	}
	if hdr.Signature != gptSignature {
		return 0, 0, false, nil
	}

	entriesBuf := make([]byte, int(hdr.NoOfParts)*int(hdr.SizePartEntry))
	if _, err := src.ReadAt(entriesBuf, gptEntriesLBA*gptSectorSize); err != nil {
		return 0, 0, false, errors.Wrap(err, "imgsrc: read gpt entries")
	}

	var first *gptEntry
	for i := uint32(0); i < hdr.NoOfParts; i++ {
		entBuf := entriesBuf[int(i)*int(hdr.SizePartEntry):]
		if len(entBuf) < gptEntrySize {
			break
		}
		var ent gptEntry
		if err := binary.Read(bytes.NewReader(entBuf[:gptEntrySize]), binary.LittleEndian, &ent); err != nil {
			return 0, 0, false, errors.Wrap(err, "imgsrc: decode gpt entry")
		}
		if ent.isEmpty() {
			continue
		}
		if first == nil {
			e := ent
			first = &e
		}
		name := ent.nameString()
		for known := range rootFilesystemNames {
			if equalFoldASCII(name, known) {
				off := int64(ent.FirstLBA) * gptSectorSize
				sz := (int64(ent.LastLBA) - int64(ent.FirstLBA) + 1) * gptSectorSize
				return off, sz, true, nil
			}
		}
	}
	if first == nil {
		return 0, 0, false, nil
	}
	// No recognizably-named root partition: fall back to the first
	// partition in the table, which is the common case for a single
	// filesystem partition image.
	off := int64(first.FirstLBA) * gptSectorSize
	sz := (int64(first.LastLBA) - int64(first.FirstLBA) + 1) * gptSectorSize
	return off, sz, true, nil
}

func equalFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
