package imgsrc

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/jchank/extedit/pkg/extfs/model"
)

// VMDK sparse-extent constants, matching the on-disk "KDMV" format.
const (
	vmdkMagic       = 0x564d444b
	vmdkSectorSize  = 0x200
	vmdkGrainSize   = 0x10000
	vmdkSecPerGrain = vmdkGrainSize / vmdkSectorSize
	vmdkTableMaxRows = 512
)

// vmdkHeader mirrors the fixed 512-byte sparse extent header.
type vmdkHeader struct {
	MagicNumber        uint32
	Version            uint32
	Flags              uint32
	Capacity           uint64
	GrainSize          uint64
	DescriptorOffset   uint64
	DescriptorSize     uint64
	NumGTEsPerGT       uint32
	RGDOffset          uint64
	GDOffset           uint64
	OverHead           uint64
	UncleanShutdown    byte
	SingleEndLineChar  byte
	NonEndLineChar     byte
	DoubleEndLineChar1 byte
	DoubleEndLineChar2 byte
	CompressAlgorithm  uint16
	_                  [433]uint8
}

// vmdkSource reads (and, for already-allocated grains, writes) a
// monolithic sparse VMDK extent, translating logical disk offsets to grain
// table lookups the way the container format defines.
type vmdkSource struct {
	raw  *rawSource
	hdr  vmdkHeader
	// grainTable[i] is the sector number of grain i, or 0 if unallocated.
	grainTable []uint32
}

func isVMDK(first512 []byte) bool {
	if len(first512) < 4 {
		return false
	}
	return binary.LittleEndian.Uint32(first512[:4]) == vmdkMagic
}

func openVMDK(raw *rawSource) (*vmdkSource, error) {
	hdrBuf := make([]byte, 512)
	if _, err := raw.ReadAt(hdrBuf, 0); err != nil {
		return nil, errors.Wrap(err, "imgsrc: read vmdk header")
	}
	var hdr vmdkHeader
	if err := binary.Read(bytes.NewReader(hdrBuf), binary.LittleEndian, &hdr); err != nil {
		return nil, errors.Wrap(err, "imgsrc: decode vmdk header")
	}
	if hdr.Version == 3 {
		return nil, errors.Wrap(model.ErrUnsupportedFeature, "imgsrc: stream-optimized VMDK (version 3) does not support random access")
	}

	totalGrains := (int64(hdr.Capacity) + vmdkSecPerGrain - 1) / vmdkSecPerGrain
	totalTables := (totalGrains + vmdkTableMaxRows - 1) / vmdkTableMaxRows

	grainTable := make([]uint32, totalGrains)
	gdBuf := make([]byte, totalTables*4)
	if _, err := raw.ReadAt(gdBuf, int64(hdr.GDOffset)*vmdkSectorSize); err != nil {
		return nil, errors.Wrap(err, "imgsrc: read vmdk grain directory")
	}
	for t := int64(0); t < totalTables; t++ {
		tableSector := binary.LittleEndian.Uint32(gdBuf[t*4:])
		if tableSector == 0 {
			continue
		}
		rows := int64(vmdkTableMaxRows)
		if t == totalTables-1 && totalGrains%vmdkTableMaxRows != 0 {
			rows = totalGrains % vmdkTableMaxRows
		}
		gtBuf := make([]byte, rows*4)
		if _, err := raw.ReadAt(gtBuf, int64(tableSector)*vmdkSectorSize); err != nil {
			return nil, errors.Wrap(err, "imgsrc: read vmdk grain table")
		}
		for r := int64(0); r < rows; r++ {
			grainTable[t*vmdkTableMaxRows+r] = binary.LittleEndian.Uint32(gtBuf[r*4:])
		}
	}

	return &vmdkSource{raw: raw, hdr: hdr, grainTable: grainTable}, nil
}

func (v *vmdkSource) Size() int64    { return int64(v.hdr.Capacity) * vmdkSectorSize }
func (v *vmdkSource) ReadOnly() bool { return v.raw.ReadOnly() }
func (v *vmdkSource) Close() error   { return v.raw.Close() }

func (v *vmdkSource) grainBounds(off int64, n int) (grain int64, delta int64, err error) {
	if off < 0 || off+int64(n) > v.Size() {
		return 0, 0, errors.Errorf("imgsrc: vmdk access [%d,%d) out of range", off, off+int64(n))
	}
	grain = off / vmdkGrainSize
	delta = off % vmdkGrainSize
	return grain, delta, nil
}

// ReadAt requires the caller's buffer to not straddle more than one grain;
// callers in this module only ever issue reads of superblock/group
// descriptor/inode/block granularity, all of which are well within the
// 64KiB grain size in practice, so this keeps the lookup logic simple.
func (v *vmdkSource) ReadAt(p []byte, off int64) (int, error) {
	grain, delta, err := v.grainBounds(off, len(p))
	if err != nil {
		return 0, err
	}
	if delta+int64(len(p)) > vmdkGrainSize {
		return 0, errors.New("imgsrc: vmdk read straddles grain boundary")
	}
	sector := v.grainTable[grain]
	if sector == 0 {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}
	return v.raw.ReadAt(p, int64(sector)*vmdkSectorSize+delta)
}

func (v *vmdkSource) WriteAt(p []byte, off int64) (int, error) {
	grain, delta, err := v.grainBounds(off, len(p))
	if err != nil {
		return 0, err
	}
	if delta+int64(len(p)) > vmdkGrainSize {
		return 0, errors.New("imgsrc: vmdk write straddles grain boundary")
	}
	sector := v.grainTable[grain]
	if sector == 0 {
		return 0, errors.Wrap(model.ErrUnsupportedFeature, "imgsrc: vmdk write targets an unallocated (hole) grain; growing extents is unsupported")
	}
	return v.raw.WriteAt(p, int64(sector)*vmdkSectorSize+delta)
}
