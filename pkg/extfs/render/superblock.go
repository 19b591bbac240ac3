package render

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/jchank/extedit/pkg/extfs/model"
)

// FormatSuperblock renders the decoded fields of a superblock as a
// multi-line key/value listing.
func FormatSuperblock(sb *model.Superblock) string {
	var b strings.Builder
	fmt.Fprintf(&b, "variant:              %s\n", sb.Variant())
	fmt.Fprintf(&b, "inodes count:         %d\n", sb.TotalInodes)
	fmt.Fprintf(&b, "blocks count:         %d\n", sb.TotalBlocks)
	fmt.Fprintf(&b, "reserved blocks:      %d\n", sb.ReservedBlocks)
	fmt.Fprintf(&b, "free blocks:          %d\n", sb.UnallocatedBlocks)
	fmt.Fprintf(&b, "free inodes:          %d\n", sb.UnallocatedInodes)
	fmt.Fprintf(&b, "first data block:     %d\n", sb.FirstDataBlock)
	fmt.Fprintf(&b, "block size:           %s\n", FormatSize(uint64(sb.BlockSize())))
	fmt.Fprintf(&b, "blocks per group:     %d\n", sb.BlocksPerGroup)
	fmt.Fprintf(&b, "inodes per group:     %d\n", sb.InodesPerGroup)
	fmt.Fprintf(&b, "mount count:          %d / %d\n", sb.MountCount, sb.MaxMountCount)
	fmt.Fprintf(&b, "state:                0x%x\n", sb.State)
	fmt.Fprintf(&b, "rev level:            %d\n", sb.RevLevel)
	fmt.Fprintf(&b, "inode size:           %d\n", sb.InodeSize())
	fmt.Fprintf(&b, "feature compat:       0x%x\n", sb.FeatureCompat)
	fmt.Fprintf(&b, "feature incompat:     0x%x\n", sb.FeatureIncompat)
	fmt.Fprintf(&b, "feature ro_compat:    0x%x\n", sb.FeatureROCompat)
	fmt.Fprintf(&b, "uuid:                 %s\n", hex.EncodeToString(sb.UUID[:]))
	fmt.Fprintf(&b, "volume name:          %s\n", cstring(sb.VolumeName[:]))
	used := uint64(sb.TotalBlocks-sb.UnallocatedBlocks) * uint64(sb.BlockSize())
	total := uint64(sb.TotalBlocks) * uint64(sb.BlockSize())
	pct := 0.0
	if total > 0 {
		pct = float64(used) / float64(total) * 100
	}
	fmt.Fprintf(&b, "used:                 %s / %s (%.1f%%)\n", FormatSize(used), FormatSize(total), pct)
	return b.String()
}

func cstring(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
