// Package render implements the Pretty-Printers: human-readable renderings
// of sizes, superblocks, group descriptors, inodes, and raw byte ranges.
package render

import "fmt"

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB", "PB"}

// FormatSize renders a byte count using binary (1024-based) units, with
// whole bytes printed without a decimal point and every larger unit
// printed to two decimal places.
func FormatSize(n uint64) string {
	if n < 1024 {
		return fmt.Sprintf("%d %s", n, sizeUnits[0])
	}
	v := float64(n)
	idx := 0
	for v >= 1024 && idx < len(sizeUnits)-1 {
		v /= 1024
		idx++
	}
	return fmt.Sprintf("%.2f %s", v, sizeUnits[idx])
}
