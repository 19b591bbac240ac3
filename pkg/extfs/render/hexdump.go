package render

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// HexDump renders buf as a classic 16-bytes-per-row hex/ASCII dump.
// Positions listed in highlight are rendered in bold (typically the
// editor's cursor, or bytes that differ from the on-disk original) when
// colorEnabled is true.
func HexDump(buf []byte, highlight map[int]bool, colorEnabled bool) string {
	var b strings.Builder
	bold := color.New(color.Bold)
	for row := 0; row < len(buf); row += 16 {
		end := row + 16
		if end > len(buf) {
			end = len(buf)
		}
		fmt.Fprintf(&b, "%08x  ", row)
		for i := row; i < row+16; i++ {
			if i < end {
				s := fmt.Sprintf("%02x ", buf[i])
				if colorEnabled && highlight[i] {
					s = bold.Sprint(s)
				}
				b.WriteString(s)
			} else {
				b.WriteString("   ")
			}
			if i-row == 7 {
				b.WriteByte(' ')
			}
		}
		b.WriteString(" |")
		for i := row; i < end; i++ {
			c := buf[i]
			if c < 0x20 || c > 0x7e {
				c = '.'
			}
			b.WriteByte(c)
		}
		b.WriteString("|\n")
	}
	return b.String()
}
