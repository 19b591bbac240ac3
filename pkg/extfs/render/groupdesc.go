package render

import (
	"bytes"
	"fmt"

	"github.com/sisatech/tablewriter"

	"github.com/jchank/extedit/pkg/extfs/model"
)

// FormatGroupDescriptor renders one group descriptor's fields.
func FormatGroupDescriptor(idx uint32, gd *model.GroupDescriptor) string {
	return fmt.Sprintf(
		"group %d:\n  block bitmap:  %d\n  inode bitmap:  %d\n  inode table:   %d\n  free blocks:   %d\n  free inodes:   %d\n  used dirs:     %d\n",
		idx, gd.BlockBitmap, gd.InodeBitmap, gd.InodeTable, gd.FreeBlocksCount, gd.FreeInodesCount, gd.UsedDirsCount)
}

// FormatGroupTable renders every group descriptor as an aligned table,
// for the "group" CLI view when no index is given.
func FormatGroupTable(groups []*model.GroupDescriptor) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"group", "block bitmap", "inode bitmap", "inode table", "free blocks", "free inodes", "used dirs"})
	table.SetAutoFormatHeaders(false)
	table.SetBorder(false)
	table.SetColumnSeparator("")
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for i, gd := range groups {
		table.Append([]string{
			fmt.Sprintf("%d", i),
			fmt.Sprintf("%d", gd.BlockBitmap),
			fmt.Sprintf("%d", gd.InodeBitmap),
			fmt.Sprintf("%d", gd.InodeTable),
			fmt.Sprintf("%d", gd.FreeBlocksCount),
			fmt.Sprintf("%d", gd.FreeInodesCount),
			fmt.Sprintf("%d", gd.UsedDirsCount),
		})
	}
	table.Render()
	return buf.String()
}
