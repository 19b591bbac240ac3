package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jchank/extedit/pkg/extfs"
	"github.com/jchank/extedit/pkg/extfs/render"
)

var inodeCmd = &cobra.Command{
	Use:   "inode <image> <n>",
	Short: "Print one inode, including its permission string",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fh, err := extfs.Open(args[0])
		if err != nil {
			return err
		}
		defer fh.Close()

		ino, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return err
		}
		in, err := fh.ReadInode(ino)
		if err != nil {
			return err
		}
		allocated, err := fh.IsInodeAllocated(ino)
		if err != nil {
			return err
		}
		log.Printf("%s", render.FormatInode(ino, in))
		log.Printf("  allocated: %v", allocated)
		return nil
	},
}
