package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jchank/extedit/pkg/extfs"
	"github.com/jchank/extedit/pkg/extfs/model"
	"github.com/jchank/extedit/pkg/extfs/render"
)

var groupCmd = &cobra.Command{
	Use:   "group <image> [n]",
	Short: "Print one group descriptor, or every group descriptor if n is omitted",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fh, err := extfs.Open(args[0])
		if err != nil {
			return err
		}
		defer fh.Close()

		if len(args) == 1 {
			all := make([]*model.GroupDescriptor, 0, fh.GroupCount())
			for i := uint32(0); i < fh.GroupCount(); i++ {
				g, err := fh.GroupDescriptor(i)
				if err != nil {
					return err
				}
				all = append(all, g)
			}
			log.Printf("%s", render.FormatGroupTable(all))
			return nil
		}

		n, err := strconv.ParseUint(args[1], 10, 32)
		if err != nil {
			return err
		}
		g, err := fh.GroupDescriptor(uint32(n))
		if err != nil {
			return err
		}
		log.Printf("%s", render.FormatGroupDescriptor(uint32(n), g))
		return nil
	},
}
