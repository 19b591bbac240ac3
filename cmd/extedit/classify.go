package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jchank/extedit/pkg/extfs"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <image> <block>",
	Short: "Classify a block number into its filesystem region",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fh, err := extfs.Open(args[0])
		if err != nil {
			return err
		}
		defer fh.Close()

		b, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return err
		}
		result, err := fh.Classify(b)
		if err != nil {
			return err
		}
		if result.Category.String() == "reserved" || result.Category.String() == "data" {
			log.Printf("block %d: %s", b, result.Category)
		} else {
			log.Printf("block %d: %s (group %d)", b, result.Category, result.Group)
		}
		return nil
	},
}
