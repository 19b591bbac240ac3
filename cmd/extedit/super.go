package main

import (
	"github.com/spf13/cobra"

	"github.com/jchank/extedit/pkg/extfs"
	"github.com/jchank/extedit/pkg/extfs/addr"
	"github.com/jchank/extedit/pkg/extfs/render"
)

var flagHex bool

var superCmd = &cobra.Command{
	Use:   "super <image>",
	Short: "Print the superblock",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fh, err := extfs.Open(args[0])
		if err != nil {
			return err
		}
		defer fh.Close()

		if flagHex {
			r, err := fh.AddressOf(addr.Superblock, 0)
			if err != nil {
				return err
			}
			ses, err := fh.OpenEditor(addr.Superblock, 0)
			if err != nil {
				return err
			}
			defer ses.Close()
			log.Printf("superblock: %d bytes at offset %d", r.Length, r.Offset)
			log.Printf("%s", render.HexDump(ses.Bytes(), nil, cfg.Color))
			return nil
		}

		log.Printf("%s", render.FormatSuperblock(fh.Superblock()))
		return nil
	},
}

func init() {
	superCmd.Flags().BoolVar(&flagHex, "hex", false, "dump raw bytes instead of pretty-printing fields")
}
