package main

import (
	"github.com/spf13/cobra"

	"github.com/jchank/extedit/pkg/extfs"
	"github.com/jchank/extedit/pkg/extfs/render"
)

var summaryCmd = &cobra.Command{
	Use:   "summary <image>",
	Short: "Print whole-filesystem statistics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fh, err := extfs.Open(args[0])
		if err != nil {
			return err
		}
		defer fh.Close()

		s := fh.Summarize()
		used := uint64(s.TotalBlocks-s.FreeBlocks) * uint64(s.BlockSize)
		total := uint64(s.TotalBlocks) * uint64(s.BlockSize)
		pct := 0.0
		if total > 0 {
			pct = float64(used) / float64(total) * 100
		}

		log.Printf("variant:      %s", s.Variant)
		log.Printf("block size:   %s", render.FormatSize(uint64(s.BlockSize)))
		log.Printf("blocks:       %d total, %d free", s.TotalBlocks, s.FreeBlocks)
		log.Printf("inodes:       %d total, %d free", s.TotalInodes, s.FreeInodes)
		log.Printf("groups:       %d", s.GroupCount)
		log.Printf("used:         %s / %s (%.1f%%)", render.FormatSize(used), render.FormatSize(total), pct)
		log.Printf("features:     compat 0x%x, incompat 0x%x, ro_compat 0x%x", s.FeatureCompat, s.FeatureIncompat, s.FeatureROCompat)
		if fh.ReadOnly() {
			log.Printf("mode:         read-only")
		}
		return nil
	},
}
