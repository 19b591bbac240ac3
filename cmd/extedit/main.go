package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/jchank/extedit/pkg/config"
	"github.com/jchank/extedit/pkg/elog"
)

var log = &elog.CLI{}

var cfg *config.Config

var flagDebug bool

var rootCmd = &cobra.Command{
	Use:   "extedit",
	Short: "Byte-level analyzer and editor for ext2/ext3/ext4 filesystem images",
	Long: `extedit inspects and edits the on-disk structures of an ext2, ext3 or
ext4 filesystem image or block device: the superblock, group descriptor
table, inodes, and the block/inode allocation bitmaps.

It does not mount the filesystem, replay its journal, or walk directory
contents beyond what locating metadata requires.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log.IsDebug = flagDebug
		log.DisableColors = !isatty.IsTerminal(os.Stdout.Fd())
		c, err := config.Load(cmd.Flags())
		if err != nil {
			return err
		}
		cfg = c
		if log.DisableColors {
			cfg.Color = false
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("numbers-base", "dec", "numeric display base stored in the config, \"dec\" or \"hex\" (the printers do not consult it)")
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(superCmd)
	rootCmd.AddCommand(groupCmd)
	rootCmd.AddCommand(inodeCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(editCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Errorf("%v", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
