// Package cli wires the ctxpack commands. Each command is a thin layer:
// parse flags, load config, call the scan/pack/render packages, report.
package cli

import (
	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "ctxpack",
	Short: "Build token-budgeted context packs from a source tree",
	Long: `ctxpack scans a repository, classifies its files, and selects a
subset that fits a token budget. The result can be listed, bundled into
a single text blob, or emitted as a JSON receipt.

Quick start:
  ctxpack pack --budget 64k                 # list the selection
  ctxpack pack --budget 64k --output bundle --out pack.txt
  ctxpack pack --rank-by hotspot --strategy spread --output receipt`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(
		newPackCmd(),
		newScanCmd(),
		newVersionCmd(),
	)
}
