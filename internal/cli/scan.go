package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"ctxpack/internal/config"
)

func newScanCmd() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "List every packing candidate with its scan metrics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			return runScan(cmd, root, noCache)
		},
	}
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "skip the scan cache")
	return cmd
}

func runScan(cmd *cobra.Command, root string, noCache bool) error {
	cfg, err := config.Load(root)
	if err != nil {
		return err
	}
	if noCache {
		cfg.NoCache = true
	}

	candidates, err := scanRoot(root, cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d files\n\n", len(candidates))
	fmt.Fprintln(out, "| Path | Module | Lang | Tokens | Code | Comments | Blanks | Bytes |")
	fmt.Fprintln(out, "| ---- | ------ | ---- | ------ | ---- | -------- | ------ | ----- |")
	for _, c := range candidates {
		fmt.Fprintf(out, "| %s | %s | %s | %d | %d | %d | %d | %d |\n",
			c.Path, c.Module, c.Lang, c.Tokens, c.Code, c.Comments, c.Blanks, c.Bytes)
	}
	return nil
}
