package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ctxpack/internal/cache"
	"ctxpack/internal/config"
	"ctxpack/internal/gitlog"
	"ctxpack/internal/gitscore"
	"ctxpack/internal/pack"
	"ctxpack/internal/render"
	"ctxpack/internal/scan"
)

type packFlags struct {
	budget         string
	strategy       string
	rankBy         string
	output         string
	outPath        string
	force          bool
	compress       bool
	noSmartExclude bool
	noGit          bool
	noCache        bool
	maxCommits     int
	maxCommitFiles int
	maxFilePct     float64
	maxFileTokens  int
	denseThreshold float64
	moduleRoots    string
	moduleDepth    int
}

func newPackCmd() *cobra.Command {
	var flags packFlags

	cmd := &cobra.Command{
		Use:   "pack [path]",
		Short: "Select files under a token budget and render the result",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			return runPack(cmd, root, flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.budget, "budget", "", `token budget, e.g. "64k", "1m", "unlimited"`)
	f.StringVar(&flags.strategy, "strategy", "", "selection strategy: greedy or spread")
	f.StringVar(&flags.rankBy, "rank-by", "", "rank metric: code, tokens, hotspot, churn")
	f.StringVar(&flags.output, "output", "list", "output shape: list, bundle, receipt")
	f.StringVar(&flags.outPath, "out", "", "write output to a file instead of stdout")
	f.BoolVar(&flags.force, "force", false, "overwrite an existing --out file")
	f.BoolVar(&flags.compress, "compress", false, "strip blank lines from bundle output")
	f.BoolVar(&flags.noSmartExclude, "no-smart-exclude", false, "keep lockfiles, minified bundles, and sourcemaps eligible")
	f.BoolVar(&flags.noGit, "no-git", false, "skip git history scoring")
	f.BoolVar(&flags.noCache, "no-cache", false, "skip the scan cache")
	f.IntVar(&flags.maxCommits, "max-commits", 0, "limit commits read from git history (0 = all)")
	f.IntVar(&flags.maxCommitFiles, "max-commit-files", 0, "limit paths kept per commit (0 = all)")
	f.Float64Var(&flags.maxFilePct, "max-file-pct", 0, "max fraction of the budget per file")
	f.IntVar(&flags.maxFileTokens, "max-file-tokens", 0, "hard per-file token cap")
	f.Float64Var(&flags.denseThreshold, "dense-threshold", 0, "tokens-per-line ratio marking a file dense")
	f.StringVar(&flags.moduleRoots, "module-roots", "", "comma-separated directories whose children are modules")
	f.IntVar(&flags.moduleDepth, "module-depth", 0, "module key depth under a module root")

	return cmd
}

func runPack(cmd *cobra.Command, root string, flags packFlags) error {
	cfg, err := config.Load(root)
	if err != nil {
		return err
	}
	applyPackFlags(cmd, &cfg, flags)

	budget, err := pack.ParseBudget(cfg.Budget)
	if err != nil {
		return err
	}
	strategy, err := pack.ParseStrategy(cfg.Strategy)
	if err != nil {
		return err
	}
	rankBy, err := pack.ParseMetric(cfg.RankBy)
	if err != nil {
		return err
	}
	if flags.output != "list" && flags.output != "bundle" && flags.output != "receipt" {
		return fmt.Errorf("invalid output %q: expected list, bundle, or receipt", flags.output)
	}

	candidates, err := scanRoot(root, cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	var scores *pack.GitValueScores
	if !cfg.NoGit {
		if !gitlog.Available() {
			fmt.Fprintln(cmd.ErrOrStderr(), "warning: git not available; history-based metrics fall back to code lines")
		} else {
			scores = gitscore.Compute(root, candidates, gitscore.Options{
				MaxCommits:     cfg.MaxCommits,
				MaxCommitFiles: cfg.MaxCommitFiles,
			})
		}
	}

	plan := pack.Select(candidates, budget, strategy, rankBy, scores, pack.SelectOptions{
		NoSmartExclude: cfg.NoSmartExclude,
		MaxFilePct:     cfg.MaxFilePct,
		MaxFileTokens:  cfg.MaxFileTokens,
		DenseThreshold: cfg.DenseThreshold,
	})

	out, closeOut, err := openOutput(cmd, flags.outPath, flags.force)
	if err != nil {
		return err
	}
	defer closeOut()

	switch flags.output {
	case "bundle":
		return render.Bundle(out, cmd.ErrOrStderr(), root, plan, render.BundleOptions{Compress: flags.compress})
	case "receipt":
		return render.WriteReceipt(out, plan)
	default:
		return render.List(out, plan, flags.outPath == "" && render.StdoutIsTTY())
	}
}

// applyPackFlags overlays explicitly-set flags onto the loaded config.
func applyPackFlags(cmd *cobra.Command, cfg *config.Config, flags packFlags) {
	set := cmd.Flags().Changed
	if set("budget") {
		cfg.Budget = flags.budget
	}
	if set("strategy") {
		cfg.Strategy = flags.strategy
	}
	if set("rank-by") {
		cfg.RankBy = flags.rankBy
	}
	if set("no-smart-exclude") {
		cfg.NoSmartExclude = flags.noSmartExclude
	}
	if set("no-git") {
		cfg.NoGit = flags.noGit
	}
	if set("no-cache") {
		cfg.NoCache = flags.noCache
	}
	if set("max-commits") {
		cfg.MaxCommits = flags.maxCommits
	}
	if set("max-commit-files") {
		cfg.MaxCommitFiles = flags.maxCommitFiles
	}
	if set("max-file-pct") {
		cfg.MaxFilePct = flags.maxFilePct
	}
	if set("max-file-tokens") {
		cfg.MaxFileTokens = flags.maxFileTokens
	}
	if set("dense-threshold") {
		cfg.DenseThreshold = flags.denseThreshold
	}
	if set("module-roots") {
		cfg.ModuleRoots = splitList(flags.moduleRoots)
	}
	if set("module-depth") {
		cfg.ModuleDepth = flags.moduleDepth
	}
}

func scanRoot(root string, cfg config.Config, errw io.Writer) ([]pack.CandidateFile, error) {
	opts := scan.Options{
		Root:        root,
		Tokenizer:   cfg.Tokenizer,
		ModuleRoots: cfg.ModuleRoots,
		ModuleDepth: cfg.ModuleDepth,
	}
	if !cfg.NoCache {
		c, err := cache.Open(cfg.CachePath(root))
		if err != nil {
			// A broken cache degrades to a full rescan, never a failure.
			fmt.Fprintf(errw, "warning: scan cache unavailable: %v\n", err)
		} else {
			opts.Cache = c
			defer c.Close()
		}
	}
	return scan.Scan(opts)
}

// openOutput resolves --out/--force into a writer. Without --out the
// writer is the command's stdout and close is a no-op.
func openOutput(cmd *cobra.Command, path string, force bool) (io.Writer, func(), error) {
	if path == "" {
		return cmd.OutOrStdout(), func() {}, nil
	}
	if !force {
		if _, err := os.Stat(path); err == nil {
			return nil, nil, fmt.Errorf("%s exists; pass --force to overwrite", path)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, func() { f.Close() }, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
