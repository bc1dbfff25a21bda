// Package gitscore derives per-file and per-module importance scores
// from git commit history. It feeds the selector's hotspot and churn
// ranking metrics and degrades to nil whenever git data cannot be had;
// callers fall back to a non-git metric instead of failing.
package gitscore

import (
	"ctxpack/internal/gitlog"
	"ctxpack/internal/pack"
	"ctxpack/internal/pathutil"
)

// Options bounds history collection.
type Options struct {
	// MaxCommits caps how many commits are read. Zero means no limit.
	MaxCommits int
	// MaxCommitFiles caps how many paths are kept per commit. Zero means
	// no limit.
	MaxCommitFiles int
}

// Compute resolves the repository containing root, collects its history,
// and scores the given candidates. Returns nil when git is unavailable,
// root is not inside a repository, or the history is empty. The "no git
// data" path is structurally identical to "git data present but empty".
func Compute(root string, candidates []pack.CandidateFile, opts Options) *pack.GitValueScores {
	repoRoot, err := gitlog.RepoRoot(root)
	if err != nil {
		return nil
	}
	commits, err := gitlog.Collect(repoRoot, opts.MaxCommits, opts.MaxCommitFiles)
	if err != nil {
		return nil
	}
	return Score(candidates, commits)
}

// Score builds the value scores from an already-collected commit log,
// restricted to paths present in candidates:
//
//	hotspot[path] = lines(path) × commit_count(path)
//
// Module aggregates sum the hotspots and count distinct commit authors
// per module key. Paths with no commits get no entry; nil is returned
// only for an empty log.
func Score(candidates []pack.CandidateFile, commits []gitlog.Commit) *pack.GitValueScores {
	if len(commits) == 0 {
		return nil
	}

	lines := make(map[string]int, len(candidates))
	modules := make(map[string]string, len(candidates))
	for _, c := range candidates {
		p := pathutil.Normalize(c.Path)
		lines[p] = c.Lines
		modules[p] = c.Module
	}

	scores := &pack.GitValueScores{
		Hotspots:       make(map[string]int),
		CommitCounts:   make(map[string]int),
		ModuleHotspots: make(map[string]int),
		ModuleAuthors:  make(map[string]int),
	}

	moduleAuthors := make(map[string]map[string]struct{})
	for _, commit := range commits {
		for _, file := range commit.Files {
			p := pathutil.Normalize(file)
			if _, ok := lines[p]; !ok {
				continue
			}
			scores.CommitCounts[p]++

			mod := modules[p]
			if commit.Author != "" {
				set := moduleAuthors[mod]
				if set == nil {
					set = make(map[string]struct{})
					moduleAuthors[mod] = set
				}
				set[commit.Author] = struct{}{}
			}
		}
	}

	for p, commits := range scores.CommitCounts {
		hotspot := lines[p] * commits
		scores.Hotspots[p] = hotspot
		scores.ModuleHotspots[modules[p]] += hotspot
	}
	for mod, set := range moduleAuthors {
		scores.ModuleAuthors[mod] = len(set)
	}

	return scores
}
