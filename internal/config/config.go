// Package config loads ctxpack settings. Precedence is flags over a
// repo-local ctxpack.toml over the user config over built-in defaults;
// this package handles everything below flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"ctxpack/internal/pathutil"
)

const (
	appDirName    = "ctxpack"
	repoFileName  = "ctxpack.toml"
	cacheFileName = "scan.db"
)

type Config struct {
	Budget         string   `toml:"budget"`
	Strategy       string   `toml:"strategy"`
	RankBy         string   `toml:"rank_by"`
	Tokenizer      string   `toml:"tokenizer"`
	DenseThreshold float64  `toml:"dense_threshold"`
	MaxFilePct     float64  `toml:"max_file_pct"`
	MaxFileTokens  int      `toml:"max_file_tokens"`
	ModuleRoots    []string `toml:"module_roots"`
	ModuleDepth    int      `toml:"module_depth"`
	MaxCommits     int      `toml:"max_commits"`
	MaxCommitFiles int      `toml:"max_commit_files"`
	NoSmartExclude bool     `toml:"no_smart_exclude"`
	NoGit          bool     `toml:"no_git"`
	NoCache        bool     `toml:"no_cache"`
	CacheDir       string   `toml:"cache_dir"`
}

func Default() (Config, error) {
	cacheHome, err := xdgCacheHome()
	if err != nil {
		return Config{}, err
	}
	return Config{
		Budget:         "64k",
		Strategy:       "greedy",
		RankBy:         "code",
		Tokenizer:      "cl100k_base",
		DenseThreshold: 50.0,
		MaxFilePct:     0.15,
		MaxFileTokens:  0,
		ModuleRoots:    []string{"crates", "packages"},
		ModuleDepth:    2,
		MaxCommits:     0,
		MaxCommitFiles: 0,
		CacheDir:       filepath.Join(cacheHome, appDirName),
	}, nil
}

// Load builds the effective config for a scan rooted at root: defaults,
// then the user config file, then root/ctxpack.toml when present.
func Load(root string) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return Config{}, err
	}

	userPath, err := userConfigPath()
	if err == nil {
		if err := mergeFile(userPath, &cfg); err != nil {
			return Config{}, err
		}
	}

	repoPath := filepath.Join(root, repoFileName)
	if err := mergeFile(repoPath, &cfg); err != nil {
		return Config{}, err
	}

	if len(cfg.ModuleRoots) == 0 {
		cfg.ModuleRoots = []string{"crates", "packages"}
	}
	if cfg.ModuleDepth < 1 {
		cfg.ModuleDepth = 1
	}
	return cfg, nil
}

// CachePath is the sqlite scan cache location for a repository root. Each
// root gets its own file, keyed by a sanitized form of the absolute path.
func (c Config) CachePath(root string) string {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	abs = pathutil.Canonical(abs)
	key := strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(strings.TrimLeft(abs, "/\\"))
	if key == "" {
		key = "root"
	}
	return filepath.Join(c.CacheDir, key, cacheFileName)
}

func mergeFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func userConfigPath() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, appDirName, "config.toml"), nil
}

func xdgCacheHome() (string, error) {
	cacheHome := os.Getenv("XDG_CACHE_HOME")
	if cacheHome != "" {
		return cacheHome, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache"), nil
}
