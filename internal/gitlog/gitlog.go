// Package gitlog shells out to git to collect the commit history used
// for value scoring. It owns no analysis; it only produces raw commit
// records (timestamp, author, touched paths).
package gitlog

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
)

// Commit is one raw history record.
type Commit struct {
	Timestamp int64
	Author    string
	Files     []string
}

// Available reports whether a git binary can be invoked at all.
func Available() bool {
	return exec.Command("git", "--version").Run() == nil
}

// RepoRoot resolves the repository top level containing dir.
func RepoRoot(dir string) (string, error) {
	out, err := exec.Command("git", "-C", dir, "rev-parse", "--show-toplevel").Output()
	if err != nil {
		return "", fmt.Errorf("resolve repo root for %s: %w", dir, err)
	}
	root := strings.TrimSpace(string(out))
	if root == "" {
		return "", fmt.Errorf("resolve repo root for %s: empty output", dir)
	}
	return root, nil
}

// Collect streams `git log --name-only` from the repository at root and
// parses it into commit records. maxCommits and maxCommitFiles bound the
// work on very large histories; zero means no limit. Hitting a limit
// stops consumption, it never errors.
func Collect(root string, maxCommits, maxCommitFiles int) ([]Commit, error) {
	cmd := exec.Command("git", "-C", root, "log", "--name-only", "--pretty=format:%ct|%ae")
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("pipe git log: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("spawn git log: %w", err)
	}

	commits, parseErr := ParseLog(stdout, maxCommits, maxCommitFiles)

	// Draining is required before Wait when we stopped early at a limit.
	_, _ = io.Copy(io.Discard, stdout)
	if err := cmd.Wait(); err != nil {
		return nil, fmt.Errorf("git log: %w", err)
	}
	if parseErr != nil {
		return nil, parseErr
	}
	return commits, nil
}

// ParseLog parses `git log --name-only --pretty=format:%ct|%ae` output.
// Exposed separately so parsing can be tested without a git subprocess.
//
// The format alternates a header line "timestamp|author" with the list of
// touched paths, commits separated by blank lines.
func ParseLog(r io.Reader, maxCommits, maxCommitFiles int) ([]Commit, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var commits []Commit
	var current *Commit

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" {
			if current != nil {
				commits = append(commits, *current)
				current = nil
				if maxCommits > 0 && len(commits) >= maxCommits {
					return commits, nil
				}
			}
			continue
		}

		if current == nil {
			ts, author := parseHeader(line)
			current = &Commit{Timestamp: ts, Author: author}
			continue
		}

		if maxCommitFiles <= 0 || len(current.Files) < maxCommitFiles {
			current.Files = append(current.Files, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read git log: %w", err)
	}
	if current != nil {
		commits = append(commits, *current)
	}
	return commits, nil
}

func parseHeader(line string) (int64, string) {
	tsPart, author, found := strings.Cut(line, "|")
	if !found {
		author = ""
	}
	ts, err := strconv.ParseInt(tsPart, 10, 64)
	if err != nil {
		ts = 0
	}
	return ts, author
}
