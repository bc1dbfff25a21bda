// Package cache persists per-file scan results in sqlite so rescans skip
// tokenizing unchanged files. Entries are keyed by path and validated
// against size and mtime; a mismatch is treated as a miss.
//
// The cache belongs to the scanner collaborator. The packing core never
// touches it and stays a pure function of its inputs.
package cache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS scan_files (
	path      TEXT PRIMARY KEY,
	size      INTEGER NOT NULL,
	mtime_ns  INTEGER NOT NULL,
	lang      TEXT NOT NULL,
	tokens    INTEGER NOT NULL,
	code      INTEGER NOT NULL,
	comments  INTEGER NOT NULL,
	blanks    INTEGER NOT NULL,
	lines     INTEGER NOT NULL
);
`

type Cache struct {
	db *sql.DB
}

// Entry holds the cached scan metrics for one file.
type Entry struct {
	Lang     string
	Tokens   int
	Code     int
	Comments int
	Blanks   int
	Lines    int
}

func Open(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA synchronous=NORMAL;"); err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA busy_timeout=3000;"); err != nil {
		return nil, err
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		return nil, fmt.Errorf("create cache schema: %w", err)
	}

	return &Cache{db: db}, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the cached entry for path when size and mtime still match.
func (c *Cache) Get(path string, size, mtimeNS int64) (Entry, bool) {
	var e Entry
	var gotSize, gotMtime int64
	err := c.db.QueryRow(`
		SELECT size, mtime_ns, lang, tokens, code, comments, blanks, lines
		FROM scan_files WHERE path = ?`, path).
		Scan(&gotSize, &gotMtime, &e.Lang, &e.Tokens, &e.Code, &e.Comments, &e.Blanks, &e.Lines)
	if err != nil {
		return Entry{}, false
	}
	if gotSize != size || gotMtime != mtimeNS {
		return Entry{}, false
	}
	return e, true
}

// Put stores or replaces the entry for path.
func (c *Cache) Put(path string, size, mtimeNS int64, e Entry) error {
	_, err := c.db.Exec(`
		INSERT INTO scan_files (path, size, mtime_ns, lang, tokens, code, comments, blanks, lines)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			size = excluded.size,
			mtime_ns = excluded.mtime_ns,
			lang = excluded.lang,
			tokens = excluded.tokens,
			code = excluded.code,
			comments = excluded.comments,
			blanks = excluded.blanks,
			lines = excluded.lines`,
		path, size, mtimeNS, e.Lang, e.Tokens, e.Code, e.Comments, e.Blanks, e.Lines)
	if err != nil {
		return fmt.Errorf("cache put %s: %w", path, err)
	}
	return nil
}
