package rnaq

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"

	_ "modernc.org/sqlite"
)

// CacheEntry is a persisted full-structure score, keyed by structure ID.
type CacheEntry struct {
	Structure   string  `json:"pdb_id"`
	Score       float64 `json:"full_structure_score"`
	Grade       Grade   `json:"full_structure_grade"`
	TotalPairs  int     `json:"total_base_pairs"`
	Nucleotides int     `json:"num_nucleotides"`
}

// ScoreCache stores full-structure scores so motif comparisons don't
// rescore the parent structure on every run. Lookups are by structure
// ID, case-insensitive.
type ScoreCache interface {
	Get(structure string) (CacheEntry, bool, error)
	Put(entry CacheEntry) error
	List() ([]CacheEntry, error)
	Close() error
}

// SQLCache is the SQLite-backed ScoreCache.
type SQLCache struct {
	sql *sql.DB
}

// OpenCache opens (and if needed creates) the score cache at path.
func OpenCache(path string) (*SQLCache, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	// Ensure schema exists for convenience.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS structure_scores (
  structure    TEXT PRIMARY KEY,
  score        REAL NOT NULL,
  grade        TEXT NOT NULL,
  base_pairs   INTEGER NOT NULL,
  nucleotides  INTEGER NOT NULL,
  scored_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
    `); err != nil {
		return nil, err
	}
	return &SQLCache{sql: db}, nil
}

func (c *SQLCache) Close() error {
	if c == nil || c.sql == nil {
		return nil
	}
	return c.sql.Close()
}

// Get looks up a structure's cached score.
func (c *SQLCache) Get(structure string) (CacheEntry, bool, error) {
	var e CacheEntry
	row := c.sql.QueryRowContext(context.Background(),
		"SELECT structure, score, grade, base_pairs, nucleotides FROM structure_scores WHERE structure = ?",
		cacheKey(structure))
	err := row.Scan(&e.Structure, &e.Score, &e.Grade, &e.TotalPairs, &e.Nucleotides)
	if err == sql.ErrNoRows {
		return CacheEntry{}, false, nil
	}
	if err != nil {
		return CacheEntry{}, false, err
	}
	return e, true, nil
}

// Put inserts or replaces a structure's cached score.
func (c *SQLCache) Put(entry CacheEntry) error {
	_, err := c.sql.ExecContext(context.Background(),
		`INSERT INTO structure_scores(structure, score, grade, base_pairs, nucleotides, scored_at)
VALUES(?,?,?,?,?,CURRENT_TIMESTAMP)
ON CONFLICT(structure) DO UPDATE SET
  score = excluded.score,
  grade = excluded.grade,
  base_pairs = excluded.base_pairs,
  nucleotides = excluded.nucleotides,
  scored_at = CURRENT_TIMESTAMP`,
		cacheKey(entry.Structure), entry.Score, string(entry.Grade), entry.TotalPairs, entry.Nucleotides)
	return err
}

// List returns every cached entry, ordered by structure ID.
func (c *SQLCache) List() ([]CacheEntry, error) {
	rows, err := c.sql.QueryContext(context.Background(),
		"SELECT structure, score, grade, base_pairs, nucleotides FROM structure_scores ORDER BY structure")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CacheEntry
	for rows.Next() {
		var e CacheEntry
		if err := rows.Scan(&e.Structure, &e.Score, &e.Grade, &e.TotalPairs, &e.Nucleotides); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// MemCache is an in-memory ScoreCache for tests and one-shot runs.
type MemCache struct {
	mu      sync.RWMutex
	entries map[string]CacheEntry
}

func NewMemCache() *MemCache {
	return &MemCache{entries: make(map[string]CacheEntry)}
}

func (c *MemCache) Get(structure string) (CacheEntry, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[cacheKey(structure)]
	return e, ok, nil
}

func (c *MemCache) Put(entry CacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(entry.Structure)] = entry
	return nil
}

func (c *MemCache) List() ([]CacheEntry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]CacheEntry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Structure < out[j].Structure })
	return out, nil
}

func (c *MemCache) Close() error { return nil }

func cacheKey(structure string) string {
	return strings.ToUpper(strings.TrimSpace(structure))
}
