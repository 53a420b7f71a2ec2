// Package history keeps a durable ledger of bake runs in a local sqlite
// database, one row per run.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/agentic-research/autobake/api"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	scene TEXT NOT NULL,
	object TEXT NOT NULL,
	material TEXT NOT NULL,
	texture_size INTEGER NOT NULL,
	maps TEXT NOT NULL,
	output_dir TEXT NOT NULL,
	status TEXT NOT NULL,
	warnings INTEGER NOT NULL,
	started_at TEXT NOT NULL,
	duration_ms INTEGER NOT NULL
);
`

// Ledger records finished bake runs.
type Ledger struct {
	db *sql.DB
}

// DefaultPath returns the per-user ledger location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".autobake", "history.db"), nil
}

// Open opens the ledger at path, creating the database and its parent
// directory on first use.
func Open(path string) (*Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create ledger dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close() // ignore close error
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close() // ignore close error
		return nil, fmt.Errorf("create runs table: %w", err)
	}
	return &Ledger{db: db}, nil
}

// Close releases the database handle.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Record appends one run to the ledger.
func (l *Ledger) Record(rec api.RunRecord) error {
	maps := make([]string, len(rec.Maps))
	for i, mt := range rec.Maps {
		maps[i] = string(mt)
	}
	_, err := l.db.Exec(`
		INSERT INTO runs (scene, object, material, texture_size, maps, output_dir, status, warnings, started_at, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Scene, rec.Object, rec.Material, rec.TextureSize,
		strings.Join(maps, ","), rec.OutputDir, rec.Status,
		rec.Warnings, rec.StartedAt.UTC().Format(time.RFC3339), rec.DurationMS,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// List returns the most recent runs, newest first. A non-positive limit
// falls back to 20.
func (l *Ledger) List(limit int) ([]api.RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := l.db.Query(`
		SELECT scene, object, material, texture_size, maps, output_dir, status, warnings, started_at, duration_ms
		FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []api.RunRecord
	for rows.Next() {
		var rec api.RunRecord
		var maps, started string
		if err := rows.Scan(&rec.Scene, &rec.Object, &rec.Material, &rec.TextureSize,
			&maps, &rec.OutputDir, &rec.Status, &rec.Warnings, &started, &rec.DurationMS); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		for _, m := range strings.Split(maps, ",") {
			if m == "" {
				continue
			}
			mt, err := api.ParseMapType(m)
			if err != nil {
				return nil, fmt.Errorf("ledger row: %w", err)
			}
			rec.Maps = append(rec.Maps, mt)
		}
		if rec.StartedAt, err = time.Parse(time.RFC3339, started); err != nil {
			return nil, fmt.Errorf("ledger row: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return out, nil
}
