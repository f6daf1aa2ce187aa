// Package storage persists the findings baseline. A baseline records the
// stable IDs of accepted findings so later runs can report only new ones.
package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"swiftlens/internal/rule"
)

// BaselineStore is a SQLite-backed set of accepted finding identities,
// keyed by the violations' stable content hashes.
type BaselineStore struct {
	db *sql.DB
}

// OpenBaseline creates or opens the baseline database at path.
func OpenBaseline(path string) (*BaselineStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	s := &BaselineStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init baseline schema: %w", err)
	}
	return s, nil
}

func (s *BaselineStore) Close() error {
	return s.db.Close()
}

func (s *BaselineStore) initSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS baseline (
		stable_id TEXT PRIMARY KEY,
		rule_id TEXT NOT NULL,
		file TEXT NOT NULL,
		line INTEGER NOT NULL,
		recorded_at TIMESTAMP NOT NULL
	)`)
	return err
}

// Record upserts the given findings into the baseline.
func (s *BaselineStore) Record(violations []rule.Violation) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO baseline
		(stable_id, rule_id, file, line, recorded_at) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, v := range violations {
		if v.StableID == "" {
			continue
		}
		if _, err := stmt.Exec(v.StableID, v.RuleID, v.Location.File, v.Location.Line, now); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Contains reports whether a stable ID is part of the baseline.
func (s *BaselineStore) Contains(stableID string) (bool, error) {
	var one int
	err := s.db.QueryRow(`SELECT 1 FROM baseline WHERE stable_id = ?`, stableID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Filter drops findings already recorded in the baseline. A read error
// keeps the finding: the baseline must never hide a result it cannot vouch
// for.
func (s *BaselineStore) Filter(violations []rule.Violation) []rule.Violation {
	ids := make(map[string]struct{})
	rows, err := s.db.Query(`SELECT stable_id FROM baseline`)
	if err != nil {
		return violations
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		if rows.Scan(&id) == nil {
			ids[id] = struct{}{}
		}
	}

	var out []rule.Violation
	for _, v := range violations {
		if _, known := ids[v.StableID]; known {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Size returns the number of baselined findings.
func (s *BaselineStore) Size() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM baseline`).Scan(&n)
	return n, err
}
