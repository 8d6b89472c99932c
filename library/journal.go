package library

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Journal is a local append-only audit trail of mutating actions, kept in
// SQLite on the operator's machine. It never feeds application state: the
// views only ever show what the server returned, so nothing of the journal
// survives into the rendered data.
type Journal struct {
	db *sql.DB

	recordStmt *sql.Stmt
}

// ActionRecord is one journal row.
type ActionRecord struct {
	ID     int64
	At     time.Time
	Actor  string
	Action string
	Detail string
}

// OpenJournal opens (or creates) the journal database at path.
func OpenJournal(path string) (*Journal, error) {
	// Ensure directory exists so first-run succeeds.
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create journal dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS actions (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
        actor TEXT NOT NULL,
        action TEXT NOT NULL,
        detail TEXT NOT NULL
    );`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create journal schema: %w", err)
	}

	j := &Journal{db: db}
	if j.recordStmt, err = db.Prepare(`INSERT INTO actions(actor,action,detail) VALUES(?,?,?)`); err != nil {
		db.Close()
		return nil, err
	}
	return j, nil
}

// Close releases the prepared statement and closes the DB.
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	if j.recordStmt != nil {
		j.recordStmt.Close()
	}
	return j.db.Close()
}

// Record appends one action. A nil journal is a no-op so callers never have
// to branch on whether a trail was configured.
func (j *Journal) Record(actor, action, detail string) error {
	if j == nil {
		return nil
	}
	_, err := j.recordStmt.Exec(actor, action, detail)
	return err
}

// Recent returns the newest n records, newest first.
func (j *Journal) Recent(n int) ([]ActionRecord, error) {
	if j == nil {
		return nil, nil
	}
	rows, err := j.db.Query(`SELECT id,at,actor,action,detail FROM actions ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []ActionRecord
	for rows.Next() {
		var r ActionRecord
		if err := rows.Scan(&r.ID, &r.At, &r.Actor, &r.Action, &r.Detail); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
