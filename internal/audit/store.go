// internal/audit/store.go
//
// Submission log for the loan form.
//
// Context
// -------
// Every submission (valid or not) can be recorded in one MySQL table:
//
//	loan_submission (id PK, session_id, outcome, messages, request_json,
//	                 entries, client, country, submitted_at)
//
// The log answers two questions for operators:
//  1. What did a session submit, and what happened?   → `Record()`
//  2. What were the latest submissions?               → `Recent()`
//
// Recording is best effort.  Callers log a failed Record and carry on; the
// form never fails because the audit table is down.  When no DSN is
// configured the app wires `Nop` instead of a Store.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
// • Max line length 100 columns.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Schema creates the table on a fresh database.
const Schema = `CREATE TABLE IF NOT EXISTS loan_submission (
    id           BIGINT AUTO_INCREMENT PRIMARY KEY,
    session_id   VARCHAR(64)  NOT NULL,
    outcome      VARCHAR(16)  NOT NULL,
    messages     TEXT         NOT NULL,
    request_json TEXT         NOT NULL,
    entries      INT          NOT NULL DEFAULT 0,
    client       VARCHAR(64)  NOT NULL DEFAULT '',
    country      CHAR(2)      NOT NULL DEFAULT '',
    submitted_at DATETIME(6)  NOT NULL,
    KEY idx_submitted_at (submitted_at)
)`

// Submission is one row of loan_submission.
type Submission struct {
	ID          int64     `db:"id"`
	Session     string    `db:"session_id"`
	Outcome     string    `db:"outcome"`
	Messages    []string  `db:"-"`
	Request     []byte    `db:"request_json"`
	Entries     int       `db:"entries"`
	Client      string    `db:"client"`  // browser/device class
	Country     string    `db:"country"` // ISO code, may be empty
	SubmittedAt time.Time `db:"submitted_at"`

	RawMessages string `db:"messages"`
}

// Recorder is what the web layer writes to.
type Recorder interface {
	Record(ctx context.Context, s Submission) error
}

// Nop discards every submission.
type Nop struct{}

func (Nop) Record(context.Context, Submission) error { return nil }

// Store writes submissions through sqlx.
type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewStore wraps an open pool.  The caller owns db.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// EnsureSchema runs Schema.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("audit schema: %w", err)
	}
	return nil
}

// Record inserts sub.  A zero SubmittedAt is stamped with the current time.
func (s *Store) Record(ctx context.Context, sub Submission) error {
	const q = `INSERT INTO loan_submission
                  (session_id, outcome, messages, request_json, entries, client, country, submitted_at)
           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	msgs := sub.Messages
	if msgs == nil {
		msgs = []string{}
	}
	rawMsgs, err := json.Marshal(msgs)
	if err != nil {
		return fmt.Errorf("audit messages: %w", err)
	}
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = s.now().UTC()
	}

	if _, err := s.db.ExecContext(ctx, q,
		sub.Session, sub.Outcome, string(rawMsgs), string(sub.Request),
		sub.Entries, sub.Client, sub.Country, sub.SubmittedAt,
	); err != nil {
		return fmt.Errorf("audit record: %w", err)
	}
	return nil
}

// Recent returns up to limit rows, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Submission, error) {
	const q = `SELECT id, session_id, outcome, messages, request_json, entries, client, country, submitted_at
                 FROM loan_submission
             ORDER BY submitted_at DESC, id DESC
                LIMIT ?`

	if limit <= 0 {
		limit = 20
	}

	var rows []Submission
	if err := s.db.SelectContext(ctx, &rows, q, limit); err != nil {
		return nil, fmt.Errorf("audit recent: %w", err)
	}
	for i := range rows {
		if rows[i].RawMessages == "" {
			continue
		}
		if err := json.Unmarshal([]byte(rows[i].RawMessages), &rows[i].Messages); err != nil {
			return nil, fmt.Errorf("audit recent: row %d messages: %w", rows[i].ID, err)
		}
	}
	return rows, nil
}
