package echoform

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/zoobzio/zyn"
	_ "modernc.org/sqlite"
)

// schema creates the five record sets. Every statement is safe to re-run
// against an already-initialized store.
const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id             TEXT PRIMARY KEY,
	mutation_level INTEGER NOT NULL DEFAULT 0,
	created_at     TIMESTAMP NOT NULL,
	updated_at     TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS session_traits (
	session_id  TEXT PRIMARY KEY REFERENCES sessions(id),
	creativity  REAL NOT NULL,
	abstraction REAL NOT NULL,
	verbosity   REAL NOT NULL,
	formality   REAL NOT NULL,
	updated_at  TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS messages (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL REFERENCES sessions(id),
	role       TEXT NOT NULL,
	content    TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, id);

CREATE TABLE IF NOT EXISTS reasoning_snapshots (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id    TEXT NOT NULL REFERENCES sessions(id),
	raw_reasoning TEXT NOT NULL,
	compressed    TEXT NOT NULL,
	signals_json  TEXT NOT NULL,
	created_at    TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS evaluations (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id  TEXT NOT NULL REFERENCES sessions(id),
	accuracy    REAL NOT NULL,
	clarity     REAL NOT NULL,
	depth       REAL NOT NULL,
	originality REAL NOT NULL,
	overall     REAL NOT NULL,
	created_at  TIMESTAMP NOT NULL
);
`

// OpenSQLite opens a SQLite database at path with WAL journaling and a busy
// timeout suitable for short bounded transactions.
func OpenSQLite(path string) (*sqlx.DB, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)"
	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %s: %w", path, err)
	}
	return db, nil
}

// SQLMemory implements Memory using sqlx over SQLite.
type SQLMemory struct {
	db *sqlx.DB
}

// NewSQLMemory creates a SQLite-backed Memory and initializes the schema.
// Initialization is idempotent: invoking it on an already-initialized store
// is a no-op.
func NewSQLMemory(db *sqlx.DB) (*SQLMemory, error) {
	m := &SQLMemory{db: db}
	if err := m.InitSchema(context.Background()); err != nil {
		return nil, err
	}
	return m, nil
}

// InitSchema creates the record sets when absent. Safe to invoke twice.
func (m *SQLMemory) InitSchema(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, schema); err != nil {
		return &StorageError{Op: "initialize schema", Err: err}
	}
	return nil
}

// CreateSession allocates a 128-bit random id, inserts the session row, and
// inserts the default trait vector, all in one transaction.
func (m *SQLMemory) CreateSession(ctx context.Context) (string, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", &StorageError{Op: "create session", Err: err}
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (id, mutation_level, created_at, updated_at) VALUES (?, 0, ?, ?)`,
		id, now, now,
	); err != nil {
		return "", &StorageError{Op: "insert session", Err: err}
	}

	traits := DefaultTraits()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO session_traits (session_id, creativity, abstraction, verbosity, formality, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, traits.Creativity, traits.Abstraction, traits.Verbosity, traits.Formality, now,
	); err != nil {
		return "", &StorageError{Op: "insert traits", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return "", &StorageError{Op: "create session", Err: err}
	}
	return id, nil
}

// AppendMessage inserts a message row. The session must exist.
func (m *SQLMemory) AppendMessage(ctx context.Context, sessionID, role, content string) error {
	if err := m.sessionExists(ctx, sessionID); err != nil {
		return err
	}
	if _, err := m.db.ExecContext(ctx,
		`INSERT INTO messages (session_id, role, content, created_at) VALUES (?, ?, ?, ?)`,
		sessionID, role, content, time.Now().UTC(),
	); err != nil {
		return &StorageError{Op: "append message", Err: err}
	}
	return nil
}

// RecentContext returns the most recent limit messages, oldest first. When
// the session has no messages the result is empty, never an error.
func (m *SQLMemory) RecentContext(ctx context.Context, sessionID string, limit int) ([]zyn.Message, error) {
	rows, err := m.db.QueryxContext(ctx,
		`SELECT role, content FROM messages WHERE session_id = ? ORDER BY id DESC LIMIT ?`,
		sessionID, limit,
	)
	if err != nil {
		return nil, &StorageError{Op: "load context", Err: err}
	}
	defer rows.Close()

	var newestFirst []zyn.Message
	for rows.Next() {
		var role, content string
		if err := rows.Scan(&role, &content); err != nil {
			return nil, &StorageError{Op: "scan message", Err: err}
		}
		newestFirst = append(newestFirst, zyn.Message{Role: role, Content: content})
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "load context", Err: err}
	}

	// Reverse to chronological order.
	messages := make([]zyn.Message, 0, len(newestFirst))
	for i := len(newestFirst) - 1; i >= 0; i-- {
		messages = append(messages, newestFirst[i])
	}
	return messages, nil
}

// sessionExists reports ErrNotFound when the session id is unknown.
func (m *SQLMemory) sessionExists(ctx context.Context, sessionID string) error {
	var one int
	err := m.db.GetContext(ctx, &one, `SELECT 1 FROM sessions WHERE id = ?`, sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return &StorageError{Op: "lookup session", Err: err}
	}
	return nil
}

// LoadTraits returns the session's trait vector.
func (m *SQLMemory) LoadTraits(ctx context.Context, sessionID string) (TraitVector, error) {
	var traits TraitVector
	err := m.db.GetContext(ctx, &traits,
		`SELECT creativity, abstraction, verbosity, formality FROM session_traits WHERE session_id = ?`,
		sessionID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return TraitVector{}, ErrNotFound
	}
	if err != nil {
		return TraitVector{}, &StorageError{Op: "load traits", Err: err}
	}
	return traits, nil
}

// SaveTraits overwrites all four trait fields.
func (m *SQLMemory) SaveTraits(ctx context.Context, sessionID string, traits TraitVector) error {
	res, err := m.db.ExecContext(ctx,
		`UPDATE session_traits
		 SET creativity = ?, abstraction = ?, verbosity = ?, formality = ?, updated_at = ?
		 WHERE session_id = ?`,
		traits.Creativity, traits.Abstraction, traits.Verbosity, traits.Formality,
		time.Now().UTC(), sessionID,
	)
	if err != nil {
		return &StorageError{Op: "save traits", Err: err}
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// AppendReasoningSnapshot records one turn's cognition.
func (m *SQLMemory) AppendReasoningSnapshot(ctx context.Context, sessionID, raw, compressed string, signals Signals) error {
	if err := m.sessionExists(ctx, sessionID); err != nil {
		return err
	}
	payload, err := json.Marshal(signals)
	if err != nil {
		return &StorageError{Op: "encode signals", Err: err}
	}
	if _, err := m.db.ExecContext(ctx,
		`INSERT INTO reasoning_snapshots (session_id, raw_reasoning, compressed, signals_json, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		sessionID, raw, compressed, string(payload), time.Now().UTC(),
	); err != nil {
		return &StorageError{Op: "append reasoning snapshot", Err: err}
	}
	return nil
}

// AppendEvaluation records one turn's scores.
func (m *SQLMemory) AppendEvaluation(ctx context.Context, sessionID string, scores Scores) error {
	if err := m.sessionExists(ctx, sessionID); err != nil {
		return err
	}
	if _, err := m.db.ExecContext(ctx,
		`INSERT INTO evaluations (session_id, accuracy, clarity, depth, originality, overall, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sessionID, scores.Accuracy, scores.Clarity, scores.Depth, scores.Originality, scores.Overall,
		time.Now().UTC(),
	); err != nil {
		return &StorageError{Op: "append evaluation", Err: err}
	}
	return nil
}

// IncrementMutationLevel bumps the session's turn counter in a single
// atomic statement and returns the new value.
func (m *SQLMemory) IncrementMutationLevel(ctx context.Context, sessionID string) (int, error) {
	var level int
	err := m.db.QueryRowxContext(ctx,
		`UPDATE sessions
		 SET mutation_level = mutation_level + 1, updated_at = ?
		 WHERE id = ?
		 RETURNING mutation_level`,
		time.Now().UTC(), sessionID,
	).Scan(&level)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, &StorageError{Op: "increment mutation level", Err: err}
	}
	return level, nil
}

// MutationLevel returns the session's current turn counter.
func (m *SQLMemory) MutationLevel(ctx context.Context, sessionID string) (int, error) {
	var level int
	err := m.db.GetContext(ctx, &level, `SELECT mutation_level FROM sessions WHERE id = ?`, sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, &StorageError{Op: "get mutation level", Err: err}
	}
	return level, nil
}
