// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package journal persists submitted request logs in SQLite.
//
// A Journal implements request.Recorder: attach it with
// request.WithRecorder and every submitted log is stored as one batch
// before it executes. Stored batches can be loaded back and replayed on
// another Requester.
//
//	j, err := journal.Open("requests.db")
//	if err != nil {
//	    return err
//	}
//	defer j.Close()
//
//	r := request.New(request.WithBackend(b), request.WithRecorder(j))
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/gogpu/request"
)

// ErrNoBatch is returned by Load for an unknown batch.
var ErrNoBatch = errors.New("journal: no such batch")

// schemaVersion is stored in schema_version and checked on Open.
const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS batches (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    created INTEGER NOT NULL,         -- UnixNano
    count INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS requests (
    batch INTEGER NOT NULL REFERENCES batches(id) ON DELETE CASCADE,
    seq INTEGER NOT NULL,             -- position in the batch
    version INTEGER NOT NULL,
    action INTEGER NOT NULL,
    object INTEGER NOT NULL,
    kind TEXT NOT NULL,               -- for humans; action/object are authoritative
    object_id INTEGER NOT NULL,       -- uint64 bit pattern
    flags INTEGER NOT NULL,
    content TEXT NOT NULL,            -- YAML, without byte payloads
    payload BLOB,                     -- uploaded bytes
    PRIMARY KEY (batch, seq)
);
`

// Batch describes one recorded submission.
type Batch struct {
	ID      int64
	Created time.Time
	Count   int
}

// Journal is a SQLite store of submitted request logs.
// Journal is safe for concurrent use once SetLogger, if needed, has been
// called.
type Journal struct {
	db     *sql.DB
	logger *slog.Logger
}

// Ensure Journal implements request.Recorder.
var _ request.Recorder = (*Journal)(nil)

// Open opens or creates the journal database at path. The special path
// ":memory:" opens a private in-memory journal.
func Open(path string) (*Journal, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("journal: create directory: %w", err)
		}
	}

	dsn := path +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=foreign_keys(ON)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("journal: open database: %w", err)
	}
	// One connection serializes writers and keeps in-memory databases
	// alive across calls.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: connect: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: create schema: %w", err)
	}
	if err := checkSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Journal{db: db, logger: request.NopLogger()}, nil
}

// checkSchema stamps a new database and rejects databases written with
// another schema version.
func checkSchema(db *sql.DB) error {
	var version int
	err := db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		_, err = db.Exec("INSERT INTO schema_version (version) VALUES (?)", schemaVersion)
		if err != nil {
			return fmt.Errorf("journal: stamp schema: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("journal: read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("journal: schema version %d, want %d", version, schemaVersion)
	}
	return nil
}

// SetLogger sets the logger. Nil restores the silent default.
func (j *Journal) SetLogger(l *slog.Logger) {
	if l == nil {
		l = request.NopLogger()
	}
	j.logger = l
}

// Record stores log as a new batch in a single transaction.
// Empty logs are not recorded.
func (j *Journal) Record(ctx context.Context, log request.RequestLog) (err error) {
	if len(log) == 0 {
		return nil
	}

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("journal: begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO batches (created, count) VALUES (?, ?)",
		time.Now().UnixNano(), len(log))
	if err != nil {
		return fmt.Errorf("journal: insert batch: %w", err)
	}
	batch, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("journal: batch id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO requests
        (batch, seq, version, action, object, kind, object_id, flags, content, payload)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("journal: prepare: %w", err)
	}
	defer stmt.Close()

	for i, req := range log {
		content, payload, err := encodeContent(req.Content)
		if err != nil {
			return fmt.Errorf("journal: request %d: %w", i, err)
		}
		_, err = stmt.ExecContext(ctx, batch, i, int64(req.Version),
			int64(req.Kind.Action), int64(req.Kind.Object), req.Kind.String(),
			int64(req.ID), int64(req.Flags), content, payload)
		if err != nil {
			return fmt.Errorf("journal: insert request %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("journal: commit: %w", err)
	}
	j.logger.Debug("journal: recorded batch", "batch", batch, "count", len(log))
	return nil
}

// Batches returns every recorded batch, oldest first.
func (j *Journal) Batches(ctx context.Context) ([]Batch, error) {
	rows, err := j.db.QueryContext(ctx, "SELECT id, created, count FROM batches ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("journal: query batches: %w", err)
	}
	defer rows.Close()

	var batches []Batch
	for rows.Next() {
		var b Batch
		var created int64
		if err := rows.Scan(&b.ID, &created, &b.Count); err != nil {
			return nil, fmt.Errorf("journal: scan batch: %w", err)
		}
		b.Created = time.Unix(0, created)
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

// Load returns the requests of one batch in submission order.
func (j *Journal) Load(ctx context.Context, batch int64) (request.RequestLog, error) {
	var count int
	err := j.db.QueryRowContext(ctx, "SELECT count FROM batches WHERE id = ?", batch).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrNoBatch, batch)
	}
	if err != nil {
		return nil, fmt.Errorf("journal: query batch %d: %w", batch, err)
	}
	return j.query(ctx, count, "WHERE batch = ? ORDER BY seq", batch)
}

// LoadAll returns the requests of every batch in submission order.
func (j *Journal) LoadAll(ctx context.Context) (request.RequestLog, error) {
	return j.query(ctx, 0, "ORDER BY batch, seq")
}

func (j *Journal) query(ctx context.Context, capacity int, tail string, args ...any) (request.RequestLog, error) {
	rows, err := j.db.QueryContext(ctx,
		"SELECT version, action, object, object_id, flags, content, payload FROM requests "+tail, args...)
	if err != nil {
		return nil, fmt.Errorf("journal: query requests: %w", err)
	}
	defer rows.Close()

	log := make(request.RequestLog, 0, capacity)
	for rows.Next() {
		var (
			version, action, object, id, flags int64
			content                            string
			payload                            []byte
		)
		if err := rows.Scan(&version, &action, &object, &id, &flags, &content, &payload); err != nil {
			return nil, fmt.Errorf("journal: scan request: %w", err)
		}
		req := request.Request{
			Version: uint8(version),
			Kind:    request.Kind{Action: request.Action(action), Object: request.Object(object)},
			ID:      request.ID(uint64(id)),
			Flags:   int(flags),
		}
		req.Content, err = decodeContent(req.Kind, content, payload)
		if err != nil {
			return nil, fmt.Errorf("journal: request %d of kind %s: %w", len(log), req.Kind, err)
		}
		log = append(log, req)
	}
	return log, rows.Err()
}

// Close closes the database.
func (j *Journal) Close() error {
	return j.db.Close()
}
