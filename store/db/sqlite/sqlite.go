// Package sqlite implements the store driver on SQLite. Documents keep the
// same JSON shape as the file driver, stored one row per document, so the
// two drivers stay interchangeable.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/hrygo/studypal/internal/profile"
	"github.com/hrygo/studypal/store"
)

const (
	documentKnowledgeBase     = "knowledge_base"
	documentLearningRecords   = "learning_records"
	documentCoordinationState = "coordination_state"
)

// DB is the SQLite driver.
type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens a connection to the SQLite database at the profile DSN.
func NewDB(profile *profile.Profile) (*DB, error) {
	if profile.DSN == "" {
		return nil, errors.New("dsn required")
	}

	sqldb, err := sql.Open("sqlite", profile.DSN)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open db with dsn: %s", profile.DSN)
	}

	driver := &DB{db: sqldb, profile: profile}
	if err := driver.migrate(context.Background()); err != nil {
		sqldb.Close()
		return nil, err
	}
	return driver, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) migrate(ctx context.Context) error {
	_, err := d.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS document (
			name TEXT PRIMARY KEY,
			content TEXT NOT NULL,
			updated_ts BIGINT NOT NULL
		)
	`)
	if err != nil {
		return errors.Wrap(err, "failed to create document table")
	}
	return nil
}

func (d *DB) LoadKnowledgeBase(ctx context.Context) (*store.KnowledgeBase, error) {
	var kb store.KnowledgeBase
	ok, err := d.loadDocument(ctx, documentKnowledgeBase, &kb)
	if err != nil || !ok {
		return nil, err
	}
	return &kb, nil
}

func (d *DB) SaveKnowledgeBase(ctx context.Context, kb *store.KnowledgeBase) error {
	return d.saveDocument(ctx, documentKnowledgeBase, kb)
}

func (d *DB) LoadLearningRecords(ctx context.Context) (*store.LearningRecords, error) {
	var records store.LearningRecords
	ok, err := d.loadDocument(ctx, documentLearningRecords, &records)
	if err != nil || !ok {
		return nil, err
	}
	return &records, nil
}

func (d *DB) SaveLearningRecords(ctx context.Context, records *store.LearningRecords) error {
	return d.saveDocument(ctx, documentLearningRecords, records)
}

func (d *DB) LoadCoordinationState(ctx context.Context) (*store.CoordinationState, error) {
	var state store.CoordinationState
	ok, err := d.loadDocument(ctx, documentCoordinationState, &state)
	if err != nil || !ok {
		return nil, err
	}
	return &state, nil
}

func (d *DB) SaveCoordinationState(ctx context.Context, state *store.CoordinationState) error {
	return d.saveDocument(ctx, documentCoordinationState, state)
}

func (d *DB) loadDocument(ctx context.Context, name string, v any) (bool, error) {
	var content string
	err := d.db.QueryRowContext(ctx,
		"SELECT content FROM document WHERE name = ?", name,
	).Scan(&content)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "failed to query document %s", name)
	}
	if err := json.Unmarshal([]byte(content), v); err != nil {
		return false, errors.Wrapf(err, "malformed document %s", name)
	}
	return true, nil
}

func (d *DB) saveDocument(ctx context.Context, name string, v any) error {
	content, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "failed to encode %s", name)
	}

	_, err = d.db.ExecContext(ctx, `
		INSERT INTO document (name, content, updated_ts) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET content = excluded.content, updated_ts = excluded.updated_ts
	`, name, string(content), time.Now().Unix())
	if err != nil {
		return errors.Wrapf(err, "failed to save document %s", name)
	}
	return nil
}
