// Package file implements the store driver over plain JSON documents on
// disk. Each document is read whole and rewritten whole; the on-disk layout
// is shared with earlier tooling and must stay stable.
package file

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/hrygo/studypal/internal/profile"
	"github.com/hrygo/studypal/store"
)

const (
	knowledgeBaseFile     = "knowledge_base.json"
	learningRecordsFile   = "learning_records.json"
	coordinationStateFile = "coordination_state.json"
)

// DB is the JSON file driver.
type DB struct {
	profile *profile.Profile
	dataDir string
}

// NewDB opens a file driver rooted at the profile's data directory.
func NewDB(profile *profile.Profile) *DB {
	return &DB{
		profile: profile,
		dataDir: profile.Data,
	}
}

func (*DB) Close() error {
	return nil
}

func (d *DB) LoadKnowledgeBase(_ context.Context) (*store.KnowledgeBase, error) {
	var kb store.KnowledgeBase
	ok, err := d.loadDocument(knowledgeBaseFile, &kb)
	if err != nil || !ok {
		return nil, err
	}
	return &kb, nil
}

func (d *DB) SaveKnowledgeBase(_ context.Context, kb *store.KnowledgeBase) error {
	return d.saveDocument(knowledgeBaseFile, kb)
}

func (d *DB) LoadLearningRecords(_ context.Context) (*store.LearningRecords, error) {
	var records store.LearningRecords
	ok, err := d.loadDocument(learningRecordsFile, &records)
	if err != nil || !ok {
		return nil, err
	}
	return &records, nil
}

func (d *DB) SaveLearningRecords(_ context.Context, records *store.LearningRecords) error {
	return d.saveDocument(learningRecordsFile, records)
}

func (d *DB) LoadCoordinationState(_ context.Context) (*store.CoordinationState, error) {
	var state store.CoordinationState
	ok, err := d.loadDocument(coordinationStateFile, &state)
	if err != nil || !ok {
		return nil, err
	}
	return &state, nil
}

func (d *DB) SaveCoordinationState(_ context.Context, state *store.CoordinationState) error {
	return d.saveDocument(coordinationStateFile, state)
}

// loadDocument reads one document into v. Returns false with no error when
// the file does not exist yet (first use).
func (d *DB) loadDocument(name string, v any) (bool, error) {
	path := filepath.Join(d.dataDir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrapf(err, "failed to read %s", path)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, errors.Wrapf(err, "malformed document %s", path)
	}
	return true, nil
}

// saveDocument rewrites one document atomically via a temp file rename.
func (d *DB) saveDocument(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "failed to encode %s", name)
	}

	path := filepath.Join(d.dataDir, name)
	tmp, err := os.CreateTemp(d.dataDir, name+".tmp-*")
	if err != nil {
		return errors.Wrapf(err, "failed to create temp file for %s", name)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.Wrapf(err, "failed to write %s", tmpPath)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.Wrapf(err, "failed to close %s", tmpPath)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return errors.Wrapf(err, "failed to replace %s", path)
	}
	return nil
}
