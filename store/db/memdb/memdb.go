// Package memdb implements the store driver in memory. Used for demo mode
// and as the fake store in service tests. Documents are deep-copied through
// JSON on every load/save so callers never share state with the driver.
package memdb

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/hrygo/studypal/store"
)

// DB is the in-memory driver.
type DB struct {
	knowledgeBase     []byte
	learningRecords   []byte
	coordinationState []byte
}

// NewDB creates an empty in-memory driver.
func NewDB() *DB {
	return &DB{}
}

func (*DB) Close() error {
	return nil
}

func (d *DB) LoadKnowledgeBase(_ context.Context) (*store.KnowledgeBase, error) {
	var kb store.KnowledgeBase
	ok, err := decode(d.knowledgeBase, &kb)
	if err != nil || !ok {
		return nil, err
	}
	return &kb, nil
}

func (d *DB) SaveKnowledgeBase(_ context.Context, kb *store.KnowledgeBase) error {
	return encode(&d.knowledgeBase, kb)
}

func (d *DB) LoadLearningRecords(_ context.Context) (*store.LearningRecords, error) {
	var records store.LearningRecords
	ok, err := decode(d.learningRecords, &records)
	if err != nil || !ok {
		return nil, err
	}
	return &records, nil
}

func (d *DB) SaveLearningRecords(_ context.Context, records *store.LearningRecords) error {
	return encode(&d.learningRecords, records)
}

func (d *DB) LoadCoordinationState(_ context.Context) (*store.CoordinationState, error) {
	var state store.CoordinationState
	ok, err := decode(d.coordinationState, &state)
	if err != nil || !ok {
		return nil, err
	}
	return &state, nil
}

func (d *DB) SaveCoordinationState(_ context.Context, state *store.CoordinationState) error {
	return encode(&d.coordinationState, state)
}

func decode(data []byte, v any) (bool, error) {
	if data == nil {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, errors.Wrap(err, "malformed document")
	}
	return true, nil
}

func encode(dst *[]byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "failed to encode document")
	}
	*dst = data
	return nil
}
