package store

import (
	"context"
)

// Driver is an interface for store driver.
// Documents are loaded whole and rewritten whole on every mutation; a driver
// never performs partial updates. A missing backing file or row is "first
// use" and loads as a nil document, not an error; a document that exists but
// cannot be decoded is an error and must be surfaced, never defaulted.
type Driver interface {
	Close() error

	LoadKnowledgeBase(ctx context.Context) (*KnowledgeBase, error)
	SaveKnowledgeBase(ctx context.Context, kb *KnowledgeBase) error

	LoadLearningRecords(ctx context.Context) (*LearningRecords, error)
	SaveLearningRecords(ctx context.Context, records *LearningRecords) error

	LoadCoordinationState(ctx context.Context) (*CoordinationState, error)
	SaveCoordinationState(ctx context.Context, state *CoordinationState) error
}
