package store

import (
	"context"

	"github.com/hrygo/studypal/internal/profile"
)

// Store provides access to all persisted documents.
type Store struct {
	profile *profile.Profile
	driver  Driver
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:  driver,
		profile: profile,
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	return s.driver.Close()
}

func (s *Store) LoadKnowledgeBase(ctx context.Context) (*KnowledgeBase, error) {
	return s.driver.LoadKnowledgeBase(ctx)
}

func (s *Store) SaveKnowledgeBase(ctx context.Context, kb *KnowledgeBase) error {
	return s.driver.SaveKnowledgeBase(ctx, kb)
}

func (s *Store) LoadLearningRecords(ctx context.Context) (*LearningRecords, error) {
	return s.driver.LoadLearningRecords(ctx)
}

func (s *Store) SaveLearningRecords(ctx context.Context, records *LearningRecords) error {
	return s.driver.SaveLearningRecords(ctx, records)
}

func (s *Store) LoadCoordinationState(ctx context.Context) (*CoordinationState, error) {
	return s.driver.LoadCoordinationState(ctx)
}

func (s *Store) SaveCoordinationState(ctx context.Context, state *CoordinationState) error {
	return s.driver.SaveCoordinationState(ctx, state)
}
