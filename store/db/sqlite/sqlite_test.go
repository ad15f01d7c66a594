package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/studypal/internal/profile"
	"github.com/hrygo/studypal/store"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "studypal_test.db")
	db, err := NewDB(&profile.Profile{DSN: dsn})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

func TestMissingDocumentsAreFirstUse(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	kb, err := db.LoadKnowledgeBase(ctx)
	require.NoError(t, err)
	assert.Nil(t, kb)

	records, err := db.LoadLearningRecords(ctx)
	require.NoError(t, err)
	assert.Nil(t, records)

	state, err := db.LoadCoordinationState(ctx)
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestDocumentRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	created := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	kb := store.NewKnowledgeBase(created)
	kb.Topics["a1b2c3d4"] = &store.Topic{
		TopicName: "SQL",
		CreatedAt: created,
		Questions: []*store.QuestionRecord{
			{
				QuestionHash: "0123456789abcdef",
				QuestionZH:   "什么是数据库索引",
				Difficulty:   store.DifficultyMedium,
				Tags:         []string{},
				AddedAt:      created,
			},
		},
	}

	require.NoError(t, db.SaveKnowledgeBase(ctx, kb))

	loaded, err := db.LoadKnowledgeBase(ctx)
	require.NoError(t, err)
	assert.Equal(t, kb, loaded)
}

func TestSaveIsAnUpsert(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	ts := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	records := store.NewLearningRecords("Sixi", ts)
	require.NoError(t, db.SaveLearningRecords(ctx, records))

	records.LearningSessions = append(records.LearningSessions, &store.SessionEvent{
		ID:           "evt-1",
		Timestamp:    ts,
		Topic:        "SQL",
		QuestionZH:   "什么是数据库索引",
		Score:        8,
		MasteryLevel: store.MasteryGood,
	})
	require.NoError(t, db.SaveLearningRecords(ctx, records))

	loaded, err := db.LoadLearningRecords(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.LearningSessions, 1)
	assert.Equal(t, records, loaded)
}

func TestMalformedDocumentIsAnError(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	_, err := db.db.ExecContext(ctx,
		"INSERT INTO document (name, content, updated_ts) VALUES (?, ?, ?)",
		documentCoordinationState, "{not json", time.Now().Unix())
	require.NoError(t, err)

	_, err = db.LoadCoordinationState(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed")
}
