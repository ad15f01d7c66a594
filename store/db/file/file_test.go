package file

import (
	"context"
	"os"
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
	return NewDB(&profile.Profile{Data: t.TempDir()})
}

func sampleKnowledgeBase() *store.KnowledgeBase {
	created := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	return &store.KnowledgeBase{
		Topics: map[string]*store.Topic{
			"a1b2c3d4": {
				TopicName: "SQL",
				CreatedAt: created,
				Questions: []*store.QuestionRecord{
					{
						QuestionHash: "0123456789abcdef",
						QuestionZH:   "什么是数据库索引",
						QuestionEN:   "What is a database index?",
						AnswerZH:     "一种数据结构",
						AnswerEN:     "A data structure.",
						Difficulty:   store.DifficultyMedium,
						Tags:         []string{"sql"},
						AddedAt:      created,
						ReviewCount:  0,
						LastReviewed: nil,
					},
				},
			},
		},
		Metadata: store.KnowledgeBaseMetadata{CreatedAt: created},
	}
}

func TestMissingFilesAreFirstUse(t *testing.T) {
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

func TestKnowledgeBaseRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	kb := sampleKnowledgeBase()

	require.NoError(t, db.SaveKnowledgeBase(ctx, kb))

	loaded, err := db.LoadKnowledgeBase(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, kb, loaded)
}

func TestLearningRecordsRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	ts := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	records := store.NewLearningRecords("Sixi", ts)
	records.LearningSessions = append(records.LearningSessions, &store.SessionEvent{
		ID:           "evt-1",
		Timestamp:    ts,
		Topic:        "SQL",
		QuestionZH:   "什么是数据库索引",
		Score:        8,
		MasteryLevel: store.MasteryGood,
	})
	records.ReviewSchedule = append(records.ReviewSchedule, &store.ReviewObligation{
		UID:          "ob-1",
		ReviewDate:   ts.AddDate(0, 0, 1),
		Topic:        "SQL",
		QuestionZH:   "什么是数据库索引",
		MasteryLevel: store.MasteryGood,
		IntervalDays: 1,
	})

	require.NoError(t, db.SaveLearningRecords(ctx, records))

	loaded, err := db.LoadLearningRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, records, loaded)
}

func TestCoordinationStateRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	state := store.NewCoordinationState()
	last := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	state.CurrentState = store.ModeReviewing
	state.LastActivity = &last

	require.NoError(t, db.SaveCoordinationState(ctx, state))

	loaded, err := db.LoadCoordinationState(ctx)
	require.NoError(t, err)
	assert.Equal(t, state, loaded)
}

func TestMalformedDocumentIsAnError(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	db := NewDB(&profile.Profile{Data: dir})

	require.NoError(t, os.WriteFile(filepath.Join(dir, "knowledge_base.json"), []byte("{not json"), 0600))

	_, err := db.LoadKnowledgeBase(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed")
}

func TestSaveRewritesWholeFile(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	kb := sampleKnowledgeBase()
	require.NoError(t, db.SaveKnowledgeBase(ctx, kb))

	// Remove the only topic and save again; the old content must be gone.
	kb.Topics = map[string]*store.Topic{}
	require.NoError(t, db.SaveKnowledgeBase(ctx, kb))

	loaded, err := db.LoadKnowledgeBase(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded.Topics)
}
