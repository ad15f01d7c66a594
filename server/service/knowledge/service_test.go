package knowledge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/studypal/store"
	"github.com/hrygo/studypal/store/db/memdb"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(store.New(memdb.NewDB(), nil))
}

func TestAddQuestionLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	q1 := &AddQuestionRequest{
		Topic:      "SQL",
		QuestionZH: "什么是数据库索引",
		QuestionEN: "What is a database index?",
		AnswerZH:   "索引是加速查询的数据结构",
		AnswerEN:   "An index is a data structure that speeds up queries.",
		Difficulty: store.DifficultyMedium,
		Tags:       []string{"sql", "index"},
	}

	// First submission is new.
	result, err := svc.AddQuestion(ctx, q1)
	require.NoError(t, err)
	assert.Equal(t, StatusAdded, result.Status)
	assert.Empty(t, result.Similar)

	// Verbatim resubmission is an exact duplicate.
	result, err = svc.AddQuestion(ctx, q1)
	require.NoError(t, err)
	assert.Equal(t, StatusExactDuplicate, result.Status)

	// Exact duplicates are force-immune.
	forced := *q1
	forced.Force = true
	result, err = svc.AddQuestion(ctx, &forced)
	require.NoError(t, err)
	assert.Equal(t, StatusExactDuplicate, result.Status)

	// A paraphrase with heavy keyword overlap is flagged, not stored.
	paraphrase := &AddQuestionRequest{
		Topic:      "SQL",
		QuestionZH: "什么是数据库的索引",
		QuestionEN: "What is an index in a database?",
	}
	result, err = svc.AddQuestion(ctx, paraphrase)
	require.NoError(t, err)
	assert.Equal(t, StatusSimilarFound, result.Status)
	require.Len(t, result.Similar, 1)
	assert.Equal(t, q1.QuestionZH, result.Similar[0].Question)
	assert.GreaterOrEqual(t, result.Similar[0].Similarity, 0.6)

	// Force overrides the similarity gate.
	paraphrase.Force = true
	result, err = svc.AddQuestion(ctx, paraphrase)
	require.NoError(t, err)
	assert.Equal(t, StatusAdded, result.Status)

	questions, err := svc.TopicQuestions(ctx, "SQL")
	require.NoError(t, err)
	assert.Len(t, questions, 2)
}

func TestAddQuestionNoMutationOnSimilarFound(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.AddQuestion(ctx, &AddQuestionRequest{
		Topic:      "SQL",
		QuestionZH: "什么是数据库索引",
	})
	require.NoError(t, err)

	result, err := svc.AddQuestion(ctx, &AddQuestionRequest{
		Topic:      "SQL",
		QuestionZH: "什么是数据库的索引",
	})
	require.NoError(t, err)
	require.Equal(t, StatusSimilarFound, result.Status)

	questions, err := svc.TopicQuestions(ctx, "SQL")
	require.NoError(t, err)
	assert.Len(t, questions, 1, "a flagged paraphrase must not be stored")
}

func TestAddQuestionThresholdInclusive(t *testing.T) {
	ctx := context.Background()
	// Extract(索引) and Extract(索引擎) have Jaccard exactly 0.5.
	svc := NewServiceWithThreshold(store.New(memdb.NewDB(), nil), 0.5)

	_, err := svc.AddQuestion(ctx, &AddQuestionRequest{Topic: "检索", QuestionZH: "索引"})
	require.NoError(t, err)

	result, err := svc.AddQuestion(ctx, &AddQuestionRequest{Topic: "检索", QuestionZH: "索引擎"})
	require.NoError(t, err)
	assert.Equal(t, StatusSimilarFound, result.Status, "similarity equal to the threshold must be included")
	require.Len(t, result.Similar, 1)
	assert.Equal(t, 0.5, result.Similar[0].Similarity)
}

func TestAddQuestionDifferentTopicsDoNotCollide(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.AddQuestion(ctx, &AddQuestionRequest{Topic: "SQL", QuestionZH: "什么是数据库索引"})
	require.NoError(t, err)

	// Same text under a different topic is a fresh record.
	result, err := svc.AddQuestion(ctx, &AddQuestionRequest{Topic: "MySQL", QuestionZH: "什么是数据库索引"})
	require.NoError(t, err)
	assert.Equal(t, StatusAdded, result.Status)
}

func TestSimilarFoundOrdering(t *testing.T) {
	ctx := context.Background()
	svc := NewServiceWithThreshold(store.New(memdb.NewDB(), nil), 0.2)

	_, err := svc.AddQuestion(ctx, &AddQuestionRequest{Topic: "SQL", QuestionZH: "索引结构", Force: true})
	require.NoError(t, err)
	_, err = svc.AddQuestion(ctx, &AddQuestionRequest{Topic: "SQL", QuestionZH: "索引", Force: true})
	require.NoError(t, err)

	similar, err := svc.FindSimilar(ctx, "SQL", "索引")
	require.NoError(t, err)
	require.Len(t, similar, 2)
	assert.Equal(t, "索引", similar[0].Question, "best match first")
	assert.Equal(t, 1.0, similar[0].Similarity)
	assert.Greater(t, similar[0].Similarity, similar[1].Similarity)
}

func TestFindSimilarUnknownTopic(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	similar, err := svc.FindSimilar(ctx, "不存在", "任意问题")
	require.NoError(t, err)
	assert.Empty(t, similar)
}

func TestTopicQuestionsUnknownTopic(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	questions, err := svc.TopicQuestions(ctx, "不存在")
	require.NoError(t, err)
	assert.NotNil(t, questions)
	assert.Empty(t, questions)
}

func TestListTopics(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.AddQuestion(ctx, &AddQuestionRequest{Topic: "SQL", QuestionZH: "什么是数据库索引"})
	require.NoError(t, err)
	_, err = svc.AddQuestion(ctx, &AddQuestionRequest{Topic: "Go", QuestionZH: "协程调度原理"})
	require.NoError(t, err)

	topics, err := svc.ListTopics(ctx)
	require.NoError(t, err)
	require.Len(t, topics, 2)
	assert.Equal(t, "Go", topics[0].TopicName)
	assert.Equal(t, "SQL", topics[1].TopicName)
	assert.Equal(t, 1, topics[0].QuestionCount)
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.AddQuestion(ctx, &AddQuestionRequest{
		Topic:      "SQL",
		QuestionZH: "什么是数据库索引",
		QuestionEN: "What is a database index?",
		AnswerZH:   "一种数据结构",
		AnswerEN:   "A data structure.",
	})
	require.NoError(t, err)

	// Matches against the English question text, case-insensitively.
	results, err := svc.Search(ctx, "DATABASE")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "SQL", results[0].Topic)

	// Matches against the Chinese answer text.
	results, err = svc.Search(ctx, "数据结构")
	require.NoError(t, err)
	assert.Len(t, results, 1)

	results, err = svc.Search(ctx, "毫无关联")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestAddQuestionDefaults(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.AddQuestion(ctx, &AddQuestionRequest{Topic: "SQL", QuestionZH: "什么是数据库索引"})
	require.NoError(t, err)

	questions, err := svc.TopicQuestions(ctx, "SQL")
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, store.DifficultyMedium, questions[0].Difficulty)
	assert.NotNil(t, questions[0].Tags)
	assert.Equal(t, 0, questions[0].ReviewCount)
	assert.Nil(t, questions[0].LastReviewed)
}

func TestAddQuestionValidation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.AddQuestion(ctx, &AddQuestionRequest{Topic: "", QuestionZH: "问题"})
	assert.Error(t, err)

	_, err = svc.AddQuestion(ctx, &AddQuestionRequest{Topic: "SQL", QuestionZH: "   "})
	assert.Error(t, err)
}
