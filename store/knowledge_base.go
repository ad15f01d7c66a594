package store

import (
	"time"
)

// Difficulty is the self-assessed difficulty of a question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// KnowledgeBase is the whole persisted question corpus, keyed by topic ID.
// Field names mirror the on-disk document and must not change.
type KnowledgeBase struct {
	Topics   map[string]*Topic     `json:"topics"`
	Metadata KnowledgeBaseMetadata `json:"metadata"`
}

type KnowledgeBaseMetadata struct {
	CreatedAt time.Time `json:"created_at"`
}

// Topic groups questions under a human-readable name. The map key in
// KnowledgeBase.Topics is the first 8 hex chars of md5(topic name).
type Topic struct {
	TopicName string            `json:"topic_name"`
	CreatedAt time.Time         `json:"created_at"`
	Questions []*QuestionRecord `json:"questions"`
}

// QuestionRecord is one stored question-answer pair. Immutable once created
// except for ReviewCount and LastReviewed.
type QuestionRecord struct {
	QuestionHash string     `json:"question_hash"`
	QuestionZH   string     `json:"question_zh"`
	QuestionEN   string     `json:"question_en"`
	AnswerZH     string     `json:"answer_zh"`
	AnswerEN     string     `json:"answer_en"`
	Difficulty   Difficulty `json:"difficulty"`
	Tags         []string   `json:"tags"`
	AddedAt      time.Time  `json:"added_at"`
	ReviewCount  int        `json:"review_count"`
	LastReviewed *time.Time `json:"last_reviewed"`
}

// NewKnowledgeBase returns an empty corpus for first use.
func NewKnowledgeBase(now time.Time) *KnowledgeBase {
	return &KnowledgeBase{
		Topics:   make(map[string]*Topic),
		Metadata: KnowledgeBaseMetadata{CreatedAt: now},
	}
}
