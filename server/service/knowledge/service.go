// Package knowledge maintains the question corpus: topic grouping, exact
// duplicate detection by content digest, and near-duplicate detection by
// keyword overlap.
package knowledge

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/hrygo/studypal/store"
)

// DefaultSimilarityThreshold is the inclusive Jaccard cutoff above which an
// existing question counts as a near-duplicate.
const DefaultSimilarityThreshold = 0.6

// AddStatus classifies the outcome of an AddQuestion call.
type AddStatus string

const (
	// StatusAdded - the question was new and has been stored.
	StatusAdded AddStatus = "ADDED"
	// StatusExactDuplicate - a record with the same content digest already
	// exists under the topic. Never overridden, not even by force.
	StatusExactDuplicate AddStatus = "EXACT_DUPLICATE"
	// StatusSimilarFound - one or more stored questions meet the similarity
	// threshold. Resubmit with force to store anyway.
	StatusSimilarFound AddStatus = "SIMILAR_FOUND"
)

// SimilarQuestion is one stored question that met the similarity threshold.
type SimilarQuestion struct {
	Question   string  `json:"question"`
	Similarity float64 `json:"similarity"`
	Hash       string  `json:"hash"`
}

// AddResult is the tri-state outcome of AddQuestion. Similar is populated
// only when Status is StatusSimilarFound, ordered by descending similarity.
type AddResult struct {
	Status  AddStatus         `json:"status"`
	Similar []SimilarQuestion `json:"similar,omitempty"`
}

// AddQuestionRequest carries one bilingual question-answer pair.
type AddQuestionRequest struct {
	Topic      string           `json:"topic"`
	QuestionZH string           `json:"question_zh"`
	QuestionEN string           `json:"question_en"`
	AnswerZH   string           `json:"answer_zh"`
	AnswerEN   string           `json:"answer_en"`
	Difficulty store.Difficulty `json:"difficulty"`
	Tags       []string         `json:"tags"`
	Force      bool             `json:"force"`
}

// TopicSummary describes one topic for listings.
type TopicSummary struct {
	TopicID       string    `json:"topic_id"`
	TopicName     string    `json:"topic_name"`
	QuestionCount int       `json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// SearchResult is one question matching a free-text search.
type SearchResult struct {
	Topic      string           `json:"topic"`
	QuestionZH string           `json:"question_zh"`
	QuestionEN string           `json:"question_en"`
	Difficulty store.Difficulty `json:"difficulty"`
	Tags       []string         `json:"tags"`
}

// Service is the deduplication gate over the knowledge base document.
type Service struct {
	store     *store.Store
	extractor *Extractor
	threshold float64
}

// NewService creates a knowledge service with the default threshold.
func NewService(s *store.Store) *Service {
	return NewServiceWithThreshold(s, DefaultSimilarityThreshold)
}

// NewServiceWithThreshold creates a knowledge service with a custom
// similarity threshold.
func NewServiceWithThreshold(s *store.Store, threshold float64) *Service {
	return &Service{
		store:     s,
		extractor: NewExtractor(),
		threshold: threshold,
	}
}

// AddQuestion classifies the incoming question and stores it when it is new
// or forced. State is mutated and persisted only on the StatusAdded path.
func (s *Service) AddQuestion(ctx context.Context, req *AddQuestionRequest) (*AddResult, error) {
	if strings.TrimSpace(req.Topic) == "" {
		return nil, fmt.Errorf("topic required")
	}
	if strings.TrimSpace(req.QuestionZH) == "" {
		return nil, fmt.Errorf("question text required")
	}

	kb, err := s.loadKnowledgeBase(ctx)
	if err != nil {
		return nil, err
	}

	topicID := TopicID(req.Topic)
	questionHash := QuestionHash(req.QuestionZH)

	topic := kb.Topics[topicID]
	if topic != nil {
		for _, qa := range topic.Questions {
			if qa.QuestionHash == questionHash {
				return &AddResult{Status: StatusExactDuplicate}, nil
			}
		}
	}

	if !req.Force && topic != nil {
		similar := s.findSimilar(topic, req.QuestionZH)
		if len(similar) > 0 {
			return &AddResult{Status: StatusSimilarFound, Similar: similar}, nil
		}
	}

	now := time.Now()
	if topic == nil {
		topic = &store.Topic{
			TopicName: req.Topic,
			CreatedAt: now,
			Questions: []*store.QuestionRecord{},
		}
		kb.Topics[topicID] = topic
	}

	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = store.DifficultyMedium
	}
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	topic.Questions = append(topic.Questions, &store.QuestionRecord{
		QuestionHash: questionHash,
		QuestionZH:   req.QuestionZH,
		QuestionEN:   req.QuestionEN,
		AnswerZH:     req.AnswerZH,
		AnswerEN:     req.AnswerEN,
		Difficulty:   difficulty,
		Tags:         tags,
		AddedAt:      now,
		ReviewCount:  0,
		LastReviewed: nil,
	})

	if err := s.store.SaveKnowledgeBase(ctx, kb); err != nil {
		return nil, fmt.Errorf("save knowledge base: %w", err)
	}

	slog.Info("question added",
		slog.String("topic", req.Topic),
		slog.String("hash", questionHash),
		slog.Bool("force", req.Force))
	return &AddResult{Status: StatusAdded}, nil
}

// FindSimilar scores newQuestion against every stored question under topic
// and returns those at or above the threshold, most similar first.
func (s *Service) FindSimilar(ctx context.Context, topicName, newQuestion string) ([]SimilarQuestion, error) {
	kb, err := s.loadKnowledgeBase(ctx)
	if err != nil {
		return nil, err
	}
	topic := kb.Topics[TopicID(topicName)]
	if topic == nil {
		return nil, nil
	}
	return s.findSimilar(topic, newQuestion), nil
}

func (s *Service) findSimilar(topic *store.Topic, newQuestion string) []SimilarQuestion {
	newKeywords := s.extractor.Extract(newQuestion)

	var similar []SimilarQuestion
	for _, qa := range topic.Questions {
		similarity := Jaccard(newKeywords, s.extractor.Extract(qa.QuestionZH))
		if similarity >= s.threshold {
			similar = append(similar, SimilarQuestion{
				Question:   qa.QuestionZH,
				Similarity: similarity,
				Hash:       qa.QuestionHash,
			})
		}
	}

	// Stable sort keeps insertion order for equal scores.
	sort.SliceStable(similar, func(i, j int) bool {
		return similar[i].Similarity > similar[j].Similarity
	})
	return similar
}

// ListTopics returns a summary of every topic in the corpus.
func (s *Service) ListTopics(ctx context.Context) ([]TopicSummary, error) {
	kb, err := s.loadKnowledgeBase(ctx)
	if err != nil {
		return nil, err
	}

	topics := make([]TopicSummary, 0, len(kb.Topics))
	for topicID, topic := range kb.Topics {
		topics = append(topics, TopicSummary{
			TopicID:       topicID,
			TopicName:     topic.TopicName,
			QuestionCount: len(topic.Questions),
			CreatedAt:     topic.CreatedAt,
		})
	}
	sort.Slice(topics, func(i, j int) bool {
		return topics[i].TopicName < topics[j].TopicName
	})
	return topics, nil
}

// TopicQuestions returns all records under a topic, empty for an unknown
// topic.
func (s *Service) TopicQuestions(ctx context.Context, topicName string) ([]*store.QuestionRecord, error) {
	kb, err := s.loadKnowledgeBase(ctx)
	if err != nil {
		return nil, err
	}
	topic := kb.Topics[TopicID(topicName)]
	if topic == nil {
		return []*store.QuestionRecord{}, nil
	}
	return topic.Questions, nil
}

// Search returns every question whose bilingual question or answer text
// contains keyword, case-insensitively.
func (s *Service) Search(ctx context.Context, keyword string) ([]SearchResult, error) {
	kb, err := s.loadKnowledgeBase(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(keyword)
	results := []SearchResult{}
	for _, topic := range kb.Topics {
		for _, qa := range topic.Questions {
			if strings.Contains(strings.ToLower(qa.QuestionZH), needle) ||
				strings.Contains(strings.ToLower(qa.QuestionEN), needle) ||
				strings.Contains(strings.ToLower(qa.AnswerZH), needle) ||
				strings.Contains(strings.ToLower(qa.AnswerEN), needle) {
				results = append(results, SearchResult{
					Topic:      topic.TopicName,
					QuestionZH: qa.QuestionZH,
					QuestionEN: qa.QuestionEN,
					Difficulty: qa.Difficulty,
					Tags:       qa.Tags,
				})
			}
		}
	}
	return results, nil
}

func (s *Service) loadKnowledgeBase(ctx context.Context) (*store.KnowledgeBase, error) {
	kb, err := s.store.LoadKnowledgeBase(ctx)
	if err != nil {
		return nil, fmt.Errorf("load knowledge base: %w", err)
	}
	if kb == nil {
		kb = store.NewKnowledgeBase(time.Now())
	}
	if kb.Topics == nil {
		kb.Topics = make(map[string]*store.Topic)
	}
	return kb, nil
}
