// Package learning records graded recall sessions and derives forgetting-
// curve review obligations and rollup statistics from them.
package learning

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hrygo/studypal/store"
)

const (
	minScore = 0
	maxScore = 10
)

// RecordSessionRequest carries one graded recall attempt.
type RecordSessionRequest struct {
	Topic           string  `json:"topic"`
	QuestionZH      string  `json:"question_zh"`
	QuestionEN      string  `json:"question_en"`
	UserAnswer      string  `json:"user_answer"`
	CorrectAnswerZH string  `json:"correct_answer_zh"`
	CorrectAnswerEN string  `json:"correct_answer_en"`
	Score           float64 `json:"score"`
	Notes           string  `json:"notes"`

	// Timestamp overrides the event time when non-zero; used by imports and
	// tests. Normal callers leave it zero and get the current time.
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// Service is the write path for learning sessions plus the review queue.
type Service struct {
	store       *store.Store
	studentName string
}

// NewService creates a learning service for one student.
func NewService(s *store.Store, studentName string) *Service {
	return &Service{
		store:       s,
		studentName: studentName,
	}
}

// RecordSession appends one graded event, recomputes the statistics rollup,
// expands the review obligation batch, and persists the whole document once.
func (s *Service) RecordSession(ctx context.Context, req *RecordSessionRequest) (*store.SessionEvent, error) {
	if req.Score < minScore || req.Score > maxScore {
		return nil, fmt.Errorf("score %.1f out of range [%d, %d]", req.Score, minScore, maxScore)
	}
	if req.Topic == "" {
		return nil, fmt.Errorf("topic required")
	}

	records, err := s.loadRecords(ctx)
	if err != nil {
		return nil, err
	}

	timestamp := req.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	event := &store.SessionEvent{
		ID:              uuid.NewString(),
		Timestamp:       timestamp,
		Topic:           req.Topic,
		QuestionZH:      req.QuestionZH,
		QuestionEN:      req.QuestionEN,
		UserAnswer:      req.UserAnswer,
		CorrectAnswerZH: req.CorrectAnswerZH,
		CorrectAnswerEN: req.CorrectAnswerEN,
		Score:           req.Score,
		Notes:           req.Notes,
		MasteryLevel:    ClassifyMastery(req.Score),
	}

	records.LearningSessions = append(records.LearningSessions, event)
	records.Statistics = recomputeStatistics(records.LearningSessions)
	records.ReviewSchedule = append(records.ReviewSchedule, expandReviews(event)...)

	if err := s.store.SaveLearningRecords(ctx, records); err != nil {
		return nil, fmt.Errorf("save learning records: %w", err)
	}

	slog.Info("session recorded",
		slog.String("topic", event.Topic),
		slog.Float64("score", event.Score),
		slog.String("mastery", string(event.MasteryLevel)))
	return event, nil
}

// PendingReviews returns all incomplete obligations due on or before asOf,
// in stored insertion order.
func (s *Service) PendingReviews(ctx context.Context, asOf time.Time) ([]*store.ReviewObligation, error) {
	records, err := s.loadRecords(ctx)
	if err != nil {
		return nil, err
	}

	pending := []*store.ReviewObligation{}
	for _, review := range records.ReviewSchedule {
		if review.Completed {
			continue
		}
		if dueOnOrBefore(review.ReviewDate, asOf) {
			pending = append(pending, review)
		}
	}
	return pending, nil
}

// MarkReviewCompleted flips the completed flag on the first obligation
// matching the question text and due date exactly. A miss is a silent no-op,
// not an error.
func (s *Service) MarkReviewCompleted(ctx context.Context, questionZH string, reviewDate time.Time) error {
	records, err := s.loadRecords(ctx)
	if err != nil {
		return err
	}

	for _, review := range records.ReviewSchedule {
		if review.QuestionZH == questionZH && review.ReviewDate.Equal(reviewDate) {
			if review.Completed {
				return nil
			}
			review.Completed = true
			if err := s.store.SaveLearningRecords(ctx, records); err != nil {
				return fmt.Errorf("save learning records: %w", err)
			}
			return nil
		}
	}
	return nil
}

// Statistics returns the current rollup.
func (s *Service) Statistics(ctx context.Context) (*store.Statistics, error) {
	records, err := s.loadRecords(ctx)
	if err != nil {
		return nil, err
	}
	return records.Statistics, nil
}

// Sessions returns the full event log in insertion order.
func (s *Service) Sessions(ctx context.Context) ([]*store.SessionEvent, error) {
	records, err := s.loadRecords(ctx)
	if err != nil {
		return nil, err
	}
	return records.LearningSessions, nil
}

func (s *Service) loadRecords(ctx context.Context) (*store.LearningRecords, error) {
	records, err := s.store.LoadLearningRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("load learning records: %w", err)
	}
	if records == nil {
		records = store.NewLearningRecords(s.studentName, time.Now())
	}
	return records, nil
}
