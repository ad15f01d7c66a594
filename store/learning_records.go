package store

import (
	"time"
)

// MasteryLevel is the discrete tier derived from a recall score.
type MasteryLevel string

const (
	MasteryExcellent MasteryLevel = "excellent"
	MasteryGood      MasteryLevel = "good"
	MasteryFair      MasteryLevel = "fair"
	MasteryPoor      MasteryLevel = "poor"
)

// LearningRecords is the whole persisted learning history of one student.
// Field names mirror the on-disk document and must not change.
type LearningRecords struct {
	StudentName      string              `json:"student_name"`
	CreatedAt        time.Time           `json:"created_at"`
	LearningSessions []*SessionEvent     `json:"learning_sessions"`
	ReviewSchedule   []*ReviewObligation `json:"review_schedule"`
	Statistics       *Statistics         `json:"statistics"`
}

// SessionEvent is one graded recall attempt. Append-only, never mutated.
type SessionEvent struct {
	ID              string       `json:"id"`
	Timestamp       time.Time    `json:"timestamp"`
	Topic           string       `json:"topic"`
	QuestionZH      string       `json:"question_zh"`
	QuestionEN      string       `json:"question_en"`
	UserAnswer      string       `json:"user_answer"`
	CorrectAnswerZH string       `json:"correct_answer_zh"`
	CorrectAnswerEN string       `json:"correct_answer_en"`
	Score           float64      `json:"score"`
	Notes           string       `json:"notes"`
	MasteryLevel    MasteryLevel `json:"mastery_level"`
}

// ReviewObligation is one scheduled future recall prompt derived from a
// SessionEvent. Completed is monotonic: false to true, never reverted.
type ReviewObligation struct {
	UID          string       `json:"uid"`
	ReviewDate   time.Time    `json:"review_date"`
	Topic        string       `json:"topic"`
	QuestionZH   string       `json:"question_zh"`
	QuestionEN   string       `json:"question_en"`
	MasteryLevel MasteryLevel `json:"mastery_level"`
	IntervalDays int          `json:"interval_days"`
	Completed    bool         `json:"completed"`
}

// Statistics is a rollup over all session events. It is a cache: always safe
// to discard and recompute from LearningSessions.
type Statistics struct {
	TotalQuestions int          `json:"total_questions"`
	CorrectAnswers int          `json:"correct_answers"`
	AverageScore   float64      `json:"average_score"`
	WeakTopics     []*WeakTopic `json:"weak_topics"`
}

// WeakTopic is a topic whose mean score sits below the acceptable threshold.
type WeakTopic struct {
	Topic        string  `json:"topic"`
	AverageScore float64 `json:"average_score"`
	Attempts     int     `json:"attempts"`
}

// NewLearningRecords returns an empty history for first use.
func NewLearningRecords(studentName string, now time.Time) *LearningRecords {
	return &LearningRecords{
		StudentName:      studentName,
		CreatedAt:        now,
		LearningSessions: []*SessionEvent{},
		ReviewSchedule:   []*ReviewObligation{},
		Statistics: &Statistics{
			WeakTopics: []*WeakTopic{},
		},
	}
}
