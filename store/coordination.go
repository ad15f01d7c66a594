package store

import (
	"time"
)

// CoordinationMode is the single active mode of the session coordinator.
// The four modes are mutually exclusive.
type CoordinationMode string

const (
	ModeIdle           CoordinationMode = "idle"
	ModeActiveLearning CoordinationMode = "active_learning"
	ModeReviewing      CoordinationMode = "reviewing"
	ModeAutoTeaching   CoordinationMode = "auto_teaching"
)

// CoordinationState is the shared gate record deciding which producer may
// act. Field names mirror the on-disk document and must not change.
type CoordinationState struct {
	CurrentState       CoordinationMode `json:"current_state"`
	LearningInProgress bool             `json:"learning_in_progress"`
	ActiveTopics       []string         `json:"active_topics"`
	LastActivity       *time.Time       `json:"last_activity"`
	SuppressUntil      *time.Time       `json:"suppress_until"`
	UserPreference     UserPreference   `json:"user_preference"`
	Metadata           ProducerActivity `json:"metadata"`
}

// UserPreference holds the learner's manual pause switches.
type UserPreference struct {
	PauseAutoLearning bool `json:"pause_auto_learning"`
	PauseAutoReview   bool `json:"pause_auto_review"`
}

// ProducerActivity records when each producer last ran.
type ProducerActivity struct {
	LastMainConversation *time.Time `json:"last_main_conversation"`
	LastAnkiReview       *time.Time `json:"last_anki_review"`
	LastAutoTeaching     *time.Time `json:"last_auto_teaching"`
}

// NewCoordinationState returns the idle default state for first use.
func NewCoordinationState() *CoordinationState {
	return &CoordinationState{
		CurrentState: ModeIdle,
		ActiveTopics: []string{},
	}
}
