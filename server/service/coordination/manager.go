// Package coordination arbitrates which producer may act on the learner at
// a given moment: the interactive session, the review assistant, or the
// auto-teaching companion. The interactive session always wins; the two
// automated producers yield to it and to each other.
package coordination

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hrygo/studypal/store"
)

// DefaultIdleTimeout is how long without learner activity before a stale
// active-learning session is auto-ended.
const DefaultIdleTimeout = 30 * time.Minute

// Manager owns the coordination state document and its guarded transitions.
type Manager struct {
	store       *store.Store
	idleTimeout time.Duration

	// now is replaceable in tests.
	now func() time.Time
}

// NewManager creates a coordination manager with the default idle timeout.
func NewManager(s *store.Store) *Manager {
	return NewManagerWithTimeout(s, DefaultIdleTimeout)
}

// NewManagerWithTimeout creates a coordination manager with a custom idle
// timeout.
func NewManagerWithTimeout(s *store.Store, idleTimeout time.Duration) *Manager {
	return &Manager{
		store:       s,
		idleTimeout: idleTimeout,
		now:         time.Now,
	}
}

// CanReview reports whether the review assistant may run now, with a
// human-readable reason either way.
func (m *Manager) CanReview(ctx context.Context) (bool, string, error) {
	state, err := m.loadState(ctx)
	if err != nil {
		return false, "", err
	}

	if state.UserPreference.PauseAutoReview {
		return false, "auto review paused by user", nil
	}
	if reason, suppressed := m.suppressed(state); suppressed {
		return false, reason, nil
	}
	switch state.CurrentState {
	case store.ModeActiveLearning:
		return false, "learner is in an active session", nil
	case store.ModeAutoTeaching:
		return false, "companion is teaching", nil
	}

	if _, err := m.checkIdleTimeout(ctx, state); err != nil {
		return false, "", err
	}
	return true, "review allowed", nil
}

// CanTeach reports whether the auto-teaching companion may run now, with a
// human-readable reason either way.
func (m *Manager) CanTeach(ctx context.Context) (bool, string, error) {
	state, err := m.loadState(ctx)
	if err != nil {
		return false, "", err
	}

	if state.UserPreference.PauseAutoLearning {
		return false, "auto teaching paused by user", nil
	}
	if reason, suppressed := m.suppressed(state); suppressed {
		return false, reason, nil
	}
	switch state.CurrentState {
	case store.ModeActiveLearning:
		return false, "learner is in an active session", nil
	case store.ModeReviewing:
		return false, "learner is reviewing", nil
	}

	if _, err := m.checkIdleTimeout(ctx, state); err != nil {
		return false, "", err
	}
	return true, "teaching allowed", nil
}

// StartActiveLearning records that the learner opened an interactive
// session on the given topics.
func (m *Manager) StartActiveLearning(ctx context.Context, topics []string) error {
	state, err := m.loadState(ctx)
	if err != nil {
		return err
	}

	now := m.now()
	state.CurrentState = store.ModeActiveLearning
	state.LearningInProgress = true
	state.ActiveTopics = topics
	state.LastActivity = &now
	state.Metadata.LastMainConversation = &now
	return m.saveState(ctx, state)
}

// EndActiveLearning returns the coordinator to idle after an interactive
// session.
func (m *Manager) EndActiveLearning(ctx context.Context) error {
	state, err := m.loadState(ctx)
	if err != nil {
		return err
	}
	return m.endActiveLearning(ctx, state)
}

func (m *Manager) endActiveLearning(ctx context.Context, state *store.CoordinationState) error {
	now := m.now()
	state.CurrentState = store.ModeIdle
	state.LearningInProgress = false
	state.ActiveTopics = []string{}
	state.LastActivity = &now
	return m.saveState(ctx, state)
}

// UpdateActivity refreshes the last-activity timestamp, keeping the idle
// timeout from firing while the learner is engaged.
func (m *Manager) UpdateActivity(ctx context.Context) error {
	state, err := m.loadState(ctx)
	if err != nil {
		return err
	}
	now := m.now()
	state.LastActivity = &now
	return m.saveState(ctx, state)
}

// StartReview marks the review assistant as the active producer.
func (m *Manager) StartReview(ctx context.Context) error {
	state, err := m.loadState(ctx)
	if err != nil {
		return err
	}
	now := m.now()
	state.CurrentState = store.ModeReviewing
	state.Metadata.LastAnkiReview = &now
	return m.saveState(ctx, state)
}

// EndReview returns the coordinator to idle after a review run.
func (m *Manager) EndReview(ctx context.Context) error {
	state, err := m.loadState(ctx)
	if err != nil {
		return err
	}
	state.CurrentState = store.ModeIdle
	return m.saveState(ctx, state)
}

// StartTeaching marks the auto-teaching companion as the active producer.
func (m *Manager) StartTeaching(ctx context.Context, topic string) error {
	state, err := m.loadState(ctx)
	if err != nil {
		return err
	}
	now := m.now()
	state.CurrentState = store.ModeAutoTeaching
	state.ActiveTopics = []string{topic}
	state.Metadata.LastAutoTeaching = &now
	return m.saveState(ctx, state)
}

// EndTeaching returns the coordinator to idle after a teaching run.
func (m *Manager) EndTeaching(ctx context.Context) error {
	state, err := m.loadState(ctx)
	if err != nil {
		return err
	}
	state.CurrentState = store.ModeIdle
	state.ActiveTopics = []string{}
	return m.saveState(ctx, state)
}

// PauseTeaching suspends the auto-teaching producer. A nil duration pauses
// indefinitely; otherwise both producers are suppressed until now+duration.
func (m *Manager) PauseTeaching(ctx context.Context, duration *time.Duration) error {
	state, err := m.loadState(ctx)
	if err != nil {
		return err
	}
	state.UserPreference.PauseAutoLearning = true
	m.applySuppression(state, duration)
	return m.saveState(ctx, state)
}

// ResumeTeaching lifts a teaching pause and clears any suppression window.
func (m *Manager) ResumeTeaching(ctx context.Context) error {
	state, err := m.loadState(ctx)
	if err != nil {
		return err
	}
	state.UserPreference.PauseAutoLearning = false
	state.SuppressUntil = nil
	return m.saveState(ctx, state)
}

// PauseReview suspends the review producer. A nil duration pauses
// indefinitely; otherwise both producers are suppressed until now+duration.
func (m *Manager) PauseReview(ctx context.Context, duration *time.Duration) error {
	state, err := m.loadState(ctx)
	if err != nil {
		return err
	}
	state.UserPreference.PauseAutoReview = true
	m.applySuppression(state, duration)
	return m.saveState(ctx, state)
}

// ResumeReview lifts a review pause and clears any suppression window.
func (m *Manager) ResumeReview(ctx context.Context) error {
	state, err := m.loadState(ctx)
	if err != nil {
		return err
	}
	state.UserPreference.PauseAutoReview = false
	state.SuppressUntil = nil
	return m.saveState(ctx, state)
}

// Status returns the current coordination state.
func (m *Manager) Status(ctx context.Context) (*store.CoordinationState, error) {
	return m.loadState(ctx)
}

func (m *Manager) applySuppression(state *store.CoordinationState, duration *time.Duration) {
	if duration == nil {
		return
	}
	until := m.now().Add(*duration)
	state.SuppressUntil = &until
}

func (m *Manager) suppressed(state *store.CoordinationState) (string, bool) {
	if state.SuppressUntil == nil {
		return "", false
	}
	if m.now().Before(*state.SuppressUntil) {
		return fmt.Sprintf("suppressed until %s", state.SuppressUntil.Format("15:04")), true
	}
	return "", false
}

// checkIdleTimeout auto-ends a stale active-learning session. Returns true
// when the learner has been inactive past the timeout (or never active).
func (m *Manager) checkIdleTimeout(ctx context.Context, state *store.CoordinationState) (bool, error) {
	if state.LastActivity == nil {
		return true, nil
	}
	if m.now().Sub(*state.LastActivity) <= m.idleTimeout {
		return false, nil
	}
	if state.LearningInProgress {
		slog.Info("idle timeout, ending stale learning session",
			slog.Time("last_activity", *state.LastActivity))
		if err := m.endActiveLearning(ctx, state); err != nil {
			return true, err
		}
	}
	return true, nil
}

func (m *Manager) loadState(ctx context.Context) (*store.CoordinationState, error) {
	state, err := m.store.LoadCoordinationState(ctx)
	if err != nil {
		return nil, fmt.Errorf("load coordination state: %w", err)
	}
	if state == nil {
		state = store.NewCoordinationState()
	}
	return state, nil
}

func (m *Manager) saveState(ctx context.Context, state *store.CoordinationState) error {
	if err := m.store.SaveCoordinationState(ctx, state); err != nil {
		return fmt.Errorf("save coordination state: %w", err)
	}
	return nil
}
