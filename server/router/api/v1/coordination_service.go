package v1

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type coordinationStatusResponse struct {
	CurrentState       string     `json:"current_state"`
	LearningInProgress bool       `json:"learning_in_progress"`
	ActiveTopics       []string   `json:"active_topics"`
	LastActivity       *time.Time `json:"last_activity"`
	SuppressUntil      *time.Time `json:"suppress_until"`
	PauseAutoLearning  bool       `json:"pause_auto_learning"`
	PauseAutoReview    bool       `json:"pause_auto_review"`
	CanReview          bool       `json:"can_review"`
	CanReviewReason    string     `json:"can_review_reason"`
	CanTeach           bool       `json:"can_teach"`
	CanTeachReason     string     `json:"can_teach_reason"`
}

// CoordinationStatus handles GET /api/v1/coordination/status.
func (s *APIV1Service) CoordinationStatus(c echo.Context) error {
	ctx := c.Request().Context()

	state, err := s.Coordinator.Status(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	canReview, reviewReason, err := s.Coordinator.CanReview(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	canTeach, teachReason, err := s.Coordinator.CanTeach(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, &coordinationStatusResponse{
		CurrentState:       string(state.CurrentState),
		LearningInProgress: state.LearningInProgress,
		ActiveTopics:       state.ActiveTopics,
		LastActivity:       state.LastActivity,
		SuppressUntil:      state.SuppressUntil,
		PauseAutoLearning:  state.UserPreference.PauseAutoLearning,
		PauseAutoReview:    state.UserPreference.PauseAutoReview,
		CanReview:          canReview,
		CanReviewReason:    reviewReason,
		CanTeach:           canTeach,
		CanTeachReason:     teachReason,
	})
}

type startLearningRequest struct {
	Topics []string `json:"topics"`
}

// StartActiveLearning handles POST /api/v1/coordination/learning/start.
func (s *APIV1Service) StartActiveLearning(c echo.Context) error {
	req := &startLearningRequest{}
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body").SetInternal(err)
	}
	if err := s.Coordinator.StartActiveLearning(c.Request().Context(), req.Topics); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusOK)
}

// EndActiveLearning handles POST /api/v1/coordination/learning/end.
func (s *APIV1Service) EndActiveLearning(c echo.Context) error {
	if err := s.Coordinator.EndActiveLearning(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusOK)
}

// UpdateActivity handles POST /api/v1/coordination/activity.
func (s *APIV1Service) UpdateActivity(c echo.Context) error {
	if err := s.Coordinator.UpdateActivity(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusOK)
}

// StartReview handles POST /api/v1/coordination/review/start. The review
// producer is expected to consult the status gate first.
func (s *APIV1Service) StartReview(c echo.Context) error {
	ctx := c.Request().Context()

	allowed, reason, err := s.Coordinator.CanReview(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !allowed {
		return echo.NewHTTPError(http.StatusConflict, reason)
	}
	if err := s.Coordinator.StartReview(ctx); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusOK)
}

// EndReview handles POST /api/v1/coordination/review/end.
func (s *APIV1Service) EndReview(c echo.Context) error {
	if err := s.Coordinator.EndReview(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusOK)
}

type startTeachingRequest struct {
	Topic string `json:"topic"`
}

// StartTeaching handles POST /api/v1/coordination/teaching/start.
func (s *APIV1Service) StartTeaching(c echo.Context) error {
	ctx := c.Request().Context()

	req := &startTeachingRequest{}
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body").SetInternal(err)
	}

	allowed, reason, err := s.Coordinator.CanTeach(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !allowed {
		return echo.NewHTTPError(http.StatusConflict, reason)
	}
	if err := s.Coordinator.StartTeaching(ctx, req.Topic); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusOK)
}

// EndTeaching handles POST /api/v1/coordination/teaching/end.
func (s *APIV1Service) EndTeaching(c echo.Context) error {
	if err := s.Coordinator.EndTeaching(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusOK)
}

type pauseRequest struct {
	// DurationHours pauses for a fixed window; omit for an indefinite pause.
	DurationHours *int `json:"duration_hours"`
}

func (r *pauseRequest) duration() *time.Duration {
	if r.DurationHours == nil {
		return nil
	}
	d := time.Duration(*r.DurationHours) * time.Hour
	return &d
}

// PauseReview handles POST /api/v1/coordination/review/pause.
func (s *APIV1Service) PauseReview(c echo.Context) error {
	req := &pauseRequest{}
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body").SetInternal(err)
	}
	if err := s.Coordinator.PauseReview(c.Request().Context(), req.duration()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusOK)
}

// ResumeReview handles POST /api/v1/coordination/review/resume.
func (s *APIV1Service) ResumeReview(c echo.Context) error {
	if err := s.Coordinator.ResumeReview(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusOK)
}

// PauseTeaching handles POST /api/v1/coordination/teaching/pause.
func (s *APIV1Service) PauseTeaching(c echo.Context) error {
	req := &pauseRequest{}
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body").SetInternal(err)
	}
	if err := s.Coordinator.PauseTeaching(c.Request().Context(), req.duration()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusOK)
}

// ResumeTeaching handles POST /api/v1/coordination/teaching/resume.
func (s *APIV1Service) ResumeTeaching(c echo.Context) error {
	if err := s.Coordinator.ResumeTeaching(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusOK)
}
