package v1

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/studypal/server/service/learning"
)

// RecordSession handles POST /api/v1/sessions. The coordination gate is
// consulted first: a denied gate refuses the write with 409 and the reason.
func (s *APIV1Service) RecordSession(c echo.Context) error {
	ctx := c.Request().Context()

	allowed, reason, err := s.Coordinator.CanReview(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !allowed {
		return echo.NewHTTPError(http.StatusConflict, reason)
	}

	req := &learning.RecordSessionRequest{}
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body").SetInternal(err)
	}

	event, err := s.LearningService.RecordSession(ctx, req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, event)
}

// ListSessions handles GET /api/v1/sessions.
func (s *APIV1Service) ListSessions(c echo.Context) error {
	sessions, err := s.LearningService.Sessions(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, sessions)
}

// PendingReviews handles GET /api/v1/reviews/pending?date=2006-01-02.
// Defaults to today when date is omitted.
func (s *APIV1Service) PendingReviews(c echo.Context) error {
	asOf := time.Now()
	if raw := c.QueryParam("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
		}
		asOf = parsed
	}

	reviews, err := s.LearningService.PendingReviews(c.Request().Context(), asOf)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, reviews)
}

type completeReviewRequest struct {
	QuestionZH string    `json:"question_zh"`
	ReviewDate time.Time `json:"review_date"`
}

// CompleteReview handles POST /api/v1/reviews/complete. A non-matching
// question/date pair is a no-op and still returns 200.
func (s *APIV1Service) CompleteReview(c echo.Context) error {
	req := &completeReviewRequest{}
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body").SetInternal(err)
	}

	if err := s.LearningService.MarkReviewCompleted(c.Request().Context(), req.QuestionZH, req.ReviewDate); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusOK)
}

// GetStatistics handles GET /api/v1/statistics.
func (s *APIV1Service) GetStatistics(c echo.Context) error {
	stats, err := s.LearningService.Statistics(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, stats)
}
