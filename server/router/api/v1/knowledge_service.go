package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/studypal/server/service/knowledge"
)

// AddQuestion handles POST /api/v1/questions. The response status mirrors
// the dedup outcome: 201 on ADDED, 409 on EXACT_DUPLICATE and SIMILAR_FOUND.
func (s *APIV1Service) AddQuestion(c echo.Context) error {
	req := &knowledge.AddQuestionRequest{}
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body").SetInternal(err)
	}

	result, err := s.KnowledgeService.AddQuestion(c.Request().Context(), req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	status := http.StatusCreated
	if result.Status != knowledge.StatusAdded {
		status = http.StatusConflict
	}
	return c.JSON(status, result)
}

// SearchQuestions handles GET /api/v1/questions/search?q=.
func (s *APIV1Service) SearchQuestions(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query parameter q required")
	}

	results, err := s.KnowledgeService.Search(c.Request().Context(), q)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, results)
}

// ListTopics handles GET /api/v1/topics.
func (s *APIV1Service) ListTopics(c echo.Context) error {
	topics, err := s.KnowledgeService.ListTopics(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, topics)
}

// TopicQuestions handles GET /api/v1/topics/:topic/questions. An unknown
// topic yields an empty list, not a 404.
func (s *APIV1Service) TopicQuestions(c echo.Context) error {
	questions, err := s.KnowledgeService.TopicQuestions(c.Request().Context(), c.Param("topic"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, questions)
}
