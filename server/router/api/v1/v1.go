// Package v1 exposes the studypal REST API over echo.
package v1

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/studypal/internal/profile"
	"github.com/hrygo/studypal/server/middleware"
	"github.com/hrygo/studypal/server/service/coordination"
	"github.com/hrygo/studypal/server/service/knowledge"
	"github.com/hrygo/studypal/server/service/learning"
	"github.com/hrygo/studypal/store"
)

type APIV1Service struct {
	Profile *profile.Profile
	Store   *store.Store

	KnowledgeService *knowledge.Service
	LearningService  *learning.Service
	Coordinator      *coordination.Manager

	rateLimiter *middleware.RateLimiter
}

func NewAPIV1Service(profile *profile.Profile, st *store.Store) *APIV1Service {
	return &APIV1Service{
		Profile:          profile,
		Store:            st,
		KnowledgeService: knowledge.NewServiceWithThreshold(st, profile.SimilarityThreshold),
		LearningService:  learning.NewService(st, profile.Student),
		Coordinator:      coordination.NewManagerWithTimeout(st, idleTimeout(profile)),
		rateLimiter:      middleware.NewRateLimiter(),
	}
}

// Register mounts all v1 routes on the given echo instance.
func (s *APIV1Service) Register(e *echo.Echo) {
	g := e.Group("/api/v1", s.rateLimiter.Middleware())

	// Knowledge base
	g.POST("/questions", s.AddQuestion)
	g.GET("/questions/search", s.SearchQuestions)
	g.GET("/topics", s.ListTopics)
	g.GET("/topics/:topic/questions", s.TopicQuestions)

	// Learning records
	g.POST("/sessions", s.RecordSession)
	g.GET("/sessions", s.ListSessions)
	g.GET("/reviews/pending", s.PendingReviews)
	g.POST("/reviews/complete", s.CompleteReview)
	g.GET("/statistics", s.GetStatistics)

	// Coordination
	g.GET("/coordination/status", s.CoordinationStatus)
	g.POST("/coordination/learning/start", s.StartActiveLearning)
	g.POST("/coordination/learning/end", s.EndActiveLearning)
	g.POST("/coordination/activity", s.UpdateActivity)
	g.POST("/coordination/review/start", s.StartReview)
	g.POST("/coordination/review/end", s.EndReview)
	g.POST("/coordination/review/pause", s.PauseReview)
	g.POST("/coordination/review/resume", s.ResumeReview)
	g.POST("/coordination/teaching/start", s.StartTeaching)
	g.POST("/coordination/teaching/end", s.EndTeaching)
	g.POST("/coordination/teaching/pause", s.PauseTeaching)
	g.POST("/coordination/teaching/resume", s.ResumeTeaching)
}

func idleTimeout(p *profile.Profile) time.Duration {
	return time.Duration(p.IdleTimeoutMinutes) * time.Minute
}
