package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability endpoints
	s.echo.GET("/api/health", s.handleHealth)
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Session API
	s.echo.GET("/api/sessions", s.handleListSessions)
	s.echo.POST("/api/sessions", s.handleCreateSession)
	s.echo.GET("/api/sessions/:code", s.handleGetSession)
	s.echo.GET("/api/sessions/:code/summary", s.handleGetSummary)
	s.echo.GET("/api/sessions/:code/feedback", s.handleListFeedback)
	s.echo.GET("/api/summaries", s.handleListSummaries)

	// Feedback submission (rate limited per client IP)
	s.echo.POST("/api/feedback", s.handleCreateFeedback,
		newRateLimiter(s.config.FeedbackRatePerSecond, s.config.FeedbackBurst))

	// Live update streams
	s.echo.GET("/api/sessions/:code/stream", s.handleStream)
	s.echo.GET("/ws/sessions/:code", s.handleWebSocket)
}
