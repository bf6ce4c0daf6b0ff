package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/campuspulse/internal/version"
)

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"time":   s.clock.Now().UTC(),
	})
}

func (s *Server) handleLiveness(c echo.Context) error {
	uptime := s.clock.Since(s.startTime).Seconds()
	return c.JSON(http.StatusOK, map[string]any{
		"status":  "ok",
		"uptime":  uptime,
		"version": version.Get(),
	})
}

// handleReadiness verifies the repository answers queries. With all state in
// process memory there is no external dependency to probe.
func (s *Server) handleReadiness(c echo.Context) error {
	_ = s.repository.ListSessions()
	return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
}
