package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/campuspulse/internal/domain"
	pulseerrors "github.com/pscheid92/campuspulse/internal/errors"
)

const (
	defaultFeedbackTake = 12
	maxFeedbackTake     = 50
)

// CreateSessionRequest is the POST /api/sessions payload.
type CreateSessionRequest struct {
	Title   string     `json:"title"`
	Speaker string     `json:"speaker"`
	StartAt *time.Time `json:"startAt"`
}

// CreateFeedbackRequest is the POST /api/feedback payload.
type CreateFeedbackRequest struct {
	SessionCode string `json:"sessionCode"`
	Rating      int    `json:"rating"`
	Comment     string `json:"comment"`
}

func (s *Server) handleListSessions(c echo.Context) error {
	return c.JSON(http.StatusOK, s.repository.ListSessions())
}

func (s *Server) handleGetSession(c echo.Context) error {
	session, err := s.repository.GetSession(c.Param("code"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, session)
}

func (s *Server) handleCreateSession(c echo.Context) error {
	var req CreateSessionRequest
	if err := c.Bind(&req); err != nil {
		return pulseerrors.ValidationError("invalid request body")
	}

	session, err := s.repository.CreateSession(req.Title, req.Speaker, req.StartAt)
	if err != nil {
		return err
	}

	c.Response().Header().Set("Location", fmt.Sprintf("/api/sessions/%s", session.Code))
	return c.JSON(http.StatusCreated, session)
}

func (s *Server) handleGetSummary(c echo.Context) error {
	summary, err := s.repository.GetSummary(c.Param("code"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}

func (s *Server) handleListSummaries(c echo.Context) error {
	return c.JSON(http.StatusOK, s.repository.ListSummaries())
}

func (s *Server) handleListFeedback(c echo.Context) error {
	code := c.Param("code")
	if _, err := s.repository.GetSession(code); err != nil {
		return err
	}

	take := defaultFeedbackTake
	if raw := c.QueryParam("take"); raw != "" {
		if _, err := fmt.Sscanf(raw, "%d", &take); err != nil {
			return pulseerrors.ValidationError("take must be an integer")
		}
	}
	if take < 1 {
		take = 1
	}
	if take > maxFeedbackTake {
		take = maxFeedbackTake
	}

	return c.JSON(http.StatusOK, s.repository.ListFeedback(code, take))
}

func (s *Server) handleCreateFeedback(c echo.Context) error {
	var req CreateFeedbackRequest
	if err := c.Bind(&req); err != nil {
		return pulseerrors.ValidationError("invalid request body")
	}
	if req.SessionCode == "" {
		return pulseerrors.ValidationError("session code is required")
	}
	if req.Rating < 1 || req.Rating > 5 {
		return pulseerrors.ValidationError("rating must be between 1 and 5")
	}

	feedback, err := s.repository.AddFeedback(req.SessionCode, req.Rating, req.Comment)
	if err != nil {
		return err
	}

	// Hand the fresh summary and the new record to every live viewer.
	if summary, err := s.repository.GetSummary(feedback.SessionCode); err == nil {
		s.broadcaster.Publish(domain.PulseUpdate{Feedback: feedback, Summary: summary})
	}

	c.Response().Header().Set("Location", fmt.Sprintf("/api/sessions/%s/feedback/%s", feedback.SessionCode, feedback.ID))
	return c.JSON(http.StatusCreated, feedback)
}
