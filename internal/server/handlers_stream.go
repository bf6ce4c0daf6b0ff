package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	wsWriteDeadline = 5 * time.Second
	wsPingInterval  = 30 * time.Second
	wsPongDeadline  = 60 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Dashboard may be served from another origin
	},
}

// handleStream serves the live update feed as server-sent events. The
// subscription lives until the client disconnects or the server shuts down.
func (s *Server) handleStream(c echo.Context) error {
	session, err := s.repository.GetSession(c.Param("code"))
	if err != nil {
		return err
	}

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set("Cache-Control", "no-cache")
	resp.Header().Set("Connection", "keep-alive")
	resp.WriteHeader(http.StatusOK)
	resp.Flush()

	sub := s.broadcaster.Subscribe(session.Code)
	defer s.broadcaster.Unsubscribe(sub)

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-sub.Updates():
			if !ok {
				return nil
			}
			payload, err := json.Marshal(update)
			if err != nil {
				slog.Error("Failed to marshal pulse update", "error", err)
				continue
			}
			if _, err := fmt.Fprintf(resp, "event: update\ndata: %s\n\n", payload); err != nil {
				return nil
			}
			resp.Flush()
		}
	}
}

// handleWebSocket serves the live update feed over a WebSocket connection.
func (s *Server) handleWebSocket(c echo.Context) error {
	session, err := s.repository.GetSession(c.Param("code"))
	if err != nil {
		return err
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return nil // Upgrade already wrote the error response
	}

	sub := s.broadcaster.Subscribe(session.Code)
	defer func() {
		s.broadcaster.Unsubscribe(sub)
		_ = conn.Close()
	}()

	// Reader loop detects client disconnects and keeps pong handling alive.
	done := make(chan struct{})
	_ = conn.SetReadDeadline(time.Now().Add(wsPongDeadline))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongDeadline))
	})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	pingTicker := time.NewTicker(wsPingInterval)
	defer pingTicker.Stop()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-done:
			return nil
		case <-pingTicker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteDeadline))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return nil
			}
		case update, ok := <-sub.Updates():
			if !ok {
				return nil
			}
			payload, err := json.Marshal(update)
			if err != nil {
				slog.Error("Failed to marshal pulse update", "error", err)
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteDeadline))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return nil
			}
		}
	}
}
