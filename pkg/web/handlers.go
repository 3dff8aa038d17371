package web

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/teslashibe/go-linefollower/pkg/hub"
)

func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(s.Status())
}

func (s *Server) handleConfig(c *fiber.Ctx) error {
	if s.settings == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "no configuration loaded",
		})
	}
	return c.JSON(s.settings)
}

// handleGetLogs returns recent log entries, optionally only the last n.
func (s *Server) handleGetLogs(c *fiber.Ctx) error {
	return c.JSON(s.recentLogs(c.QueryInt("n", maxLogs)))
}

// handleTelemetryWS sends the latest cycle, then streams new ones.
func (s *Server) handleTelemetryWS(c *websocket.Conn) {
	var backlog []hub.Message
	s.statusMu.RLock()
	if s.last != nil {
		if data, err := json.Marshal(s.last); err == nil {
			backlog = append(backlog, hub.NewJSONMessage(data))
		}
	}
	s.statusMu.RUnlock()

	hub.NewClient(s.telemetryHub, c).Run(backlog...)
}

func (s *Server) handleCameraWS(c *websocket.Conn) {
	hub.NewClient(s.cameraHub, c).Run()
}

// handleLogsWS replays the log buffer, then streams new entries. The
// replay goes through the client's write loop, so a stalled reader never
// holds the buffer lock.
func (s *Server) handleLogsWS(c *websocket.Conn) {
	logs := s.recentLogs(maxLogs)
	backlog := make([]hub.Message, 0, len(logs))
	for _, entry := range logs {
		if data, err := json.Marshal(entry); err == nil {
			backlog = append(backlog, hub.NewJSONMessage(data))
		}
	}

	hub.NewClient(s.logHub, c).Run(backlog...)
}
