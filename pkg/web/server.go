// Package web serves the line follower dashboard: REST status endpoints and
// websocket feeds for telemetry, camera frames and logs.
package web

import (
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"github.com/teslashibe/go-linefollower/pkg/follower"
	"github.com/teslashibe/go-linefollower/pkg/hub"
)

const maxLogs = 500

// Status is the dashboard summary returned by /api/status.
type Status struct {
	RunID     string          `json:"run_id"`
	StartedAt time.Time       `json:"started_at"`
	Uptime    string          `json:"uptime"`
	Cycles    uint64          `json:"cycles"`
	Actuated  uint64          `json:"actuated"`
	Lost      uint64          `json:"lost"`
	Last      *follower.Cycle `json:"last,omitempty"`
	Clients   map[string]int  `json:"clients"`
}

// LogEntry is a log line for the dashboard.
type LogEntry struct {
	Time    string `json:"time"`
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Server is the dashboard server. It implements follower.Publisher.
type Server struct {
	app      *fiber.App
	port     string
	settings any

	statusMu  sync.RWMutex
	startedAt time.Time
	last      *follower.Cycle
	cycles    uint64
	actuated  uint64
	lost      uint64

	logs   []LogEntry
	logsMu sync.RWMutex

	telemetryHub *hub.Hub
	cameraHub    *hub.Hub
	logHub       *hub.Hub
}

// NewServer creates a dashboard on port. settings is served as-is by
// /api/config.
func NewServer(port string, settings any) *Server {
	s := &Server{
		port:         port,
		settings:     settings,
		startedAt:    time.Now(),
		logs:         make([]LogEntry, 0, maxLogs),
		telemetryHub: hub.New("telemetry"),
		cameraHub:    hub.New("camera"),
		logHub:       hub.New("logs"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Line Follower Dashboard",
		DisableStartupMessage: true,
	})
	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/config", s.handleConfig)
	api.Get("/logs", s.handleGetLogs)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/telemetry", websocket.New(s.handleTelemetryWS))
	app.Get("/ws/camera", websocket.New(s.handleCameraWS))
	app.Get("/ws/logs", websocket.New(s.handleLogsWS))

	s.app = app
	return s
}

// App exposes the fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start runs the hubs and blocks serving HTTP.
func (s *Server) Start() error {
	fmt.Printf("🌐 Dashboard: http://localhost:%s\n", s.port)

	go s.telemetryHub.Run()
	go s.cameraHub.Run()
	go s.logHub.Run()

	return s.app.Listen(":" + s.port)
}

// StartAsync starts the server in a goroutine.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			fmt.Printf("⚠️  Dashboard error: %v\n", err)
		}
	}()
}

// Shutdown stops the hubs and the HTTP server.
func (s *Server) Shutdown() error {
	s.telemetryHub.Stop()
	s.cameraHub.Stop()
	s.logHub.Stop()
	return s.app.Shutdown()
}

// PublishCycle records a cycle and broadcasts it to telemetry clients.
func (s *Server) PublishCycle(c follower.Cycle) {
	s.statusMu.Lock()
	s.cycles++
	if c.Actuated {
		s.actuated++
	}
	if !c.HasTarget {
		s.lost++
	}
	s.last = &c
	s.statusMu.Unlock()

	s.telemetryHub.BroadcastJSON(c)
}

// PublishFrame broadcasts a JPEG frame to camera clients.
func (s *Server) PublishFrame(jpeg []byte) {
	s.cameraHub.BroadcastBinary(jpeg)
}

// AddLog appends a log entry and broadcasts it. It is called from the log
// sink on the control loop, so it only takes the buffer lock and never
// waits on a client.
func (s *Server) AddLog(level, message string) {
	entry := LogEntry{
		Time:    time.Now().Format("15:04:05"),
		Level:   level,
		Message: message,
	}

	s.logsMu.Lock()
	s.logs = append(s.logs, entry)
	if len(s.logs) > maxLogs {
		s.logs = s.logs[1:]
	}
	s.logsMu.Unlock()

	s.logHub.BroadcastJSON(entry)
}

// recentLogs copies the last n buffered entries; n < 0 means all.
func (s *Server) recentLogs(n int) []LogEntry {
	s.logsMu.RLock()
	defer s.logsMu.RUnlock()

	logs := s.logs
	if n >= 0 && n < len(logs) {
		logs = logs[len(logs)-n:]
	}
	out := make([]LogEntry, len(logs))
	copy(out, logs)
	return out
}

// Status returns the current dashboard summary.
func (s *Server) Status() Status {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()

	st := Status{
		StartedAt: s.startedAt,
		Uptime:    time.Since(s.startedAt).Round(time.Second).String(),
		Cycles:    s.cycles,
		Actuated:  s.actuated,
		Lost:      s.lost,
		Clients: map[string]int{
			"telemetry": s.telemetryHub.ClientCount(),
			"camera":    s.cameraHub.ClientCount(),
			"logs":      s.logHub.ClientCount(),
		},
	}
	if s.last != nil {
		last := *s.last
		st.Last = &last
		st.RunID = last.RunID
	}
	return st
}
