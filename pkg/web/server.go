// Package web serves the block bridge, the controller page API and the live
// motor log over HTTP.
package web

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/teslashibe/go-botblocks/internal/log"
	"github.com/teslashibe/go-botblocks/pkg/blocks"
	"github.com/teslashibe/go-botblocks/pkg/controller"
	"github.com/teslashibe/go-botblocks/pkg/hub"
)

// Server is the botblocks HTTP server
type Server struct {
	app  *fiber.App
	addr string

	registry *blocks.Registry
	page     *controller.Page
	motorLog *controller.MotorLog
	logger   *slog.Logger

	// Hubs for websocket broadcast
	motorHub *hub.Hub
	eventHub *hub.Hub

	newID func() string
}

// Option configures a Server.
type Option func(*Server)

// WithPage exposes a controller page under /api/controller.
func WithPage(p *controller.Page) Option {
	return func(s *Server) {
		s.page = p
	}
}

// WithMotorLog serves lines from l on /api/motors/log.
func WithMotorLog(l *controller.MotorLog) Option {
	return func(s *Server) {
		s.motorLog = l
	}
}

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// NewServer creates a server listening on addr (e.g. ":8090").
func NewServer(addr string, registry *blocks.Registry, opts ...Option) *Server {
	s := &Server{
		addr:     addr,
		registry: registry,
		newID:    func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.L()
	}
	if s.motorLog == nil {
		s.motorLog = controller.NewMotorLog(0)
	}
	s.logger = s.logger.With("component", "web")
	s.motorHub = hub.New("motors", s.logger)
	s.eventHub = hub.New("events", s.logger)

	app := fiber.New(fiber.Config{
		AppName:               "botblocks",
		DisableStartupMessage: true,
		UnescapePath:          true,
	})

	// CORS so editors served from elsewhere can reach the bridge
	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/extensions", s.handleListExtensions)
	api.Get("/extensions/:name", s.handleDescriptor)
	api.Get("/extensions/:name/status", s.handleStatus)
	api.Post("/extensions/:name/blocks/:opcode", s.handleInvoke)
	api.Get("/controller", s.handleListButtons)
	api.Post("/controller/:button", s.handlePress)
	api.Get("/motors/log", s.handleMotorLog)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/motors", websocket.New(s.handleMotorsWS))
	app.Get("/ws/events", websocket.New(s.handleEventsWS))

	s.app = app
	return s
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// MotorHub returns the hub motor status readings are broadcast on.
func (s *Server) MotorHub() *hub.Hub {
	return s.motorHub
}

// EventHub returns the hub block invocations are broadcast on.
func (s *Server) EventHub() *hub.Hub {
	return s.eventHub
}

// MotorLog returns the served motor log.
func (s *Server) MotorLog() *controller.MotorLog {
	return s.motorLog
}

// RunHubs runs the websocket hubs until ctx is done.
func (s *Server) RunHubs(ctx context.Context) {
	go s.motorHub.Run(ctx)
	go s.eventHub.Run(ctx)
}

// Start runs the hubs and serves until ctx is done, then shuts down.
func (s *Server) Start(ctx context.Context) error {
	s.RunHubs(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.addr)
		errCh <- s.app.Listen(s.addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		if err := s.app.ShutdownWithTimeout(5 * time.Second); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}
}

// Shutdown gracefully stops the web server
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
