// Package devserver assembles a local stand-in of the storefront backend:
// the REST API over Fiber with GORM persistence, image uploads and invoice
// documents served from disk.
package devserver

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/handlers"
	"storefront/internal/store"
)

// filesPrefix is where uploaded files are served.
const filesPrefix = "/files"

// Server is a configured backend ready to listen.
type Server struct {
	App   *fiber.App
	Store *store.Store

	addr   string
	logger *zap.Logger
}

// Options configure New.
type Options struct {
	DevServer config.DevServer
	Paths     config.Paths
	Logger    *zap.Logger
	// AccessLog enables Fiber's request logger.
	AccessLog bool
}

// New opens the database, migrates it and registers every route.
func New(opts Options) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := store.Open(opts.DevServer.Driver, opts.DevServer.DSN)
	if err != nil {
		return nil, err
	}
	s, err := store.New(db)
	if err != nil {
		return nil, err
	}

	publicURL := strings.TrimRight(opts.DevServer.PublicURL, "/") + filesPrefix
	uploads, err := handlers.NewUploads(opts.DevServer.UploadDir, publicURL)
	if err != nil {
		s.Close()
		return nil, err
	}

	app := fiber.New(fiber.Config{
		AppName:               "storefront-devserver",
		DisableStartupMessage: true,
		UnescapePath:          true,
		BodyLimit:             8 << 20,
	})
	app.Use(recover.New())
	if opts.AccessLog {
		app.Use(fiberlogger.New())
	}

	paths := withDefaultPaths(opts.Paths)
	handlers.NewProductHandler(s, uploads, logger).RegisterRoutes(app.Group(paths.Product))
	handlers.NewServiceHandler(s, logger).RegisterRoutes(app.Group(paths.Service))
	handlers.NewClientHandler(s, logger).RegisterRoutes(app.Group(paths.Client))
	handlers.NewOrderHandler(s, logger).RegisterRoutes(app.Group(paths.Order))
	handlers.NewInvoiceHandler(s, uploads, logger).RegisterRoutes(app.Group(paths.Invoice))
	app.Static(filesPrefix, uploads.Dir())

	app.Get("/health", func(c *fiber.Ctx) error {
		status, code := "healthy", fiber.StatusOK
		if err := s.Ping(c.UserContext()); err != nil {
			status, code = "unhealthy", fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	return &Server{App: app, Store: s, addr: opts.DevServer.Addr, logger: logger}, nil
}

func withDefaultPaths(p config.Paths) config.Paths {
	if p.Product == "" {
		p.Product = "/product"
	}
	if p.Service == "" {
		p.Service = "/service"
	}
	if p.Client == "" {
		p.Client = "/user/client"
	}
	if p.Order == "" {
		p.Order = "/order"
	}
	if p.Invoice == "" {
		p.Invoice = "/invoice/generate"
	}
	return p
}

// Run listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("devserver listening", zap.String("addr", s.addr))
		errCh <- s.App.Listen(s.addr)
	}()

	select {
	case err := <-errCh:
		s.Close()
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down devserver")
	if err := s.App.ShutdownWithTimeout(10 * time.Second); err != nil {
		s.logger.Error("error during shutdown", zap.Error(err))
	}
	return s.Close()
}

// Close releases the database.
func (s *Server) Close() error {
	return s.Store.Close()
}

// Doer serves requests in-process through the Fiber app, without a socket.
// It satisfies httpapi.Doer.
func (s *Server) Doer() DoerFunc {
	return func(req *http.Request) (*http.Response, error) {
		return s.App.Test(req, -1)
	}
}

// DoerFunc adapts a function to httpapi.Doer.
type DoerFunc func(*http.Request) (*http.Response, error)

// Do calls f.
func (f DoerFunc) Do(req *http.Request) (*http.Response, error) {
	return f(req)
}
