// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the conversion flow over HTTP. GET /convert?url=
// answers with the markdown rendering as a file attachment.
package server

import (
	"context"
	"errors"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/pdiddy/url2md/internal/convert"
	"github.com/pdiddy/url2md/pkg/types"
)

const shutdownTimeout = 10 * time.Second

// Server serves conversions. Every request gets its own convert.Session.
type Server struct {
	app        *fiber.App
	addr       string
	fetcher    convert.Fetcher
	serviceURL string
	limiter    *rate.Limiter
	now        func() time.Time
	log        *zap.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithClock sets the time source for generated file names.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// WithLogger sets the logger. The default is zap.L().
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		s.log = l
	}
}

// New builds a Server for cfg that converts through f using serviceURL.
func New(cfg types.ServeConfig, f convert.Fetcher, serviceURL string, opts ...Option) *Server {
	s := &Server{
		addr:       cfg.Addr,
		fetcher:    f,
		serviceURL: serviceURL,
		now:        time.Now,
		log:        zap.L(),
	}
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	for _, opt := range opts {
		opt(s)
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "url2md",
		GETOnly:               true,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		DisableStartupMessage: true,
	})
	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	s.app.Get("/convert", s.handleConvert)
	return s
}

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App { return s.app }

// Run listens on the configured address until ctx is cancelled, then shuts
// the server down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return eris.Wrapf(err, "server: listen on %s", s.addr)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("listening", zap.String("addr", ln.Addr().String()))
		return eris.Wrap(s.app.Listener(ln), "server: serve")
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return eris.Wrap(s.app.ShutdownWithContext(shutdownCtx), "server: shutdown")
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// errorBody is the JSON shape of every non-2xx response.
type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) handleConvert(c *fiber.Ctx) error {
	if s.limiter != nil && !s.limiter.Allow() {
		return c.Status(fiber.StatusTooManyRequests).JSON(errorBody{Error: "Too many conversions, try again shortly"})
	}

	notes := &capturedNotes{}
	out := &attachment{}
	session := convert.New(s.fetcher, out, notes,
		convert.WithServiceURL(s.serviceURL),
		convert.WithClock(s.now),
		convert.WithLogger(s.log),
	)
	session.Open()
	session.SetText(strings.Clone(c.Query("url")))

	conv, err := session.Submit(c.UserContext())
	switch {
	case err == nil:
	case errors.Is(err, convert.ErrInvalidURL), errors.Is(err, convert.ErrEmptyInput):
		return c.Status(fiber.StatusBadRequest).JSON(errorBody{Error: convert.MsgInvalidURL})
	default:
		return c.Status(fiber.StatusBadGateway).JSON(errorBody{Error: notes.lastFailure(convert.MsgConversionFailed)})
	}

	c.Attachment(conv.Filename)
	c.Set(fiber.HeaderContentType, out.mimeType+"; charset=utf-8")
	c.Set("X-Notification", notes.lastSuccess())
	c.Set("X-Source-URL", conv.SourceURL)
	return c.Status(fiber.StatusOK).SendString(out.content)
}

// attachment captures the saved file so the handler can stream it back.
type attachment struct {
	filename, mimeType, content string
}

func (a *attachment) SaveTextFile(filename, mimeType, content string) error {
	a.filename, a.mimeType, a.content = filename, mimeType, content
	return nil
}

// capturedNotes keeps notifications for the response.
type capturedNotes struct {
	mu       sync.Mutex
	success  []string
	failures []string
}

func (n *capturedNotes) NotifySuccess(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.success = append(n.success, msg)
}

func (n *capturedNotes) NotifyFailure(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failures = append(n.failures, msg)
}

func (n *capturedNotes) lastSuccess() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.success) == 0 {
		return ""
	}
	return n.success[len(n.success)-1]
}

func (n *capturedNotes) lastFailure(fallback string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.failures) == 0 {
		return fallback
	}
	return n.failures[len(n.failures)-1]
}
