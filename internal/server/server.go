// Package server serves the portfolio page over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/portfolio/internal/portfolio"
	"github.com/spigell/portfolio/internal/render"
)

const (
	buildFailed     = "Portfolio is temporarily unavailable."
	requestIDHeader = "X-Request-ID"
)

// Builder produces the page for each request.
type Builder interface {
	Build(ctx context.Context) (*portfolio.Page, error)
}

type Config struct {
	Port   int
	Render render.Options
}

type Server struct {
	engine  *gin.Engine
	builder Builder
	config  Config
	logger  *zap.Logger
}

func New(cfg Config, builder Builder, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	tmpl, err := render.Templates()
	if err != nil {
		return nil, err
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), accessLog(logger))
	engine.SetHTMLTemplate(tmpl)

	s := &Server{
		engine:  engine,
		builder: builder,
		config:  cfg,
		logger:  logger,
	}

	engine.GET("/", s.page)
	engine.GET("/resume.json", s.resume)
	engine.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	return s, nil
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on the configured port until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	port := s.config.Port
	if port == 0 {
		port = 8080
	}

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(port),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", srv.Addr))
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdown)
	}
}

func (s *Server) build(c *gin.Context) (*portfolio.Page, bool) {
	page, err := s.builder.Build(c.Request.Context())
	if err != nil {
		s.logger.Error("building page", zap.Error(err))
		c.String(http.StatusBadGateway, buildFailed)
		return nil, false
	}
	return page, true
}

func (s *Server) page(c *gin.Context) {
	page, ok := s.build(c)
	if !ok {
		return
	}
	c.HTML(http.StatusOK, render.PageTemplate, render.NewView(page, s.config.Render))
}

func (s *Server) resume(c *gin.Context) {
	page, ok := s.build(c)
	if !ok {
		return
	}

	if page.Resume == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": page.ResumeError})
		return
	}
	c.JSON(http.StatusOK, page.Resume)
}

// accessLog tags every request with an id and logs it when done.
func accessLog(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)

		c.Next()

		logger.Debug("request",
			zap.String("request_id", id),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)),
		)
	}
}
