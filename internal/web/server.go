// Package web serves the browser UI: one server-rendered page per tool.
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/forms"
	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/structs"
)

// HealthChecker reports backend health for /healthz.
type HealthChecker interface {
	Health(ctx context.Context) (*structs.Health, error)
}

type Server struct {
	forms  *forms.Set
	health HealthChecker
	logger *slog.Logger
	engine *gin.Engine
}

func New(set *forms.Set, health HealthChecker, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	pages, err := loadPages()
	if err != nil {
		return nil, err
	}

	s := &Server{forms: set, health: health, logger: logger}

	g := gin.New()
	g.Use(requestLogger(logger), gin.Recovery())
	g.HTMLRender = pages
	s.attachRoutes(g)
	s.engine = g
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting web server", "addr", addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down web server")
	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutCtx)
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()
		logger.Info("HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(started),
			"client_ip", c.ClientIP())
	}
}

func (s *Server) attachRoutes(g *gin.Engine) {
	g.GET("/", s.home)
	g.GET("/healthz", s.healthz)

	for _, p := range pageDefs {
		g.GET("/"+p.Name, s.show(p))
	}
	g.POST("/fact-check", s.factCheck)
	g.POST("/batch", s.batch)
	g.POST("/image", s.image)
	g.POST("/video", s.video)
	g.POST("/url-safety", s.urlSafety)
	g.POST("/bias-radar", s.biasRadar)
	g.POST("/media-bias", s.mediaBias)
	g.POST("/neutral-news", s.neutralNews)
	g.POST("/social", s.social)
	g.POST("/search", s.search)
	g.POST("/history/clear", s.clearHistory)
}
