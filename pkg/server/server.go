// Package server exposes the rendered page and the language control over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nikogura/portfolio/pkg/metrics"
	"github.com/nikogura/portfolio/pkg/renderer"
	"github.com/nikogura/portfolio/pkg/site"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// LanguagePath is where the language selector form posts.
const LanguagePath = "/language"

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 10 * time.Second

// Options configures a Server.
type Options struct {
	Controller  *site.Controller
	Layout      *renderer.Layout
	Languages   []string
	Stylesheets []string
	AssetsDir   string
	Metrics     *metrics.Recorder
	Logger      *zap.Logger
}

// Server is the HTTP surface over a Controller.
type Server struct {
	controller  *site.Controller
	layout      *renderer.Layout
	languages   []string
	stylesheets []string
	log         *zap.Logger
	engine      *gin.Engine
}

type languageForm struct {
	Language string `form:"language" json:"language" binding:"required,max=35"`
}

// New builds the gin engine and its routes.
func New(opts Options) (s *Server, err error) {
	if opts.Controller == nil {
		err = errors.New("controller is required")
		return s, err
	}
	if opts.Layout == nil {
		err = errors.New("layout is required")
		return s, err
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	s = &Server{
		controller:  opts.Controller,
		layout:      opts.Layout,
		languages:   opts.Languages,
		stylesheets: opts.Stylesheets,
		log:         log,
		engine:      gin.New(),
	}

	s.engine.Use(recovery(log), requestLogger(log))
	if opts.Metrics != nil {
		s.engine.Use(opts.Metrics.Middleware())
		s.engine.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	s.engine.GET("/", securityHeaders(), s.page)
	s.engine.GET(LanguagePath, s.language)
	s.engine.POST(LanguagePath, s.setLanguage)
	s.engine.GET("/healthz", s.health)

	if opts.AssetsDir != "" {
		s.engine.Static("/assets", opts.AssetsDir)
	}

	return s, err
}

// Handler returns the underlying http.Handler.
func (s *Server) Handler() (h http.Handler) {
	h = s.engine
	return h
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) (err error) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		serveErr := srv.ListenAndServe()
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			errCh <- serveErr
		}
	}()

	s.log.Info("serving portfolio", zap.String("addr", addr))

	select {
	case err = <-errCh:
		if err != nil {
			err = errors.Wrapf(err, "failed to serve on %s", addr)
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	err = srv.Shutdown(shutdownCtx)
	if err != nil {
		err = errors.Wrap(err, "failed to shut down server")
		return err
	}

	<-errCh
	s.log.Info("server stopped")
	return err
}

func (s *Server) page(c *gin.Context) {
	view := renderer.NewView(s.controller.Page(), s.languages)
	view.Stylesheets = s.stylesheets
	view.LanguageAction = LanguagePath

	content, err := s.layout.Bytes(view)
	if err != nil {
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "failed to render page")
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", content)
}

func (s *Server) language(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"language": s.controller.Language()})
}

// setLanguage runs a full language change. The cycle outlives the request so a
// disconnecting client cannot leave the page half-switched.
func (s *Server) setLanguage(c *gin.Context) {
	var form languageForm
	err := c.ShouldBind(&form)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "language is required"})
		return
	}

	result := s.controller.SetLanguage(context.WithoutCancel(c.Request.Context()), form.Language)
	s.log.Debug("language change handled",
		zap.String("language", result.Language), zap.String("status", string(result.Status)))

	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"language": s.controller.Language(),
	})
}
