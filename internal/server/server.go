package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"instalytics/pkg/analytics"
	"instalytics/pkg/config"
	errs "instalytics/pkg/errors"
	"instalytics/pkg/logger"
	"instalytics/pkg/pipeline"
	"instalytics/pkg/storage"
)

// Server exposes the analysis pipeline over HTTP
type Server struct {
	engine *gin.Engine
	svc    *pipeline.Service
	store  storage.Store
	cfg    *config.Config
	logger logger.Logger
	http   *http.Server
}

// RefreshRequest names the owner whose snapshot to update and the account
// refs to refresh into it
type RefreshRequest struct {
	Owner       string   `json:"owner" binding:"required"`
	AccountRefs []string `json:"accountRefs" binding:"required,min=1"`
}

// RefreshResponse reports the outcome of a multi-account refresh
type RefreshResponse struct {
	Success      bool                       `json:"success"`
	Requested    int                        `json:"requested"`
	SuccessCount int                        `json:"successCount"`
	Snapshot     *analytics.AccountSnapshot `json:"snapshot"`
}

// New creates a Server with all routes registered
func New(cfg *config.Config, svc *pipeline.Service, store storage.Store, log logger.Logger) *Server {
	if log == nil {
		log = logger.GetLogger()
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		engine: engine,
		svc:    svc,
		store:  store,
		cfg:    cfg,
		logger: log,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.engine.GET("/health", s.handleHealth)

	api := s.engine.Group("/api/v1")
	api.POST("/analytics", s.handleAnalyze)
	api.POST("/analytics/refresh", s.handleRefresh)
	api.GET("/accounts/:owner", s.handleGetAccounts)
}

// Run starts the HTTP server and blocks until ctx is cancelled or the
// listener fails.
func (s *Server) Run(ctx context.Context) error {
	s.http = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Server.Port),
		Handler:      s.engine,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.InfoWithFields("HTTP server listening", map[string]interface{}{
			"addr": s.http.Addr,
		})
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) handleAnalyze(c *gin.Context) {
	var req pipeline.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request: " + err.Error()})
		return
	}

	result := s.svc.Analyze(c.Request.Context(), req)
	if !result.Success {
		c.JSON(statusForError(result.Err), result)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleRefresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request: " + err.Error()})
		return
	}

	ctx := c.Request.Context()
	fresh, successCount := s.svc.RefreshAll(ctx, req.AccountRefs)

	if successCount == 0 {
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error":   "no accounts could be refreshed",
		})
		return
	}

	prior, err := s.store.LoadSnapshot(ctx, req.Owner)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	snapshot := &analytics.AccountSnapshot{
		Owner:     req.Owner,
		Accounts:  analytics.MergeAnalytics(prior.Accounts, fresh),
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.store.SaveSnapshot(ctx, snapshot); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, RefreshResponse{
		Success:      true,
		Requested:    len(req.AccountRefs),
		SuccessCount: successCount,
		Snapshot:     snapshot,
	})
}

func (s *Server) handleGetAccounts(c *gin.Context) {
	owner := c.Param("owner")

	snapshot, err := s.store.LoadSnapshot(c.Request.Context(), owner)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "snapshot": snapshot})
}

// statusForError maps the pipeline's error taxonomy onto HTTP statuses
func statusForError(err *errs.Error) int {
	if err == nil {
		return http.StatusInternalServerError
	}
	switch err.Type {
	case errs.ErrorTypeResolution:
		return http.StatusBadRequest
	case errs.ErrorTypeNoData, errs.ErrorTypeNotFound:
		return http.StatusNotFound
	case errs.ErrorTypeAuth:
		return http.StatusUnauthorized
	case errs.ErrorTypeRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusBadGateway
	}
}
