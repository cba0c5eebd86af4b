// Package api exposes suggestions and deadlines over HTTP.
package api

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/scadenziario/internal/common"
	"github.com/Veraticus/scadenziario/internal/model"
	"github.com/Veraticus/scadenziario/internal/service"
	"github.com/Veraticus/scadenziario/internal/storage"
	"github.com/gin-gonic/gin"
)

// Server serves the JSON API.
type Server struct {
	storage   service.Storage
	planner   *service.Planner
	router    *gin.Engine
	companies []string
}

// NewServer builds the router. companies lists the configured company codes;
// codes found in storage are served as well.
func NewServer(store service.Storage, planner *service.Planner, companies []string) *Server {
	s := &Server{
		storage:   store,
		planner:   planner,
		companies: companies,
		router:    gin.New(),
	}

	s.router.Use(gin.Recovery(), requestLogger(), cors())

	api := s.router.Group("/api")
	api.GET("/health", s.health)
	api.GET("/companies", s.listCompanies)
	api.GET("/suggestions", s.listSuggestions)
	api.GET("/scadenze", s.listDeadlines)
	api.POST("/scadenze", s.acceptSuggestion)
	api.PATCH("/scadenze/:id/status", s.updateDeadlineStatus)

	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is canceled, then shuts down gracefully.
// A non-nil tlsConfig serves HTTPS.
func (s *Server) Run(ctx context.Context, addr string, tlsConfig *tls.Config) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		TLSConfig:         tlsConfig,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("API server listening", "addr", addr, "tls", tlsConfig != nil)
		if tlsConfig != nil {
			errCh <- srv.ListenAndServeTLS("", "")
			return
		}
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down API server: %w", err)
		}
		return nil
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listCompanies(c *gin.Context) {
	companies, err := s.planner.Companies(c.Request.Context(), s.companies)
	if err != nil {
		respondError(c, err)
		return
	}
	if companies == nil {
		companies = []string{}
	}
	c.JSON(http.StatusOK, companies)
}

func (s *Server) listSuggestions(c *gin.Context) {
	ctx := c.Request.Context()

	companies, err := s.planner.Companies(ctx, s.companies)
	if err != nil {
		respondError(c, err)
		return
	}

	if company := strings.TrimSpace(c.Query("company")); company != "" {
		if !slices.Contains(companies, company) {
			respondError(c, fmt.Errorf("%w: %s", common.ErrUnknownCompany, company))
			return
		}
		companies = []string{company}
	}

	analyses, err := s.planner.AnalyzeCompanies(ctx, companies)
	if err != nil {
		respondError(c, err)
		return
	}
	if analyses == nil {
		analyses = []service.Analysis{}
	}
	c.JSON(http.StatusOK, analyses)
}

func (s *Server) listDeadlines(c *gin.Context) {
	filter := service.DeadlineFilter{Company: strings.TrimSpace(c.Query("company"))}

	if raw := c.Query("all"); raw != "" {
		all, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Parametro all non valido"})
			return
		}
		filter.IncludeCancelled = all
	}
	if raw := c.Query("status"); raw != "" {
		filter.Status = model.DeadlineStatus(raw)
	}

	deadlines, err := s.storage.GetDeadlines(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	if deadlines == nil {
		deadlines = []model.Deadline{}
	}
	c.JSON(http.StatusOK, deadlines)
}

func (s *Server) acceptSuggestion(c *gin.Context) {
	var suggestion model.DeadlineSuggestion
	if err := c.ShouldBindJSON(&suggestion); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Formato JSON non valido"})
		return
	}

	deadline, err := s.planner.Accept(c.Request.Context(), suggestion)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, deadline)
}

type statusRequest struct {
	Status model.DeadlineStatus `json:"status" binding:"required"`
}

func (s *Server) updateDeadlineStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Formato JSON non valido"})
		return
	}

	ctx := c.Request.Context()
	id := c.Param("id")

	if err := s.storage.UpdateDeadlineStatus(ctx, id, req.Status); err != nil {
		respondError(c, err)
		return
	}

	deadline, err := s.storage.GetDeadline(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, deadline)
}

func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, common.ErrNotFound), errors.Is(err, common.ErrUnknownCompany):
		status = http.StatusNotFound
	case errors.Is(err, common.ErrDuplicateEntry):
		status = http.StatusConflict
	case errors.Is(err, storage.ErrInvalidDeadline),
		errors.Is(err, storage.ErrInvalidStatus),
		errors.Is(err, storage.ErrEmptyString):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		common.LogError(err, "API request failed", common.Fields{"path": c.FullPath()})
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Debug("API request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
