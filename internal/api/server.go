package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"TankSentinel/internal/coordinator"
	"TankSentinel/internal/model"
	"TankSentinel/internal/recorder"
	"TankSentinel/internal/sensor"
)

// Server bundles router and dependencies for the REST API.
type Server struct {
	addr     string
	coord    *coordinator.Coordinator
	registry *sensor.Registry
	recorder recorder.Recorder
	logger   *zap.Logger
	engine   *gin.Engine
}

// Options configures the HTTP surface.
type Options struct {
	Addr  string
	Token string // bearer token; empty disables auth
}

// New constructs a server with routes and middleware.
func New(opts Options, coord *coordinator.Coordinator, registry *sensor.Registry, rec recorder.Recorder, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(logger.Named("http")))

	if opts.Token != "" {
		engine.Use(bearerAuthMiddleware(opts.Token))
	}

	server := &Server{
		addr:     opts.Addr,
		coord:    coord,
		registry: registry,
		recorder: rec,
		logger:   logger.Named("api"),
		engine:   engine,
	}
	server.registerRoutes()
	return server
}

// Engine exposes the underlying gin engine (for tests).
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run starts the HTTP server and blocks until shutdown.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	s.logger.Info("http server listening", zap.String("addr", s.addr))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	s.engine.GET("/sensors", s.handleListSensors)
	s.engine.GET("/sensors/:unique_id", s.handleGetSensor)
	s.engine.GET("/status", s.handleStatus)
	s.engine.GET("/refreshes", s.handleRefreshLog)
	s.engine.POST("/refresh", s.handleRefresh)
}

func (s *Server) handleListSensors(c *gin.Context) {
	states := s.registry.States()
	c.JSON(http.StatusOK, gin.H{"count": len(states), "sensors": states})
}

func (s *Server) handleGetSensor(c *gin.Context) {
	id := c.Param("unique_id")
	sn, ok := s.registry.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "sensor not found"})
		return
	}
	c.JSON(http.StatusOK, sn.State())
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.coord.Status())
}

func (s *Server) handleRefreshLog(c *gin.Context) {
	limit := 20
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 || parsed > 500 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}
	events, err := s.recorder.RecentRefreshes(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if events == nil {
		events = []recorder.RefreshEvent{}
	}
	c.JSON(http.StatusOK, gin.H{"count": len(events), "refreshes": events})
}

func (s *Server) handleRefresh(c *gin.Context) {
	// A client hanging up must not abandon the cycle; only coordinator shutdown does.
	err := s.coord.Refresh(context.WithoutCancel(c.Request.Context()), model.TriggerManual)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"status": s.coord.Status(), "sensors": s.registry.States()})
	case errors.Is(err, coordinator.ErrRefreshInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, coordinator.ErrClosed):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	}
}

func bearerAuthMiddleware(expected string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/healthz" {
			c.Next()
			return
		}
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		if token != expected {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}
