package server

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/glyphpad/previewd/internal/config"
	"github.com/glyphpad/previewd/internal/logging"
	"github.com/glyphpad/previewd/internal/monitoring"
	"github.com/glyphpad/previewd/internal/preview"
	"github.com/glyphpad/previewd/internal/resolver"
	"github.com/glyphpad/previewd/internal/sandbox"
	"github.com/glyphpad/previewd/internal/terminal"
	"github.com/glyphpad/previewd/internal/ws"
	"go.uber.org/zap"
)

// Server wraps the HTTP server and its dependencies
type Server struct {
	router       *gin.Engine
	orchestrator *preview.Orchestrator
	logger       *logging.Logger
}

// New assembles the full service from configuration
func New(cfg *config.Config, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewDefault()
	}

	metrics := monitoring.New(nil)

	booter := &sandbox.LocalBooter{BaseDir: cfg.Sandbox.BaseDir, Logger: logger}
	sandboxes := sandbox.NewManager(booter, logger)
	term := terminal.New()

	opts := []preview.Option{
		preview.WithMetrics(metrics),
		preview.WithCommands(commandsFrom(cfg)),
	}
	if cfg.Resolver.Enabled {
		opts = append(opts, preview.WithResolver(resolver.New(resolver.Config{
			BaseURL: cfg.Resolver.BaseURL,
			Timeout: cfg.Resolver.Timeout,
			Logger:  logger,
		})))
	}
	orchestrator := preview.NewOrchestrator(sandboxes, term, logger, opts...)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())

	handlers := NewHandlers(orchestrator, logger)
	wsHandler := ws.NewHandler(orchestrator, metrics, logger)

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)

	// Preview lifecycle
	router.POST("/files", handlers.SyncFiles)
	router.GET("/status", handlers.GetStatus)
	router.POST("/restart", handlers.Restart)

	// Terminal stream
	router.GET("/stream", wsHandler.HandleConnection)

	// Observability
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return &Server{
		router:       router,
		orchestrator: orchestrator,
		logger:       logger,
	}
}

// Run starts the server; blocks until the listener fails
func (s *Server) Run(addr string) error {
	s.logger.Info("previewd listening", zap.String("addr", addr))
	return s.router.Run(addr)
}

// Handler exposes the router for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// commandsFrom splits the configured command strings into argv form
func commandsFrom(cfg *config.Config) preview.Commands {
	defaults := preview.DefaultCommands()
	cmds := preview.Commands{
		Install: splitCommand(cfg.Sandbox.InstallCommand, defaults.Install),
		Dev:     splitCommand(cfg.Sandbox.DevCommand, defaults.Dev),
		Shell:   splitCommand(cfg.Sandbox.ShellCommand, defaults.Shell),
	}
	return cmds
}

func splitCommand(s string, fallback []string) []string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return fallback
	}
	return fields
}
