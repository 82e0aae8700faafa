package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/glyphpad/previewd/internal/config"
	"github.com/glyphpad/previewd/internal/logging"
	"github.com/glyphpad/previewd/internal/server"
	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadOrDefault()

	port := flag.String("port", cfg.Server.Port, "Server port")
	host := flag.String("host", cfg.Server.Host, "Server host")
	flag.Parse()

	var logger *logging.Logger
	if cfg.Logging.Development {
		logger = logging.NewDevelopment()
	} else {
		logger = logging.NewDefault()
	}
	defer logger.Sync()

	srv := server.New(cfg, logger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Run(*host + ":" + *port); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-sigChan:
		logger.Info("shutting down")
	case err := <-errChan:
		logger.Fatal("server error", zap.Error(err))
	}
}
