// ScribeStore HTTP Server
// Serves versioned writing documents with text, metadata and tag search
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nainya/scribestore/internal/config"
	"github.com/nainya/scribestore/internal/logger"
	"github.com/nainya/scribestore/internal/metrics"
	"github.com/nainya/scribestore/internal/server"
	"github.com/nainya/scribestore/pkg/search"
	"github.com/nainya/scribestore/pkg/store"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger.InitGlobalLogger(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
	})
	log := logger.GetGlobalLogger()
	log.LogServerStart(cfg.HTTPPort, cfg.DataDir)

	met := metrics.NewMetrics()

	fileStore, err := store.NewFileStore(cfg.DataDir)
	if err != nil {
		log.Fatal("Failed to open data directory").Err(err).Send()
	}

	apiServer, err := server.NewServer(server.Options{
		Store: fileStore,
		Search: search.Config{
			ContextSize: cfg.SearchContextSize,
			MaxResults:  cfg.SearchMaxResults,
		},
		Logger:      log,
		Metrics:     met,
		MaxVersions: cfg.MaxVersions,
	})
	if err != nil {
		log.Fatal("Failed to initialize server").Err(err).Send()
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      apiServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	obsServer := server.NewObservabilityServer(cfg.MetricsPort, log)
	go func() {
		if err := obsServer.Start(); err != nil {
			log.Error("Observability server stopped").Err(err).Send()
		}
	}()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.LogServerShutdown()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			log.Error("HTTP shutdown failed").Err(err).Send()
		}
		if err := obsServer.Shutdown(ctx); err != nil {
			log.Error("Observability shutdown failed").Err(err).Send()
		}
	}()

	log.LogServerReady(cfg.HTTPPort)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("Server failed").Err(err).Send()
	}
}
