package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/thanhnp/minima-wallet-api/internal/api"
	"github.com/thanhnp/minima-wallet-api/internal/config"
	"github.com/thanhnp/minima-wallet-api/internal/metrics"
	"github.com/thanhnp/minima-wallet-api/internal/rpc"
	"github.com/thanhnp/minima-wallet-api/internal/storage"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		log.Fatalf("Invalid log level %q: %v", cfg.Log.Level, err)
	}
	log.SetLevel(level)

	log.Info("Starting Minima wallet API server...")

	m := metrics.New()

	// Label store
	var labels storage.LabelStore
	var pebbleDB *storage.PebbleDB
	switch cfg.Labels.Backend {
	case config.LabelsBackendPebble:
		log.Infof("Opening label database at %s", cfg.Labels.PebblePath)
		pebbleDB, err = storage.NewPebbleDB(cfg.Labels.PebblePath)
		if err != nil {
			log.Fatalf("Failed to open label database: %v", err)
		}
		labels = storage.NewPebbleLabelStore(pebbleDB)
	default:
		log.Infof("Using label file %s", cfg.Labels.Path)
		labels = storage.NewFileLabelStore(cfg.Labels.Path)
	}

	// Node command client
	node := rpc.NewClient(cfg.Node, m)
	log.Infof("Managing token %s through node %s", cfg.Node.TokenID, cfg.Node.URL)

	checkCtx, checkCancel := context.WithTimeout(context.Background(), cfg.Node.CommandTimeout())
	if nodeVer, err := node.CheckNodeVersion(checkCtx); err != nil {
		log.Warnf("Node check failed, serving anyway: %v", err)
	} else {
		log.Infof("Connected to Minima node, version: %s", nodeVer)
	}
	checkCancel()

	router := api.NewRouter(node, labels, cfg.Node, m)

	// Create HTTP server. Writes must outlast the node command timeout.
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router.Engine(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.Node.CommandTimeout() + 15*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start HTTP server in goroutine
	go func() {
		log.Infof("HTTP server listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down...")

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("HTTP server shutdown error: %v", err)
	}

	if pebbleDB != nil {
		if err := pebbleDB.Close(); err != nil {
			log.Errorf("Error closing label database: %v", err)
		}
	}

	log.Info("Server stopped")
}
