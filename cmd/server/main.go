package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/connection-matcher/backend/internal/api"
	"github.com/connection-matcher/backend/internal/config"
	"github.com/connection-matcher/backend/internal/engine"
	"github.com/connection-matcher/backend/internal/metrics"
	"github.com/connection-matcher/backend/internal/storage"
)

func main() {
	// Setup Logging
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	entry := logger.WithField("service", "matcher-api")

	entry.Info("Starting Connection Matcher API Service")

	// 1. Config
	cfg := config.Load()

	// 2. Dataset snapshot storage
	var store storage.DatasetStorage
	if cfg.Storage.EnableSnapshots {
		fileStore, err := storage.NewFileStorage(cfg.Storage.DataDir)
		if err != nil {
			entry.Fatalf("Failed to initialize storage: %v", err)
		}
		store = fileStore
	}

	// 3. Metrics
	m := metrics.New(prometheus.DefaultRegisterer)

	// 4. Engine
	eng := engine.NewEngine(cfg, entry, store, m)
	if err := eng.Restore(); err != nil {
		entry.WithError(err).Warn("Could not restore previous dataset")
	}

	// 5. API Server
	server := api.NewServer(eng, entry)

	entry.Infof("Connection Matcher API ready on port %s", cfg.Server.Port)
	if err := server.Start(":" + cfg.Server.Port); err != nil {
		entry.Fatal(err)
	}
}
