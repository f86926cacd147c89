// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/danielhkuo/peerscreen/cliparse"
	"github.com/danielhkuo/peerscreen/db"
	"github.com/danielhkuo/peerscreen/middleware"
	"github.com/danielhkuo/peerscreen/router"
	"github.com/danielhkuo/peerscreen/scoring"
	"github.com/danielhkuo/peerscreen/session"
	"github.com/danielhkuo/peerscreen/store"
	"github.com/danielhkuo/peerscreen/survey"
)

func main() {
	var err error

	if err := cliparse.LoadEnvFile(".env"); err != nil {
		slog.Error("Error loading .env", "error", err)
		os.Exit(1)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	model, err := loadSurvey(cfg)
	if err != nil {
		slog.Error("survey load failed", "error", err)
		os.Exit(1)
	}
	policy, err := scoring.Resolve(cfg.ScoringPolicy, model)
	if err != nil {
		slog.Error("scoring policy rejected", "survey", model.Name, "error", err)
		os.Exit(1)
	}
	cfg.ScoringPolicy = policy.Name()
	slog.Info("Survey ready", "survey", model.Name, "scale", model.Scale, "policy", cfg.ScoringPolicy,
		"questions", len(model.Questions()), "conditions", len(model.Conditions()))

	// Pick the store backend
	newStore := store.MemoryFactory()
	if cfg.StoreBackend != cliparse.BackendMemory {
		conn, err := openDatabase(cfg)
		if err != nil {
			slog.Error("database setup failed", "backend", cfg.StoreBackend, "error", err)
			os.Exit(1)
		}
		defer conn.Close()
		newStore = store.SQLFactory(conn)
		slog.Info("Database schema ready", "backend", cfg.StoreBackend)
	}

	registry := session.NewRegistry(cfg.SlugSalt, newStore)
	mux := router.NewRouter(registry, cfg, model)

	server := http.Server{
		Handler: middleware.CORS(cfg.CORSOrigins)(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctrlc
		server.Close()
	}()

	slog.Info("Listening", "port", cfg.Port, "store", cfg.StoreBackend, "policy", cfg.ScoringPolicy)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}

func loadSurvey(cfg cliparse.Config) (*survey.Model, error) {
	if cfg.SurveyFile != "" {
		return survey.Load(cfg.SurveyFile)
	}
	return survey.ByName(cfg.SurveyName)
}

func openDatabase(cfg cliparse.Config) (*sql.DB, error) {
	driver := db.DriverPostgres
	if cfg.StoreBackend == cliparse.BackendSQLite {
		driver = db.DriverSQLite
	}
	return db.Open(context.Background(), driver, cfg.DatabaseURL)
}
