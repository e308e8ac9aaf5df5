package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/tgienger/projexis/internal/api"
	"github.com/tgienger/projexis/internal/config"
	"github.com/tgienger/projexis/internal/db"
	"github.com/tgienger/projexis/internal/logger"
	"github.com/tgienger/projexis/internal/store"
)

var errNoSession = errors.New("not signed in, run 'projexis login' first")

// app wires configuration, logging, the state database and the store
type app struct {
	cfg     *config.Config
	logger  zerolog.Logger
	logFile *os.File
	db      *db.DB
	api     *api.Client
	store   *store.Store
}

func setup() (*app, error) {
	cfg, err := config.NewEnvReader().Read()
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if cfg.DataDir == "" {
		if cfg.DataDir, err = db.DefaultDataDir(); err != nil {
			return nil, err
		}
	}
	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(cfg.DataDir, "projexis.log")
	}

	logFile, err := logger.OpenFile(cfg.LogFile)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	log, err := logger.New(cfg.Env, logFile)
	if err != nil {
		logFile.Close()
		return nil, err
	}

	database, err := db.New(cfg.DataDir)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}

	client := api.New(cfg.API.URL, cfg.API.Timeout, log)
	log.Debug().
		Str("env", cfg.Env).
		Str("api", cfg.API.URL).
		Str("data_dir", cfg.DataDir).
		Msg("starting")

	return &app{
		cfg:     cfg,
		logger:  log,
		logFile: logFile,
		db:      database,
		api:     client,
		store:   store.New(client, database, log),
	}, nil
}

func (a *app) Close() {
	a.db.Close()
	a.logFile.Close()
}

// session restores the persisted session or fails with errNoSession
func (a *app) session(ctx context.Context) error {
	ok, err := a.store.Restore(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return errNoSession
	}
	return nil
}

// withApp runs fn with a configured app
func withApp(fn func(a *app) error) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

// withSession runs fn with a configured app and a restored session
func withSession(ctx context.Context, fn func(a *app) error) error {
	return withApp(func(a *app) error {
		if err := a.session(ctx); err != nil {
			return err
		}
		return fn(a)
	})
}
