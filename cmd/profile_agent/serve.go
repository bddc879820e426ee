package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/profile-consolidator/internal/db"
	"github.com/jonathan/profile-consolidator/internal/jobs"
	"github.com/jonathan/profile-consolidator/internal/logging"
	"github.com/jonathan/profile-consolidator/internal/server"
)

var (
	serveConfigPath string
	servePort       int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for running profile consolidations synchronously or as background tasks.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to config.json file (values can be overridden by environment)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (defaults to PORT or 8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(serveConfigPath)
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required (env, .env or --config)")
	}
	if cfg.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required (env, .env or --config)")
	}

	logger := logging.New(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	orch, err := newOrchestrator(ctx, cfg, database, logger)
	if err != nil {
		return err
	}

	queue := jobs.NewQueue(orch, jobs.Config{
		Workers:     cfg.Workers,
		MaxAttempts: cfg.MaxAttempts,
		BaseBackoff: time.Second,
	}, logger)
	queue.Start(ctx)

	srv, err := server.New(server.Config{
		Port:      cfg.Port,
		JWTSecret: cfg.JWTSecret,
	}, orch, queue, database, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
