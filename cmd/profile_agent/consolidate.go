package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/profile-consolidator/internal/config"
	"github.com/jonathan/profile-consolidator/internal/db"
	"github.com/jonathan/profile-consolidator/internal/llm"
	"github.com/jonathan/profile-consolidator/internal/logging"
	"github.com/jonathan/profile-consolidator/internal/pipeline"
)

var consolidateCmd = &cobra.Command{
	Use:   "consolidate",
	Short: "Run a single profile consolidation end-to-end",
	Long: `Aggregates every data source for one user, synthesizes a profile with the
configured model provider, persists it, and prints the stored profile as JSON.

Configuration can be loaded from a JSON file using --config. Environment
variables override config file values.`,
	RunE: runConsolidate,
}

var (
	consolidateConfigPath string
	consolidateUserID     int64
	consolidateProvider   string
)

func init() {
	consolidateCmd.Flags().StringVar(&consolidateConfigPath, "config", "", "Path to config.json file (values can be overridden by environment)")
	consolidateCmd.Flags().Int64VarP(&consolidateUserID, "user-id", "u", 0, "User ID to consolidate (required)")
	consolidateCmd.Flags().StringVar(&consolidateProvider, "provider", "", "Model provider to use: gemini or openai (defaults to LLM_PROVIDER)")
	_ = consolidateCmd.MarkFlagRequired("user-id")
	rootCmd.AddCommand(consolidateCmd)
}

func runConsolidate(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(consolidateConfigPath)
	if err != nil {
		return err
	}
	if consolidateProvider != "" {
		cfg.Provider = consolidateProvider
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required (env, .env or --config)")
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

	profile, err := orch.ConsolidateUserProfile(ctx, consolidateUserID).Unpack()
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// loadConfig merges environment settings over an optional JSON config file.
func loadConfig(path string) (config.Config, error) {
	cfg := config.FromEnv()
	if path != "" {
		fileCfg, err := config.LoadConfig(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = cfg.MergeWithDefaults(*fileCfg)
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newOrchestrator wires the database-backed aggregator and persistence into
// a pipeline orchestrator using the configured provider.
func newOrchestrator(ctx context.Context, cfg config.Config, database *db.DB, logger *zap.Logger) (*pipeline.Orchestrator, error) {
	store := pipeline.StoreFunc(func(ctx context.Context) (pipeline.UnitOfWork, error) {
		return database.BeginProfileSave(ctx)
	})

	factoryCfg := llm.FactoryConfig{
		GeminiAPIKey:    cfg.GeminiAPIKey,
		GeminiModel:     cfg.GeminiModel,
		OpenAIAPIKey:    cfg.OpenAIAPIKey,
		OpenAIModel:     cfg.OpenAIModel,
		MaxOutputTokens: cfg.MaxOutputTokens,
	}

	var opts []pipeline.Option
	if cfg.Provider != "" {
		opts = append(opts, pipeline.WithProviderName(cfg.Provider))
	}

	return pipeline.New(ctx, store, database, factoryCfg, logger, opts...)
}
