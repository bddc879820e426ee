package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/profile-consolidator/internal/server"
)

var (
	tokenConfigPath string
	tokenSubject    string
	tokenHours      int
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an API bearer token",
	Long:  `Issue a signed bearer token for the REST API. Tokens are minted out of band and passed to callers in the Authorization header.`,
	RunE:  runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenConfigPath, "config", "", "Path to config.json file (values can be overridden by environment)")
	tokenCmd.Flags().StringVarP(&tokenSubject, "subject", "s", "", "Token subject (required)")
	tokenCmd.Flags().IntVar(&tokenHours, "hours", 24, "Token lifetime in hours")
	_ = tokenCmd.MarkFlagRequired("subject")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig(tokenConfigPath)
	if err != nil {
		return err
	}
	if cfg.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required (env, .env or --config)")
	}

	svc, err := server.NewJWTService(server.JWTConfig{
		Secret:          cfg.JWTSecret,
		ExpirationHours: tokenHours,
	})
	if err != nil {
		return err
	}

	token, err := svc.GenerateToken(tokenSubject)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}
