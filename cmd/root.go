package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/okian/drape/internal/config"
	"github.com/okian/drape/pkg/logger"
)

// runtimeConfig is filled by the root command before any subcommand runs.
type runtimeConfig struct {
	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	rc := &runtimeConfig{}

	cmd := &cobra.Command{
		Use:   "drape",
		Short: "Skin-tone analysis and interview outfit recommendations",
		Long: `Drape analyses a photo to find the skin tone and color season, then
recommends interview outfits from a clothing catalog and refines them with
like/dislike feedback.

Configuration is read from the YAML file named by DRAPE_CONFIG and from
DRAPE_* environment variables. A .env file in the working directory is
loaded first when present.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			_ = godotenv.Load()
			return rc.load()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), rc.cfg)
		},
	}

	cmd.AddCommand(
		newServeCmd(rc),
		newAnalyzeCmd(rc),
		newRecommendCmd(rc),
		newMigrateCmd(rc),
	)
	return cmd
}

func (rc *runtimeConfig) load() error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.SetFormat(cfg.LogFormat); err != nil {
		return fmt.Errorf("log_format: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(context.Background(), "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel),
			logger.Error(err),
		)
		_ = logger.SetLevelString("info")
	}
	rc.cfg = cfg
	return nil
}
