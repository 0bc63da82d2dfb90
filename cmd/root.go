package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/quillpost/quill/config"
	"github.com/quillpost/quill/models"
	"github.com/quillpost/quill/utils"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "quill",
	Short: "Quill social blogging API",
	Long: `Quill serves a REST API for a small social blogging platform:
signup and login, posts with images, likes, comments and follows.

Configuration comes from config/config.json (optional), .env and the
environment; JWT_SECRET is required.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Path to an optional JSON config file")
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

// Execute runs the CLI. serve is the default when no subcommand is given.
func Execute() {
	if len(os.Args) == 1 {
		rootCmd.SetArgs([]string{"serve"})
	}
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// bootstrap loads configuration, initializes logging and opens the migrated database.
func bootstrap() (config.AppConfig, *gorm.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, nil, err
	}
	if err := utils.InitLogger(cfg.Log); err != nil {
		return cfg, nil, fmt.Errorf("init logger: %w", err)
	}

	db, err := config.OpenDatabase(cfg.Database, cfg.Log.Level, zap.NewStdLog(utils.Logger))
	if err != nil {
		return cfg, nil, err
	}
	if err := config.Migrate(db, models.All()...); err != nil {
		closeDatabase(db)
		return cfg, nil, err
	}
	utils.Sugar.Infof("database ready (driver=%s)", cfg.Database.Driver)
	return cfg, db, nil
}

func closeDatabase(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
