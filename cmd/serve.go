package cmd

import (
	"github.com/spf13/cobra"

	"github.com/quillpost/quill/routes"
	"github.com/quillpost/quill/utils"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (migrates the schema first)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer closeDatabase(db)
		defer func() { _ = utils.Logger.Sync() }()

		redisClient := utils.NewRedisClient(cfg.Redis)
		if redisClient != nil {
			defer redisClient.Close()
		}

		images, err := utils.NewImageStore(cfg.Storage)
		if err != nil {
			return err
		}

		r := routes.SetupRouter(cfg, routes.Dependencies{
			DB:      db,
			Redis:   redisClient,
			Tokens:  utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiresIn),
			Images:  images,
			Metrics: utils.NewMetrics(),
		})

		utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.App.Port)
		srv := utils.NewServer(":"+cfg.App.Port, r)
		if err := srv.Run(cmd.Context()); err != nil {
			utils.Sugar.Errorf("server stopped with error: %v", err)
			return err
		}
		return nil
	},
}
