package cmd

import (
	"github.com/spf13/cobra"

	"github.com/quillpost/quill/utils"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update tables and indexes, then exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := bootstrap()
		if err != nil {
			return err
		}
		closeDatabase(db)
		utils.Sugar.Info("migration complete")
		return nil
	},
}
