package main

import (
	"encoding/json"

	"package-tracking-service/internal/app"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the stored collection as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		store, closeStore, err := app.OpenStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		list, err := app.NewService(cfg, store).List(ctx)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	},
}

func init() { rootCmd.AddCommand(exportCmd) }
