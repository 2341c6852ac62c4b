package main

import (
	"package-tracking-service/internal/app"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Import packages from a JSON file",
	Long:  "Normalizes every entry of a JSON array and appends the ones whose id is not stored yet.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		store, closeStore, err := app.OpenStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		res, err := app.NewService(cfg, store).SeedFromJSON(ctx, seedFile)
		if err != nil {
			return err
		}

		zap.L().Info("seeding complete", zap.Int("added", res.Added), zap.Int("skipped", res.Skipped))
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedFile, "file", "data/seeds/packages.json", "JSON array of packages to import")
	rootCmd.AddCommand(seedCmd)
}
