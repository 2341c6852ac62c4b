package main

import (
	"encoding/json"

	"package-tracking-service/internal/app"
	"package-tracking-service/internal/services"

	"github.com/spf13/cobra"
)

var (
	batchLimit   int
	batchForce   bool
	batchDelayMs int
)

var geocodeBatchCmd = &cobra.Command{
	Use:   "geocode-batch",
	Short: "Fill in missing coordinates via the geocoding provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		store, closeStore, err := app.OpenStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		req := services.GeocodeBatchRequest{Force: batchForce}
		if cmd.Flags().Changed("limit") {
			req.Limit = &batchLimit
		}
		if cmd.Flags().Changed("delay-ms") {
			req.DelayMs = &batchDelayMs
		}

		res, err := app.NewService(cfg, store).GeocodeBatch(ctx, req)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	},
}

func init() {
	f := geocodeBatchCmd.Flags()
	f.IntVar(&batchLimit, "limit", services.DefaultBatchLimit, "max candidates to geocode (1-120)")
	f.BoolVar(&batchForce, "force", false, "re-geocode records that already have coordinates")
	f.IntVar(&batchDelayMs, "delay-ms", int(services.DefaultGeocodeDelay.Milliseconds()), "pause between lookups in ms (min 800)")
	rootCmd.AddCommand(geocodeBatchCmd)
}
