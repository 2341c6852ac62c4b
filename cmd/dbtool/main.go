package main

import (
	"os"

	"package-tracking-service/internal/config"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:           "dbtool",
	Short:         "Maintenance commands for the package store",
	Long:          "Seeds, exports and batch-geocodes the package collection of the configured store.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		zap.L().Error("dbtool failed", zap.Error(err))
		_ = zap.L().Sync()
		rootCmd.PrintErrln("Error:", err)
		os.Exit(1)
	}
}
