package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"docportal/internal/app"
	"docportal/pkg/config"
	"docportal/pkg/logger"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	asJSON  bool
	portal  *app.App
)

var rootCmd = &cobra.Command{
	Use:     "docctl",
	Short:   "Review and distribute portal documents from the command line",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := logger.Init(cfg.Logger.Level, cfg.Logger.Format); err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}

		portal, err = app.New(cmd.Context(), cfg, logger.Component("docctl"))
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		logger.Sync()
		if portal == nil {
			return nil
		}
		return portal.Close()
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&asJSON, "json", false, "print JSON instead of tables")
}

func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
