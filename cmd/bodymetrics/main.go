package main

import (
	"fmt"
	"os"

	"bodymetrics/internal/config"
	"bodymetrics/internal/logging"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	env        string
	configPath string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:           "bodymetrics",
		Short:         "Track body and fitness measurements",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&opts.env, "env", "e", "development", "environment [dev | development | prod | production]")
	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "./config.toml", "path for the TOML config file")

	rootCmd.AddCommand(
		newServeCmd(opts),
		newCatalogCmd(),
		newShowCmd(opts),
		newAddCmd(opts),
		newHashPasswordCmd(),
	)
	return rootCmd
}

// loadConfig reads the config and sets up logging. The returned closer
// releases the log file.
func (o *rootOptions) loadConfig() (*config.Config, func() error, error) {
	cfg, err := config.Load(o.env, o.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	closer := logging.Setup(logging.SetupParams{
		LogFileName:   cfg.LogsPath,
		LogToStdout:   cfg.LogToStdout,
		LogLevel:      cfg.LogLevel,
		LogFormatJSON: cfg.LogFormatJSON,
	})
	log.Debugf("running in [%s] environment, store driver [%s]", o.env, cfg.StoreDriver)
	return cfg, closer.Close, nil
}
