// Package shtk implements the shtk command line interface.
package shtk

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/planetdyn/shtk"
	"github.com/planetdyn/shtk/pkg/catalog"
	"github.com/planetdyn/shtk/pkg/config"
	"github.com/planetdyn/shtk/pkg/logger"
	"github.com/planetdyn/shtk/pkg/types"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "shtk",
		Short: "shtk: spherical harmonic model toolkit",
		Long: `shtk works with spherical harmonic coefficient models of planetary
shape and gravity. It reads coefficient files, evaluates expansions at
geographic points, synthesizes Driscoll and Healy grids, and checks
models against published reference values.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Initialize configuration
			initConfig()
		},
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.shtk.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("data-dir", "", "directory searched for coefficient files")

	// Bind flags to viper
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("data.dir", rootCmd.PersistentFlags().Lookup("data-dir"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".shtk" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".shtk")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds the CLI logger from the configured level.
func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Log.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return logger.NewDefaultLogger(level)
}

// newToolkit builds a client from the loaded configuration.
func newToolkit(cfg *config.Config, log *slog.Logger) (*shtk.Client, error) {
	norm, err := types.ParseNormalization(cfg.Eval.Norm)
	if err != nil {
		return nil, err
	}
	client, err := shtk.NewClient(&shtk.Config{
		DataDir:        cfg.Data.Dir,
		DefaultNorm:    norm,
		CondonShortley: cfg.Eval.CondonShortley,
		LMaxCalc:       cfg.Eval.LMax,
	}, log)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// attachCatalog wires the remote model catalog into the client when one
// is configured. Failures are reported but not fatal: local files keep
// working without a catalog.
func attachCatalog(cfg *config.Config, client *shtk.Client) {
	if cfg.Catalog.IndexURL == "" {
		return
	}
	idx, err := catalog.FetchIndex(context.Background(), nil, cfg.Catalog.IndexURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: catalog index unavailable: %v\n", err)
		return
	}
	httpFetcher, err := catalog.NewHTTPFetcher(nil, cfg.Catalog.CacheDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: catalog cache unavailable: %v\n", err)
		return
	}
	retryCfg := catalog.DefaultRetryConfig()
	if cfg.Catalog.MaxRetries > 0 {
		retryCfg.MaxRetries = cfg.Catalog.MaxRetries
	}
	var fetcher catalog.Fetcher = catalog.NewRetryFetcher(httpFetcher, retryCfg)
	if cfg.CircuitBreaker.Enabled {
		fetcher = catalog.NewCircuitBreakerFetcher(fetcher, cfg.CircuitBreaker, "catalog")
	}
	client.WithCatalog(idx, fetcher)
}
