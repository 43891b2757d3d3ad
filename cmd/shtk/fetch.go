package shtk

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/planetdyn/shtk/pkg/catalog"
	"github.com/planetdyn/shtk/pkg/config"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [model]",
	Short: "Download a model from the catalog",
	Long: `Download a coefficient file from the configured catalog into the local
cache. With no argument, list the models the catalog offers.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Catalog.IndexURL == "" {
		return fmt.Errorf("no catalog index configured; set catalog.index_url or SHTK_CATALOG_URL")
	}

	ctx := context.Background()
	idx, err := catalog.FetchIndex(ctx, nil, cfg.Catalog.IndexURL)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		for _, name := range idx.Names() {
			entry, _ := idx.Find(name)
			fmt.Printf("%-20s lmax=%-5d %s\n", name, entry.LMax, entry.URL)
		}
		return nil
	}

	entry, err := idx.Find(args[0])
	if err != nil {
		return err
	}
	httpFetcher, err := catalog.NewHTTPFetcher(nil, cfg.Catalog.CacheDir)
	if err != nil {
		return err
	}
	retryCfg := catalog.DefaultRetryConfig()
	if cfg.Catalog.MaxRetries > 0 {
		retryCfg.MaxRetries = cfg.Catalog.MaxRetries
	}
	var fetcher catalog.Fetcher = catalog.NewRetryFetcher(httpFetcher, retryCfg)
	if cfg.CircuitBreaker.Enabled {
		fetcher = catalog.NewCircuitBreakerFetcher(fetcher, cfg.CircuitBreaker, "catalog")
	}

	path, err := fetcher.Fetch(ctx, entry)
	if err != nil {
		return err
	}
	fmt.Printf("%s cached at %s\n", entry.Name, path)
	return nil
}
