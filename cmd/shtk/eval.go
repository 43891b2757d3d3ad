package shtk

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/planetdyn/shtk/pkg/config"
)

var evalCmd = &cobra.Command{
	Use:   "eval <model>",
	Short: "Evaluate a model at a geographic point",
	Long: `Evaluate a spherical harmonic model at a single latitude and longitude
and print the value. The model name resolves against the data directory
and then the catalog.`,
	Args: cobra.ExactArgs(1),
	RunE: runEval,
}

var (
	evalLat float64
	evalLon float64
)

func init() {
	rootCmd.AddCommand(evalCmd)

	evalCmd.Flags().Float64Var(&evalLat, "lat", 0, "Latitude in degrees")
	evalCmd.Flags().Float64Var(&evalLon, "lon", 0, "Longitude in degrees")
}

func runEval(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := newLogger(cfg)

	client, err := newToolkit(cfg, log)
	if err != nil {
		return err
	}
	defer client.Close()
	attachCatalog(cfg, client)

	ctx := context.Background()
	name := args[0]
	if _, err := client.LoadModel(ctx, name, ""); err != nil {
		return err
	}
	val, err := client.EvalPoint(ctx, name, evalLat, evalLon)
	if err != nil {
		return err
	}
	fmt.Printf("%.9f\n", val)
	return nil
}
