package shtk

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/planetdyn/shtk/pkg/config"
	"github.com/planetdyn/shtk/pkg/sh"
	"github.com/planetdyn/shtk/pkg/shio"
)

var expandCmd = &cobra.Command{
	Use:   "expand <model>",
	Short: "Synthesize a model on a regular grid",
	Long: `Expand a spherical harmonic model onto a Driscoll and Healy grid and
write the result to a Parquet file under the export directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runExpand,
}

var (
	expandSampling int
	expandExtend   bool
	expandLMax     int
)

func init() {
	rootCmd.AddCommand(expandCmd)

	expandCmd.Flags().IntVar(&expandSampling, "sampling", 0, "Longitudinal sampling: 1 (nlon=nlat) or 2 (nlon=2*nlat)")
	expandCmd.Flags().BoolVar(&expandExtend, "extend", false, "Include the 360E column and the 90S row")
	expandCmd.Flags().IntVar(&expandLMax, "lmax-calc", 0, "Truncate the synthesis to this degree")
}

func runExpand(cmd *cobra.Command, args []string) error {
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

	writer, err := shio.NewParquetWriter(cfg.Data.ParquetDir)
	if err != nil {
		return fmt.Errorf("failed to prepare export directory: %w", err)
	}
	client.WithExporter(writer)

	sampling := expandSampling
	if sampling == 0 {
		sampling = cfg.Eval.Sampling
	}

	ctx := context.Background()
	name := args[0]
	if _, err := client.LoadModel(ctx, name, ""); err != nil {
		return err
	}
	grid, err := client.Expand(ctx, name, &sh.ExpandOptions{
		Sampling: sampling,
		Extend:   expandExtend,
		LMaxCalc: expandLMax,
	})
	if err != nil {
		return err
	}
	path, err := client.ExportGrid(ctx, grid)
	if err != nil {
		return err
	}
	fmt.Printf("%dx%d grid written to %s\n", grid.NLat, grid.NLon, path)
	return nil
}
