package shtk

import (
	"context"
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/planetdyn/shtk/pkg/config"
)

var infoCmd = &cobra.Command{
	Use:   "info <model>",
	Short: "Print summary information about a model",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
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
	coeffs, err := client.LoadModel(ctx, args[0], "")
	if err != nil {
		return err
	}

	// The degree-0 term of a 4-pi normalized shape model is the mean
	// radius; report it when it looks like one.
	fmt.Printf("Model:          %s\n", coeffs.Name)
	fmt.Printf("Max degree:     %d\n", coeffs.LMax)
	fmt.Printf("Normalization:  %s\n", coeffs.Norm)
	fmt.Printf("Condon-Shortley: %v\n", coeffs.CondonShortley)
	if coeffs.Units != "" {
		fmt.Printf("Units:          %s\n", coeffs.Units)
	}
	if c00 := coeffs.C[0][0]; c00 != 0 {
		fmt.Printf("Degree-0 term:  %.6g\n", c00)
	}

	var power float64
	for l := 0; l <= coeffs.LMax; l++ {
		for m := 0; m <= l; m++ {
			power += coeffs.C[l][m]*coeffs.C[l][m] + coeffs.S[l][m]*coeffs.S[l][m]
		}
	}
	fmt.Printf("RMS coefficient: %.6g\n", math.Sqrt(power/float64((coeffs.LMax+1)*(coeffs.LMax+1))))
	return nil
}
