package main

import (
	"log/slog"

	"github.com/planetdyn/shtk/pkg/logger"
)

func main() {
	// Create a colored logger
	log := logger.NewDefaultLogger(slog.LevelDebug)

	log.Info("============================================")
	log.Info("    shtk Colored Logger Demo")
	log.Info("============================================")
	log.Info("")

	log.Debug("Debug message - gray")
	log.Info("Info message - standard color")
	log.Info("Persisting grid to parquet - green!")
	log.Warn("Warning message - yellow!")
	log.Error("Error message - red!")

	log.Info("")
	log.Info("Synthesis results are highlighted in green:")
	log.Info("Grid synthesized", "nlat", 32, "nlon", 64, "duration", "4ms")
	log.Info("Model verified", "model", "MarsTopo719", "diff", 0.0)

	log.Info("")
	log.Info("Demo complete!")
}
