package shtk

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/planetdyn/shtk/pkg/config"
	"github.com/planetdyn/shtk/pkg/logger"
	"github.com/planetdyn/shtk/pkg/server"
	"github.com/planetdyn/shtk/pkg/shio"
	"github.com/planetdyn/shtk/pkg/telemetry"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the shtk HTTP server",
	Long: `Start the shtk HTTP server to provide REST API access to the toolkit.

The server provides endpoints for:
- Loading and listing coefficient models
- Evaluating models at geographic points
- Synthesizing grids and exporting them to Parquet
- Reference-point verification
- Health checks

Configuration can be provided through config files, environment variables, or command-line flags.`,
	RunE: runServer,
}

var (
	serverHost string
	serverPort int
	serverMode string
)

func init() {
	rootCmd.AddCommand(serverCmd)

	// Server-specific flags
	serverCmd.Flags().StringVar(&serverHost, "host", "localhost", "Server host")
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "Server port")
	serverCmd.Flags().StringVar(&serverMode, "mode", "debug", "Server mode (debug, release, test)")
	serverCmd.Flags().String("telemetry-parquet-path", "", "Path to directory for telemetry (error records)")
}

func runServer(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Override config with command-line flags
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = serverHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = serverPort
	}
	if cmd.Flags().Changed("mode") {
		cfg.Server.Mode = serverMode
	}
	if cmd.Flags().Changed("telemetry-parquet-path") {
		cfg.Telemetry.ParquetPath, _ = cmd.Flags().GetString("telemetry-parquet-path")
	}

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", cfg.Server.Port)
	}

	log, flush, err := serverLogger(cfg)
	if err != nil {
		return err
	}
	defer flush()

	client, err := newToolkit(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize toolkit: %w", err)
	}
	defer client.Close()
	attachCatalog(cfg, client)

	if cfg.Data.ParquetDir != "" {
		writer, err := shio.NewParquetWriter(cfg.Data.ParquetDir)
		if err != nil {
			return fmt.Errorf("failed to prepare export directory: %w", err)
		}
		client.WithExporter(writer)
	}

	// Create and setup server
	srv := server.New(cfg, client)
	srv.Setup()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine
	serverErrChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			serverErrChan <- err
		}
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		fmt.Printf("\nReceived signal: %v\n", sig)

		// Create shutdown context with timeout
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Shutdown server
		if err := srv.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		fmt.Println("Server stopped gracefully")
		return nil
	}
}

// serverLogger builds the server logger. When a telemetry path is
// configured, error records are additionally batched to Parquet files.
func serverLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	switch cfg.Log.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	colorHandler := logger.NewColorHandler(os.Stderr, &slog.HandlerOptions{Level: level})

	if cfg.Telemetry.ParquetPath == "" {
		return slog.New(colorHandler), func() {}, nil
	}
	if err := os.MkdirAll(cfg.Telemetry.ParquetPath, 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create telemetry directory: %w", err)
	}
	parquetHandler, err := telemetry.NewParquetHandler(colorHandler, cfg.Telemetry.ParquetPath)
	if err != nil {
		fmt.Printf("Warning: Failed to initialize error tracking: %v\n", err)
		return slog.New(colorHandler), func() {}, nil
	}
	fmt.Printf("Error tracking enabled at: %s\n", cfg.Telemetry.ParquetPath)
	return slog.New(parquetHandler), func() {
		if err := parquetHandler.Flush(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: telemetry flush failed: %v\n", err)
		}
	}, nil
}
