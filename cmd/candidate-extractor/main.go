package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"go.uber.org/zap"

	"github.com/a3tai/candidate-form-extractor/internal/batch"
	"github.com/a3tai/candidate-form-extractor/internal/config"
	"github.com/a3tai/candidate-form-extractor/internal/logging"
	"github.com/a3tai/candidate-form-extractor/internal/mcp"
	"github.com/a3tai/candidate-form-extractor/internal/pdf"
	"github.com/a3tai/candidate-form-extractor/internal/report"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

func main() {
	cfg, err := config.LoadFromFlags()
	if errors.Is(err, config.ErrVersionRequested) {
		printVersion(os.Stdout)
		return
	}
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set version if it was provided during build
	if version != "dev" {
		cfg.Version = version
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reader := pdf.NewReader(cfg.MaxFileSize,
		pdf.WithRepair(cfg.Repair),
		pdf.WithLogger(logger),
	)

	if cfg.IsStdioMode() {
		server, err := mcp.NewServer(cfg, reader, logger)
		if err != nil {
			logger.Fatal("failed to create MCP server", zap.Error(err))
		}
		if err := server.Run(ctx); err != nil {
			logger.Error("server error", zap.Error(err))
			os.Exit(1)
		}
		return
	}

	if err := runBatch(ctx, cfg, reader, logger, os.Stdout); err != nil {
		logger.Error("batch failed", zap.Error(err))
		os.Exit(1)
	}
}

// runBatch processes the input directory and writes the report, printing
// progress to out. A missing input directory is reported and is not an error.
func runBatch(ctx context.Context, cfg *config.Config, reader batch.DocumentReader,
	logger *zap.Logger, out io.Writer,
) error {
	if info, err := os.Stat(cfg.InputDir); err != nil || !info.IsDir() {
		fmt.Fprintf(out, "Input directory not exists! Please check out the name and then try again! : '%s'\n",
			filepath.Base(filepath.Clean(cfg.InputDir)))
		return nil
	}

	if cfg.IsDebug() {
		logger.Debug("starting batch", zap.Stringer("config", cfg))
	}
	fmt.Fprintln(out, "Started!")

	writer, err := report.NewWriter(cfg.OutputDir, cfg.OutputName, cfg.Formats)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", cfg.OutputDir, err)
	}

	runner := batch.NewRunner(reader,
		batch.WithWorkers(cfg.Workers),
		batch.WithLogger(logger),
		batch.OnFile(func(path string) {
			fmt.Fprintf(out, "Working on ... %s\n", path)
		}),
	)

	summary, err := runner.Run(ctx, cfg.InputDir)
	if err != nil {
		return err
	}

	written, err := writer.Write(report.New(summary))
	if err != nil {
		return err
	}
	logger.Info("report written",
		zap.Strings("files", written),
		zap.Int("total", summary.Total),
		zap.Int("success", summary.Success),
		zap.Int("failed", summary.Failed))

	fmt.Fprintln(out, "Result Saved!")
	fmt.Fprintf(out, "Total : %d\n", summary.Total)
	fmt.Fprintf(out, "Success : %d\n", summary.Success)
	fmt.Fprintf(out, "Failed : %d\n", summary.Failed)
	return nil
}

// printVersion prints version information
func printVersion(out io.Writer) {
	fmt.Fprintf(out, "Candidate Extractor\n")
	fmt.Fprintf(out, "Version: %s\n", version)
	fmt.Fprintf(out, "Build Time: %s\n", buildTime)
	fmt.Fprintf(out, "Git Commit: %s\n", gitCommit)
	fmt.Fprintf(out, "Built with: %s\n", runtime.Version())
}
