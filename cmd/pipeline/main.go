package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"admiscli/internal/config"
	"admiscli/internal/dataprocessing"
	"admiscli/internal/exporter"
	"admiscli/internal/infrastructure"
	"admiscli/pkg/contracts"
	"admiscli/pkg/contracts/domain"
)

func main() {
	inFile := flag.String("in", "", "path to the multi-sheet admissions export (.xlsx)")
	outDir := flag.String("out", "", "output directory for the CSV artifacts (defaults to the configured reports directory)")
	naThreshold := flag.Float64("na-threshold", 0, "null fraction above which a column is pruned (overrides config)")
	stageRedaction := flag.Bool("stage-redaction", false, "use the stage-name leakage guard instead of the milestone one")
	showVersion := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.GetFullVersionString())
		return
	}

	if *inFile == "" {
		fmt.Fprintln(os.Stderr, "usage: pipeline -in <export.xlsx> [-out <dir>]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	if *naThreshold > 0 {
		cfg.Pipeline.NAThreshold = *naThreshold
	}
	if *stageRedaction {
		cfg.Pipeline.MilestoneRedaction = false
	}
	if *outDir == "" {
		*outDir = cfg.Paths.ReportsDir
	}

	if err := cfg.Paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.WithRunID(context.Background(), uuid.New().String())

	result, err := run(ctx, logger, cfg, *inFile, *outDir)
	if err != nil {
		logger.ErrorContext(ctx, "Pipeline run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.InfoContext(ctx, "Pipeline run complete",
		slog.Duration("elapsed", result.FinishedAt.Sub(result.StartedAt)),
		slog.Int("analysis_rows", result.AnalysisRows),
		slog.Int("final_rows", result.FinalRows),
		slog.Int("final_columns", result.FinalColumns),
		slog.Float64("conversion_rate", result.Audit.ConversionRate))
}

// run loads the export, assembles both datasets and writes the artifacts
func run(ctx context.Context, logger *slog.Logger, cfg *config.Config, inFile, outDir string) (*domain.PipelineResult, error) {
	startedAt := time.Now()

	logger.InfoContext(ctx, "Starting admissions dataset pipeline",
		slog.String("input", inFile),
		slog.String("output_dir", outDir),
		slog.Float64("na_threshold", cfg.Pipeline.NAThreshold),
		slog.Bool("milestone_redaction", cfg.Pipeline.MilestoneRedaction))

	wb, err := dataprocessing.LoadWorkbook(inFile)
	if err != nil {
		return nil, fmt.Errorf("loading workbook: %w", err)
	}

	assembler := dataprocessing.NewAssembler(logger, cfg.Pipeline)
	assembly, err := assembler.Assemble(ctx, wb)
	if err != nil {
		return nil, err
	}

	writer := exporter.NewCSVWriter(cfg.Pipeline.DelimiterRune())
	options := exporter.WriteOptions{BOMPrefix: true}

	analysisPath := filepath.Join(outDir, cfg.Pipeline.AnalysisFileName)
	if err := writer.WriteTable(analysisPath, assembly.Analysis, options); err != nil {
		return nil, fmt.Errorf("writing analysis dataset: %w", err)
	}

	finalPath := filepath.Join(outDir, cfg.Pipeline.FinalFileName)
	if err := writer.WriteTable(finalPath, assembly.Final, options); err != nil {
		return nil, fmt.Errorf("writing final dataset: %w", err)
	}

	return &domain.PipelineResult{
		RunID:           infrastructure.GetRunID(ctx),
		StartedAt:       startedAt,
		FinishedAt:      time.Now(),
		Audit:           assembly.Audit,
		AnalysisRows:    assembly.Analysis.NumRows(),
		AnalysisColumns: assembly.Analysis.NumCols(),
		FinalRows:       assembly.Final.NumRows(),
		FinalColumns:    assembly.Final.NumCols(),
	}, nil
}
