package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Ricalmaster/Rical-Metrica-Partes/internal/common"
	"github.com/Ricalmaster/Rical-Metrica-Partes/internal/entity"
	"github.com/Ricalmaster/Rical-Metrica-Partes/internal/export"
	"github.com/Ricalmaster/Rical-Metrica-Partes/internal/extract"
	"github.com/Ricalmaster/Rical-Metrica-Partes/internal/ingest"
	"github.com/Ricalmaster/Rical-Metrica-Partes/internal/pipeline"
	"github.com/Ricalmaster/Rical-Metrica-Partes/internal/pipeline/classify"
	"github.com/Ricalmaster/Rical-Metrica-Partes/internal/repository"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	// .env is optional; real env vars win.
	_ = godotenv.Load()

	var (
		file    = flag.String("file", "", "single token-dump JSON file to process")
		dir     = flag.String("dir", "", "directory of token dumps to process as one batch")
		watch   = flag.Bool("watch", false, "keep watching --dir for new token dumps")
		dbDSN   = flag.String("db", "", "database DSN (overrides DB_URL)")
		inmem   = flag.Bool("inmem", false, "use an in-memory SQLite database")
		out     = flag.String("out", "", "output file path (defaults next to the input)")
		format  = flag.String("format", "", "export format: csv or xlsx (default from config)")
		unit    = flag.String("unit", "", "export unit: auto, dm2 or ft2 (default from config)")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if *file == "" && *dir == "" {
		printError("Error: --file or --dir is required\n")
		flag.Usage()
		os.Exit(1)
	}
	if *watch && *dir == "" {
		printError("Error: --watch requires --dir\n")
		os.Exit(1)
	}

	cfg := common.LoadConfig()
	if err := cfg.ApplyProfile(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
	if *dbDSN != "" {
		cfg.Database.DSN = *dbDSN
	}
	if *inmem {
		cfg.Database.DSN = ":memory:"
	}
	if *format != "" {
		cfg.Export.DefaultFormat = *format
	}
	if *unit != "" {
		cfg.Export.DefaultUnit = *unit
	}
	if err := cfg.Validate(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
	unitChoice, err := export.ParseUnitChoice(cfg.Export.DefaultUnit)
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repository.Open(ctx, repository.Config{
		DSN:              cfg.Database.DSN,
		MaxConns:         cfg.Database.MaxConns,
		MinConns:         cfg.Database.MinConns,
		MaxConnLifetime:  cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
		DialTimeout:      cfg.Database.DialTimeout,
		StatementTimeout: cfg.Database.StatementTimeout,
	}, logger)
	if err != nil {
		printError("Error: opening database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close(logger)

	if err := db.Migrate(ctx); err != nil {
		printError("Error: migrating database: %v\n", err)
		os.Exit(1)
	}

	docsRepo := repository.NewDocumentRepository(db, logger)
	jobsRepo := repository.NewProcessJobRepository(db, logger)
	partsRepo := repository.NewPartRepository(db, logger)

	ingestor := ingest.NewFSIngestor(docsRepo, logger)
	processor := pipeline.NewProcessor(logger, cfg.Parser, extract.NewJSONFileExtractor(logger), jobsRepo, partsRepo)
	exporter := export.NewService(partsRepo, logger)

	if *watch {
		if err := runWatch(ctx, logger, *dir, cfg.Ingest.WatchDebounce, ingestor, processor); err != nil {
			printError("Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Batch mode: every file named on this invocation is one logical batch
	// and shares one label registry inside ProcessBatch.
	var docs []*entity.Document
	if *file != "" {
		res, err := ingestor.IngestPath(ctx, *file)
		if err != nil {
			printError("Error: ingesting %s: %v\n", *file, err)
			os.Exit(1)
		}
		docs = append(docs, res.Document)
	}
	if *dir != "" {
		results, err := ingestor.IngestDirectory(ctx, *dir)
		if err != nil {
			printError("Error: ingesting %s: %v\n", *dir, err)
			os.Exit(1)
		}
		for _, r := range results {
			docs = append(docs, r.Document)
		}
	}
	if len(docs) == 0 {
		printError("Error: no token dumps found\n")
		os.Exit(1)
	}

	parts, err := processor.ProcessBatch(ctx, docs)
	if err != nil {
		logger.Warn("some documents failed", "error", err)
	}
	logger.Info("batch processed", "documents", len(docs), "parts", len(parts))

	outPath := *out
	if outPath == "" {
		base := *dir
		if base == "" {
			base = filepath.Dir(*file)
		}
		var name string
		if cfg.Export.DefaultFormat == "xlsx" {
			name = export.Filename(unitChoice, "xlsx")
		} else {
			name = export.Filename(unitChoice, "csv")
		}
		outPath = filepath.Join(base, name)
	}

	var data []byte
	if cfg.Export.DefaultFormat == "xlsx" {
		data, _, err = exporter.ExportDocumentXLSX(ctx, nil, unitChoice)
	} else {
		data, _, err = exporter.ExportDocumentCSV(ctx, nil, unitChoice)
	}
	if err != nil {
		printError("Error: export: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		printError("Error: writing %s: %v\n", outPath, err)
		os.Exit(1)
	}
	logger.Info("export written", "path", outPath, "unit", string(unitChoice))
}

// runWatch processes token dumps as they land in the watched directory. Each
// delivered file is its own batch with its own label registry.
func runWatch(ctx context.Context, logger *slog.Logger, root string, debounce time.Duration, ingestor *ingest.FSIngestor, processor *pipeline.Processor) error {
	events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       []string{root},
		InitialScan: true,
		Debounce:    debounce,
	})
	if err != nil {
		return err
	}
	logger.Info("watching for token dumps", "root", root)

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-errs:
			if ok && err != nil {
				logger.Error("watcher error", "error", err)
			}
		case path, ok := <-events:
			if !ok {
				return nil
			}
			res, err := ingestor.IngestPath(ctx, path)
			if err != nil {
				logger.Warn("ingest failed", "path", path, "error", err)
				continue
			}
			if _, err := processor.ProcessDocument(ctx, res.Document, classify.NewLabelRegistry()); err != nil {
				logger.Warn("processing failed", "path", path, "error", err)
			}
		}
	}
}
