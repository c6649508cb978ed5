// Package pipeline wires the extraction, row-grouping, field-parsing and
// classification stages into one processing run per document.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Ricalmaster/Rical-Metrica-Partes/internal/common"
	"github.com/Ricalmaster/Rical-Metrica-Partes/internal/entity"
	"github.com/Ricalmaster/Rical-Metrica-Partes/internal/extract"
	"github.com/Ricalmaster/Rical-Metrica-Partes/internal/pipeline/classify"
	"github.com/Ricalmaster/Rical-Metrica-Partes/internal/pipeline/parsefields"
	"github.com/Ricalmaster/Rical-Metrica-Partes/internal/pipeline/rowgroup"
	"github.com/Ricalmaster/Rical-Metrica-Partes/internal/repository"
)

// Processor coordinates token extraction, then row/field parsing, then
// leather classification, and persists the result.
type Processor struct {
	Logger    *slog.Logger
	Cfg       common.ParserConfig
	Extractor extract.TokenExtractor
	JobsRepo  repository.ProcessJobRepository
	PartsRepo repository.PartRepository
}

func NewProcessor(
	logger *slog.Logger,
	cfg common.ParserConfig,
	extractor extract.TokenExtractor,
	jobs repository.ProcessJobRepository,
	parts repository.PartRepository,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.RowTolerance <= 0 {
		cfg.RowTolerance = rowgroup.DefaultTolerance
	}
	return &Processor{
		Logger:    logger,
		Cfg:       cfg,
		Extractor: extractor,
		JobsRepo:  jobs,
		PartsRepo: parts,
	}
}

// ProcessDocument runs the full pipeline for one ingested document, using the
// caller's label registry. Callers processing several documents as one
// logical batch must pass the same registry to every call so a material code
// recurring across documents reuses its label; independent batches must use
// fresh registries (see ProcessBatch).
func (p *Processor) ProcessDocument(ctx context.Context, doc *entity.Document, reg *classify.LabelRegistry) ([]entity.ProcessedPart, error) {
	job, err := p.JobsRepo.Start(ctx, doc.ID)
	if err != nil {
		return nil, fmt.Errorf("start job: %w", err)
	}

	res, err := p.Extractor.Extract(ctx, doc.SourcePath)
	if err != nil {
		_ = p.JobsRepo.FinishFailure(ctx, job.ID, err.Error())
		p.Logger.Error("processor.extract.failed", "document_id", doc.ID, "err", err)
		return nil, err
	}
	for _, w := range res.Warnings {
		p.Logger.Warn("processor.extract.warning", "document_id", doc.ID, "warning", w)
	}
	p.Logger.Info("processor.extract.ok",
		"document_id", doc.ID,
		"job_id", job.ID,
		"pages", res.Pages,
		"tokens", len(res.Tokens),
	)

	// The parsing stages are pure and never fail; sparse or malformed
	// sheets simply yield fewer parts.
	rows := rowgroup.GroupRows(res.Tokens, p.Cfg.RowTolerance)
	raw := parsefields.ParseRows(rows, doc.ID)
	processed := classify.Process(raw, reg)

	if err := p.PartsRepo.ReplaceForDocument(ctx, doc.ID, processed); err != nil {
		_ = p.JobsRepo.FinishFailure(ctx, job.ID, err.Error())
		p.Logger.Error("processor.store.failed", "document_id", doc.ID, "err", err)
		return nil, err
	}
	if err := p.JobsRepo.FinishSuccess(ctx, job.ID, len(rows), len(processed)); err != nil {
		return nil, err
	}

	p.Logger.Info("processor.parse.ok",
		"document_id", doc.ID,
		"job_id", job.ID,
		"rows", len(rows),
		"parts", len(processed),
		"leather_groups", reg.Len(),
	)
	return processed, nil
}

// ProcessBatch processes several documents as one logical batch: one shared
// label registry, parts concatenated in document order. Per-document failures
// are collected, not fatal to the rest of the batch.
func (p *Processor) ProcessBatch(ctx context.Context, docs []*entity.Document) ([]entity.ProcessedPart, error) {
	reg := classify.NewLabelRegistry()
	var all []entity.ProcessedPart
	var errs []error
	for _, doc := range docs {
		parts, err := p.ProcessDocument(ctx, doc, reg)
		if err != nil {
			errs = append(errs, fmt.Errorf("document %s: %w", doc.Filename, err))
			continue
		}
		all = append(all, parts...)
	}
	return all, errors.Join(errs...)
}
