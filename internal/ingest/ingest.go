// Package ingest registers token-dump files with the document store,
// deduplicating by content hash.
package ingest

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Ricalmaster/Rical-Metrica-Partes/constants"
	"github.com/Ricalmaster/Rical-Metrica-Partes/internal/entity"
	"github.com/Ricalmaster/Rical-Metrica-Partes/internal/repository"
)

// IngestionResult is the per-file ingest outcome.
type IngestionResult struct {
	Document     *entity.Document
	Deduplicated bool
}

// FSIngestor reads token dumps from the local filesystem.
type FSIngestor struct {
	DocsRepo    repository.DocumentRepository
	AllowedExts map[string]struct{} // lowercased sans '.'; nil -> default set
	Logger      *slog.Logger
}

func NewFSIngestor(docs repository.DocumentRepository, logger *slog.Logger) *FSIngestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &FSIngestor{DocsRepo: docs, Logger: logger}
}

// IngestPath registers a single token dump, hashing its content for dedup.
func (i *FSIngestor) IngestPath(ctx context.Context, path string) (IngestionResult, error) {
	var out IngestionResult

	abs, err := filepath.Abs(path)
	if err != nil {
		return out, fmt.Errorf("abs path: %w", err)
	}

	ext := constants.NormalizeExt(filepath.Ext(abs))
	if !i.allowed(ext) {
		return out, fmt.Errorf("unsupported or missing extension: %q", ext)
	}

	f, err := os.Open(abs)
	if err != nil {
		return out, fmt.Errorf("open: %w", err)
	}
	defer func(f *os.File) {
		if err := f.Close(); err != nil {
			i.Logger.Warn("close file failed", "path", abs, "error", err)
		}
	}(f)

	h := sha256.New()
	size, err := io.Copy(h, f)
	if err != nil {
		return out, fmt.Errorf("hash: %w", err)
	}

	doc, dedup, err := i.DocsRepo.UpsertByHash(ctx, abs, ext, h.Sum(nil), int(size), time.Now().UTC())
	if err != nil {
		return out, err
	}

	i.Logger.Info("ingest.file.ok", "path", abs, "document_id", doc.ID, "dedup", dedup)
	return IngestionResult{Document: doc, Deduplicated: dedup}, nil
}

// IngestDirectory walks root and ingests every allowed file, skipping hidden
// entries. Individual file failures are logged and counted, not fatal.
func (i *FSIngestor) IngestDirectory(ctx context.Context, root string) ([]IngestionResult, error) {
	var results []IngestionResult
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if isHidden(path) && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !i.allowed(constants.NormalizeExt(filepath.Ext(path))) {
			return nil
		}
		res, err := i.IngestPath(ctx, path)
		if err != nil {
			i.Logger.Warn("ingest.file.failed", "path", path, "error", err)
			return nil
		}
		results = append(results, res)
		return nil
	})
	if err != nil {
		return results, fmt.Errorf("walk %s: %w", root, err)
	}
	return results, nil
}

func (i *FSIngestor) allowed(ext string) bool {
	exts := i.AllowedExts
	if exts == nil {
		exts = constants.AllowedExtensions
	}
	_, ok := exts[ext]
	return ok
}

// isHidden checks if a file or directory is hidden (starts with '.').
func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
