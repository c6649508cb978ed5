package repository

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/Ricalmaster/Rical-Metrica-Partes/internal/common"
	"github.com/Ricalmaster/Rical-Metrica-Partes/internal/entity"
)

type DocumentRepository interface {
	// UpsertByHash inserts the document unless one with the same content
	// hash already exists; the bool reports a dedup hit.
	UpsertByHash(ctx context.Context, sourcePath, ext string, hash []byte, size int, now time.Time) (*entity.Document, bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Document, error)
	Count(ctx context.Context) (int, error)
}

type documentRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewDocumentRepository(db *DB, logger *slog.Logger) DocumentRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &documentRepository{db: db, logger: logger}
}

func (r *documentRepository) UpsertByHash(ctx context.Context, sourcePath, ext string, hash []byte, size int, now time.Time) (*entity.Document, bool, error) {
	hexHash := hex.EncodeToString(hash)

	existing, err := r.getByHash(ctx, hexHash)
	if err == nil {
		return existing, true, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, false, err
	}

	doc := &entity.Document{
		ID:          uuid.New(),
		SourcePath:  sourcePath,
		ContentHash: hash,
		Filename:    filepath.Base(sourcePath),
		FileExt:     ext,
		FileSize:    size,
		UploadedAt:  now.UTC(),
	}
	_, err = r.db.ExecContext(ctx, r.db.rebind(
		`INSERT INTO documents (id, source_path, content_hash, filename, file_ext, file_size, uploaded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`),
		doc.ID.String(), doc.SourcePath, hexHash, doc.Filename, doc.FileExt, doc.FileSize,
		doc.UploadedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		r.logger.Error("failed to insert document", "source_path", sourcePath, "error", err)
		return nil, false, common.WrapError(err, "insert document")
	}
	return doc, false, nil
}

func (r *documentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	row := r.db.QueryRowContext(ctx, r.db.rebind(
		`SELECT id, source_path, content_hash, filename, file_ext, file_size, uploaded_at
		 FROM documents WHERE id = ?`), id.String())
	return scanDocument(row)
}

func (r *documentRepository) getByHash(ctx context.Context, hexHash string) (*entity.Document, error) {
	row := r.db.QueryRowContext(ctx, r.db.rebind(
		`SELECT id, source_path, content_hash, filename, file_ext, file_size, uploaded_at
		 FROM documents WHERE content_hash = ?`), hexHash)
	return scanDocument(row)
}

func (r *documentRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n); err != nil {
		return 0, common.WrapError(err, "count documents")
	}
	return n, nil
}

func scanDocument(row *sql.Row) (*entity.Document, error) {
	var (
		doc        entity.Document
		id         string
		hexHash    string
		uploadedAt string
	)
	err := row.Scan(&id, &doc.SourcePath, &hexHash, &doc.Filename, &doc.FileExt, &doc.FileSize, &uploadedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, common.WrapError(err, "scan document")
	}
	if doc.ID, err = uuid.Parse(id); err != nil {
		return nil, common.WrapError(err, "parse document id")
	}
	if doc.ContentHash, err = hex.DecodeString(hexHash); err != nil {
		return nil, common.WrapError(err, "decode content hash")
	}
	if doc.UploadedAt, err = time.Parse(time.RFC3339Nano, uploadedAt); err != nil {
		return nil, common.WrapError(err, "parse uploaded_at")
	}
	return &doc, nil
}
