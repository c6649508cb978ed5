package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Ricalmaster/Rical-Metrica-Partes/constants"
	"github.com/Ricalmaster/Rical-Metrica-Partes/internal/common"
	"github.com/Ricalmaster/Rical-Metrica-Partes/internal/entity"
)

type PartRepository interface {
	// ReplaceForDocument swaps a document's parts for a freshly processed
	// batch, preserving batch order. Reprocessing is a full replace so the
	// stored rows always mirror one processing run.
	ReplaceForDocument(ctx context.Context, documentID uuid.UUID, parts []entity.ProcessedPart) error
	ListByDocument(ctx context.Context, documentID uuid.UUID) ([]entity.ProcessedPart, error)
	ListAll(ctx context.Context) ([]entity.ProcessedPart, error)
	Count(ctx context.Context) (int, error)
}

type partRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewPartRepository(db *DB, logger *slog.Logger) PartRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &partRepository{db: db, logger: logger}
}

func (r *partRepository) ReplaceForDocument(ctx context.Context, documentID uuid.UUID, parts []entity.ProcessedPart) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return common.WrapError(err, "begin tx")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, r.db.rebind(
		`DELETE FROM parts WHERE document_id = ?`), documentID.String()); err != nil {
		return common.WrapError(err, "delete old parts")
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	insert := r.db.rebind(
		`INSERT INTO parts (id, document_id, position, material, color, description, notes,
		                    width_mm, height_mm, quantity, leather_label, final_description,
		                    area, area_unit, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	for i, p := range parts {
		if _, err := tx.ExecContext(ctx, insert,
			p.ID.String(), documentID.String(), i,
			p.Material, p.Color, p.Description, p.Notes,
			p.WidthMM, p.HeightMM, p.Quantity,
			p.LeatherLabel, p.FinalDescription,
			p.Area, string(p.AreaUnit), now,
		); err != nil {
			r.logger.Error("failed to insert part", "part_id", p.ID, "error", err)
			return common.WrapError(err, "insert part")
		}
	}

	if err := tx.Commit(); err != nil {
		return common.WrapError(err, "commit parts")
	}
	r.logger.Debug("parts replaced", "document_id", documentID, "count", len(parts))
	return nil
}

func (r *partRepository) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]entity.ProcessedPart, error) {
	rows, err := r.db.QueryContext(ctx, r.db.rebind(
		selectParts+` WHERE document_id = ? ORDER BY position`), documentID.String())
	if err != nil {
		return nil, common.WrapError(err, "list parts")
	}
	return collectParts(rows)
}

func (r *partRepository) ListAll(ctx context.Context) ([]entity.ProcessedPart, error) {
	rows, err := r.db.QueryContext(ctx, selectParts+` ORDER BY document_id, position`)
	if err != nil {
		return nil, common.WrapError(err, "list parts")
	}
	return collectParts(rows)
}

func (r *partRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM parts`).Scan(&n); err != nil {
		return 0, common.WrapError(err, "count parts")
	}
	return n, nil
}

const selectParts = `SELECT id, document_id, material, color, description, notes,
       width_mm, height_mm, quantity, leather_label, final_description, area, area_unit
  FROM parts`

func collectParts(rows *sql.Rows) ([]entity.ProcessedPart, error) {
	defer func() {
		_ = rows.Close()
	}()

	var out []entity.ProcessedPart
	for rows.Next() {
		var (
			p        entity.ProcessedPart
			id, doc  string
			areaUnit string
		)
		if err := rows.Scan(&id, &doc, &p.Material, &p.Color, &p.Description, &p.Notes,
			&p.WidthMM, &p.HeightMM, &p.Quantity, &p.LeatherLabel, &p.FinalDescription,
			&p.Area, &areaUnit); err != nil {
			return nil, common.WrapError(err, "scan part")
		}
		var err error
		if p.ID, err = uuid.Parse(id); err != nil {
			return nil, common.WrapError(err, "parse part id")
		}
		if p.DocumentID, err = uuid.Parse(doc); err != nil {
			return nil, common.WrapError(err, "parse part document id")
		}
		p.AreaUnit = constants.AreaUnit(areaUnit)
		out = append(out, p)
	}
	return out, rows.Err()
}
