package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Ricalmaster/Rical-Metrica-Partes/constants"
	"github.com/Ricalmaster/Rical-Metrica-Partes/internal/common"
	"github.com/Ricalmaster/Rical-Metrica-Partes/internal/entity"
)

type ProcessJobRepository interface {
	Start(ctx context.Context, documentID uuid.UUID) (*entity.ProcessJob, error)
	FinishSuccess(ctx context.Context, jobID uuid.UUID, rowsSeen, partsExtracted int) error
	FinishFailure(ctx context.Context, jobID uuid.UUID, message string) error
}

type processJobRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewProcessJobRepository(db *DB, logger *slog.Logger) ProcessJobRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &processJobRepository{db: db, logger: logger}
}

func (r *processJobRepository) Start(ctx context.Context, documentID uuid.UUID) (*entity.ProcessJob, error) {
	job := &entity.ProcessJob{
		ID:         uuid.New(),
		DocumentID: documentID,
		StartedAt:  time.Now().UTC(),
		Status:     string(constants.JobStatusRunning),
	}
	_, err := r.db.ExecContext(ctx, r.db.rebind(
		`INSERT INTO process_jobs (id, document_id, started_at, status)
		 VALUES (?, ?, ?, ?)`),
		job.ID.String(), job.DocumentID.String(),
		job.StartedAt.Format(time.RFC3339Nano), job.Status,
	)
	if err != nil {
		r.logger.Error("failed to start job", "document_id", documentID, "error", err)
		return nil, common.WrapError(err, "start job")
	}
	return job, nil
}

func (r *processJobRepository) FinishSuccess(ctx context.Context, jobID uuid.UUID, rowsSeen, partsExtracted int) error {
	_, err := r.db.ExecContext(ctx, r.db.rebind(
		`UPDATE process_jobs
		 SET status = ?, finished_at = ?, rows_seen = ?, parts_extracted = ?, error_message = NULL
		 WHERE id = ?`),
		string(constants.JobStatusDone), time.Now().UTC().Format(time.RFC3339Nano),
		rowsSeen, partsExtracted, jobID.String(),
	)
	return common.WrapError(err, "finish job")
}

func (r *processJobRepository) FinishFailure(ctx context.Context, jobID uuid.UUID, message string) error {
	_, err := r.db.ExecContext(ctx, r.db.rebind(
		`UPDATE process_jobs
		 SET status = ?, finished_at = ?, error_message = ?
		 WHERE id = ?`),
		string(constants.JobStatusFailed), time.Now().UTC().Format(time.RFC3339Nano),
		message, jobID.String(),
	)
	return common.WrapError(err, "fail job")
}
