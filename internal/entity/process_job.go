package entity

import (
	"time"

	"github.com/google/uuid"
)

// ProcessJob represents one processing run over a document for data transfer
// between layers.
type ProcessJob struct {
	ID             uuid.UUID  `json:"id"`
	DocumentID     uuid.UUID  `json:"document_id"`
	StartedAt      time.Time  `json:"started_at"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
	Status         string     `json:"status"`
	ErrorMessage   *string    `json:"error_message,omitempty"`
	RowsSeen       int        `json:"rows_seen"`
	PartsExtracted int        `json:"parts_extracted"`
}
