package entity

import (
	"github.com/google/uuid"

	"github.com/Ricalmaster/Rical-Metrica-Partes/constants"
)

// RawPart represents one cutting piece as extracted from a sheet, before
// classification. Width/height of 0 mean "unknown".
type RawPart struct {
	ID          uuid.UUID `json:"id"`
	DocumentID  uuid.UUID `json:"document_id"`
	Material    string    `json:"material"`
	Color       string    `json:"color"`
	Description string    `json:"description"`
	Notes       string    `json:"notes"`
	WidthMM     float64   `json:"width_mm"`
	HeightMM    float64   `json:"height_mm"`
	Quantity    int       `json:"quantity"`
}

// ProcessedPart is a RawPart with its derived leather group and cut area.
// It is never persisted independently of its source RawPart fields.
type ProcessedPart struct {
	RawPart

	LeatherLabel     string             `json:"leather_label,omitempty"`
	FinalDescription string             `json:"final_description"`
	Area             float64            `json:"area"`
	AreaUnit         constants.AreaUnit `json:"area_unit"`
}
