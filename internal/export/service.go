// Package export renders processed parts as delimited text or XLSX cutting
// lists. Area re-computation for a user-chosen unit shares the conversion
// constants with the classifier so both paths stay numerically consistent.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/Ricalmaster/Rical-Metrica-Partes/constants"
	"github.com/Ricalmaster/Rical-Metrica-Partes/internal/entity"
	"github.com/Ricalmaster/Rical-Metrica-Partes/internal/pipeline/classify"
	"github.com/Ricalmaster/Rical-Metrica-Partes/internal/repository"
)

// UnitChoice selects the unit the export is computed in. UnitAuto keeps each
// part's own family unit; the fixed choices recompute every row.
type UnitChoice string

const (
	UnitAuto UnitChoice = "auto"
	UnitDM2  UnitChoice = "dm2"
	UnitFT2  UnitChoice = "ft2"
)

// ParseUnitChoice validates a CLI/config unit string.
func ParseUnitChoice(s string) (UnitChoice, error) {
	switch UnitChoice(s) {
	case UnitAuto, UnitDM2, UnitFT2:
		return UnitChoice(s), nil
	default:
		return "", fmt.Errorf("invalid unit %q: want auto, dm2 or ft2", s)
	}
}

// Service is a small façade over the part repository that produces export
// bytes plus the filename encoding the chosen unit.
type Service struct {
	partsRepo repository.PartRepository
	logger    *slog.Logger
}

func NewService(partsRepo repository.PartRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{partsRepo: partsRepo, logger: logger}
}

// ExportDocumentCSV renders one document's parts; a nil documentID exports
// every stored part.
func (s *Service) ExportDocumentCSV(ctx context.Context, documentID *uuid.UUID, unit UnitChoice) ([]byte, string, error) {
	parts, err := s.load(ctx, documentID)
	if err != nil {
		return nil, "", err
	}
	data, err := BuildCSV(parts, unit)
	if err != nil {
		return nil, "", err
	}
	s.logger.Info("export.csv.ok", "rows", len(parts), "unit", string(unit))
	return data, Filename(unit, "csv"), nil
}

// ExportDocumentXLSX is the XLSX sibling of ExportDocumentCSV.
func (s *Service) ExportDocumentXLSX(ctx context.Context, documentID *uuid.UUID, unit UnitChoice) ([]byte, string, error) {
	start := time.Now()
	parts, err := s.load(ctx, documentID)
	if err != nil {
		return nil, "", err
	}
	data, err := BuildXLSX(parts, unit)
	if err != nil {
		return nil, "", err
	}
	s.logger.Info("export.xlsx.ok",
		"rows", len(parts),
		"unit", string(unit),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return data, Filename(unit, "xlsx"), nil
}

func (s *Service) load(ctx context.Context, documentID *uuid.UUID) ([]entity.ProcessedPart, error) {
	if documentID != nil {
		return s.partsRepo.ListByDocument(ctx, *documentID)
	}
	return s.partsRepo.ListAll(ctx)
}

// Filename encodes the chosen unit into the export filename.
func Filename(unit UnitChoice, ext string) string {
	switch unit {
	case UnitDM2:
		return "partes_dm2." + ext
	case UnitFT2:
		return "partes_ft2." + ext
	default:
		return "partes." + ext
	}
}

// Header returns the canonical cutting-list header for the chosen unit.
func Header(unit UnitChoice) []string {
	return []string{
		"Material",
		"Color",
		"Descripción",
		"Ancho (mm)",
		"Alto (mm)",
		"Cantidad",
		fmt.Sprintf("Área (%s)", unitLabel(unit)),
	}
}

func unitLabel(unit UnitChoice) string {
	switch unit {
	case UnitDM2:
		return string(constants.UnitDM2)
	case UnitFT2:
		return string(constants.UnitFT2)
	default:
		return "auto"
	}
}

// rowArea picks the area for one part under the chosen unit. Fixed units
// recompute from raw dimensions with the same constants as the classifier;
// auto keeps the per-material area derived during classification.
func rowArea(p entity.ProcessedPart, unit UnitChoice) float64 {
	switch unit {
	case UnitDM2:
		return classify.AreaIn(constants.UnitDM2, p.WidthMM, p.HeightMM, p.Quantity)
	case UnitFT2:
		return classify.AreaIn(constants.UnitFT2, p.WidthMM, p.HeightMM, p.Quantity)
	default:
		return p.Area
	}
}

// BuildCSV renders parts as a delimited text file, one row per part, area to
// exactly 2 decimal places.
func BuildCSV(parts []entity.ProcessedPart, unit UnitChoice) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(Header(unit)); err != nil {
		return nil, fmt.Errorf("csv header: %w", err)
	}
	for _, p := range parts {
		record := []string{
			p.Material,
			p.Color,
			p.FinalDescription,
			fmt.Sprintf("%g", p.WidthMM),
			fmt.Sprintf("%g", p.HeightMM),
			fmt.Sprintf("%d", p.Quantity),
			fmt.Sprintf("%.2f", rowArea(p, unit)),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv flush: %w", err)
	}
	return buf.Bytes(), nil
}

// BuildXLSX renders parts as an XLSX workbook with one "Partes" sheet.
func BuildXLSX(parts []entity.ProcessedPart, unit UnitChoice) ([]byte, error) {
	f := excelize.NewFile()
	const sheet = "Partes"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	for i, h := range Header(unit) {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, p := range parts {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, p.Material)
		write(2, p.Color)
		write(3, p.FinalDescription)
		write(4, p.WidthMM)
		write(5, p.HeightMM)
		write(6, p.Quantity)
		write(7, fmt.Sprintf("%.2f", rowArea(p, unit)))
		row++
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "B", 14) // material, color
	_ = f.SetColWidth(sheet, "C", "C", 40) // description
	_ = f.SetColWidth(sheet, "D", "F", 12) // dimensions, quantity
	_ = f.SetColWidth(sheet, "G", "G", 14) // area

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
