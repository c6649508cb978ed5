// Package rowgroup reconstructs the visual rows of a cutting sheet from the
// flat bag of positioned tokens produced by the text-extraction step.
package rowgroup

import (
	"math"
	"sort"
	"strings"

	"github.com/Ricalmaster/Rical-Metrica-Partes/internal/entity"
)

// DefaultTolerance is the maximum Y distance, in document units, between two
// tokens judged to lie on the same printed line. Calibrated to the extraction
// library's font-size units; swap the backend, recalibrate the tolerance.
const DefaultTolerance = 5.0

// GroupRows clusters tokens into ordered rows. Y increases upward, so rows
// come out in top-to-bottom document order; within each row tokens are ordered
// left-to-right by X. Tokens whose trimmed text is empty are dropped first.
//
// Pure function: it never fails and never mutates its input. Empty input
// yields nil.
func GroupRows(tokens []entity.PositionedToken, tolerance float64) []entity.Row {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}

	filtered := make([]entity.PositionedToken, 0, len(tokens))
	for _, t := range tokens {
		if strings.TrimSpace(t.Text) == "" {
			continue
		}
		filtered = append(filtered, t)
	}
	if len(filtered) == 0 {
		return nil
	}

	// Read order: top-to-bottom, then left-to-right, tolerating baseline
	// jitter smaller than the tolerance within one printed line.
	sort.SliceStable(filtered, func(i, j int) bool {
		a, b := filtered[i], filtered[j]
		if math.Abs(a.Y-b.Y) < tolerance {
			return a.X < b.X
		}
		return a.Y > b.Y
	})

	var rows []entity.Row
	var current entity.Row
	for _, t := range filtered {
		// A row breaks when the token drops far enough below the row's
		// first token, not its nearest neighbor.
		if len(current) > 0 && math.Abs(t.Y-current[0].Y) >= tolerance {
			rows = append(rows, closeRow(current))
			current = nil
		}
		current = append(current, t)
	}
	if len(current) > 0 {
		rows = append(rows, closeRow(current))
	}
	return rows
}

// closeRow guarantees left-to-right field order regardless of extraction order.
func closeRow(row entity.Row) entity.Row {
	sort.SliceStable(row, func(i, j int) bool { return row[i].X < row[j].X })
	return row
}
