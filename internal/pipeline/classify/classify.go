// Package classify assigns leather group labels to raw parts and computes
// their cut area in the unit implied by the material's code family.
package classify

import (
	"fmt"
	"math"
	"strings"

	"github.com/Ricalmaster/Rical-Metrica-Partes/constants"
	"github.com/Ricalmaster/Rical-Metrica-Partes/internal/entity"
)

// LabelRegistry maps normalized material keys to sequential "Cuero {n}"
// labels. Its scope is exactly one processing invocation: create one per
// batch, share it across every document merged into that batch, and discard
// it afterwards. It is deliberately not global, so unrelated batches never
// cross-contaminate label numbering.
type LabelRegistry struct {
	labels map[string]string
	next   int
}

// NewLabelRegistry returns an empty registry; the first material key seen
// gets label "Cuero 1".
func NewLabelRegistry() *LabelRegistry {
	return &LabelRegistry{labels: make(map[string]string), next: 1}
}

// LabelFor returns the stable label for a material code, allocating the next
// sequential one on first encounter. Keys are case-insensitive and trimmed.
func (r *LabelRegistry) LabelFor(material string) string {
	key := strings.ToLower(strings.TrimSpace(material))
	if label, ok := r.labels[key]; ok {
		return label
	}
	label := fmt.Sprintf("%s %d", constants.LabelPrefix, r.next)
	r.labels[key] = label
	r.next++
	return label
}

// Len reports how many distinct material keys have been labeled.
func (r *LabelRegistry) Len() int {
	return len(r.labels)
}

// Process maps a batch of raw parts to processed parts, preserving input
// order. It mutates no input and is idempotent for a given registry state.
// Unknown material families pass through unclassified with area 0 and unit
// "N/A" — never an error.
func Process(parts []entity.RawPart, reg *LabelRegistry) []entity.ProcessedPart {
	out := make([]entity.ProcessedPart, len(parts))
	for i, p := range parts {
		out[i] = processOne(p, reg)
	}
	return out
}

func processOne(p entity.RawPart, reg *LabelRegistry) entity.ProcessedPart {
	if p.Quantity <= 0 {
		p.Quantity = 1
	}

	pp := entity.ProcessedPart{
		RawPart:          p,
		FinalDescription: finalDescription(p),
		AreaUnit:         constants.UnitNA,
	}

	family := constants.FamilyOf(p.Material)
	if family == constants.Unknown {
		return pp
	}

	pp.LeatherLabel = reg.LabelFor(p.Material)
	pp.AreaUnit = constants.UnitFor(family)
	pp.Area = AreaIn(pp.AreaUnit, p.WidthMM, p.HeightMM, p.Quantity)
	return pp
}

// AreaIn converts a part's raw mm² area (width · height · quantity) into the
// given unit, rounded to 2 decimals. The export path reuses this same
// arithmetic so both stay numerically consistent.
func AreaIn(unit constants.AreaUnit, widthMM, heightMM float64, quantity int) float64 {
	raw := widthMM * heightMM * float64(quantity)
	switch unit {
	case constants.UnitDM2:
		return round2(raw / constants.MM2PerDM2)
	case constants.UnitFT2:
		return round2(raw / constants.MM2PerFT2)
	default:
		return 0
	}
}

func finalDescription(p entity.RawPart) string {
	if p.Notes != "" {
		return strings.TrimSpace(p.Description + " " + p.Notes)
	}
	return strings.TrimSpace(p.Description)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
