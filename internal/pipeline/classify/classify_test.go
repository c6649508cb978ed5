package classify

import (
	"reflect"
	"testing"

	"github.com/google/uuid"

	"github.com/Ricalmaster/Rical-Metrica-Partes/constants"
	"github.com/Ricalmaster/Rical-Metrica-Partes/internal/entity"
)

func part(material string, w, h float64, qty int) entity.RawPart {
	return entity.RawPart{
		ID:       uuid.New(),
		Material: material,
		WidthMM:  w,
		HeightMM: h,
		Quantity: qty,
	}
}

func TestProcessAreaConversion(t *testing.T) {
	tests := []struct {
		name     string
		part     entity.RawPart
		wantArea float64
		wantUnit constants.AreaUnit
		labeled  bool
	}{
		{
			name:     "caprino in dm2",
			part:     part("1cap", 300, 400, 2),
			wantArea: 24.00,
			wantUnit: constants.UnitDM2,
			labeled:  true,
		},
		{
			name:     "vacuno in ft2",
			part:     part("1vaq", 1000, 50, 1),
			wantArea: 0.54,
			wantUnit: constants.UnitFT2,
			labeled:  true,
		},
		{
			name:     "unknown family passes through",
			part:     part("2sin", 300, 400, 2),
			wantArea: 0,
			wantUnit: constants.UnitNA,
			labeled:  false,
		},
		{
			name:     "unknown dimensions yield zero area",
			part:     part("1cap", 0, 0, 3),
			wantArea: 0,
			wantUnit: constants.UnitDM2,
			labeled:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Process([]entity.RawPart{tt.part}, NewLabelRegistry())[0]
			if got.Area != tt.wantArea {
				t.Errorf("Area = %v, want %v", got.Area, tt.wantArea)
			}
			if got.AreaUnit != tt.wantUnit {
				t.Errorf("AreaUnit = %q, want %q", got.AreaUnit, tt.wantUnit)
			}
			if tt.labeled && got.LeatherLabel == "" {
				t.Errorf("expected a leather label, got none")
			}
			if !tt.labeled && got.LeatherLabel != "" {
				t.Errorf("unexpected leather label %q", got.LeatherLabel)
			}
		})
	}
}

func TestProcessLabelStability(t *testing.T) {
	parts := []entity.RawPart{
		part("1CAP/Negro", 100, 100, 1),
		part("1cap/Negro", 100, 100, 1),
		part("1vaq/Cafe", 100, 100, 1),
	}
	got := Process(parts, NewLabelRegistry())

	if got[0].LeatherLabel != "Cuero 1" || got[1].LeatherLabel != "Cuero 1" {
		t.Errorf("case-insensitive key should share label Cuero 1, got %q and %q",
			got[0].LeatherLabel, got[1].LeatherLabel)
	}
	if got[2].LeatherLabel != "Cuero 2" {
		t.Errorf("third part label = %q, want Cuero 2", got[2].LeatherLabel)
	}
}

func TestProcessSharedRegistryAcrossDocuments(t *testing.T) {
	reg := NewLabelRegistry()
	doc1 := Process([]entity.RawPart{part("1cap05", 10, 10, 1)}, reg)
	doc2 := Process([]entity.RawPart{part("1CAP05 ", 10, 10, 1)}, reg)

	if doc1[0].LeatherLabel != doc2[0].LeatherLabel {
		t.Errorf("shared registry must reuse labels across documents: %q vs %q",
			doc1[0].LeatherLabel, doc2[0].LeatherLabel)
	}
	if reg.Len() != 1 {
		t.Errorf("registry keys = %d, want 1", reg.Len())
	}
}

func TestProcessIdempotent(t *testing.T) {
	parts := []entity.RawPart{
		part("1vaq/Cafe", 400, 300, 2),
		part("1cap/Negro", 200, 100, 1),
		part("sintetico", 50, 50, 5),
	}
	first := Process(parts, NewLabelRegistry())
	second := Process(parts, NewLabelRegistry())
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("reprocessing with a fresh registry changed output")
	}
}

func TestProcessDoesNotMutateInput(t *testing.T) {
	parts := []entity.RawPart{part("1cap", 300, 400, 0)}
	got := Process(parts, NewLabelRegistry())
	if parts[0].Quantity != 0 {
		t.Errorf("input quantity mutated to %d", parts[0].Quantity)
	}
	if got[0].Quantity != 1 {
		t.Errorf("processed quantity = %d, want default 1", got[0].Quantity)
	}
}

func TestFinalDescription(t *testing.T) {
	p := part("1cap", 10, 10, 1)
	p.Description = "Frente"
	p.Notes = "revisar flor"
	got := Process([]entity.RawPart{p}, NewLabelRegistry())[0]
	if got.FinalDescription != "Frente revisar flor" {
		t.Errorf("FinalDescription = %q, want %q", got.FinalDescription, "Frente revisar flor")
	}

	p.Notes = ""
	got = Process([]entity.RawPart{p}, NewLabelRegistry())[0]
	if got.FinalDescription != "Frente" {
		t.Errorf("FinalDescription = %q, want %q", got.FinalDescription, "Frente")
	}
}
