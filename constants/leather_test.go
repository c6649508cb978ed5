package constants

import "testing"

func TestFamilyOf(t *testing.T) {
	tests := []struct {
		name     string
		material string
		want     Family
	}{
		{"caprino lowercase", "1cap", Caprino},
		{"caprino uppercase", "1CAP", Caprino},
		{"caprino with suffix", "1cap23", Caprino},
		{"caprino padded", "  1Cap ", Caprino},
		{"vacuno lowercase", "1vaq", Vacuno},
		{"vacuno mixed case", "1VaQ05", Vacuno},
		{"synthetic", "2sin", Unknown},
		{"empty", "", Unknown},
		{"prefix not at start", "x1cap", Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FamilyOf(tt.material); got != tt.want {
				t.Errorf("FamilyOf(%q) = %v, want %v", tt.material, got, tt.want)
			}
		})
	}
}

func TestUnitFor(t *testing.T) {
	if got := UnitFor(Caprino); got != UnitDM2 {
		t.Errorf("UnitFor(Caprino) = %q, want %q", got, UnitDM2)
	}
	if got := UnitFor(Vacuno); got != UnitFT2 {
		t.Errorf("UnitFor(Vacuno) = %q, want %q", got, UnitFT2)
	}
	if got := UnitFor(Unknown); got != UnitNA {
		t.Errorf("UnitFor(Unknown) = %q, want %q", got, UnitNA)
	}
}

func TestNormalizeExt(t *testing.T) {
	if got := NormalizeExt(".JSON"); got != "json" {
		t.Errorf("NormalizeExt(.JSON) = %q, want %q", got, "json")
	}
	if got := NormalizeExt("json"); got != "json" {
		t.Errorf("NormalizeExt(json) = %q, want %q", got, "json")
	}
}
