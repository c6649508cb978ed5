package constants

import "strings"

// Family is the leather family a material code belongs to.
type Family string

const (
	Caprino Family = "CAPRINO" // goat leather, measured in dm²
	Vacuno  Family = "VACUNO"  // cattle leather, measured in ft²
	Unknown Family = "UNKNOWN"
)

// Material-code prefixes recognized as leather (case-insensitive).
const (
	CaprinoPrefix = "1cap"
	VacunoPrefix  = "1vaq"
)

// AreaUnit is the unit a part's cut area is reported in.
type AreaUnit string

// Stable values (store these exact strings in DB and exports).
const (
	UnitDM2 AreaUnit = "dm²"
	UnitFT2 AreaUnit = "ft²"
	UnitNA  AreaUnit = "N/A"
)

// Conversion factors from mm². The ft² factor is exact:
// 1 ft² = 144 in² = 144 * 645.16 mm² = 92903.04 mm².
const (
	MM2PerDM2 = 10000.0
	MM2PerFT2 = 92903.04
)

// LabelPrefix is the human-facing leather group name prefix ("Cuero 1", "Cuero 2", ...).
const LabelPrefix = "Cuero"

// FamilyOf classifies a raw material code by its prefix.
func FamilyOf(material string) Family {
	m := strings.ToLower(strings.TrimSpace(material))
	switch {
	case strings.HasPrefix(m, CaprinoPrefix):
		return Caprino
	case strings.HasPrefix(m, VacunoPrefix):
		return Vacuno
	default:
		return Unknown
	}
}

// UnitFor returns the area unit implied by a family.
func UnitFor(f Family) AreaUnit {
	switch f {
	case Caprino:
		return UnitDM2
	case Vacuno:
		return UnitFT2
	default:
		return UnitNA
	}
}

// IsLeather reports whether the material code matches a recognized leather family.
func IsLeather(material string) bool {
	return FamilyOf(material) != Unknown
}
