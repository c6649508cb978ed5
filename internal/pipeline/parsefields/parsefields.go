// Package parsefields turns one reconstructed row of a cutting sheet into a
// raw part record, using an ordered table of heuristic token rules.
package parsefields

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/Ricalmaster/Rical-Metrica-Partes/constants"
	"github.com/Ricalmaster/Rical-Metrica-Partes/internal/entity"
)

var (
	reDimension = regexp.MustCompile(`^(\d+)\s*[xX*]\s*(\d+)$`)
	reInteger   = regexp.MustCompile(`^\d+$`)
)

// rowState accumulates field candidates while scanning one row's tokens.
type rowState struct {
	material string
	color    string
	width    float64
	height   float64
	quantity int

	descParts []string
	numbers   []int

	materialFound  bool
	dimensionFound bool
}

// rule is one entry of the ordered classification table. Rules are tried in
// order per token; the first rule that consumes the token wins.
type rule struct {
	name  string
	apply func(s *rowState, token string) bool
}

// Rule order is load-bearing: a material code that happens to contain digits
// must not reach the number rules, and a "300x400" token must not be split
// into description fragments.
var rules = []rule{
	{name: "material", apply: applyMaterial},
	{name: "dimension", apply: applyDimension},
	{name: "number", apply: applyNumber},
	{name: "description", apply: applyDescription},
}

// applyMaterial consumes the first token that carries a material/color code:
// either a "material/color" pair or a bare leather-family code.
func applyMaterial(s *rowState, token string) bool {
	if s.materialFound {
		return false
	}
	if !strings.Contains(token, "/") && !constants.IsLeather(token) {
		return false
	}
	if i := strings.Index(token, "/"); i >= 0 {
		s.material = token[:i]
		s.color = token[i+1:]
	} else {
		s.material = token
	}
	s.materialFound = true
	return true
}

// applyDimension consumes the first explicit "<w> x <h>" token.
func applyDimension(s *rowState, token string) bool {
	if s.dimensionFound {
		return false
	}
	m := reDimension.FindStringSubmatch(token)
	if m == nil {
		return false
	}
	w, _ := strconv.Atoi(m[1])
	h, _ := strconv.Atoi(m[2])
	s.width = float64(w)
	s.height = float64(h)
	s.dimensionFound = true
	return true
}

// applyNumber collects bare integers for post-scan disambiguation.
func applyNumber(s *rowState, token string) bool {
	if !reInteger.MatchString(token) {
		return false
	}
	n, err := strconv.Atoi(token)
	if err != nil {
		return false
	}
	s.numbers = append(s.numbers, n)
	return true
}

// applyDescription keeps anything that looks like text, dropping stray
// single-character punctuation noise.
func applyDescription(s *rowState, token string) bool {
	if utf8.RuneCountInString(token) <= 1 && !hasLetter(token) {
		return false
	}
	s.descParts = append(s.descParts, token)
	return true
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// ParseRow extracts a raw part from one row of tokens. The second return is
// false when the row carries no usable part (headers, page numbers,
// decorative text) — such rows are silently discarded, never an error.
func ParseRow(row entity.Row, documentID uuid.UUID) (entity.RawPart, bool) {
	var s rowState
	for _, t := range row {
		token := strings.TrimSpace(t.Text)
		if token == "" {
			continue
		}
		for _, r := range rules {
			if r.apply(&s, token) {
				break
			}
		}
	}
	s.resolveNumbers()

	if !s.materialFound && !(s.width > 0 && s.height > 0) {
		return entity.RawPart{}, false
	}
	return entity.RawPart{
		ID:          uuid.New(),
		DocumentID:  documentID,
		Material:    s.material,
		Color:       s.color,
		Description: strings.Join(s.descParts, " "),
		WidthMM:     s.width,
		HeightMM:    s.height,
		Quantity:    s.quantity,
	}, true
}

// resolveNumbers assigns the collected bare integers after the scan.
// Without an explicit WxH token, two numbers are width and height and a third
// is the quantity; a single ambiguous number is taken as quantity, not as a
// half-specified dimension. With an explicit WxH token, the first surplus
// number is the quantity and the rest are discarded.
func (s *rowState) resolveNumbers() {
	if !s.dimensionFound {
		switch {
		case len(s.numbers) >= 2:
			s.width = float64(s.numbers[0])
			s.height = float64(s.numbers[1])
			if len(s.numbers) >= 3 {
				s.quantity = s.numbers[2]
			}
		case len(s.numbers) == 1:
			s.quantity = s.numbers[0]
		}
	} else if len(s.numbers) >= 1 {
		s.quantity = s.numbers[0]
	}
	if s.quantity == 0 {
		s.quantity = 1
	}
}

// ParseRows runs ParseRow over a document's rows, keeping input order and
// skipping discarded rows.
func ParseRows(rows []entity.Row, documentID uuid.UUID) []entity.RawPart {
	parts := make([]entity.RawPart, 0, len(rows))
	for _, row := range rows {
		if p, ok := ParseRow(row, documentID); ok {
			parts = append(parts, p)
		}
	}
	return parts
}
