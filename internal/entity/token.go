package entity

// PositionedToken is one contiguous run of extracted text with its position in
// document coordinates. Y increases upward, per the extraction library's
// convention.
type PositionedToken struct {
	Text   string  `json:"text"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Row is a geometric cluster of tokens judged to lie on the same printed line,
// ordered left-to-right by X.
type Row []PositionedToken
