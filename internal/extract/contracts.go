package extract

import (
	"context"
	"time"

	"github.com/Ricalmaster/Rical-Metrica-Partes/internal/entity"
)

// TokenExtractor turns a cutting-sheet source file into positioned tokens.
// The geometry contract: document coordinates, Y increasing upward, one token
// per contiguous run of extracted text.
type TokenExtractor interface {
	Extract(ctx context.Context, path string) (TokenExtractionResult, error)
}

type TokenExtractionResult struct {
	Tokens   []entity.PositionedToken
	Pages    int
	Source   string // "json-dump"
	Duration time.Duration
	Warnings []string
}
