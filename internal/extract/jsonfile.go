package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/Ricalmaster/Rical-Metrica-Partes/internal/entity"
)

// tokenDump mirrors the JSON emitted by the external text-and-geometry
// extraction step: one file per cutting sheet, one page per rendered page.
type tokenDump struct {
	Source string     `json:"source"`
	Pages  []dumpPage `json:"pages"`
}

type dumpPage struct {
	Number int                      `json:"number"`
	Tokens []entity.PositionedToken `json:"tokens"`
}

// JSONFileExtractor loads token dumps from disk, validating each file against
// the token-dump schema and normalizing token text before it enters the
// pipeline.
type JSONFileExtractor struct {
	schema map[string]any
	logger *slog.Logger
}

func NewJSONFileExtractor(logger *slog.Logger) *JSONFileExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &JSONFileExtractor{
		schema: BuildTokenDumpJSONSchema(),
		logger: logger,
	}
}

// Extract reads and validates one token dump. Token text is NFC-normalized
// (extraction backends emit accents as combining sequences more often than
// not) and empty-after-trim tokens are dropped here, so downstream stages
// only ever see usable tokens.
func (e *JSONFileExtractor) Extract(ctx context.Context, path string) (TokenExtractionResult, error) {
	start := time.Now()
	var res TokenExtractionResult

	if err := ctx.Err(); err != nil {
		return res, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return res, fmt.Errorf("read token dump: %w", err)
	}
	if err := ValidateJSONAgainstSchema(e.schema, data); err != nil {
		return res, fmt.Errorf("token dump %s: %w", path, err)
	}

	var dump tokenDump
	if err := json.Unmarshal(data, &dump); err != nil {
		return res, fmt.Errorf("decode token dump: %w", err)
	}

	dropped := 0
	for _, page := range dump.Pages {
		for _, t := range page.Tokens {
			t.Text = norm.NFC.String(t.Text)
			if strings.TrimSpace(t.Text) == "" {
				dropped++
				continue
			}
			res.Tokens = append(res.Tokens, t)
		}
	}

	res.Pages = len(dump.Pages)
	res.Source = "json-dump"
	res.Duration = time.Since(start)
	if dropped > 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("dropped %d empty tokens", dropped))
	}

	e.logger.Debug("extract.tokens.ok",
		"path", path,
		"pages", res.Pages,
		"tokens", len(res.Tokens),
		"dropped", dropped,
	)
	return res, nil
}
