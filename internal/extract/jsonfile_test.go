package extract

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeDump(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sheet.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestJSONFileExtractor(t *testing.T) {
	e := NewJSONFileExtractor(nil)

	t.Run("valid dump", func(t *testing.T) {
		path := writeDump(t, `{
			"source": "pdf-layout",
			"pages": [
				{"number": 1, "tokens": [
					{"text": "1cap/Negro", "x": 40, "y": 700, "width": 60, "height": 9},
					{"text": "  ", "x": 100, "y": 700},
					{"text": "300x400", "x": 140, "y": 701}
				]}
			]
		}`)
		res, err := e.Extract(context.Background(), path)
		if err != nil {
			t.Fatalf("Extract failed: %v", err)
		}
		if len(res.Tokens) != 2 {
			t.Errorf("tokens = %d, want 2 (blank dropped)", len(res.Tokens))
		}
		if res.Pages != 1 {
			t.Errorf("pages = %d, want 1", res.Pages)
		}
		if len(res.Warnings) != 1 {
			t.Errorf("warnings = %v, want one dropped-token warning", res.Warnings)
		}
	})

	t.Run("missing pages rejected", func(t *testing.T) {
		path := writeDump(t, `{"source": "pdf-layout"}`)
		if _, err := e.Extract(context.Background(), path); err == nil {
			t.Fatal("expected schema validation error")
		}
	})

	t.Run("token without coordinates rejected", func(t *testing.T) {
		path := writeDump(t, `{"pages": [{"tokens": [{"text": "1cap"}]}]}`)
		if _, err := e.Extract(context.Background(), path); err == nil {
			t.Fatal("expected schema validation error")
		}
	})

	t.Run("unknown token field rejected", func(t *testing.T) {
		path := writeDump(t, `{"pages": [{"tokens": [{"text": "a", "x": 1, "y": 2, "page": 9}]}]}`)
		if _, err := e.Extract(context.Background(), path); err == nil {
			t.Fatal("expected schema validation error")
		}
	})

	t.Run("text normalized to NFC", func(t *testing.T) {
		// "o" followed by a combining acute accent (U+0301).
		path := writeDump(t, `{"pages": [{"tokens": [{"text": "Descripcio\u0301n", "x": 1, "y": 2}]}]}`)
		res, err := e.Extract(context.Background(), path)
		if err != nil {
			t.Fatalf("Extract failed: %v", err)
		}
		if res.Tokens[0].Text != "Descripción" {
			t.Errorf("text = %q, want NFC %q", res.Tokens[0].Text, "Descripción")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := e.Extract(context.Background(), filepath.Join(t.TempDir(), "nope.json")); err == nil {
			t.Fatal("expected read error")
		}
	})
}
