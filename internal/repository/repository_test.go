package repository

import (
	"context"
	"crypto/sha256"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Ricalmaster/Rical-Metrica-Partes/constants"
	"github.com/Ricalmaster/Rical-Metrica-Partes/internal/entity"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	ctx := context.Background()
	db, err := Open(ctx, Config{DSN: ":memory:"}, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close(nil) })
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestDocumentUpsertByHash(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := NewDocumentRepository(db, nil)

	hash := sha256.Sum256([]byte("sheet-1"))
	doc, dedup, err := repo.UpsertByHash(ctx, "/sheets/hoja1.json", "json", hash[:], 128, time.Now())
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if dedup {
		t.Error("first upsert should not dedup")
	}
	if doc.Filename != "hoja1.json" || doc.FileExt != "json" {
		t.Errorf("document = %+v", doc)
	}

	again, dedup, err := repo.UpsertByHash(ctx, "/sheets/copia.json", "json", hash[:], 128, time.Now())
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if !dedup {
		t.Error("same content hash should dedup")
	}
	if again.ID != doc.ID {
		t.Errorf("dedup returned a different document: %s vs %s", again.ID, doc.ID)
	}

	got, err := repo.GetByID(ctx, doc.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.SourcePath != "/sheets/hoja1.json" {
		t.Errorf("SourcePath = %q", got.SourcePath)
	}

	n, err := repo.Count(ctx)
	if err != nil || n != 1 {
		t.Errorf("Count = %d (%v), want 1", n, err)
	}
}

func TestProcessJobLifecycle(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	docs := NewDocumentRepository(db, nil)
	jobs := NewProcessJobRepository(db, nil)

	hash := sha256.Sum256([]byte("sheet-2"))
	doc, _, err := docs.UpsertByHash(ctx, "/sheets/hoja2.json", "json", hash[:], 64, time.Now())
	if err != nil {
		t.Fatal(err)
	}

	job, err := jobs.Start(ctx, doc.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if job.Status != string(constants.JobStatusRunning) {
		t.Errorf("status = %q, want RUNNING", job.Status)
	}
	if err := jobs.FinishSuccess(ctx, job.ID, 12, 7); err != nil {
		t.Fatalf("finish success: %v", err)
	}

	job2, err := jobs.Start(ctx, doc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if err := jobs.FinishFailure(ctx, job2.ID, "token dump unreadable"); err != nil {
		t.Fatalf("finish failure: %v", err)
	}
}

func TestPartsReplaceAndList(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	docs := NewDocumentRepository(db, nil)
	parts := NewPartRepository(db, nil)

	hash := sha256.Sum256([]byte("sheet-3"))
	doc, _, err := docs.UpsertByHash(ctx, "/sheets/hoja3.json", "json", hash[:], 64, time.Now())
	if err != nil {
		t.Fatal(err)
	}

	batch := []entity.ProcessedPart{
		{
			RawPart: entity.RawPart{
				ID: uuid.New(), DocumentID: doc.ID,
				Material: "1cap", Color: "Negro", Description: "Frente",
				WidthMM: 300, HeightMM: 400, Quantity: 2,
			},
			LeatherLabel: "Cuero 1", FinalDescription: "Frente",
			Area: 24.00, AreaUnit: constants.UnitDM2,
		},
		{
			RawPart: entity.RawPart{
				ID: uuid.New(), DocumentID: doc.ID,
				Material: "2sin", Description: "Forro",
				WidthMM: 100, HeightMM: 100, Quantity: 1,
			},
			FinalDescription: "Forro",
			Area:             0, AreaUnit: constants.UnitNA,
		},
	}
	if err := parts.ReplaceForDocument(ctx, doc.ID, batch); err != nil {
		t.Fatalf("replace: %v", err)
	}

	got, err := parts.ListByDocument(ctx, doc.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("parts = %d, want 2", len(got))
	}
	if got[0].Material != "1cap" || got[1].Material != "2sin" {
		t.Errorf("batch order not preserved: %q, %q", got[0].Material, got[1].Material)
	}
	if got[0].Area != 24.00 || got[0].AreaUnit != constants.UnitDM2 {
		t.Errorf("round-tripped area = %v %q", got[0].Area, got[0].AreaUnit)
	}
	if got[0].LeatherLabel != "Cuero 1" {
		t.Errorf("LeatherLabel = %q", got[0].LeatherLabel)
	}

	// Reprocessing replaces, never appends.
	if err := parts.ReplaceForDocument(ctx, doc.ID, batch[:1]); err != nil {
		t.Fatalf("second replace: %v", err)
	}
	n, err := parts.Count(ctx)
	if err != nil || n != 1 {
		t.Errorf("Count after replace = %d (%v), want 1", n, err)
	}
}

func TestRebind(t *testing.T) {
	pg := &DB{dialect: dialectPostgres}
	got := pg.rebind("INSERT INTO t (a, b) VALUES (?, ?)")
	want := "INSERT INTO t (a, b) VALUES ($1, $2)"
	if got != want {
		t.Errorf("rebind = %q, want %q", got, want)
	}

	lite := &DB{dialect: dialectSQLite}
	if got := lite.rebind("SELECT ?"); got != "SELECT ?" {
		t.Errorf("sqlite rebind should be a no-op, got %q", got)
	}
}
