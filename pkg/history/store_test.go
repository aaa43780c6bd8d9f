package history

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreRecordAndList(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"run-1", "run-2", "run-3"} {
		err := s.Record(ctx, &Render{
			ID:           id,
			TemplatePath: "broadsea.env.template",
			OutputPath:   ".env",
			KeyCount:     70,
			Checksum:     Checksum([]byte(id)),
			RenderedAt:   base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("failed to record %s: %v", id, err)
		}
	}

	renders, err := s.List(ctx, 2)
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(renders) != 2 {
		t.Fatalf("expected 2 renders, got %d", len(renders))
	}
	if renders[0].ID != "run-3" || renders[1].ID != "run-2" {
		t.Errorf("expected newest first, got %s then %s", renders[0].ID, renders[1].ID)
	}
	if renders[0].KeyCount != 70 {
		t.Errorf("unexpected key count %d", renders[0].KeyCount)
	}
}

func TestStoreLast(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	last, err := s.Last(ctx, ".env")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if last != nil {
		t.Fatal("expected nil for never-rendered path")
	}

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"run-1", "run-2"} {
		err := s.Record(ctx, &Render{
			ID:           id,
			TemplatePath: "t",
			OutputPath:   ".env",
			KeyCount:     1,
			Checksum:     Checksum([]byte(id)),
			RenderedAt:   base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	last, err = s.Last(ctx, ".env")
	if err != nil {
		t.Fatal(err)
	}
	if last == nil || last.ID != "run-2" {
		t.Errorf("expected run-2, got %+v", last)
	}
}

func TestStoreEnablesWAL(t *testing.T) {
	s := openStore(t)

	var mode string
	if err := s.db.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("failed to query journal mode: %v", err)
	}
	if !strings.EqualFold(mode, "wal") {
		t.Errorf("expected WAL journal mode, got %q", mode)
	}
}

func TestChecksumStable(t *testing.T) {
	a := Checksum([]byte("DB_HOST=localhost\n"))
	b := Checksum([]byte("DB_HOST=localhost\n"))
	c := Checksum([]byte("DB_HOST=other\n"))

	if a != b {
		t.Error("identical content must checksum identically")
	}
	if a == c {
		t.Error("different content must checksum differently")
	}
	if len(a) != 64 {
		t.Errorf("expected hex sha256 length 64, got %d", len(a))
	}
}
