package out_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	collectorout "flowmodoro/internal/modules/collector/adapter/out"
	"flowmodoro/internal/modules/collector/domain"

	_ "modernc.org/sqlite"
)

func TestInsertAndListByDay(t *testing.T) {
	t.Parallel()
	repo, err := collectorout.NewSQLiteSessionRepository(filepath.Join(t.TempDir(), "server", "flowmodoro.db"))
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	defer repo.Close()
	ctx := context.Background()
	seed := []domain.Session{
		{Seconds: 1500, Kind: "flow", Action: "stop", Timestamp: "2024-01-01T09:00:00.000Z", LocalDay: "2024-01-01"},
		{Seconds: 300, Kind: "break", Action: "complete", Timestamp: "2024-01-01T09:30:00.000Z", LocalDay: "2024-01-01"},
		{Seconds: 100, Kind: "flow", Timestamp: "2024-01-01T23:30:00.000Z", LocalDay: "2024-01-02"},
		{Seconds: 60, Kind: "flow", Timestamp: "2024-01-01T12:00:00.000Z"},
	}
	for _, s := range seed {
		if _, err := repo.Insert(ctx, s); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	got, err := repo.ListByDay(ctx, "2024-01-01")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 sessions for 2024-01-01, got %d: %+v", len(got), got)
	}
	if got[0].ID == 0 || got[0].Action != "stop" {
		t.Fatalf("unexpected first row %+v", got[0])
	}
	if got[2].LocalDay != "" {
		t.Fatalf("legacy row must keep empty local day, got %+v", got[2])
	}
	next, err := repo.ListByDay(ctx, "2024-01-02")
	if err != nil {
		t.Fatalf("list next day: %v", err)
	}
	if len(next) != 1 || next[0].Seconds != 100 {
		t.Fatalf("a stored local day must not match by timestamp prefix: %+v", next)
	}
}

func TestSchemaUpgradeAddsMissingColumns(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "legacy.db")
	legacy, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open legacy: %v", err)
	}
	if _, err := legacy.Exec(`CREATE TABLE sessions (id INTEGER PRIMARY KEY AUTOINCREMENT, seconds INTEGER NOT NULL, kind TEXT NOT NULL, date TEXT NOT NULL)`); err != nil {
		t.Fatalf("create legacy table: %v", err)
	}
	if _, err := legacy.Exec(`INSERT INTO sessions (seconds, kind, date) VALUES (120, 'flow', '2023-05-06T08:00:00.000Z')`); err != nil {
		t.Fatalf("seed legacy row: %v", err)
	}
	if err := legacy.Close(); err != nil {
		t.Fatalf("close legacy: %v", err)
	}

	repo, err := collectorout.NewSQLiteSessionRepository(path)
	if err != nil {
		t.Fatalf("open upgraded: %v", err)
	}
	defer repo.Close()
	rows, err := repo.ListByDay(context.Background(), "2023-05-06")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 || rows[0].Seconds != 120 {
		t.Fatalf("expected legacy row by timestamp prefix, got %+v", rows)
	}
	if _, err := repo.Insert(context.Background(), domain.Session{Seconds: 5, Kind: "break", Action: "skip", Timestamp: "2023-05-06T09:00:00.000Z", LocalDay: "2023-05-06"}); err != nil {
		t.Fatalf("insert after upgrade: %v", err)
	}
}
