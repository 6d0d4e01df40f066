package rundb

import (
	"path/filepath"
	"testing"
)

func TestInsertAndFetchRun(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(filepath.Join(dir, "runs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	id, err := db.InsertRun(RunRecord{
		ConfigJSON:  `{"seed":42}`,
		Seed:        42,
		InputSHA256: "deadbeef",
		FinalEquity: 1_050_000,
		MaxDrawdown: 2500,
		Sharpe:      1.2,
		Sortino:     1.5,
		TotalTrades: 10,
	})
	if err != nil {
		t.Fatalf("InsertRun: %v", err)
	}

	got, err := db.RunByID(id)
	if err != nil {
		t.Fatalf("RunByID: %v", err)
	}
	if got.Seed != 42 || got.InputSHA256 != "deadbeef" {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestInsertSweepPoint(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(filepath.Join(dir, "runs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	id, err := db.InsertRun(RunRecord{ConfigJSON: "{}", Seed: 1, InputSHA256: "abc"})
	if err != nil {
		t.Fatalf("InsertRun: %v", err)
	}
	if err := db.InsertSweepPoint(id, 1000, 1_010_000, 0.9); err != nil {
		t.Fatalf("InsertSweepPoint: %v", err)
	}
}
