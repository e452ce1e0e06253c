package storage

import (
	"testing"
	"time"
)

func openTestStorage(t *testing.T) *Storage {
	t.Helper()
	store, err := OpenStorage(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveLoadAnalysis(t *testing.T) {
	store := openTestStorage(t)

	record := &AnalysisRecord{
		HashKey:     "0x0123456789abcdef",
		PlayerColor: "white",
		Depth:       64,
		Score:       30990,
		Win:         true,
		Sequence:    []string{"i8", "j8", "i9"},
		Nodes:       12345,
	}

	id, err := store.SaveAnalysis(record)
	if err != nil {
		t.Fatal(err)
	}
	if id == "" {
		t.Fatal("empty id")
	}

	loaded, err := store.LoadAnalysis(id)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.HashKey != record.HashKey || loaded.Score != record.Score || !loaded.Win {
		t.Errorf("loaded = %+v", loaded)
	}
	if len(loaded.Sequence) != 3 || loaded.Sequence[0] != "i8" {
		t.Errorf("sequence = %v", loaded.Sequence)
	}
	if loaded.CreatedAt.IsZero() || time.Since(loaded.CreatedAt) > time.Minute {
		t.Errorf("created at = %v", loaded.CreatedAt)
	}
}

func TestLoadMissingAnalysis(t *testing.T) {
	store := openTestStorage(t)

	if _, err := store.LoadAnalysis("no-such-id"); err == nil {
		t.Error("missing record loaded without error")
	}
}

func TestFindByPosition(t *testing.T) {
	store := openTestStorage(t)

	if _, found, err := store.FindByPosition("0xdead"); err != nil || found {
		t.Fatalf("empty store lookup: found=%v err=%v", found, err)
	}

	first := &AnalysisRecord{HashKey: "0xdead", PlayerColor: "black", Depth: 16}
	if _, err := store.SaveAnalysis(first); err != nil {
		t.Fatal(err)
	}

	second := &AnalysisRecord{HashKey: "0xdead", PlayerColor: "black", Depth: 64, Win: true}
	secondID, err := store.SaveAnalysis(second)
	if err != nil {
		t.Fatal(err)
	}

	latest, found, err := store.FindByPosition("0xdead")
	if err != nil || !found {
		t.Fatalf("lookup failed: found=%v err=%v", found, err)
	}
	if latest.ID != secondID {
		t.Error("index does not point at the latest record")
	}
}

func TestListAnalyses(t *testing.T) {
	store := openTestStorage(t)

	for i := 0; i < 3; i++ {
		if _, err := store.SaveAnalysis(&AnalysisRecord{HashKey: "0x1", PlayerColor: "black"}); err != nil {
			t.Fatal(err)
		}
	}

	records, err := store.ListAnalyses()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Errorf("listed %d records, want 3", len(records))
	}
}
