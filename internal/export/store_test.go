package export

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"
)

func storeImpls(t *testing.T) map[string]Store {
	t.Helper()
	sqlite, err := NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() {
		if err := sqlite.Close(); err != nil {
			t.Errorf("close sqlite store: %v", err)
		}
	})
	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sqlite,
	}
}

func testRecord(i int) Record {
	return Record{
		ID:       fmt.Sprintf("rec-%02d", i),
		Created:  time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Second),
		Filename: fmt.Sprintf("shot-%02d.png", i),
		Image:    []byte{0x89, byte(i)},
		Path:     fmt.Sprintf("/tmp/shot-%02d.png", i),
	}
}

func TestStoreEvictsOldestPastLimit(t *testing.T) {
	for name, store := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < HistoryLimit+5; i++ {
				if err := store.Add(testRecord(i)); err != nil {
					t.Fatalf("add %d: %v", i, err)
				}
			}
			records, err := store.List()
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(records) != HistoryLimit {
				t.Fatalf("retained %d records, want %d", len(records), HistoryLimit)
			}
			if records[0].ID != "rec-24" {
				t.Fatalf("newest first: got %s", records[0].ID)
			}
			if last := records[len(records)-1].ID; last != "rec-05" {
				t.Fatalf("oldest retained should be rec-05, got %s", last)
			}
			if _, err := store.Get("rec-00"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("evicted record still readable: %v", err)
			}
		})
	}
}

func TestStoreGetReturnsPayloadListDoesNot(t *testing.T) {
	for name, store := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			rec := testRecord(3)
			if err := store.Add(rec); err != nil {
				t.Fatalf("add: %v", err)
			}

			records, err := store.List()
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(records) != 1 {
				t.Fatalf("got %d records, want 1", len(records))
			}
			if records[0].Image != nil {
				t.Fatal("List should omit image payloads")
			}
			if records[0].Filename != rec.Filename || records[0].Path != rec.Path {
				t.Fatalf("metadata mismatch: %+v", records[0])
			}

			got, err := store.Get(rec.ID)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if !bytes.Equal(got.Image, rec.Image) {
				t.Fatalf("payload mismatch: %v vs %v", got.Image, rec.Image)
			}
		})
	}
}

func TestStoreGetMissing(t *testing.T) {
	for name, store := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := store.Get("nope"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestStoreClear(t *testing.T) {
	for name, store := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 3; i++ {
				if err := store.Add(testRecord(i)); err != nil {
					t.Fatalf("add: %v", err)
				}
			}
			if err := store.Clear(); err != nil {
				t.Fatalf("clear: %v", err)
			}
			records, err := store.List()
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(records) != 0 {
				t.Fatalf("expected empty store, got %d records", len(records))
			}
		})
	}
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	clipboardRec := Record{
		ID:       "clip-01",
		Created:  time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC),
		Filename: "snapmark-20260102-120000.png",
		Image:    []byte{0x89, 0x50},
	}
	if err := store.Add(clipboardRec); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() {
		if err := reopened.Close(); err != nil {
			t.Errorf("close reopened: %v", err)
		}
	}()

	got, err := reopened.Get("clip-01")
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if !bytes.Equal(got.Image, clipboardRec.Image) {
		t.Fatal("payload lost across reopen")
	}
	if got.Path != "" {
		t.Fatalf("clipboard record path should stay empty, got %q", got.Path)
	}
	if !got.Created.Equal(clipboardRec.Created) {
		t.Fatalf("created time drifted: %v vs %v", got.Created, clipboardRec.Created)
	}
}
