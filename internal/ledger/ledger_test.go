package ledger

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadMissingFileYieldsEmptyLedger(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "known-chats.txt"))

	known, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(known) != 0 {
		t.Fatalf("expected empty ledger, got %v", known)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "known-chats.txt"))
	want := Ledger{
		100: "Alpha group",
		-42: "Zeta channel with  double space",
		7:   "beta",
	}

	if err := store.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch: got %v, want %v", got, want)
	}
}

func TestSaveSortsByTitle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "known-chats.txt")
	store := NewStore(path)

	if err := store.Save(Ledger{1: "charlie", 2: "alpha", 3: "bravo"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	want := "2 alpha\n3 bravo\n1 charlie\n"
	if string(data) != want {
		t.Fatalf("file content mismatch:\ngot  %q\nwant %q", string(data), want)
	}
}

func TestSaveOverwritesPreviousContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "known-chats.txt")
	store := NewStore(path)

	if err := store.Save(Ledger{1: "one", 2: "two", 3: "three"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save(Ledger{2: "two"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, Ledger{2: "two"}) {
		t.Fatalf("expected full rewrite, got %v", got)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind")
	}
}

func TestLoadMalformedLineFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "known-chats.txt")
	if err := os.WriteFile(path, []byte("1 ok\nnot-a-number title\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := NewStore(path).Load(); err == nil {
		t.Fatalf("expected error for malformed line")
	}
}

func TestTitleSplitsOnFirstSpaceOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "known-chats.txt")
	if err := os.WriteFile(path, []byte("5 My chat with spaces\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := NewStore(path).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got[5] != "My chat with spaces" {
		t.Fatalf("title mismatch: %q", got[5])
	}
}
