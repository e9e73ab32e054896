package corpus

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestSaveAndLoad(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "texts"))

	path, err := store.Save("123.0", "Title", "Body text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(path) != "123.0.txt" {
		t.Errorf("unexpected file name %q", filepath.Base(path))
	}

	text, err := store.Load("123.0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Title\n\nBody text" {
		t.Errorf("unexpected content %q", text)
	}
}

func TestSaveRejectsPathIDs(t *testing.T) {
	store := NewStore(t.TempDir())
	for _, id := range []string{"", "..", "a/b", `a\b`} {
		if _, err := store.Save(id, "t", "x"); err == nil {
			t.Errorf("expected error for id %q", id)
		}
	}
}

func TestListSortedAndFiltered(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	for _, id := range []string{"b", "a", "c"} {
		if _, err := store.Save(id, "", ""); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}
	os.WriteFile(filepath.Join(dir, "notes.md"), []byte("x"), 0o644)
	os.Mkdir(filepath.Join(dir, "sub.txt"), 0o755)

	ids, err := store.List()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(ids, want) {
		t.Errorf("expected %v, got %v", want, ids)
	}
}

func TestListMissingDir(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nope"))
	ids, err := store.List()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("expected empty corpus, got %v", ids)
	}
}
