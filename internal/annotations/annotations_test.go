package annotations

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
)

func Test_Names_MissingFileReturnsEmpty(t *testing.T) {
	names := NewNames(filepath.Join(t.TempDir(), NamesFile))

	all := names.All()
	if all == nil || len(all) != 0 {
		t.Errorf("expected empty non-nil map, got %#v", all)
	}
}

func Test_Names_CorruptFileReturnsEmpty(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"garbage", "{not json"},
		{"wrong shape", `["a","b"]`},
		{"null", "null"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), NamesFile)
			os.WriteFile(path, []byte(tt.content), 0644)

			all := NewNames(path).All()
			if all == nil || len(all) != 0 {
				t.Errorf("expected empty map, got %#v", all)
			}
		})
	}
}

func Test_Names_SetThenRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), NamesFile)
	names := NewNames(path)

	if err := names.Set("abc", "First"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := names.Set("abc", "Renamed"); err != nil {
		t.Fatalf("second Set failed: %v", err)
	}

	want := map[string]string{"abc": "Renamed"}
	if got := names.All(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	// On disk as indented JSON.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read document: %v", err)
	}
	if !strings.Contains(string(data), "\n  \"abc\": \"Renamed\"") {
		t.Errorf("expected 2-space indented JSON, got %s", data)
	}
}

func Test_Names_SetKeepsOtherEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), NamesFile)
	os.WriteFile(path, []byte(`{"x":"Existing"}`), 0644)
	names := NewNames(path)

	if err := names.Set("y", "New"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	want := map[string]string{"x": "Existing", "y": "New"}
	if got := names.All(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func Test_Names_SetOnCorruptFileStartsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), NamesFile)
	os.WriteFile(path, []byte("garbage"), 0644)
	names := NewNames(path)

	if err := names.Set("a", "A"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if got := names.All(); !reflect.DeepEqual(got, map[string]string{"a": "A"}) {
		t.Errorf("unexpected names %v", got)
	}
}

func Test_Names_DisplayName(t *testing.T) {
	names := NewNames(filepath.Join(t.TempDir(), NamesFile))
	names.Set("abc", "Pretty")

	if got := names.DisplayName("abc"); got != "Pretty" {
		t.Errorf("expected 'Pretty', got %q", got)
	}
	if got := names.DisplayName("other"); got != "other" {
		t.Errorf("expected id fallback, got %q", got)
	}
}

func Test_Names_ClearRemovesEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), NamesFile)
	os.WriteFile(path, []byte(`{"a":"A","b":"B"}`), 0644)
	names := NewNames(path)

	if err := names.Clear("a"); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if err := names.Clear("missing"); err != nil {
		t.Fatalf("Clear of absent id failed: %v", err)
	}

	want := map[string]string{"b": "B"}
	if got := names.All(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if got := names.DisplayName("a"); got != "a" {
		t.Errorf("expected cleared id to display as itself, got %q", got)
	}
}

func Test_Names_WriteFailureSurfaces(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	os.WriteFile(blocker, []byte("x"), 0644)

	names := NewNames(filepath.Join(blocker, NamesFile))
	if err := names.Set("a", "b"); err == nil {
		t.Fatal("expected write error when parent is a regular file")
	}
}

func Test_Archive_MissingFileReturnsEmpty(t *testing.T) {
	archive := NewArchive(filepath.Join(t.TempDir(), ArchivedFile))

	all := archive.All()
	if all == nil || len(all) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", all)
	}

	data, _ := json.Marshal(all)
	if string(data) != "[]" {
		t.Errorf("expected [] when marshaled, got %s", data)
	}
}

func Test_Archive_ArchiveTwiceKeepsOneEntry(t *testing.T) {
	archive := NewArchive(filepath.Join(t.TempDir(), ArchivedFile))

	for i := 0; i < 2; i++ {
		if err := archive.Set("abc", true); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	if got := archive.All(); !reflect.DeepEqual(got, []string{"abc"}) {
		t.Errorf("expected [abc], got %v", got)
	}
	if !archive.IsArchived("abc") {
		t.Error("expected abc to be archived")
	}
}

func Test_Archive_PreservesInsertionOrder(t *testing.T) {
	archive := NewArchive(filepath.Join(t.TempDir(), ArchivedFile))

	for _, id := range []string{"c", "a", "b"} {
		archive.Set(id, true)
	}
	archive.Set("a", false)

	if got := archive.All(); !reflect.DeepEqual(got, []string{"c", "b"}) {
		t.Errorf("expected [c b], got %v", got)
	}
}

func Test_Archive_UnarchiveAbsentIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), ArchivedFile)
	os.WriteFile(path, []byte(`["x"]`), 0644)
	archive := NewArchive(path)

	if err := archive.Set("missing", false); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if got := archive.All(); !reflect.DeepEqual(got, []string{"x"}) {
		t.Errorf("expected [x], got %v", got)
	}
}

func Test_Archive_UnarchiveRemovesSingleOccurrence(t *testing.T) {
	path := filepath.Join(t.TempDir(), ArchivedFile)
	os.WriteFile(path, []byte(`["x","y","x"]`), 0644)
	archive := NewArchive(path)

	if err := archive.Set("x", false); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if got := archive.All(); !reflect.DeepEqual(got, []string{"y", "x"}) {
		t.Errorf("expected [y x], got %v", got)
	}
}

func Test_Archive_CorruptFileReturnsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), ArchivedFile)
	os.WriteFile(path, []byte(`{"a":1}`), 0644)

	if got := NewArchive(path).All(); len(got) != 0 {
		t.Errorf("expected empty, got %v", got)
	}
}

func Test_Document_ConcurrentUpdatesAllLand(t *testing.T) {
	archive := NewArchive(filepath.Join(t.TempDir(), ArchivedFile))

	var wg sync.WaitGroup
	ids := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if err := archive.Set(id, true); err != nil {
				t.Errorf("Set(%s) failed: %v", id, err)
			}
		}(id)
	}
	wg.Wait()

	if got := archive.All(); len(got) != len(ids) {
		t.Errorf("expected %d archived ids, got %v", len(ids), got)
	}
}

func Test_Document_NoTempFilesLeftBehind(t *testing.T) {
	dir := t.TempDir()
	names := NewNames(filepath.Join(dir, NamesFile))
	names.Set("a", "A")
	names.Set("b", "B")

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("leftover temp file %s", e.Name())
		}
	}
}
