package assets

import (
	"os"
	"strings"
	"testing"
)

func TestSaveAndResolve(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	name, err := store.Save("embedded", 1, "PNG", []byte("fake image bytes"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasPrefix(name, "embedded_1_") || !strings.HasSuffix(name, ".png") {
		t.Errorf("unexpected file name %q", name)
	}

	path, err := store.Resolve(name)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	if string(data) != "fake image bytes" {
		t.Errorf("saved content mismatch: %q", data)
	}
}

func TestSaveDefaultsToPNG(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	name, err := store.Save("raster", 3, "", []byte("x"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasSuffix(name, ".png") {
		t.Errorf("empty format should default to png, got %q", name)
	}
}

func TestResolveRejectsTraversal(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	for _, name := range []string{"", "../secret", "a/b.png", "..", "./x.png"} {
		if _, err := store.Resolve(name); err == nil {
			t.Errorf("Resolve(%q) should fail", name)
		}
	}
}

func TestResolveMissingFile(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if _, err := store.Resolve("nope.png"); err == nil {
		t.Error("Resolve of missing file should fail")
	}
}
