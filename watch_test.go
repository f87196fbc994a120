package rowan

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestIsConfigFile(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		{"States.json", true},
		{"bundle/prototype.yaml", true},
		{"prototype.YML", true},
		{"Screens/menu.png", false},
		{"notes.txt", false},
		{"noext", false},
	}
	for _, tc := range cases {
		if got := isConfigFile(tc.path); got != tc.want {
			t.Errorf("isConfigFile(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

func TestWatchBundleReportsConfigEdits(t *testing.T) {
	dir := t.TempDir()
	w, err := WatchBundle(dir)
	if err != nil {
		t.Fatalf("WatchBundle: %v", err)
	}
	defer w.Close()

	path := filepath.Join(dir, "States.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	select {
	case got := <-w.Events:
		if got != path {
			t.Errorf("event = %q, want %q", got, path)
		}
	case err := <-w.Errors:
		t.Fatalf("watcher error: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("no event for a config write")
	}
}

func TestWatchBundleCloseIsIdempotent(t *testing.T) {
	w, err := WatchBundle(t.TempDir())
	if err != nil {
		t.Fatalf("WatchBundle: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if _, ok := <-w.Events; ok {
		t.Error("Events should be closed after Close")
	}
}
