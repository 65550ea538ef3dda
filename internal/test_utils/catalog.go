package test_utils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// WriteCatalog stores entries as an NDJSON timezone catalog in a temporary
// directory and returns its path.
func WriteCatalog(t *testing.T, entries map[string]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "vtimezones.ndjson")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create catalog file: %v", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for name, content := range entries {
		if err := enc.Encode(map[string]string{"name": name, "content": content}); err != nil {
			t.Fatalf("Failed to write catalog entry %s: %v", name, err)
		}
	}
	return path
}
