package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bulk.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write manifest: %v", err)
	}
	return path
}

func TestReadBulkManifest(t *testing.T) {
	path := writeManifest(t, `name: gate-footage
recordings:
  - camera_1::recording_120000.mp4
  - "  camera_2::recording_130000.mp4  "
`)

	manifest, err := ReadBulkManifest(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if manifest.Name != "gate-footage" {
		t.Errorf("Expected manifest name gate-footage, got %q", manifest.Name)
	}
	if len(manifest.Recordings) != 2 {
		t.Fatalf("Expected two recordings, got %d", len(manifest.Recordings))
	}
	if manifest.Recordings[1] != "camera_2::recording_130000.mp4" {
		t.Errorf("Expected trimmed recording id, got %q", manifest.Recordings[1])
	}
}

func TestReadBulkManifestRequiresRecordings(t *testing.T) {
	path := writeManifest(t, "name: empty\n")

	_, err := ReadBulkManifest(path)
	if err == nil || !strings.Contains(err.Error(), "no recordings") {
		t.Errorf("Expected a no-recordings error, got %v", err)
	}
}

func TestReadBulkManifestReportsEntryPosition(t *testing.T) {
	path := writeManifest(t, `recordings:
  - camera_1::recording_120000.mp4
  - "  "
`)

	_, err := ReadBulkManifest(path)
	if err == nil || !strings.Contains(err.Error(), "entry 2") {
		t.Errorf("Expected the failing entry position, got %v", err)
	}
}

func TestReadBulkManifestRejectsMalformedID(t *testing.T) {
	path := writeManifest(t, `recordings:
  - recording_120000.mp4
`)

	_, err := ReadBulkManifest(path)
	if err == nil || !strings.Contains(err.Error(), "invalid recording id") {
		t.Errorf("Expected an invalid-id error, got %v", err)
	}
}

func TestReadBulkManifestMissingFile(t *testing.T) {
	if _, err := ReadBulkManifest(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Expected an error for a missing manifest")
	}
}

func TestReadBulkManifestBadYAML(t *testing.T) {
	path := writeManifest(t, "recordings: [unclosed\n")

	_, err := ReadBulkManifest(path)
	if err == nil || !strings.Contains(err.Error(), "parsing YAML") {
		t.Errorf("Expected a YAML parse error, got %v", err)
	}
}
