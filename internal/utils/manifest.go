package utils

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ReadBulkManifest loads and validates a bulk-download manifest. Every
// entry must be a folder::filename recording id; a bad entry fails the
// whole manifest with its position so the file can be fixed in one pass.
func ReadBulkManifest(filePath string) (*BulkManifest, error) {
	log := GetLogger("config")
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading YAML file: %v", err)
	}
	var manifest BulkManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("error parsing YAML file: %v", err)
	}
	if len(manifest.Recordings) == 0 {
		return nil, fmt.Errorf("manifest lists no recordings")
	}
	for i, id := range manifest.Recordings {
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, fmt.Errorf("empty recording id at entry %d", i+1)
		}
		parts := strings.SplitN(id, RecordingIDSeparator, 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("invalid recording id %q at entry %d: expected folder::filename", id, i+1)
		}
		manifest.Recordings[i] = id
	}
	log.Debug().Int("count", len(manifest.Recordings)).Msg("Recordings loaded from manifest")
	return &manifest, nil
}
