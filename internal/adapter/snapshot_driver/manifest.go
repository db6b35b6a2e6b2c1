package snapshot_driver

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ManifestFile names the index of a snapshot directory. It maps each URL to
// the files of its pages, in pagination order:
//
//	{"https://shop.example/p/1": ["p1-page1.html", "p1-page2.html"]}
const ManifestFile = "manifest.json"

// LoadDir reads a snapshot directory into the page map NewSnapshotDriver
// takes.
func LoadDir(dir string) (map[string][]string, error) {
	raw, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot manifest: %w", err)
	}

	var manifest map[string][]string
	if err := json.Unmarshal(raw, &manifest); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot manifest: %w", err)
	}

	pages := make(map[string][]string, len(manifest))
	for url, files := range manifest {
		for _, name := range files {
			body, err := os.ReadFile(filepath.Join(dir, name))
			if err != nil {
				return nil, fmt.Errorf("failed to read snapshot %s for %s: %w", name, url, err)
			}
			pages[url] = append(pages[url], string(body))
		}
	}
	return pages, nil
}
