//go:build e2e && unix

package main

import (
	"os"
	"path/filepath"
)

// sampleCatalog holds three items across two categories
const sampleCatalog = `{
  "categories": [
    {"name": "Tools", "subcategories": [{"name": "Power Tools", "leaves": ["Drills", "Saws"]}]},
    {"name": "Outdoor", "subcategories": [{"name": "Camping", "leaves": ["Tents"]}]}
  ],
  "items": [
    {"id": 1, "name": "Cordless Drill", "brand": "Bosch", "price": 12, "period": "day",
     "short_description": "18V drill with two batteries",
     "category": {"name": "Tools", "subcategory": "Power Tools", "leaf": "Drills"},
     "condition": "new", "location": "Lisbon", "rating": 4.6},
    {"id": 2, "name": "Circular Saw", "brand": "Makita", "price": 18, "period": "day",
     "category": {"name": "Tools", "subcategory": "Power Tools", "leaf": "Saws"},
     "condition": "used", "location": "Porto"},
    {"id": 3, "name": "Family Tent", "brand": "Coleman", "price": 60, "period": "week",
     "short_description": "Six person dome tent",
     "category": {"name": "Outdoor", "subcategory": "Camping", "leaf": "Tents"},
     "condition": "new", "location": "Faro", "rating": 4.4}
  ]
}`

// CreateTestWorkspace creates a temporary directory the app runs in
func (tf *TUITestFramework) CreateTestWorkspace() (string, error) {
	tmpDir := tf.t.TempDir()
	tf.workspace = tmpDir
	return tmpDir, nil
}

// WriteCatalog writes contents as catalog.json in the workspace
func (tf *TUITestFramework) WriteCatalog(contents string) (string, error) {
	path := filepath.Join(tf.workspace, "catalog.json")
	return path, os.WriteFile(path, []byte(contents), 0o644)
}

// StartWithSample creates a workspace with the sample catalog and starts the app
func (tf *TUITestFramework) StartWithSample(args ...string) error {
	tf.t.Helper()
	if _, err := tf.CreateTestWorkspace(); err != nil {
		return err
	}
	path, err := tf.WriteCatalog(sampleCatalog)
	if err != nil {
		return err
	}
	return tf.StartApp(append([]string{"--catalog", path}, args...)...)
}
