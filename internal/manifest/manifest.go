package manifest

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/inful/mdfp"
)

// Filename is the manifest kept at the root of the output directory.
const Filename = ".exhibitpal-manifest.json"

// BuildManifest represents a complete record of a build's inputs and outputs.
type BuildManifest struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Inputs       Inputs    `json:"inputs"`
	Outputs      Outputs   `json:"outputs"`
	Status       string    `json:"status"`
	Duration     int64     `json:"duration_ms"`
	WarningCount int       `json:"warning_count"`
}

// Inputs captures the data sources of the build.
type Inputs struct {
	ExhibitionsSpreadsheet string `json:"exhibitions_spreadsheet,omitempty"`
	ArtworksSpreadsheet    string `json:"artworks_spreadsheet,omitempty"`
	ConfigHash             string `json:"config_hash"`
	DataHash               string `json:"data_hash,omitempty"`
}

// Outputs maps each written file (slash separated, relative to the output root) to its fingerprint.
type Outputs struct {
	Pages map[string]string `json:"pages"`
}

// Fingerprint returns the content fingerprint of a page stored at relPath.
func Fingerprint(relPath string, content []byte) string {
	return mdfp.CalculateFingerprintFromParts("path: "+relPath, string(content))
}

// New returns an empty manifest stamped with id and timestamp.
func New(id string, ts time.Time) *BuildManifest {
	return &BuildManifest{
		ID:        id,
		Timestamp: ts.UTC(),
		Outputs:   Outputs{Pages: map[string]string{}},
	}
}

// Unchanged reports whether relPath was recorded with the same fingerprint.
func (m *BuildManifest) Unchanged(relPath, fingerprint string) bool {
	if m == nil {
		return false
	}
	prev, ok := m.Outputs.Pages[relPath]
	return ok && prev == fingerprint
}

// Record stores the fingerprint of relPath.
func (m *BuildManifest) Record(relPath, fingerprint string) {
	if m.Outputs.Pages == nil {
		m.Outputs.Pages = map[string]string{}
	}
	m.Outputs.Pages[relPath] = fingerprint
}

// Stale lists paths present in m but absent from next, sorted.
func (m *BuildManifest) Stale(next *BuildManifest) []string {
	if m == nil {
		return nil
	}
	var out []string
	for _, p := range slices.Sorted(maps.Keys(m.Outputs.Pages)) {
		if _, ok := next.Outputs.Pages[p]; !ok {
			out = append(out, p)
		}
	}
	return out
}

// ToJSON serializes the manifest to JSON.
func (m *BuildManifest) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	return data, nil
}

// FromJSON deserializes a manifest from JSON.
func FromJSON(data []byte) (*BuildManifest, error) {
	var m BuildManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}
	return &m, nil
}

// Load reads the manifest in dir. A missing file yields nil without error.
func Load(dir string) (*BuildManifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, Filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return FromJSON(data)
}

// Save writes the manifest into dir.
func (m *BuildManifest) Save(dir string) error {
	data, err := m.ToJSON()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create manifest directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, Filename), append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// Hash computes a deterministic hash of the manifest's inputs.
// Identical hashes mean the build saw the same config and data.
func (m *BuildManifest) Hash() (string, error) {
	data, err := json.Marshal(m.Inputs)
	if err != nil {
		return "", fmt.Errorf("marshal for hash: %w", err)
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash), nil
}
