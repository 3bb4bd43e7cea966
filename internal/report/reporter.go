package report

import (
	"fmt"
	"io"
	"sync"
	"time"

	packageurl "github.com/package-url/packageurl-go"
	"github.com/ralt/unold/internal/utils"
	"gopkg.in/yaml.v3"
)

// purlNamespaces maps a package manager to its PURL type and namespace
var purlNamespaces = map[string][2]string{
	"apk": {"apk", "alpine"},
}

// PURL returns the Package URL of a package, or "" for managers without a
// PURL mapping
func PURL(manager, name, version string) string {
	ns, ok := purlNamespaces[manager]
	if !ok || name == "" {
		return ""
	}
	return packageurl.NewPackageURL(ns[0], ns[1], name, version, nil, "").ToString()
}

// PackageResult is the verdict for one pinned package
type PackageResult struct {
	Name        string `yaml:"name"`
	Conditional string `yaml:"conditional"`
	Pinned      string `yaml:"pinned,omitempty"`
	Latest      string `yaml:"latest,omitempty"`
	Line        int    `yaml:"line"` // One indexed
	UpToDate    bool   `yaml:"up_to_date"`
	PURL        string `yaml:"purl,omitempty"`
}

// FileResult is the outcome of checking one Containerfile
type FileResult struct {
	Path        string          `yaml:"path"`
	SHA256      string          `yaml:"sha256,omitempty"`
	Success     bool            `yaml:"success"`
	Locations   int             `yaml:"install_locations"`
	Packages    []PackageResult `yaml:"packages,omitempty"`
	Diagnostics []Diagnostic    `yaml:"-"`
	Messages    []string        `yaml:"diagnostics,omitempty"`
}

// Add appends a diagnostic and marks the result as failed
func (r *FileResult) Add(d Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, d)
	r.Messages = append(r.Messages, d.String())
	r.Success = false
}

// Summary is the document written by WriteYAML
type Summary struct {
	GeneratedAt time.Time    `yaml:"generated_at"`
	Success     bool         `yaml:"success"`
	Files       []FileResult `yaml:"files"`
}

// Reporter writes diagnostics, one per line, to an error stream and keeps
// every file result for the optional YAML report. It is safe for
// concurrent use.
type Reporter struct {
	mu    sync.Mutex
	w     io.Writer
	files []FileResult
}

// NewReporter creates a reporter writing to w
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// Write emits the diagnostics of a file result and records it
func (r *Reporter) Write(result FileResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.files = append(r.files, result)
	for _, d := range result.Diagnostics {
		if _, err := fmt.Fprintln(r.w, d.String()); err != nil {
			return err
		}
	}
	return nil
}

// Summary returns everything written so far
func (r *Reporter) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	summary := Summary{
		GeneratedAt: time.Now().UTC(),
		Success:     true,
		Files:       append([]FileResult(nil), r.files...),
	}
	for _, file := range r.files {
		if !file.Success {
			summary.Success = false
		}
	}
	return summary
}

// MarshalYAML renders the summary as YAML
func (r *Reporter) MarshalYAML() ([]byte, error) {
	data, err := yaml.Marshal(r.Summary())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	return data, nil
}

// WriteYAML writes the summary as YAML to path and returns what was written
func (r *Reporter) WriteYAML(path string) ([]byte, error) {
	data, err := r.MarshalYAML()
	if err != nil {
		return nil, err
	}
	if err := utils.WriteFile(path, data, 0644); err != nil {
		return nil, err
	}
	return data, nil
}
