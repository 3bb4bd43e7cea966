package utils

import (
	"archive/tar"
	"bytes"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/klauspost/compress/gzip"
)

// GzipCompress compresses data using gzip
func GzipCompress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)

	if _, err := w.Write(data); err != nil {
		return nil, err
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// GzipDecompress decompresses gzip data
func GzipDecompress(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return io.ReadAll(r)
}

// Archive collects named files and writes them as a tar.gz. It is safe for
// concurrent use.
type Archive struct {
	mu    sync.Mutex
	files map[string][]byte
}

// NewArchive creates an empty archive
func NewArchive() *Archive {
	return &Archive{files: make(map[string][]byte)}
}

// Add stores a file; adding the same name twice keeps the last data
func (a *Archive) Add(name string, data []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.files[name] = data
}

// Len returns the number of files in the archive
func (a *Archive) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.files)
}

// TarGz returns the archive as a gzipped tar, files sorted by name
func (a *Archive) TarGz() ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	names := make([]string, 0, len(a.files))
	for name := range a.files {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for _, name := range names {
		if err := addTarFile(tw, name, a.files[name]); err != nil {
			return nil, err
		}
	}
	if err := tw.Close(); err != nil {
		return nil, err
	}

	return GzipCompress(buf.Bytes())
}

// WriteFile writes the archive to path
func (a *Archive) WriteFile(path string) error {
	data, err := a.TarGz()
	if err != nil {
		return err
	}
	return WriteFile(path, data, 0644)
}

// addTarFile adds a file to a tar archive
func addTarFile(tw *tar.Writer, name string, data []byte) error {
	header := &tar.Header{
		Name:    name,
		Mode:    0644,
		Size:    int64(len(data)),
		ModTime: time.Unix(0, 0),
	}

	if err := tw.WriteHeader(header); err != nil {
		return err
	}

	if _, err := io.Copy(tw, bytes.NewReader(data)); err != nil {
		return err
	}

	return nil
}
