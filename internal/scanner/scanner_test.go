package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFileType(t *testing.T) {
	tests := map[string]FileType{
		"Containerfile":           TypeContainerfile,
		"containerfile":           TypeContainerfile,
		"app.Containerfile":       TypeContainerfile,
		"Containerfile.alpine":    TypeContainerfile,
		"/src/Dockerfile":         TypeDockerfile,
		"build/test.Dockerfile":   TypeDockerfile,
		"Dockerfile.dev":          TypeDockerfile,
		"README.md":               TypeUnknown,
		".Containerfile":          TypeUnknown,
		"Containerfiles":          TypeUnknown,
		"docker-compose.yml":      TypeUnknown,
		"not-a-dockerfile-at-all": TypeUnknown,
	}

	for path, want := range tests {
		t.Run(path, func(t *testing.T) {
			assert.Equal(t, want, DetectFileType(path))
		})
	}
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("FROM alpine:3.20\n"), 0644))
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Containerfile"))
	writeFile(t, filepath.Join(dir, "services", "api", "Dockerfile"))
	writeFile(t, filepath.Join(dir, "services", "api", "main.go"))
	writeFile(t, filepath.Join(dir, ".git", "Containerfile"))

	files, err := NewFileSystemScanner().Scan(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, files, 2)

	assert.Equal(t, filepath.Join(dir, "Containerfile"), files[0].Path)
	assert.Equal(t, TypeContainerfile, files[0].Type)
	assert.Equal(t, filepath.Join(dir, "services", "api", "Dockerfile"), files[1].Path)
	assert.Equal(t, TypeDockerfile, files[1].Type)
	assert.Equal(t, int64(len("FROM alpine:3.20\n")), files[1].Size)
}

func TestScanCancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Containerfile"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFileSystemScanner().Scan(ctx, dir)
	require.ErrorIs(t, err, context.Canceled)
}

func TestExpandPaths(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "project", "a.Containerfile"))
	writeFile(t, filepath.Join(dir, "project", "b.Containerfile"))
	single := filepath.Join(dir, "build.txt")
	writeFile(t, single)
	missing := filepath.Join(dir, "missing")

	paths, err := ExpandPaths(context.Background(), NewFileSystemScanner(),
		[]string{single, filepath.Join(dir, "project"), missing})
	require.NoError(t, err)

	assert.Equal(t, []string{
		single,
		filepath.Join(dir, "project", "a.Containerfile"),
		filepath.Join(dir, "project", "b.Containerfile"),
		missing,
	}, paths)
}
