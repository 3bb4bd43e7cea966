package utils

import (
	"archive/tar"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateChecksum(t *testing.T) {
	tests := []struct {
		hashType string
		want     string
	}{
		{"sha1", "a9993e364706816aba3e25717850c26c9cd0d89d"},
		{"sha256", "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
		{"md5", "900150983cd24fb0d6963f7d28e17f72"},
		{"unknown", "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
	}

	for _, tt := range tests {
		t.Run(tt.hashType, func(t *testing.T) {
			sum, err := CalculateChecksum([]byte("abc"), tt.hashType)
			require.NoError(t, err)
			assert.Equal(t, tt.want, sum)
		})
	}
}

func TestWriteFileCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "report.yaml")
	require.NoError(t, WriteFile(path, []byte("ok"), 0644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(data))
}

func TestGzipRoundTrip(t *testing.T) {
	data := bytes.Repeat([]byte("CMD apk list git\n"), 100)

	compressed, err := GzipCompress(data)
	require.NoError(t, err)
	assert.Less(t, len(compressed), len(data))

	decompressed, err := GzipDecompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, data, decompressed)

	_, err = GzipDecompress([]byte("not gzip"))
	assert.Error(t, err)
}

func TestArchive(t *testing.T) {
	archive := NewArchive()

	var wg sync.WaitGroup
	for _, name := range []string{"b/line-2.Containerfile", "a/line-5.Containerfile", "a/line-1.Containerfile"} {
		name := name
		wg.Add(1)
		go func() {
			defer wg.Done()
			archive.Add(name, []byte("FROM alpine:3.20\nCMD "+name+"\n"))
		}()
	}
	wg.Wait()
	archive.Add("a/line-1.Containerfile", []byte("replaced\n"))
	assert.Equal(t, 3, archive.Len())

	path := filepath.Join(t.TempDir(), "out", "queries.tar.gz")
	require.NoError(t, archive.WriteFile(path))

	compressed, err := os.ReadFile(path)
	require.NoError(t, err)
	raw, err := GzipDecompress(compressed)
	require.NoError(t, err)

	tr := tar.NewReader(bytes.NewReader(raw))
	var names []string
	contents := map[string]string{}
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		data, err := io.ReadAll(tr)
		require.NoError(t, err)
		names = append(names, header.Name)
		contents[header.Name] = string(data)
	}

	assert.Equal(t, []string{"a/line-1.Containerfile", "a/line-5.Containerfile", "b/line-2.Containerfile"}, names)
	assert.Equal(t, "replaced\n", contents["a/line-1.Containerfile"])
}
