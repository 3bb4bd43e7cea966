package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// FileSystemScanner implements Scanner interface for filesystem scanning
type FileSystemScanner struct{}

// NewFileSystemScanner creates a new filesystem scanner
func NewFileSystemScanner() *FileSystemScanner {
	return &FileSystemScanner{}
}

// Scan recursively scans a directory for Containerfiles. Hidden directories
// are skipped.
func (s *FileSystemScanner) Scan(ctx context.Context, dir string) ([]ScannedFile, error) {
	var files []ScannedFile

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Check context cancellation
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if d.IsDir() {
			if path != dir && len(d.Name()) > 1 && d.Name()[0] == '.' {
				return filepath.SkipDir
			}
			return nil
		}

		fileType := s.DetectType(path)
		if fileType == TypeUnknown {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			logrus.Warnf("Failed to stat %s: %v", path, err)
			return nil
		}

		logrus.Debugf("Found %s: %s", fileType, path)

		files = append(files, ScannedFile{
			Path: path,
			Type: fileType,
			Size: info.Size(),
		})

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to scan directory: %w", err)
	}

	logrus.Infof("Found %d Containerfiles in %s", len(files), dir)
	return files, nil
}

// DetectType determines the type of a file from its name
func (s *FileSystemScanner) DetectType(path string) FileType {
	return DetectFileType(path)
}

// ExpandPaths resolves command line arguments into Containerfile paths.
// Files are kept as given whatever their name; directories are replaced by
// the Containerfiles found beneath them, in walk order.
func ExpandPaths(ctx context.Context, s Scanner, paths []string) ([]string, error) {
	var expanded []string

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			// Missing files are reported per file by the checker
			expanded = append(expanded, path)
			continue
		}

		files, err := s.Scan(ctx, path)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			logrus.Warnf("No Containerfiles found in %s", path)
		}
		for _, f := range files {
			expanded = append(expanded, f.Path)
		}
	}

	return expanded, nil
}
