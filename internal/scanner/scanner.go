package scanner

import "context"

// FileType represents the kind of file found while scanning
type FileType int

const (
	TypeUnknown FileType = iota
	TypeContainerfile
	TypeDockerfile
)

// String returns the string representation of FileType
func (ft FileType) String() string {
	switch ft {
	case TypeContainerfile:
		return "Containerfile"
	case TypeDockerfile:
		return "Dockerfile"
	default:
		return "unknown"
	}
}

// ScannedFile represents a build file found during scanning
type ScannedFile struct {
	Path string
	Type FileType
	Size int64
}

// Scanner interface for finding Containerfiles
type Scanner interface {
	// Scan recursively scans a directory for Containerfiles
	Scan(ctx context.Context, dir string) ([]ScannedFile, error)

	// DetectType determines the type of a file from its name
	DetectType(path string) FileType
}
