package scanner

import (
	"path/filepath"
	"strings"
)

// DetectFileType determines the build file type from the file name.
// Containerfile, Dockerfile and the NAME.Containerfile, NAME.Dockerfile and
// Containerfile.NAME, Dockerfile.NAME variants are recognized.
func DetectFileType(path string) FileType {
	basename := filepath.Base(path)

	switch {
	case matchesBuildFile(basename, "Containerfile"):
		return TypeContainerfile
	case matchesBuildFile(basename, "Dockerfile"):
		return TypeDockerfile
	default:
		return TypeUnknown
	}
}

func matchesBuildFile(basename, kind string) bool {
	if strings.EqualFold(basename, kind) {
		return true
	}
	lower, kindLower := strings.ToLower(basename), strings.ToLower(kind)
	if strings.HasSuffix(lower, "."+kindLower) && len(lower) > len(kindLower)+1 {
		return true
	}
	return strings.HasPrefix(lower, kindLower+".") && len(lower) > len(kindLower)+1
}
