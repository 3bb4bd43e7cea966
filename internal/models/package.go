package models

import "github.com/ralt/unold/internal/version"

// Package is one package specifier taken from an install command, e.g.
// "git==2.43.0-r0". VersionStr is only meaningful when Conditional is not
// version.None.
type Package struct {
	Name        string
	Conditional version.Conditional
	VersionStr  string
}

// HasVersion reports whether the specifier pinned a version
func (p Package) HasVersion() bool {
	return p.Conditional != version.None
}

// String renders the package the way it was most likely written
func (p Package) String() string {
	if !p.HasVersion() {
		return p.Name
	}
	return p.Name + p.Conditional.Operator() + p.VersionStr
}

// InstallLocation is one recognized install sub-command within a Containerfile
type InstallLocation struct {
	Packages []Package

	// File information
	ContainerfilePath string
	StartLine         int // Zero indexed

	// Replay context for the version query
	PackageManager string
	ForwardedArgs  []string
	CommandPrefix  string
}

// PackageNames returns the names of all packages in install order
func (l InstallLocation) PackageNames() []string {
	names := make([]string, len(l.Packages))
	for i, pkg := range l.Packages {
		names[i] = pkg.Name
	}
	return names
}
