package models

import "time"

// CheckConfig contains configuration for checking Containerfiles
type CheckConfig struct {
	// Input
	Paths []string `mapstructure:"-"`

	// Tooling
	ContainerManager string `mapstructure:"container_manager"` // podman or docker, name or absolute path
	PackageManager   string `mapstructure:"package_manager"`   // Manager registered in pkgmanager

	// Execution
	Jobs    int           `mapstructure:"jobs"`    // Files checked in parallel
	Timeout time.Duration `mapstructure:"timeout"` // Per build/run invocation, 0 disables

	// Outputs
	ReportPath  string `mapstructure:"report"`  // YAML report, optional
	ArchivePath string `mapstructure:"archive"` // tar.gz of generated Containerfiles, optional

	// Report signing
	SignKeyPath    string `mapstructure:"sign_key"`        // OpenPGP private key, signs the report
	SignPassphrase string `mapstructure:"sign_passphrase"` // Passphrase of an encrypted key
}
