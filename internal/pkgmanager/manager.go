package pkgmanager

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/ralt/unold/internal/models"
	"github.com/ralt/unold/internal/version"
)

// ErrNoPackages is returned when a version query is built for zero packages
var ErrNoPackages = errors.New("no package names supplied")

// Manager interface for package managers whose installs can be checked
type Manager interface {
	// Name returns the registered name of the manager (e.g. "apk")
	Name() string

	// ParseInstallSubcommand recognizes an install invocation in a single
	// sub-command and extracts its packages and the flags that must be
	// replayed on the version query. A sub-command that is not an install
	// yields no packages.
	ParseInstallSubcommand(tokens []string) (packages []models.Package, forwardedArgs []string)

	// ParseVersionString parses a raw version specifier for a package
	ParseVersionString(packageName, versionStr string) (version.Version, bool)

	// ParseVersion parses one line of the manager's package listing output
	ParseVersion(listingLine string) (version.Version, bool)

	// CreateQueryVersionsCommand builds a shell command that refreshes the
	// index and lists the given packages. It returns ErrNoPackages if
	// packageNames is empty.
	CreateQueryVersionsCommand(packageNames, forwardedArgs []string) (string, error)
}

// Factory creates a package manager instance
type Factory func() Manager

var (
	factories = make(map[string]Factory)
	mu        sync.RWMutex
)

// Register adds a package manager factory under the given name
func Register(name string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[name] = factory
}

// New creates the package manager registered under name
func New(name string) (Manager, error) {
	mu.RLock()
	factory, ok := factories[name]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown package manager: %s", name)
	}
	return factory(), nil
}

// Supported returns the names of all registered package managers, sorted
func Supported() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
