package apk

import (
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/ralt/unold/internal/models"
	"github.com/ralt/unold/internal/pkgmanager"
	"github.com/ralt/unold/internal/version"
	"github.com/sirupsen/logrus"
)

// Name is the name the Alpine manager is registered under
const Name = "apk"

func init() {
	pkgmanager.Register(Name, func() pkgmanager.Manager { return NewManager() })
}

var (
	// envAssignment matches a leading VAR=value in a shell command
	envAssignment = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*=`)

	// versionPattern matches MAJOR(.MINOR(.PATCH(-rREVISION)?)?)? at the start of a string
	versionPattern = regexp.MustCompile(`^([0-9]+)(?:\.([0-9]+)(?:\.([0-9]+)(?:-r([0-9]+))?)?)?`)
)

// Manager implements the pkgmanager.Manager interface for Alpine's apk
type Manager struct{}

// NewManager creates a new apk manager
func NewManager() *Manager {
	return &Manager{}
}

// Name returns the manager name
func (m *Manager) Name() string {
	return Name
}

// ParseInstallSubcommand recognizes "apk add" in a sub-command. Environment
// assignments and sudo in front of apk are skipped.
func (m *Manager) ParseInstallSubcommand(tokens []string) ([]models.Package, []string) {
	for i, token := range tokens {
		if token == "sudo" || envAssignment.MatchString(token) {
			continue
		}
		if path.Base(token) == "apk" {
			return parseArguments(tokens[i+1:])
		}
		return nil, nil
	}
	return nil, nil
}

// CreateQueryVersionsCommand builds the command listing the latest versions
func (m *Manager) CreateQueryVersionsCommand(packageNames, forwardedArgs []string) (string, error) {
	if len(packageNames) == 0 {
		return "", pkgmanager.ErrNoPackages
	}

	args := make([]string, 0, len(forwardedArgs)+len(packageNames))
	args = append(args, forwardedArgs...)
	args = append(args, packageNames...)
	return "apk update -q && apk list " + strings.Join(args, " "), nil
}

// ParseVersion parses a line of "apk list" output, e.g.
// "git-2.45.2-r0 x86_64 {git} (GPL-2.0-only)"
func (m *Manager) ParseVersion(listingLine string) (version.Version, bool) {
	fields := strings.Fields(listingLine)
	if len(fields) == 0 {
		return version.Version{}, false
	}

	name, versionStr, ok := splitNameVersion(fields[0])
	if !ok {
		return version.Version{}, false
	}
	return m.ParseVersionString(name, versionStr)
}

// ParseVersionString parses an apk version such as "2.45.2-r0". Text that
// does not start with a digit is not a version.
func (m *Manager) ParseVersionString(packageName, versionStr string) (version.Version, bool) {
	match := versionPattern.FindStringSubmatch(versionStr)
	if match == nil {
		return version.Version{}, false
	}

	components := make([]uint64, 0, version.MaxComponents)
	for _, group := range match[1:] {
		if group == "" {
			break
		}
		n, err := strconv.ParseUint(group, 10, 64)
		if err != nil {
			logrus.Debugf("Version component %q of %s out of range: %v", group, packageName, err)
			return version.Version{}, false
		}
		components = append(components, n)
	}

	return version.New(versionStr, packageName, components...), true
}

// splitNameVersion splits "name-version" at the first dash followed by a
// digit, so hyphenated names like "py3-pip-24.0-r2" keep their hyphens.
func splitNameVersion(field string) (string, string, bool) {
	for i := 0; i < len(field)-1; i++ {
		if field[i] == '-' && field[i+1] >= '0' && field[i+1] <= '9' {
			return field[:i], field[i+1:], true
		}
	}
	return "", "", false
}

