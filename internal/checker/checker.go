package checker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ralt/unold/internal/container"
	"github.com/ralt/unold/internal/containerfile"
	"github.com/ralt/unold/internal/models"
	"github.com/ralt/unold/internal/pkgmanager"
	"github.com/ralt/unold/internal/report"
	"github.com/ralt/unold/internal/utils"
	"github.com/ralt/unold/internal/version"
	"github.com/sirupsen/logrus"
)

// Checker verifies that pinned packages in Containerfiles are up to date
type Checker struct {
	manager pkgmanager.Manager
	runner  container.Runner
	archive *utils.Archive
}

// New creates a checker. The archive is optional and receives a copy of
// every generated query Containerfile.
func New(manager pkgmanager.Manager, runner container.Runner, archive *utils.Archive) *Checker {
	return &Checker{
		manager: manager,
		runner:  runner,
		archive: archive,
	}
}

// Pin is a package together with its parsed pinned version
type Pin struct {
	models.Package
	Version version.Version
	// Parsed is false when the package pinned nothing or the pinned text
	// is not a version the manager understands
	Parsed bool
}

// ResolvePins parses the pinned version of every package
func ResolvePins(m pkgmanager.Manager, packages []models.Package) []Pin {
	pins := make([]Pin, len(packages))
	for i, pkg := range packages {
		pins[i] = Pin{Package: pkg}
		if pkg.HasVersion() {
			pins[i].Version, pins[i].Parsed = m.ParseVersionString(pkg.Name, pkg.VersionStr)
		}
	}
	return pins
}

// CheckFile checks every install location of a Containerfile. Problems with
// the file or a location are reported in the result; the error is only set
// for internal contract violations.
func (c *Checker) CheckFile(ctx context.Context, path string) (report.FileResult, error) {
	result := report.FileResult{Path: path, Success: true}
	logrus.Infof("Checking %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		result.Add(errorDiagnostic(path, &models.UnoldError{Type: models.ErrFileOp, File: path, Err: err}))
		return result, nil
	}

	return c.CheckContents(ctx, path, string(data))
}

// CheckContents checks Containerfile contents that were read from path
func (c *Checker) CheckContents(ctx context.Context, path, contents string) (report.FileResult, error) {
	result := report.FileResult{Path: path, Success: true}
	if sum, err := utils.CalculateChecksum([]byte(contents), "sha256"); err == nil {
		result.SHA256 = sum
	}

	instructions, err := containerfile.Parse(contents)
	if err != nil {
		result.Add(errorDiagnostic(path, &models.UnoldError{Type: models.ErrScriptParse, File: path, Err: err}))
		return result, nil
	}

	locations, err := containerfile.ExtractInstallLocations(instructions, c.manager, path)
	if err != nil {
		result.Add(errorDiagnostic(path, &models.UnoldError{Type: models.ErrScriptParse, File: path, Err: err}))
		return result, nil
	}

	result.Locations = len(locations)
	logrus.Infof("Found %d install locations in %s", len(locations), path)

	for _, location := range locations {
		packages, diagnostics, err := c.VerifyLocation(ctx, contents, location)
		if err != nil {
			return result, err
		}
		result.Packages = append(result.Packages, packages...)
		for _, d := range diagnostics {
			result.Add(d)
		}
	}

	return result, nil
}

// VerifyLocation queries the latest versions for one install location and
// compares them with the pins. A failing build or run is returned as a
// diagnostic so that other locations are still checked.
func (c *Checker) VerifyLocation(ctx context.Context, contents string, location models.InstallLocation) ([]report.PackageResult, []report.Diagnostic, error) {
	logrus.Debugf("Verifying %v at line %d of %s", location.Packages, location.StartLine+1, location.ContainerfilePath)
	pins := ResolvePins(c.manager, location.Packages)

	query, err := c.manager.CreateQueryVersionsCommand(location.PackageNames(), location.ForwardedArgs)
	if err != nil {
		return nil, nil, &models.UnoldError{
			Type: models.ErrInvalidInput,
			File: location.ContainerfilePath,
			Err:  fmt.Errorf("line %d: %w", location.StartLine+1, err),
		}
	}

	queryContainerfile := containerfile.GenerateQueryContainerfile(contents, query, location.StartLine, location.CommandPrefix)
	logrus.Debugf("Query Containerfile for line %d of %s:\n%s", location.StartLine+1, location.ContainerfilePath, queryContainerfile)

	if c.archive != nil {
		name := fmt.Sprintf("%s/line-%d.%s.Containerfile",
			filepath.Base(location.ContainerfilePath), location.StartLine+1, container.ImageName(queryContainerfile))
		c.archive.Add(name, []byte(queryContainerfile))
	}

	// The build context is the directory of the original Containerfile
	output, err := c.runner.BuildAndRun(ctx, queryContainerfile, filepath.Dir(location.ContainerfilePath))
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"file": location.ContainerfilePath,
			"line": location.StartLine + 1,
		}).Debugf("Version query failed: %v", err)
		return nil, []report.Diagnostic{runFailure(location, err)}, nil
	}

	latest := ParseListing(c.manager, output)
	logrus.Debugf("Parsed %d versions from listing", len(latest))

	results, diagnostics := CompareVersions(c.manager.Name(), location, pins, latest)
	return results, diagnostics, nil
}

// ParseListing maps package names to the versions found in a listing. Lines
// that are not versions are skipped and later lines win.
func ParseListing(m pkgmanager.Manager, output string) map[string]version.Version {
	versions := make(map[string]version.Version)
	for _, line := range strings.Split(output, "\n") {
		v, ok := m.ParseVersion(strings.TrimRight(line, "\r"))
		if !ok {
			continue
		}
		versions[v.PackageName] = v
	}
	return versions
}

// CompareVersions compares pins against the latest versions. Only equality
// and fuzzy pins can be out of date; inequality and unpinned packages only
// need to exist.
func CompareVersions(manager string, location models.InstallLocation, pins []Pin, latest map[string]version.Version) ([]report.PackageResult, []report.Diagnostic) {
	var results []report.PackageResult
	var diagnostics []report.Diagnostic

	for _, pin := range pins {
		result := report.PackageResult{
			Name:        pin.Name,
			Conditional: pin.Conditional.String(),
			Pinned:      pin.VersionStr,
			Line:        location.StartLine + 1,
		}

		newest, ok := latest[pin.Name]
		if !ok {
			diagnostics = append(diagnostics, report.Diagnostic{
				Kind:    report.KindNotFound,
				Package: pin.Name,
				File:    location.ContainerfilePath,
				Line:    location.StartLine,
			})
			results = append(results, result)
			continue
		}

		result.Latest = newest.Source
		result.PURL = report.PURL(manager, pin.Name, newest.Source)

		comparison := version.Uncomparable
		if pin.Parsed {
			comparison = pin.Version.Compare(newest)
		}

		outdated := (pin.Conditional == version.Equality || pin.Conditional == version.Fuzzy) &&
			comparison != version.Equal
		if outdated {
			diagnostics = append(diagnostics, report.Diagnostic{
				Kind:    report.KindOutOfDate,
				Package: pin.Name,
				Pinned:  pin.VersionStr,
				Latest:  newest.Source,
				File:    location.ContainerfilePath,
				Line:    location.StartLine,
			})
		}

		result.UpToDate = !outdated
		results = append(results, result)
	}

	return results, diagnostics
}

func errorDiagnostic(path string, err error) report.Diagnostic {
	return report.Diagnostic{Kind: report.KindError, File: path, Detail: err.Error()}
}

// runFailure reports the container manager's stderr followed by the error
func runFailure(location models.InstallLocation, err error) report.Diagnostic {
	detail := err.Error()

	var cmdErr *container.CommandError
	if errors.As(err, &cmdErr) && strings.TrimSpace(cmdErr.Stderr) != "" {
		detail = strings.TrimRight(cmdErr.Stderr, "\n") + "\n" + detail
	}

	return report.Diagnostic{
		Kind:   report.KindError,
		File:   location.ContainerfilePath,
		Line:   location.StartLine,
		Detail: detail,
	}
}
