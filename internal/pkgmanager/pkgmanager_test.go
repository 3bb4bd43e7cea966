package pkgmanager

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ralt/unold/internal/models"
	"github.com/ralt/unold/internal/version"
)

// stubManager treats every token of a non-empty sub-command as a package
type stubManager struct{}

func (stubManager) Name() string { return "stub" }

func (stubManager) ParseInstallSubcommand(tokens []string) ([]models.Package, []string) {
	packages := make([]models.Package, 0, len(tokens))
	for _, token := range tokens {
		packages = append(packages, models.Package{Name: token})
	}
	return packages, []string{"-X", "repo"}
}

func (stubManager) ParseVersionString(string, string) (version.Version, bool) {
	return version.Version{}, false
}

func (stubManager) ParseVersion(string) (version.Version, bool) {
	return version.Version{}, false
}

func (stubManager) CreateQueryVersionsCommand([]string, []string) (string, error) {
	return "", nil
}

// selectiveManager only recognizes sub-commands whose second token is "add"
type selectiveManager struct{ stubManager }

func (selectiveManager) ParseInstallSubcommand(tokens []string) ([]models.Package, []string) {
	if len(tokens) < 3 || tokens[1] != "add" {
		return nil, nil
	}
	packages := make([]models.Package, 0, len(tokens)-2)
	for _, token := range tokens[2:] {
		packages = append(packages, ParsePackageSpec(token))
	}
	return packages, nil
}

func pkgs(names ...string) []models.Package {
	packages := make([]models.Package, len(names))
	for i, name := range names {
		packages[i] = models.Package{Name: name}
	}
	return packages
}

func TestParseInstallCommandsEmpty(t *testing.T) {
	assert.Empty(t, ParseInstallCommands(stubManager{}, nil))
	assert.Empty(t, ParseInstallCommands(stubManager{}, []string{}))
}

func TestParseInstallCommandsOnlySeparators(t *testing.T) {
	assert.Empty(t, ParseInstallCommands(stubManager{}, []string{"&&", ";", "||"}))
}

func TestParseInstallCommandsSingle(t *testing.T) {
	results := ParseInstallCommands(stubManager{}, []string{"apk", "add", "git=2.43.0"})
	require.Len(t, results, 1)
	assert.Equal(t, pkgs("apk", "add", "git=2.43.0"), results[0].Packages)
	assert.Equal(t, []string{"-X", "repo"}, results[0].ForwardedArgs)
	assert.Equal(t, "", results[0].CommandPrefix)
}

func TestParseInstallCommandsTrailingSemicolon(t *testing.T) {
	results := ParseInstallCommands(stubManager{}, []string{"apk", "add", "git=2.43.0", ";"})
	require.Len(t, results, 1)
	assert.Equal(t, pkgs("apk", "add", "git=2.43.0"), results[0].Packages)
	assert.Equal(t, "", results[0].CommandPrefix)
}

func TestParseInstallCommandsMulti(t *testing.T) {
	results := ParseInstallCommands(stubManager{}, []string{
		"apk", "update", "&&", "apk", "add", "git=2.43.0", "||", "ls", ";", "rm", "-rf", "/var/cache/apk/*",
	})
	require.Len(t, results, 4)

	assert.Equal(t, pkgs("apk", "update"), results[0].Packages)
	assert.Equal(t, "", results[0].CommandPrefix)

	assert.Equal(t, pkgs("apk", "add", "git=2.43.0"), results[1].Packages)
	assert.Equal(t, "apk update", results[1].CommandPrefix)

	assert.Equal(t, pkgs("ls"), results[2].Packages)
	assert.Equal(t, "apk update && apk add git=2.43.0", results[2].CommandPrefix)

	assert.Equal(t, pkgs("rm", "-rf", "/var/cache/apk/*"), results[3].Packages)
	assert.Equal(t, "apk update && apk add git=2.43.0 || ls", results[3].CommandPrefix)

	for _, result := range results {
		assert.Equal(t, []string{"-X", "repo"}, result.ForwardedArgs)
	}
}

func TestParseInstallCommandsPrefixIncludesNonInstalls(t *testing.T) {
	results := ParseInstallCommands(selectiveManager{}, []string{
		"apk", "update", "&&", "apk", "add", "git=2.43.0", "&&", "rm", "-rf", "/tmp/x", "&&", "apk", "add", "nginx",
	})
	require.Len(t, results, 2)

	assert.Equal(t, "apk update", results[0].CommandPrefix)
	assert.Equal(t, "git", results[0].Packages[0].Name)

	assert.Equal(t, "apk update && apk add git=2.43.0 && rm -rf /tmp/x", results[1].CommandPrefix)
	assert.Equal(t, "nginx", results[1].Packages[0].Name)
}

func TestParsePackageSpec(t *testing.T) {
	tests := []struct {
		spec        string
		name        string
		conditional version.Conditional
		versionStr  string
	}{
		{"git", "git", version.None, ""},
		{"git==2.43.0", "git", version.Equality, "2.43.0"},
		{"git=~2.43.0", "git", version.Fuzzy, "2.43.0"},
		{"git~=2.43.0", "git", version.Fuzzy, "2.43.0"},
		{"git<2.43.0", "git", version.LessThan, "2.43.0"},
		{"git>2.43.0", "git", version.GreaterThan, "2.43.0"},
		{"git=2.43.0", "git", version.Equality, "2.43.0"},
		{"git~2.43.0", "git", version.Fuzzy, "2.43.0"},
		{"nginx==1.26.2-r0", "nginx", version.Equality, "1.26.2-r0"},
		{"git=", "git", version.Equality, ""},
		{"git<=2", "git", version.LessThan, "=2"},
		{"git>=2", "git", version.GreaterThan, "=2"},
		{"", "", version.None, ""},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			pkg := ParsePackageSpec(tt.spec)
			assert.Equal(t, tt.name, pkg.Name)
			assert.Equal(t, tt.conditional, pkg.Conditional)
			assert.Equal(t, tt.versionStr, pkg.VersionStr)
			assert.Equal(t, tt.conditional != version.None, pkg.HasVersion())
		})
	}
}

func TestRegistry(t *testing.T) {
	Register("stub", func() Manager { return stubManager{} })

	m, err := New("stub")
	require.NoError(t, err)
	assert.Equal(t, "stub", m.Name())
	assert.Contains(t, Supported(), "stub")

	_, err = New("does-not-exist")
	assert.Error(t, err)
}
