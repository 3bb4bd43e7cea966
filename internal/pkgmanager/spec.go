package pkgmanager

import (
	"strings"

	"github.com/ralt/unold/internal/models"
	"github.com/ralt/unold/internal/version"
)

// operator maps a specifier substring to the conditional it expresses
type operator struct {
	token       string
	conditional version.Conditional
}

// operators is tried in order and the first match wins. Operators share
// prefixes, so "==" must come before "=" and "=~"/"~=" before "=" and "~".
var operators = []operator{
	{"==", version.Equality},
	{"=~", version.Fuzzy},
	{"~=", version.Fuzzy},
	{"<", version.LessThan},
	{">", version.GreaterThan},
	{"=", version.Equality},
	{"~", version.Fuzzy},
}

// ParsePackageSpec splits a package specifier such as "git==2.43.0" into a
// package name, a conditional and the raw version text. Any string is
// accepted; a token without an operator is a bare package name.
func ParsePackageSpec(spec string) models.Package {
	for _, op := range operators {
		name, versionStr, found := strings.Cut(spec, op.token)
		if found {
			return models.Package{
				Name:        name,
				Conditional: op.conditional,
				VersionStr:  versionStr,
			}
		}
	}

	return models.Package{Name: spec, Conditional: version.None}
}
