package apk

import (
	"strings"

	"github.com/ralt/unold/internal/models"
	"github.com/ralt/unold/internal/pkgmanager"
)

// Flags taking a value, see:
// - https://man.archlinux.org/man/extra/apk-tools/apk.8.en
// - https://man.archlinux.org/man/extra/apk-tools/apk-add.8.en
var (
	globalValueFlags = map[string]bool{
		"--arch":              true,
		"--cache-dir":         true,
		"--cache-max-age":     true,
		"--keys-dir":          true,
		"--progress-fd":       true,
		"--repositories-file": true,
		"--repository":        true,
		"--root":              true,
		"--timeout":           true,
		"--wait":              true,
		"-p":                  true,
		"-X":                  true,
	}

	addValueFlags = map[string]bool{
		"-t":        true,
		"--virtual": true,
	}

	// forwardedFlags are replayed on the version query, in this order
	forwardedFlags = []string{"--arch", "--repository", "-X"}
)

const installVerb = "add"

// parseArguments parses everything after the apk token. The first
// positional argument must be the install verb; remaining positionals are
// package specifiers. Boolean and unknown flags are dropped, value flags
// always consume one value so it is never mistaken for a package.
func parseArguments(args []string) ([]models.Package, []string) {
	var packages []models.Package
	values := make(map[string]string)
	sawVerb := false
	onlyPositionals := false

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if !onlyPositionals && arg == "--" {
			onlyPositionals = true
			continue
		}

		if !onlyPositionals && isFlag(arg) {
			name, value, attached := splitFlag(arg, sawVerb)
			if !takesValue(name, sawVerb) {
				continue
			}
			if !attached {
				if i+1 >= len(args) {
					// Value flag without a value: apk itself would reject this
					return nil, nil
				}
				i++
				value = args[i]
			}
			values[name] = value
			continue
		}

		if !sawVerb {
			if arg != installVerb {
				return nil, nil
			}
			sawVerb = true
			continue
		}

		packages = append(packages, pkgmanager.ParsePackageSpec(arg))
	}

	if !sawVerb {
		return nil, nil
	}

	var forwarded []string
	for _, flag := range forwardedFlags {
		if value, ok := values[flag]; ok && value != "" {
			forwarded = append(forwarded, flag, value)
		}
	}

	return packages, forwarded
}

func isFlag(arg string) bool {
	return len(arg) > 1 && arg[0] == '-'
}

func takesValue(name string, afterVerb bool) bool {
	return globalValueFlags[name] || (afterVerb && addValueFlags[name])
}

// splitFlag separates "--flag=value" and "-Xvalue" into name and value
func splitFlag(arg string, afterVerb bool) (name, value string, attached bool) {
	if strings.HasPrefix(arg, "--") {
		return strings.Cut(arg, "=")
	}
	if len(arg) > 2 && takesValue(arg[:2], afterVerb) {
		return arg[:2], arg[2:], true
	}
	return arg, "", false
}
