package pkgmanager

import (
	"strings"

	"github.com/ralt/unold/internal/models"
)

// InstallCommand is an install sub-command found in a command chain
type InstallCommand struct {
	Packages      []models.Package
	ForwardedArgs []string
	// CommandPrefix is every token preceding this sub-command's opening
	// separator, joined by spaces. Running it first reproduces the side
	// effects of earlier commands in the chain.
	CommandPrefix string
}

// separators close a sub-command when they appear as bare tokens
var separators = map[string]bool{
	"&&": true,
	"||": true,
	";":  true,
}

// ParseInstallCommands splits a word-split shell command line at "&&", "||"
// and ";" and returns every sub-command the manager recognizes as an install,
// in order. Sub-commands that are not installs are dropped.
func ParseInstallCommands(m Manager, command []string) []InstallCommand {
	var results []InstallCommand

	start := 0
	prefix := ""
	emit := func(end int) {
		if end <= start {
			return
		}
		packages, forwardedArgs := m.ParseInstallSubcommand(command[start:end])
		if len(packages) == 0 {
			return
		}
		results = append(results, InstallCommand{
			Packages:      packages,
			ForwardedArgs: forwardedArgs,
			CommandPrefix: prefix,
		})
	}

	for i, token := range command {
		if !separators[token] {
			continue
		}
		emit(i)
		start = i + 1
		prefix = strings.Join(command[:i], " ")
	}
	emit(len(command))

	return results
}
