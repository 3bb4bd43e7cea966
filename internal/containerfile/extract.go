package containerfile

import (
	"fmt"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/moby/buildkit/frontend/dockerfile/command"
	"github.com/ralt/unold/internal/models"
	"github.com/ralt/unold/internal/pkgmanager"
	"github.com/sirupsen/logrus"
)

// ExtractInstallLocations finds every install sub-command in the RUN
// instructions, in instruction order and then sub-command order.
func ExtractInstallLocations(instructions []Instruction, m pkgmanager.Manager, path string) ([]models.InstallLocation, error) {
	var locations []models.InstallLocation

	for _, instruction := range instructions {
		if !strings.EqualFold(instruction.Command, command.Run) {
			continue
		}

		tokens, err := tokenize(instruction)
		if err != nil {
			return nil, &ParseError{Line: instruction.StartLine, Err: err}
		}

		for _, install := range pkgmanager.ParseInstallCommands(m, tokens) {
			logrus.Debugf("Found %d packages at line %d of %s", len(install.Packages), instruction.StartLine, path)
			locations = append(locations, models.InstallLocation{
				Packages:          install.Packages,
				ContainerfilePath: path,
				StartLine:         instruction.StartLine - 1,
				PackageManager:    m.Name(),
				ForwardedArgs:     install.ForwardedArgs,
				CommandPrefix:     install.CommandPrefix,
			})
		}
	}

	return locations, nil
}

// tokenize word-splits a RUN instruction the way a POSIX shell would
func tokenize(instruction Instruction) ([]string, error) {
	if instruction.JSON {
		return instruction.Value, nil
	}
	if len(instruction.Value) == 0 {
		return nil, nil
	}

	tokens, err := shellquote.Split(instruction.Value[0])
	if err != nil {
		return nil, fmt.Errorf("failed to split command %q: %w", instruction.Value[0], err)
	}
	return tokens, nil
}
