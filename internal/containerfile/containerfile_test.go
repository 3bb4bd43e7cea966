package containerfile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ralt/unold/internal/pkgmanager/apk"
	"github.com/ralt/unold/internal/version"
)

const alpineContainerfile = `
FROM alpine:3.20

RUN apk add --no-cache \
    git==2.43.0-r0 \
    nginx==1.26.2-r0
`

func TestParseValid(t *testing.T) {
	instructions, err := Parse(alpineContainerfile)
	require.NoError(t, err)
	require.Len(t, instructions, 2)

	from, run := instructions[0], instructions[1]

	assert.Equal(t, "from", from.Command)
	assert.Equal(t, []string{"alpine:3.20"}, from.Value)
	assert.Equal(t, 2, from.StartLine)
	assert.False(t, from.JSON)

	assert.Equal(t, "run", run.Command)
	assert.Equal(t, 4, run.StartLine)
	require.Len(t, run.Value, 1)
	assert.Equal(t, []string{"apk", "add", "--no-cache", "git==2.43.0-r0", "nginx==1.26.2-r0"}, strings.Fields(run.Value[0]))
}

func TestParseJSONForm(t *testing.T) {
	instructions, err := Parse("FROM alpine:3.20\nRUN [\"apk\", \"add\", \"git=2.43.0\"]\n")
	require.NoError(t, err)
	require.Len(t, instructions, 2)
	assert.True(t, instructions[1].JSON)
	assert.Equal(t, []string{"apk", "add", "git=2.43.0"}, instructions[1].Value)
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse("FROM alpine:3.20\nFROBNICATE everything\n")
	require.Error(t, err)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 2, parseErr.Line)
}

func TestExtractInstallLocations(t *testing.T) {
	contents := `FROM alpine:3.20 AS build
RUN apk update && apk add --no-cache git==2.43.0-r0 && rm -rf /var/cache/apk/*
FROM alpine:3.20
ENV FOO=bar
run apk add -X http://mirror/edge/main nginx=1.26.1-r0 curl
RUN echo "apk add git"
`
	instructions, err := Parse(contents)
	require.NoError(t, err)

	locations, err := ExtractInstallLocations(instructions, apk.NewManager(), "Containerfile")
	require.NoError(t, err)
	require.Len(t, locations, 2)

	first := locations[0]
	assert.Equal(t, 1, first.StartLine)
	assert.Equal(t, "Containerfile", first.ContainerfilePath)
	assert.Equal(t, "apk", first.PackageManager)
	assert.Equal(t, "apk update", first.CommandPrefix)
	require.Len(t, first.Packages, 1)
	assert.Equal(t, "git", first.Packages[0].Name)
	assert.Equal(t, version.Equality, first.Packages[0].Conditional)
	assert.Equal(t, "2.43.0-r0", first.Packages[0].VersionStr)

	second := locations[1]
	assert.Equal(t, 4, second.StartLine)
	assert.Equal(t, "", second.CommandPrefix)
	assert.Equal(t, []string{"-X", "http://mirror/edge/main"}, second.ForwardedArgs)
	assert.Equal(t, []string{"nginx", "curl"}, second.PackageNames())
}

func TestExtractInstallLocationsJSONForm(t *testing.T) {
	instructions, err := Parse("FROM alpine:3.20\nRUN [\"apk\", \"add\", \"git=2.43.0\"]\n")
	require.NoError(t, err)

	locations, err := ExtractInstallLocations(instructions, apk.NewManager(), "Containerfile")
	require.NoError(t, err)
	require.Len(t, locations, 1)
	assert.Equal(t, []string{"git"}, locations[0].PackageNames())
}

func TestExtractInstallLocationsNone(t *testing.T) {
	instructions, err := Parse("FROM ubuntu:24.04\nRUN apt-get update && apt-get install -y git\n")
	require.NoError(t, err)

	locations, err := ExtractInstallLocations(instructions, apk.NewManager(), "Containerfile")
	require.NoError(t, err)
	assert.Empty(t, locations)
}

func TestExtractInstallLocationsUnbalancedQuote(t *testing.T) {
	instructions, err := Parse("FROM alpine:3.20\nRUN apk add 'git\n")
	require.NoError(t, err)

	_, err = ExtractInstallLocations(instructions, apk.NewManager(), "Containerfile")
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 2, parseErr.Line)
}

func TestGenerateQueryContainerfileNoPrefix(t *testing.T) {
	output := GenerateQueryContainerfile(alpineContainerfile, "some_command", 3, "")
	assert.Equal(t, "\nFROM alpine:3.20\n\nCMD some_command\n", output)
}

func TestGenerateQueryContainerfileWithPrefix(t *testing.T) {
	output := GenerateQueryContainerfile(alpineContainerfile, "some_command", 3, "command_prefix")
	assert.Equal(t, "\nFROM alpine:3.20\n\nCMD command_prefix && some_command\n", output)
}

func TestGenerateQueryContainerfileLineCount(t *testing.T) {
	contents := "FROM alpine:3.20\nARG A=1\nARG B=2\nRUN apk add git\nRUN true\n"
	output := GenerateQueryContainerfile(contents, "apk list git", 3, "")

	lines := strings.Split(strings.TrimSuffix(output, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "CMD apk list git", lines[3])
	assert.True(t, strings.HasSuffix(output, "\n"))
	assert.False(t, strings.HasSuffix(output, "\n\n"))
}

func TestGenerateQueryContainerfileBreakBeyondEnd(t *testing.T) {
	output := GenerateQueryContainerfile("FROM alpine:3.20", "q", 10, "")
	assert.Equal(t, "FROM alpine:3.20\nCMD q\n", output)
}
