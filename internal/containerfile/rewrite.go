package containerfile

import (
	"bufio"
	"strings"
)

// GenerateQueryContainerfile keeps the first breakLine lines of contents
// and appends a CMD running commandPrefix (if any) followed by query.
// The result always ends with a single newline.
func GenerateQueryContainerfile(contents, query string, breakLine int, commandPrefix string) string {
	lines := splitLines(contents)
	if breakLine < len(lines) {
		lines = lines[:max(breakLine, 0)]
	}

	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("CMD ")
	if commandPrefix != "" {
		b.WriteString(commandPrefix)
		b.WriteString(" && ")
	}
	b.WriteString(query)
	b.WriteString("\n")

	return b.String()
}

func splitLines(contents string) []string {
	var lines []string
	scanner := bufio.NewScanner(strings.NewReader(contents))
	scanner.Buffer(make([]byte, 0, 64*1024), len(contents)+1)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines
}
