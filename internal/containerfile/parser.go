package containerfile

import (
	"fmt"
	"strings"

	"github.com/moby/buildkit/frontend/dockerfile/command"
	"github.com/moby/buildkit/frontend/dockerfile/parser"
)

// Instruction is one parsed Containerfile instruction
type Instruction struct {
	// Command is the lower-cased instruction keyword, e.g. "run"
	Command string
	// Value holds the arguments. Shell-form instructions have a single
	// element with the whole command text.
	Value []string
	// JSON is set for exec-form instructions such as RUN ["apk", "add"]
	JSON      bool
	Flags     []string
	Original  string
	StartLine int // One indexed
	EndLine   int
}

// ParseError is returned for Containerfiles that cannot be parsed
type ParseError struct {
	Line int
	Err  error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the wrapped error
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse parses Containerfile contents into instructions
func Parse(contents string) ([]Instruction, error) {
	result, err := parser.Parse(strings.NewReader(contents))
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	instructions := make([]Instruction, 0, len(result.AST.Children))
	for _, node := range result.AST.Children {
		keyword := strings.ToLower(node.Value)
		if _, ok := command.Commands[keyword]; !ok {
			return nil, &ParseError{
				Line: node.StartLine,
				Err:  fmt.Errorf("unknown instruction: %s", strings.ToUpper(node.Value)),
			}
		}

		var value []string
		for n := node.Next; n != nil; n = n.Next {
			value = append(value, n.Value)
		}

		instructions = append(instructions, Instruction{
			Command:   keyword,
			Value:     value,
			JSON:      node.Attributes["json"],
			Flags:     node.Flags,
			Original:  node.Original,
			StartLine: node.StartLine,
			EndLine:   node.EndLine,
		})
	}

	return instructions, nil
}
