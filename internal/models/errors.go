package models

import "fmt"

// ErrorType represents different categories of errors
type ErrorType int

const (
	ErrScriptParse ErrorType = iota
	ErrInvalidInput
	ErrBuild
	ErrRun
	ErrFileOp
	ErrInvalidConfig
	ErrUnavailable
	ErrSigning
)

// String returns the string representation of ErrorType
func (e ErrorType) String() string {
	switch e {
	case ErrScriptParse:
		return "ScriptParse"
	case ErrInvalidInput:
		return "InvalidInput"
	case ErrBuild:
		return "Build"
	case ErrRun:
		return "Run"
	case ErrFileOp:
		return "FileOp"
	case ErrInvalidConfig:
		return "InvalidConfig"
	case ErrUnavailable:
		return "Unavailable"
	case ErrSigning:
		return "Signing"
	default:
		return "Unknown"
	}
}

// UnoldError represents an error while checking a Containerfile
type UnoldError struct {
	Type ErrorType
	File string
	Err  error
}

// Error implements the error interface
func (e *UnoldError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.File, e.Err)
	}
	return fmt.Sprintf("[%s] %v", e.Type, e.Err)
}

// Unwrap returns the wrapped error
func (e *UnoldError) Unwrap() error {
	return e.Err
}
