package domain

import (
	"errors"
	"fmt"
)

// Phases reported by PlanError.
const (
	PhaseConfig = "config"
	PhaseScan   = "scan"
	PhaseParse  = "parse"
	PhaseRead   = "read"
	PhaseWrite  = "write"
)

// PlanError is the base error type with context.
type PlanError struct {
	Phase      string // one of the Phase* constants
	File       string
	LineNumber int
	Message    string
	Suggestion string
	Cause      error
}

func (e *PlanError) Error() string {
	s := fmt.Sprintf("[%s]", e.Phase)
	if e.File != "" {
		s += fmt.Sprintf(" %s", e.File)
	}
	if e.LineNumber > 0 {
		s += fmt.Sprintf(":%d", e.LineNumber)
	}
	s += fmt.Sprintf(": %s", e.Message)
	if e.Cause != nil {
		s += fmt.Sprintf(": %v", e.Cause)
	}
	if e.Suggestion != "" {
		s += fmt.Sprintf(" (hint: %s)", e.Suggestion)
	}
	return s
}

func (e *PlanError) Unwrap() error {
	return e.Cause
}

// NewError creates a new PlanError.
func NewError(phase, file string, line int, message string, cause error) *PlanError {
	return &PlanError{
		Phase:      phase,
		File:       file,
		LineNumber: line,
		Message:    message,
		Cause:      cause,
	}
}

// NewErrorWithSuggestion creates a PlanError carrying a hint for the user.
func NewErrorWithSuggestion(phase, file string, line int, message, suggestion string, cause error) *PlanError {
	e := NewError(phase, file, line, message, cause)
	e.Suggestion = suggestion
	return e
}

// IsConfigurationError reports whether err is a malformed configuration or
// filter specification.
func IsConfigurationError(err error) bool {
	return hasPhase(err, PhaseConfig)
}

// IsParseError reports whether err came from a feature file that could not be parsed.
func IsParseError(err error) bool {
	return hasPhase(err, PhaseParse)
}

// IsReadError reports whether err came from reading a feature file during assembly.
func IsReadError(err error) bool {
	return hasPhase(err, PhaseRead)
}

func hasPhase(err error, phase string) bool {
	var pe *PlanError
	if !errors.As(err, &pe) {
		return false
	}
	return pe.Phase == phase
}
