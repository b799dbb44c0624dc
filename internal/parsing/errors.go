// Package parsing validates sanitized text as a JSON array of opinion records
// and classifies each unit's outcome.
package parsing

import "fmt"

// SyntaxError reports that a unit's text could not be decoded as JSON at all.
// This is fatal for the unit: its original content is quarantined untouched.
type SyntaxError struct {
	Unit  string
	Cause error
}

func (e *SyntaxError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("JSON syntax error in %s: %v", e.Unit, e.Cause)
	}
	return fmt.Sprintf("JSON syntax error in %s", e.Unit)
}

func (e *SyntaxError) Unwrap() error {
	return e.Cause
}
