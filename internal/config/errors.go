package config

import (
	"fmt"
	"strings"
)

// EnvFileError reports an env file that exists but could not be parsed.
type EnvFileError struct {
	Path string
	Err  error
}

func (e *EnvFileError) Error() string { return fmt.Sprintf("load env file %s: %v", e.Path, e.Err) }
func (e *EnvFileError) Unwrap() error { return e.Err }

// ParseError reports a variable whose value does not fit its type.
type ParseError struct {
	Key string
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("parse %s: %v", e.Key, e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

type Problem struct {
	Key     string
	Message string
}

// ValidationError lists every rule the loaded values break, in check order.
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.Message
	}
	return "validate config: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) add(key, format string, args ...any) {
	e.Problems = append(e.Problems, Problem{Key: key, Message: fmt.Sprintf(format, args...)})
}
