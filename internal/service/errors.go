package service

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when the requested resource does not exist or is
// not visible to the caller. Handlers map it to 404.
var ErrNotFound = errors.New("resource not found")

// RuleError carries business rule violations collected by validation.
// Handlers map it to 422 with the full message list.
type RuleError struct {
	Messages []string
}

func (e *RuleError) Error() string {
	return strings.Join(e.Messages, "; ")
}

func ruleErr(messages ...string) *RuleError {
	return &RuleError{Messages: messages}
}
