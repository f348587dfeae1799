package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aws/smithy-go"
)

// StackError is a fatal reconciliation failure. Reason carries the
// remote-supplied human-readable explanation verbatim when one was
// available.
type StackError struct {
	// StackName is the remote stack name the operation targeted.
	StackName string

	// Op names the step that failed, e.g. "stage-changeset" or
	// "wait-stack".
	Op string

	// Status is the terminal stack status, when the failure came from
	// status classification.
	Status Status

	// Reason is the remote reason string, when available.
	Reason string
}

// Error implements the error interface.
func (e *StackError) Error() string {
	msg := fmt.Sprintf("stack %s: %s failed", e.StackName, e.Op)
	if e.Status != "" {
		msg += fmt.Sprintf(" (status %s)", e.Status)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// isStackNotFound reports whether err is the remote "stack does not
// exist" validation error. This is the only place an API error is
// intentionally swallowed and re-typed.
func isStackNotFound(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.ErrorCode() == "ValidationError" &&
		strings.HasSuffix(apiErr.ErrorMessage(), "does not exist")
}
