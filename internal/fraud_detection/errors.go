package fraud_detection

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/frauddetector/types"
)

// IsNotFound reports whether err is the service's ResourceNotFoundException.
func IsNotFound(err error) bool {
	var notFound *types.ResourceNotFoundException
	return errors.As(err, &notFound)
}

// FieldMismatch is one attribute that differs between an existing resource and a request.
type FieldMismatch struct {
	Field     string
	Existing  string
	Requested string
}

// ConflictError is returned when an existing remote definition is incompatible with the requested one.
type ConflictError struct {
	Resource   string
	Name       string
	Mismatches []FieldMismatch
}

func (e *ConflictError) Error() string {
	parts := make([]string, 0, len(e.Mismatches))
	for _, m := range e.Mismatches {
		parts = append(parts, fmt.Sprintf("%s: existing=%q requested=%q", m.Field, m.Existing, m.Requested))
	}
	return fmt.Sprintf("the %s %s already exists, but the details do not match (%s); change the name or delete the existing %s",
		e.Resource, e.Name, strings.Join(parts, ", "), e.Resource)
}

// ValidationError is returned when caller supplied input fails a local precondition.
// Nothing has been mutated remotely when it is returned from a deploy.
type ValidationError struct {
	Subject string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Subject == "" {
		return fmt.Sprintf("validation failed: %v", e.Err)
	}
	return fmt.Sprintf("%s is not valid: %v", e.Subject, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// TerminalFailure is returned by the poller when a resource reaches a failure status.
// Response holds the last status payload observed.
type TerminalFailure struct {
	Status   string
	Response any
}

func (e *TerminalFailure) Error() string {
	return fmt.Sprintf("failed to complete successfully, status %s: %+v", e.Status, e.Response)
}

// IntegrityError is returned when the service answers with a shape that breaks an assumed invariant.
type IntegrityError struct {
	Message string
}

func (e *IntegrityError) Error() string {
	return "unexpected service response: " + e.Message
}
