package domain

import (
	"errors"
	"fmt"
)

// IntegrityError reports a stored payload that could not be decoded into an
// expected shape. Records are only ever written by trusted components, so
// this indicates corruption or a schema mismatch upstream; it must never be
// collapsed into "not found".
type IntegrityError struct {
	TxHash TxHash
	Field  string
	Err    error
}

func (e *IntegrityError) Error() string {
	if e.TxHash.IsZero() {
		return fmt.Sprintf("corrupt stored %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("corrupt stored %s for tx %s: %v", e.Field, e.TxHash, e.Err)
}

func (e *IntegrityError) Unwrap() error { return e.Err }

// IsIntegrity reports whether err is (or wraps) an IntegrityError.
func IsIntegrity(err error) bool {
	var ie *IntegrityError
	return errors.As(err, &ie)
}

// SubmissionError is a rejection returned by the core service for a submitted
// transaction or batch. The reason is passed through to the client unchanged.
type SubmissionError struct {
	Reason string
}

func (e *SubmissionError) Error() string {
	return "submission rejected: " + e.Reason
}

// IsSubmissionRejected reports whether err is (or wraps) a SubmissionError.
func IsSubmissionRejected(err error) bool {
	var se *SubmissionError
	return errors.As(err, &se)
}
