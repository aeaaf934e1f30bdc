package sentiment

import (
	"errors"
	"fmt"
)

// FailureMessage is the only failure text ever shown to the visitor.
const FailureMessage = "Failed to analyze feedback"

// ErrSubmissionFailed matches every *SubmissionError via errors.Is.
var ErrSubmissionFailed = errors.New(FailureMessage)

// Reason classifies why a submission failed. It is logged, never displayed.
type Reason string

const (
	ReasonTransport Reason = "transport" // request could not be sent or no response arrived
	ReasonRejected  Reason = "rejected"  // service answered with a non-success status
	ReasonMalformed Reason = "malformed" // success status but unusable body
	ReasonCancelled Reason = "cancelled" // attempt abandoned by the caller
)

// SubmissionError is returned by Client.Submit for every failure.
type SubmissionError struct {
	Reason     Reason
	StatusCode int // 0 unless Reason is ReasonRejected or ReasonMalformed
	Err        error
}

// Error always returns FailureMessage; the cause is available via Unwrap
// and Detail.
func (e *SubmissionError) Error() string {
	return FailureMessage
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

func (e *SubmissionError) Is(target error) bool {
	return target == ErrSubmissionFailed
}

// Detail describes the underlying cause for logs.
func (e *SubmissionError) Detail() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("%s: status %d: %v", e.Reason, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: status %d", e.Reason, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	default:
		return string(e.Reason)
	}
}

// ReasonOf returns the failure reason carried by err, or "" when err is not
// a *SubmissionError.
func ReasonOf(err error) Reason {
	var se *SubmissionError
	if errors.As(err, &se) {
		return se.Reason
	}
	return ""
}
