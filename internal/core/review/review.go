// Package review holds the state machine behind the review surface: the
// modal visibility, the draft being typed, the in-flight flag, and the
// outcome of the most recent submission attempt.
package review

import (
	"errors"

	"github.com/colonyops/sentiview/internal/core/sentiment"
)

// ErrSubmissionInFlight is returned by Begin while a previous attempt has not
// completed.
var ErrSubmissionInFlight = errors.New("submission already in flight")

// Field identifies an editable field of the draft.
type Field int

const (
	FieldCustomerName Field = iota
	FieldFeedbackText
)

func (f Field) String() string {
	switch f {
	case FieldCustomerName:
		return "customer_name"
	case FieldFeedbackText:
		return "feedback_text"
	default:
		return "unknown"
	}
}

// Draft is the review being typed by the visitor.
type Draft struct {
	CustomerName string
	FeedbackText string
}

// Complete reports whether both fields are non-empty.
func (d Draft) Complete() bool {
	return d.CustomerName != "" && d.FeedbackText != ""
}

// IsZero reports whether both fields are empty.
func (d Draft) IsZero() bool {
	return d == Draft{}
}

// OutcomeKind tags an Outcome.
type OutcomeKind string

const (
	OutcomePending OutcomeKind = "pending"
	OutcomeSuccess OutcomeKind = "success"
	OutcomeFailure OutcomeKind = "failure"
)

// Outcome is the result of the most recent submission attempt.
type Outcome struct {
	Kind    OutcomeKind
	Label   string // sentiment label, set for OutcomeSuccess
	Message string // user-facing message, set for OutcomeFailure
	Err     error  // underlying cause, set for OutcomeFailure
}

// Pending returns the outcome of an attempt that has not completed yet.
func Pending() Outcome {
	return Outcome{Kind: OutcomePending}
}

// Succeeded returns a success outcome carrying the label verbatim.
func Succeeded(label string) Outcome {
	return Outcome{Kind: OutcomeSuccess, Label: label}
}

// Failed returns a failure outcome. The message is always
// sentiment.FailureMessage whatever err says; err is kept for logs.
func Failed(err error) Outcome {
	return Outcome{Kind: OutcomeFailure, Message: sentiment.FailureMessage, Err: err}
}

// Result is what the gateway hands back for one attempt.
type Result struct {
	Label string
	Err   error
}

// Screen is the view derived from a ViewState.
type Screen int

const (
	ScreenProduct Screen = iota
	ScreenEditing
	ScreenThankYou
)

// ViewState is a point-in-time copy of the holder state. The view is a pure
// function of it.
type ViewState struct {
	ModalOpen bool
	Draft     Draft
	Loading   bool
	Outcome   *Outcome
}

// Screen derives which surface should be shown.
func (v ViewState) Screen() Screen {
	switch {
	case v.ModalOpen:
		return ScreenEditing
	case v.Outcome != nil && v.Outcome.Kind == OutcomeSuccess:
		return ScreenThankYou
	default:
		return ScreenProduct
	}
}

// Failure returns the failure outcome, or nil when the current outcome is
// not a failure.
func (v ViewState) Failure() *Outcome {
	if v.Outcome != nil && v.Outcome.Kind == OutcomeFailure {
		return v.Outcome
	}
	return nil
}

// Product is the single item on display. It is loaded once from
// configuration and never changes.
type Product struct {
	Name        string `yaml:"name"`
	Image       string `yaml:"image"`
	Description string `yaml:"description"`
}
