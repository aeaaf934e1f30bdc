// Package sentiment talks to the remote classification service. It defines
// the wire contract, the client used to submit reviews, and a small lexicon
// classifier that stands in for the real service during development.
package sentiment

import (
	"context"
	"errors"

	"github.com/hay-kot/criterio"
)

// Labels produced by the bundled classifiers. The client never checks
// labels against this list; whatever the service returns is passed through.
const (
	LabelPositive = "positive"
	LabelNegative = "negative"
	LabelNeutral  = "neutral"
)

// Request is the body posted to the feedback endpoint.
type Request struct {
	Customer string `json:"customer"`
	Product  string `json:"product"`
	Feedback string `json:"feedback"`
	Method   string `json:"method,omitempty"`
}

// Validate reports empty fields. Whitespace counts as content. Method is
// optional.
func (r Request) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("customer", r.Customer, notEmpty),
		criterio.Run("product", r.Product, notEmpty),
		criterio.Run("feedback", r.Feedback, notEmpty),
	)
}

func notEmpty(s string) error {
	if s == "" {
		return errors.New("required")
	}
	return nil
}

// Response is the body returned by the feedback endpoint on success. The
// service echoes the request fields back alongside the label.
type Response struct {
	Request
	Sentiment string `json:"sentiment"`
}

// Scores holds per-label probabilities. They sum to 1.
type Scores struct {
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
	Positive float64 `json:"positive"`
}

// Top returns the highest scoring label and its score. Ties resolve toward
// neutral, then positive.
func (s Scores) Top() (string, float64) {
	label, best := LabelNeutral, s.Neutral
	if s.Positive > best {
		label, best = LabelPositive, s.Positive
	}
	if s.Negative > best {
		label, best = LabelNegative, s.Negative
	}
	return label, best
}

// Analysis is a detailed classification of one text.
type Analysis struct {
	Sentiment  string  `json:"sentiment"`
	Confidence float64 `json:"confidence"`
	Scores     Scores  `json:"scores"`
}

// Gateway submits a review and returns the sentiment label.
type Gateway interface {
	Submit(ctx context.Context, req Request) (string, error)
}

// Classifier labels free text.
type Classifier interface {
	Name() string
	Analyze(text string) Analysis
}

// GatewayFunc adapts a function to Gateway.
type GatewayFunc func(ctx context.Context, req Request) (string, error)

func (f GatewayFunc) Submit(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}
