// Package sentiview wires configuration, the review holder, and the gateway
// into the object graph shared by every command.
package sentiview

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/colonyops/sentiview/internal/core/config"
	"github.com/colonyops/sentiview/internal/core/logging"
	"github.com/colonyops/sentiview/internal/core/review"
	"github.com/colonyops/sentiview/internal/core/sentiment"
)

// App holds the services commands operate on.
type App struct {
	Config  *config.Config
	Holder  *review.Holder
	Gateway sentiment.Gateway

	log zerolog.Logger
}

// NewApp constructs an App from explicit dependencies. A nil gateway gets a
// client built from the config's gateway section.
func NewApp(cfg *config.Config, gw sentiment.Gateway) *App {
	if gw == nil {
		gw = sentiment.NewClient(cfg.ClientOptions())
	}

	return &App{
		Config:  cfg,
		Holder:  review.NewHolder(),
		Gateway: gw,
		log:     logging.Component("app"),
	}
}

// Submit runs one review through the holder without a UI: open, fill, begin,
// call the gateway, complete. The returned outcome is the holder's settled
// outcome. An error is returned only when the draft is incomplete or another
// attempt is in flight; gateway failures come back as a failure outcome.
func (a *App) Submit(ctx context.Context, draft review.Draft) (review.Outcome, error) {
	req := sentiment.Request{
		Customer: draft.CustomerName,
		Product:  a.Config.Product.Name,
		Feedback: draft.FeedbackText,
	}
	if err := req.Validate(); err != nil {
		return review.Outcome{}, fmt.Errorf("invalid review: %w", err)
	}

	a.Holder.Open()
	a.Holder.UpdateField(review.FieldCustomerName, draft.CustomerName)
	a.Holder.UpdateField(review.FieldFeedbackText, draft.FeedbackText)

	attempt, err := a.Holder.Begin(ctx)
	if err != nil {
		return review.Outcome{}, err
	}

	attemptCtx := logging.WithAttemptID(attempt.Context(), attempt.ID)
	label, err := a.Gateway.Submit(attemptCtx, req)
	if err != nil {
		a.log.Error().
			Uint64("attempt_id", attempt.ID).
			Str("reason", string(sentiment.ReasonOf(err))).
			Str("detail", detail(err)).
			Msg("review submission failed")
	}

	if !a.Holder.Complete(attempt.ID, review.Result{Label: label, Err: err}) {
		return review.Outcome{}, errors.New("submission was abandoned")
	}

	snap := a.Holder.Snapshot()
	return *snap.Outcome, nil
}

func detail(err error) string {
	var se *sentiment.SubmissionError
	if errors.As(err, &se) {
		return se.Detail()
	}
	return err.Error()
}
