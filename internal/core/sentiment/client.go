package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/colonyops/sentiview/internal/core/logging"
)

// DefaultEndpoint is the feedback endpoint of a locally running service.
const DefaultEndpoint = "http://localhost:8000/feedback"

// ClientOptions configures a Client.
type ClientOptions struct {
	Endpoint string        // feedback URL; DefaultEndpoint when empty
	Method   string        // classifier hint sent when the request has none
	Timeout  time.Duration // 0 means no client-side timeout
	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client
}

// Client posts reviews to the feedback endpoint. It makes exactly one
// request per Submit call and never retries.
type Client struct {
	endpoint string
	method   string
	http     *http.Client
}

// NewClient creates a Client.
func NewClient(opts ClientOptions) *Client {
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	return &Client{
		endpoint: endpoint,
		method:   opts.Method,
		http:     httpClient,
	}
}

// Endpoint returns the URL reviews are posted to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Submit posts req and returns the sentiment label exactly as the service
// reported it. Every failure is a *SubmissionError.
func (c *Client) Submit(ctx context.Context, req Request) (string, error) {
	if req.Method == "" {
		req.Method = c.method
	}

	requestID := uuid.NewString()
	ctx = logging.WithRequestID(ctx, requestID)
	logger := logging.ComponentCtx(ctx, "gateway")

	body, err := json.Marshal(req)
	if err != nil {
		return "", &SubmissionError{Reason: ReasonTransport, Err: fmt.Errorf("encode request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &SubmissionError{Reason: ReasonTransport, Err: fmt.Errorf("create request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		reason := ReasonTransport
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			reason = ReasonCancelled
		}
		logger.Debug().Err(err).Str("reason", string(reason)).Msg("feedback request failed")
		return "", &SubmissionError{Reason: reason, Err: fmt.Errorf("post feedback: %w", err)}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Debug().Err(err).Msg("gateway: close feedback response body")
		}
	}()

	logger.Debug().
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("feedback response received")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &SubmissionError{Reason: ReasonRejected, StatusCode: resp.StatusCode}
	}

	var out struct {
		Sentiment *string `json:"sentiment"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &SubmissionError{
			Reason:     ReasonMalformed,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("decode feedback response: %w", err),
		}
	}
	if out.Sentiment == nil {
		return "", &SubmissionError{
			Reason:     ReasonMalformed,
			StatusCode: resp.StatusCode,
			Err:        errors.New("decode feedback response: missing sentiment"),
		}
	}

	return *out.Sentiment, nil
}
