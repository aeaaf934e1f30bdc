package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/sentiview/internal/core/sentiment"
)

type fixedClassifier struct {
	name  string
	label string
}

func (f fixedClassifier) Name() string { return f.name }

func (f fixedClassifier) Analyze(string) sentiment.Analysis {
	return sentiment.Analysis{
		Sentiment:  f.label,
		Confidence: 1,
		Scores:     sentiment.Scores{Positive: 1},
	}
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	s := New(Options{})
	rec := do(t, s.Handler(), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestFeedback(t *testing.T) {
	s := New(Options{})

	rec := do(t, s.Handler(), http.MethodPost, "/feedback",
		`{"customer":"Alice","product":"SuperWidget 3000","feedback":"Loved it!"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[sentiment.Response](t, rec)
	assert.Equal(t, "Alice", resp.Customer)
	assert.Equal(t, "SuperWidget 3000", resp.Product)
	assert.Equal(t, "Loved it!", resp.Feedback)
	assert.Equal(t, sentiment.LexiconName, resp.Method)
	assert.Equal(t, sentiment.LabelPositive, resp.Sentiment)
}

func TestFeedback_Validation(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		field  string
	}{
		{
			name:   "missing customer",
			body:   `{"product":"p","feedback":"f"}`,
			status: http.StatusUnprocessableEntity,
			field:  "customer",
		},
		{
			name:   "empty feedback",
			body:   `{"customer":"c","product":"p","feedback":""}`,
			status: http.StatusUnprocessableEntity,
			field:  "feedback",
		},
		{
			name:   "whitespace feedback accepted",
			body:   `{"customer":"c","product":"p","feedback":"   "}`,
			status: http.StatusOK,
		},
		{
			name:   "invalid json",
			body:   `{"customer":`,
			status: http.StatusBadRequest,
		},
	}

	s := New(Options{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s.Handler(), http.MethodPost, "/feedback", tt.body)
			assert.Equal(t, tt.status, rec.Code)

			if tt.field != "" {
				resp := decode[errorResponse](t, rec)
				assert.Equal(t, "validation failed", resp.Error)
				assert.Contains(t, resp.Fields, tt.field)
			}
		})
	}
}

func TestMethodSelection(t *testing.T) {
	s := New(Options{Classifiers: []sentiment.Classifier{
		fixedClassifier{name: "default", label: "neutral"},
		fixedClassifier{name: "happy", label: "positive"},
	}})

	tests := []struct {
		method     string
		wantMethod string
		wantLabel  string
	}{
		{method: "", wantMethod: "default", wantLabel: "neutral"},
		{method: "happy", wantMethod: "happy", wantLabel: "positive"},
		{method: "bert", wantMethod: "default", wantLabel: "neutral"},
	}

	for _, tt := range tests {
		t.Run("method="+tt.method, func(t *testing.T) {
			rec := do(t, s.Handler(), http.MethodPost, "/analyze-sentiment",
				`{"text":"anything","method":"`+tt.method+`"}`)
			require.Equal(t, http.StatusOK, rec.Code)

			resp := decode[textResponse](t, rec)
			assert.Equal(t, "anything", resp.Text)
			assert.Equal(t, tt.wantMethod, resp.Method)
			assert.Equal(t, tt.wantLabel, resp.Sentiment)
		})
	}
}

func TestAnalyzeDetailed(t *testing.T) {
	s := New(Options{})

	rec := do(t, s.Handler(), http.MethodPost, "/analyze-sentiment-detailed",
		`{"text":"This is terrible, it broke."}`)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[detailedResponse](t, rec)
	assert.Equal(t, sentiment.LabelNegative, resp.Sentiment)
	assert.InDelta(t, 1.0, resp.Scores.Negative+resp.Scores.Neutral+resp.Scores.Positive, 1e-9)
	assert.InDelta(t, resp.Scores.Negative, resp.Confidence, 1e-9)
}

func TestAnalyze_EmptyText(t *testing.T) {
	s := New(Options{})

	for _, path := range []string{"/analyze-sentiment", "/analyze-sentiment-detailed"} {
		rec := do(t, s.Handler(), http.MethodPost, path, `{"text":""}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, path)
	}
}

func TestCORS(t *testing.T) {
	s := New(Options{})

	req := httptest.NewRequest(http.MethodOptions, "/feedback", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	s := New(Options{RateLimit: 0.001, Burst: 2})

	codes := make([]int, 0, 3)
	for range 3 {
		codes = append(codes, do(t, s.Handler(), http.MethodGet, "/health", "").Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestStartShutdown(t *testing.T) {
	s := New(Options{Addr: "127.0.0.1:0"})
	assert.Empty(t, s.Addr())

	require.NoError(t, s.Start(context.Background()))
	require.NotEmpty(t, s.Addr())

	resp, err := http.Get("http://" + s.Addr() + "/health")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))
}

func TestPprof(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		h := New(Options{}).Handler()
		rec := do(t, h, http.MethodGet, "/debug/pprof/", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	h := New(Options{Pprof: true}).Handler()

	tests := []struct {
		name string
		path string
	}{
		{name: "index", path: "/debug/pprof/"},
		{name: "cmdline", path: "/debug/pprof/cmdline"},
		{name: "goroutine", path: "/debug/pprof/goroutine?debug=1"},
		{name: "heap", path: "/debug/pprof/heap"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, tt.path, "")
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}

func TestClientAgainstServer(t *testing.T) {
	srv := httptest.NewServer(New(Options{}).Handler())
	defer srv.Close()

	client := sentiment.NewClient(sentiment.ClientOptions{
		Endpoint:   srv.URL + "/feedback",
		HTTPClient: srv.Client(),
	})

	tests := []struct {
		feedback string
		want     string
	}{
		{feedback: "Loved it! Works perfectly.", want: sentiment.LabelPositive},
		{feedback: "Terrible, it broke after a day.", want: sentiment.LabelNegative},
		{feedback: "It arrived on Tuesday.", want: sentiment.LabelNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			label, err := client.Submit(context.Background(), sentiment.Request{
				Customer: "Alice",
				Product:  "SuperWidget 3000",
				Feedback: tt.feedback,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, label)
		})
	}

	_, err := client.Submit(context.Background(), sentiment.Request{Product: "SuperWidget 3000"})
	require.ErrorIs(t, err, sentiment.ErrSubmissionFailed)
	assert.Equal(t, sentiment.ReasonRejected, sentiment.ReasonOf(err))
}
