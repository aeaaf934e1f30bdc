package review

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errAnalyze = errors.New("Failed to analyze feedback")

func fill(h *Holder, name, feedback string) {
	h.UpdateField(FieldCustomerName, name)
	h.UpdateField(FieldFeedbackText, feedback)
}

func TestHolder_InitialState(t *testing.T) {
	v := NewHolder().Snapshot()

	assert.False(t, v.ModalOpen)
	assert.False(t, v.Loading)
	assert.True(t, v.Draft.IsZero())
	assert.Nil(t, v.Outcome)
	assert.Equal(t, ScreenProduct, v.Screen())
}

func TestHolder_ScenarioA_Success(t *testing.T) {
	h := NewHolder()
	h.Open()
	fill(h, "Alice", "Loved it!")

	attempt, err := h.Begin(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Draft{CustomerName: "Alice", FeedbackText: "Loved it!"}, attempt.Draft)

	v := h.Snapshot()
	assert.True(t, v.Loading)
	require.NotNil(t, v.Outcome)
	assert.Equal(t, OutcomePending, v.Outcome.Kind)

	applied := h.Complete(attempt.ID, Result{Label: "positive"})
	require.True(t, applied)

	v = h.Snapshot()
	assert.False(t, v.ModalOpen)
	assert.False(t, v.Loading)
	assert.Equal(t, Draft{}, v.Draft)
	require.NotNil(t, v.Outcome)
	assert.Equal(t, Succeeded("positive"), *v.Outcome)
	assert.Equal(t, ScreenThankYou, v.Screen())
}

func TestHolder_ScenarioB_Failure(t *testing.T) {
	h := NewHolder()
	h.Open()
	fill(h, "Alice", "Loved it!")

	attempt, err := h.Begin(context.Background())
	require.NoError(t, err)
	require.True(t, h.Complete(attempt.ID, Result{Err: errAnalyze}))

	v := h.Snapshot()
	assert.True(t, v.ModalOpen)
	assert.False(t, v.Loading)
	assert.Equal(t, Draft{CustomerName: "Alice", FeedbackText: "Loved it!"}, v.Draft)
	require.NotNil(t, v.Failure())
	assert.Equal(t, "Failed to analyze feedback", v.Failure().Message)
	assert.ErrorIs(t, v.Failure().Err, errAnalyze)
	assert.Equal(t, ScreenEditing, v.Screen())
}

func TestHolder_ScenarioC_CancelWithoutInput(t *testing.T) {
	h := NewHolder()
	h.Open()
	h.Close()

	v := h.Snapshot()
	assert.False(t, v.ModalOpen)
	assert.True(t, v.Draft.IsZero())
	assert.Nil(t, v.Outcome)
}

func TestHolder_ScenarioD_ConsecutiveSuccesses(t *testing.T) {
	h := NewHolder()

	for _, label := range []string{"positive", "negative"} {
		h.Open()
		fill(h, "Bob", "Feedback for "+label)

		attempt, err := h.Begin(context.Background())
		require.NoError(t, err)
		require.True(t, h.Complete(attempt.ID, Result{Label: label}))

		v := h.Snapshot()
		assert.False(t, v.ModalOpen)
		assert.True(t, v.Draft.IsZero())
		require.NotNil(t, v.Outcome)
		assert.Equal(t, label, v.Outcome.Label)
	}
}

func TestHolder_BeginRejectedWhileLoading(t *testing.T) {
	h := NewHolder()
	h.Open()
	fill(h, "Alice", "Loved it!")

	first, err := h.Begin(context.Background())
	require.NoError(t, err)

	_, err = h.Begin(context.Background())
	require.ErrorIs(t, err, ErrSubmissionInFlight)

	require.True(t, h.Complete(first.ID, Result{Err: errAnalyze}))

	second, err := h.Begin(context.Background())
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)
}

func TestHolder_CloseTwiceIsIdempotent(t *testing.T) {
	tests := []struct {
		name  string
		setup func(h *Holder)
	}{
		{
			name:  "closed",
			setup: func(h *Holder) {},
		},
		{
			name: "open with draft",
			setup: func(h *Holder) {
				h.Open()
				fill(h, "Alice", "draft")
			},
		},
		{
			name: "open after failure",
			setup: func(h *Holder) {
				h.Open()
				fill(h, "Alice", "draft")
				a, _ := h.Begin(context.Background())
				h.Complete(a.ID, Result{Err: errAnalyze})
			},
		},
		{
			name: "in flight",
			setup: func(h *Holder) {
				h.Open()
				fill(h, "Alice", "draft")
				_, _ = h.Begin(context.Background())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			once := NewHolder()
			tt.setup(once)
			once.Close()

			twice := NewHolder()
			tt.setup(twice)
			twice.Close()
			twice.Close()

			assert.Equal(t, once.Snapshot(), twice.Snapshot())
		})
	}
}

func TestHolder_CloseKeepsDraftAndFailure(t *testing.T) {
	h := NewHolder()
	h.Open()
	fill(h, "Alice", "Loved it!")
	a, err := h.Begin(context.Background())
	require.NoError(t, err)
	h.Complete(a.ID, Result{Err: errAnalyze})

	h.Close()
	h.Open()

	v := h.Snapshot()
	assert.Equal(t, Draft{CustomerName: "Alice", FeedbackText: "Loved it!"}, v.Draft)
	require.NotNil(t, v.Failure())
}

func TestHolder_CloseAbandonsInFlightAttempt(t *testing.T) {
	h := NewHolder()
	h.Open()
	fill(h, "Alice", "Loved it!")

	attempt, err := h.Begin(context.Background())
	require.NoError(t, err)

	h.Close()

	assert.ErrorIs(t, attempt.Context().Err(), context.Canceled)

	v := h.Snapshot()
	assert.False(t, v.Loading)
	assert.Nil(t, v.Outcome)

	applied := h.Complete(attempt.ID, Result{Label: "positive"})
	assert.False(t, applied, "stale completion must be ignored")

	v = h.Snapshot()
	assert.Nil(t, v.Outcome)
	assert.Equal(t, Draft{CustomerName: "Alice", FeedbackText: "Loved it!"}, v.Draft)

	// A new attempt may start right away.
	_, err = h.Begin(context.Background())
	assert.NoError(t, err)
}

func TestHolder_OpenAfterSuccess(t *testing.T) {
	h := NewHolder()
	h.Open()
	fill(h, "Alice", "Loved it!")
	a, err := h.Begin(context.Background())
	require.NoError(t, err)
	require.True(t, h.Complete(a.ID, Result{Label: "positive"}))

	h.Open()

	v := h.Snapshot()
	assert.True(t, v.ModalOpen)
	assert.Nil(t, v.Outcome)
	assert.Equal(t, ScreenEditing, v.Screen())

	h.Close()
	assert.Equal(t, ScreenProduct, h.Snapshot().Screen())
}

func TestHolder_OpenKeepsFailure(t *testing.T) {
	h := NewHolder()
	h.Open()
	fill(h, "Alice", "Loved it!")
	a, err := h.Begin(context.Background())
	require.NoError(t, err)
	require.True(t, h.Complete(a.ID, Result{Err: errAnalyze}))

	h.Close()
	h.Open()

	require.NotNil(t, h.Snapshot().Failure())
}

func TestHolder_FailureMessageIsFixed(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "plain error", err: errors.New("dial tcp: connection refused")},
		{name: "wrapped error", err: fmt.Errorf("post feedback: %w", errors.New("EOF"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHolder()
			h.Open()
			a, err := h.Begin(context.Background())
			require.NoError(t, err)
			require.True(t, h.Complete(a.ID, Result{Err: tt.err}))

			f := h.Snapshot().Failure()
			require.NotNil(t, f)
			assert.Equal(t, "Failed to analyze feedback", f.Message)
			assert.ErrorIs(t, f.Err, tt.err)
		})
	}
}

func TestHolder_CompleteUnknownAttempt(t *testing.T) {
	h := NewHolder()
	assert.False(t, h.Complete(0, Result{Label: "positive"}))
	assert.False(t, h.Complete(42, Result{Label: "positive"}))
	assert.Nil(t, h.Snapshot().Outcome)
}

func TestHolder_CompleteReleasesContext(t *testing.T) {
	h := NewHolder()
	h.Open()
	attempt, err := h.Begin(context.Background())
	require.NoError(t, err)

	require.True(t, h.Complete(attempt.ID, Result{Label: "neutral"}))
	assert.Error(t, attempt.Context().Err())
}

func TestHolder_UpdateField(t *testing.T) {
	h := NewHolder()

	assert.True(t, h.UpdateField(FieldCustomerName, "Alice"))
	assert.True(t, h.UpdateField(FieldFeedbackText, "ok"))
	assert.False(t, h.UpdateField(Field(99), "ignored"))

	assert.Equal(t, Draft{CustomerName: "Alice", FeedbackText: "ok"}, h.Snapshot().Draft)
}

func TestHolder_SuccessImpliesModalClosed(t *testing.T) {
	h := NewHolder()

	var violations int
	h.Subscribe(func(v ViewState) {
		if v.Outcome != nil && v.Outcome.Kind == OutcomeSuccess && v.ModalOpen {
			violations++
		}
	})

	// Walk through a mix of transitions, including opening the surface again
	// after a success.
	h.Open()
	fill(h, "Alice", "Loved it!")
	a, _ := h.Begin(context.Background())
	h.Complete(a.ID, Result{Label: "positive"})
	h.Open()
	fill(h, "Alice", "again")
	h.Close()
	h.Open()
	a, _ = h.Begin(context.Background())
	h.Complete(a.ID, Result{Err: errAnalyze})
	a, _ = h.Begin(context.Background())
	h.Complete(a.ID, Result{Label: "neutral"})

	assert.Zero(t, violations)
	assert.Equal(t, ScreenThankYou, h.Snapshot().Screen())
}

func TestHolder_SubscribersSeeOrderedSnapshots(t *testing.T) {
	h := NewHolder()

	var screens []Screen
	var loading []bool
	h.Subscribe(func(v ViewState) {
		screens = append(screens, v.Screen())
		loading = append(loading, v.Loading)
	})

	h.Open()
	h.Open() // no change, no notification
	h.UpdateField(FieldCustomerName, "Alice")
	a, err := h.Begin(context.Background())
	require.NoError(t, err)
	h.Complete(a.ID, Result{Label: "positive"})

	assert.Equal(t, []Screen{ScreenEditing, ScreenEditing, ScreenEditing, ScreenThankYou}, screens)
	assert.Equal(t, []bool{false, false, true, false}, loading)
}

func TestHolder_SnapshotIsACopy(t *testing.T) {
	h := NewHolder()
	h.Open()
	a, _ := h.Begin(context.Background())
	h.Complete(a.ID, Result{Label: "positive"})

	v := h.Snapshot()
	v.Outcome.Label = "mutated"

	assert.Equal(t, "positive", h.Snapshot().Outcome.Label)
}

func TestLogTransitions(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	h := NewHolder()
	h.Subscribe(LogTransitions(logger))

	h.Open()
	a, _ := h.Begin(context.Background())
	h.Complete(a.ID, Result{Err: errAnalyze})

	out := buf.String()
	assert.Contains(t, out, `"message":"review state changed"`)
	assert.Contains(t, out, `"outcome":"failure"`)
	assert.Contains(t, out, `"level":"warn"`)
}
