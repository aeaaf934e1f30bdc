package review

import (
	"context"
	"sync"
)

// Subscriber is invoked with a fresh snapshot after every state change.
type Subscriber func(ViewState)

// Attempt identifies one submission. Completions are matched against the
// attempt ID so that results of an abandoned attempt are discarded.
type Attempt struct {
	ID    uint64
	Draft Draft
	ctx   context.Context
}

// Context is cancelled when the attempt is abandoned or completed.
func (a Attempt) Context() context.Context {
	if a.ctx == nil {
		return context.Background()
	}
	return a.ctx
}

// Holder owns the review surface state. All mutations go through its
// methods; subscribers are notified after each change, outside the lock, in
// the order changes were applied.
type Holder struct {
	mu          sync.Mutex
	modalOpen   bool
	draft       Draft
	loading     bool
	outcome     *Outcome
	attemptID   uint64 // 0 when nothing is in flight
	lastID      uint64
	cancel      context.CancelFunc
	subscribers []Subscriber
}

// NewHolder returns a holder in its initial state: modal closed, empty
// draft, not loading, no outcome.
func NewHolder() *Holder {
	return &Holder{}
}

// Subscribe registers fn to receive snapshots after every change.
func (h *Holder) Subscribe(fn Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subscribers = append(h.subscribers, fn)
}

// Snapshot returns the current state.
func (h *Holder) Snapshot() ViewState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snapshotLocked()
}

// Open shows the review surface. A settled success is dropped since the
// thank-you state only exists while the surface is closed; a failure is
// kept so its message shows again.
func (h *Holder) Open() {
	h.apply(func() bool {
		if h.modalOpen {
			return false
		}
		h.modalOpen = true
		if h.outcome != nil && h.outcome.Kind == OutcomeSuccess {
			h.outcome = nil
		}
		return true
	})
}

// Close hides the review surface. The draft and any settled outcome are
// kept. An attempt still in flight is cancelled and its completion will be
// ignored.
func (h *Holder) Close() {
	h.apply(func() bool {
		changed := h.modalOpen
		h.modalOpen = false

		if h.loading {
			h.abandonLocked()
			h.loading = false
			h.outcome = nil
			changed = true
		}
		return changed
	})
}

// UpdateField sets one draft field. Values are not validated here. It
// returns false for an unknown field.
func (h *Holder) UpdateField(field Field, value string) bool {
	known := true
	h.apply(func() bool {
		switch field {
		case FieldCustomerName:
			if h.draft.CustomerName == value {
				return false
			}
			h.draft.CustomerName = value
		case FieldFeedbackText:
			if h.draft.FeedbackText == value {
				return false
			}
			h.draft.FeedbackText = value
		default:
			known = false
			return false
		}
		return true
	})
	return known
}

// Begin starts a submission of the current draft. It fails with
// ErrSubmissionInFlight while another attempt is outstanding. The returned
// attempt's context is derived from ctx and is cancelled if the surface is
// closed before completion.
func (h *Holder) Begin(ctx context.Context) (Attempt, error) {
	h.mu.Lock()
	if h.loading {
		h.mu.Unlock()
		return Attempt{}, ErrSubmissionInFlight
	}

	attemptCtx, cancel := context.WithCancel(ctx)
	h.lastID++
	h.attemptID = h.lastID
	h.cancel = cancel
	h.loading = true
	pending := Pending()
	h.outcome = &pending

	attempt := Attempt{ID: h.attemptID, Draft: h.draft, ctx: attemptCtx}
	snap := h.snapshotLocked()
	subs := h.subscribersLocked()
	h.mu.Unlock()

	notify(subs, snap)
	return attempt, nil
}

// Complete applies the result of attempt id. It returns false, leaving the
// state untouched, when id is not the attempt currently in flight.
//
// On success the surface closes and the draft is cleared. On failure the
// surface and draft stay as they were so the visitor can resubmit.
func (h *Holder) Complete(id uint64, res Result) bool {
	h.mu.Lock()
	if id == 0 || id != h.attemptID {
		h.mu.Unlock()
		return false
	}

	h.abandonLocked()
	h.loading = false

	var outcome Outcome
	if res.Err != nil {
		outcome = Failed(res.Err)
	} else {
		outcome = Succeeded(res.Label)
		h.modalOpen = false
		h.draft = Draft{}
	}
	h.outcome = &outcome

	snap := h.snapshotLocked()
	subs := h.subscribersLocked()
	h.mu.Unlock()

	notify(subs, snap)
	return true
}

func (h *Holder) apply(fn func() bool) {
	h.mu.Lock()
	if !fn() {
		h.mu.Unlock()
		return
	}
	snap := h.snapshotLocked()
	subs := h.subscribersLocked()
	h.mu.Unlock()

	notify(subs, snap)
}

// abandonLocked releases the in-flight attempt's context and forgets its ID.
func (h *Holder) abandonLocked() {
	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
	h.attemptID = 0
}

func (h *Holder) snapshotLocked() ViewState {
	v := ViewState{
		ModalOpen: h.modalOpen,
		Draft:     h.draft,
		Loading:   h.loading,
	}
	if h.outcome != nil {
		o := *h.outcome
		v.Outcome = &o
	}
	return v
}

func (h *Holder) subscribersLocked() []Subscriber {
	subs := make([]Subscriber, len(h.subscribers))
	copy(subs, h.subscribers)
	return subs
}

func notify(subs []Subscriber, snap ViewState) {
	for _, fn := range subs {
		fn(snap)
	}
}
