// Package tui implements the terminal storefront: a product card, the review
// modal, and the thank-you panel. Everything on screen is derived from the
// review.Holder snapshot.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog"

	"github.com/colonyops/sentiview/internal/core/logging"
	"github.com/colonyops/sentiview/internal/core/review"
	"github.com/colonyops/sentiview/internal/core/sentiment"
	"github.com/colonyops/sentiview/internal/core/styles"
)

const (
	descriptionWrap    = 60
	descriptionMinWrap = 20
	cardChrome         = 6 // border + padding
)

// Opts configures a Model.
type Opts struct {
	Holder  *review.Holder
	Gateway sentiment.Gateway
	Product review.Product
	// Context is the parent of every submission attempt. Defaults to
	// context.Background.
	Context context.Context
}

// submissionResultMsg carries the outcome of one gateway call back into the
// update loop.
type submissionResultMsg struct {
	attemptID uint64
	label     string
	err       error
}

// Model is the root Bubble Tea model.
type Model struct {
	ctx     context.Context
	holder  *review.Holder
	gateway sentiment.Gateway
	product review.Product
	log     zerolog.Logger

	modal       *ReviewModal
	spinner     spinner.Model
	description string
	width       int
	height      int
}

// New creates a Model. The holder is shared and may already hold a draft.
func New(opts Opts) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	holder := opts.Holder
	if holder == nil {
		holder = review.NewHolder()
	}

	logger := logging.Component("tui")
	holder.Subscribe(review.LogTransitions(logger))

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle

	m := Model{
		ctx:     ctx,
		holder:  holder,
		gateway: opts.Gateway,
		product: opts.Product,
		log:     logger,
		spinner: sp,
	}
	m.description = renderDescription(opts.Product.Description, descriptionWrap)

	if holder.Snapshot().ModalOpen {
		m.modal = NewReviewModal(holder.Snapshot().Draft)
	}

	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		wrap := min(descriptionWrap, msg.Width-cardChrome)
		m.description = renderDescription(m.product.Description, max(wrap, descriptionMinWrap))
		return m, nil

	case submissionResultMsg:
		return m.handleResult(msg)

	case spinner.TickMsg:
		if !m.holder.Snapshot().Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.modal != nil {
			return m.handleModalKey(msg)
		}
		return m.handleKey(msg)
	}

	if m.modal != nil {
		var cmd tea.Cmd
		_, cmd = m.modal.Dialog().Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Open):
		m.holder.Open()
		m.modal = NewReviewModal(m.holder.Snapshot().Draft)
		return m, m.modal.Dialog().Init()
	}
	return m, nil
}

func (m Model) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.ForceQuit) {
		return m, tea.Quit
	}

	dialog, cmd := m.modal.Dialog().Update(msg)

	draft := m.modal.Draft()
	m.holder.UpdateField(review.FieldCustomerName, draft.CustomerName)
	m.holder.UpdateField(review.FieldFeedbackText, draft.FeedbackText)

	switch {
	case dialog.Cancelled():
		m.holder.Close()
		m.modal = nil
		return m, cmd
	case dialog.Submitted():
		dialog.Rearm()
		return m.startSubmission(cmd)
	}

	return m, cmd
}

func (m Model) startSubmission(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	attempt, err := m.holder.Begin(m.ctx)
	if err != nil {
		m.log.Debug().Err(err).Msg("submit ignored")
		return m, cmd
	}

	m.modal.Dialog().SetDisabled(true)
	m.log.Info().Uint64("attempt_id", attempt.ID).Msg("submitting review")

	return m, tea.Batch(cmd, m.spinner.Tick, submitCmd(m.gateway, m.product, attempt))
}

func (m Model) handleResult(msg submissionResultMsg) (tea.Model, tea.Cmd) {
	applied := m.holder.Complete(msg.attemptID, review.Result{Label: msg.label, Err: msg.err})
	if !applied {
		m.log.Debug().
			Uint64("attempt_id", msg.attemptID).
			Str("reason", string(sentiment.ReasonOf(msg.err))).
			Msg("discarded result of abandoned attempt")
		return m, nil
	}

	if msg.err != nil {
		m.log.Error().
			Uint64("attempt_id", msg.attemptID).
			Str("reason", string(sentiment.ReasonOf(msg.err))).
			Msg("review submission failed")
	}

	snap := m.holder.Snapshot()
	if !snap.ModalOpen {
		m.modal = nil
		return m, nil
	}

	if m.modal != nil {
		m.modal.Dialog().SetDisabled(false)
	}
	return m, nil
}

// submitCmd runs one gateway call off the update loop.
func submitCmd(gw sentiment.Gateway, product review.Product, attempt review.Attempt) tea.Cmd {
	return func() tea.Msg {
		ctx := logging.WithAttemptID(attempt.Context(), attempt.ID)
		label, err := gw.Submit(ctx, sentiment.Request{
			Customer: attempt.Draft.CustomerName,
			Product:  product.Name,
			Feedback: attempt.Draft.FeedbackText,
		})
		return submissionResultMsg{attemptID: attempt.ID, label: label, err: err}
	}
}

func renderDescription(md string, wrap int) string {
	if md == "" {
		return ""
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return md
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}
