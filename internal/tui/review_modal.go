package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/sentiview/internal/core/review"
	"github.com/colonyops/sentiview/internal/core/styles"
	"github.com/colonyops/sentiview/internal/tui/components/form"
)

const (
	reviewModalTitle = "Leave a Review"
	varCustomerName  = "customer_name"
	varFeedbackText  = "feedback_text"
)

// ReviewModal is the overlay holding the review form.
type ReviewModal struct {
	dialog *form.Dialog
}

// NewReviewModal builds the review form prefilled with draft so a visitor
// who closed the modal picks up where they left off.
func NewReviewModal(draft review.Draft) *ReviewModal {
	required := form.FieldValidation{Required: true}

	fields := []form.Field{
		form.NewTextField("Name", "Your Name", draft.CustomerName, required),
		form.NewTextAreaField("Feedback", "Your feedback...", draft.FeedbackText, required),
	}

	dialog := form.NewDialog(reviewModalTitle, fields, []string{varCustomerName, varFeedbackText})
	dialog.Help = "tab: next  ctrl+s: submit  esc: cancel"

	return &ReviewModal{dialog: dialog}
}

// Dialog exposes the underlying form.
func (m *ReviewModal) Dialog() *form.Dialog { return m.dialog }

// Draft returns the values currently typed into the form.
func (m *ReviewModal) Draft() review.Draft {
	return review.Draft{
		CustomerName: m.dialog.Value(varCustomerName),
		FeedbackText: m.dialog.Value(varFeedbackText),
	}
}

// View renders the modal box. spinner is shown beside the submit button
// while loading. failure is the message of the last failed attempt, if any.
func (m *ReviewModal) View(loading bool, spinner, failure string) string {
	var submitBtn string
	if loading {
		submitBtn = styles.ModalButtonDisabledStyle.Render(spinner + " Submitting...")
	} else {
		submitBtn = styles.ModalButtonSelectedStyle.Render("Submit")
	}
	cancelBtn := styles.ModalButtonStyle.Render("Cancel")

	buttons := lipgloss.JoinHorizontal(lipgloss.Center, submitBtn, "  ", cancelBtn)
	buttonRow := lipgloss.NewStyle().MarginTop(1).Render(buttons)

	parts := []string{
		styles.ModalTitleStyle.Render(m.dialog.Title),
		"",
		m.dialog.View(),
		buttonRow,
	}
	if failure != "" {
		parts = append(parts, "", styles.FormErrorStyle.Render(failure))
	}

	return styles.ModalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// Overlay centers the modal over the screen area. The background is
// replaced rather than composited.
func (m *ReviewModal) Overlay(background string, width, height int, loading bool, spinner, failure string) string {
	modal := m.View(loading, spinner, failure)
	if width == 0 || height == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, background, modal)
	}

	return lipgloss.Place(
		width, height,
		lipgloss.Center, lipgloss.Center,
		modal,
	)
}
