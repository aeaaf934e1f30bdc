package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/sentiview/internal/core/review"
	"github.com/colonyops/sentiview/internal/core/styles"
)

// View implements tea.Model.
func (m Model) View() string {
	snap := m.holder.Snapshot()

	body := m.renderProductCard()
	if snap.Screen() == review.ScreenThankYou {
		body = lipgloss.JoinVertical(lipgloss.Left, body, "", renderThankYou(snap.Outcome.Label))
	}

	if m.modal == nil {
		return body
	}

	var failure string
	if f := snap.Failure(); f != nil {
		failure = f.Message
	}

	var spin string
	if snap.Loading {
		spin = m.spinner.View()
	}

	return m.modal.Overlay(body, m.width, m.height, snap.Loading, spin, failure)
}

func (m Model) renderProductCard() string {
	lines := []string{
		styles.ProductName.Render(styles.IconPackage + " " + m.product.Name),
	}
	if m.product.Image != "" {
		lines = append(lines, styles.ProductImage.Render("Image: "+m.product.Image))
	}
	if desc := strings.TrimSpace(m.description); desc != "" {
		lines = append(lines, "", desc)
	}
	lines = append(lines, "", styles.HintStyle.Render(hint(keys.Open, keys.Quit)))

	return styles.CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func renderThankYou(label string) string {
	title := styles.ThankYouTitle.Render(styles.IconCheck + " Thank you for your review!")
	sentiment := styles.SentimentLabel.Render("Sentiment: ") +
		styles.SentimentValue.Foreground(styles.SentimentColor(label)).Render(label)

	return styles.ThankYouStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, sentiment))
}
