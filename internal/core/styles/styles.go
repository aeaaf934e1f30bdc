// Package styles provides shared lipgloss styles for CLI and TUI components.
package styles

import "github.com/charmbracelet/lipgloss"

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Exported color aliases for convenience.
var (
	ColorPrimary    lipgloss.Color
	ColorSecondary  lipgloss.Color
	ColorForeground lipgloss.Color
	ColorMuted      lipgloss.Color
	ColorBackground lipgloss.Color
	ColorSurface    lipgloss.Color
	ColorSuccess    lipgloss.Color
	ColorWarning    lipgloss.Color
	ColorError      lipgloss.Color
)

// Style exports.
var (
	// CLI styles.
	CommandHeaderStyle lipgloss.Style
	CommandStyle       lipgloss.Style
	DividerStyle       lipgloss.Style
	SuccessStyle       lipgloss.Style
	ErrorStyle         lipgloss.Style

	// Product card.
	CardStyle       lipgloss.Style
	ProductName     lipgloss.Style
	ProductImage    lipgloss.Style
	HintStyle       lipgloss.Style
	ThankYouStyle   lipgloss.Style
	ThankYouTitle   lipgloss.Style
	SentimentLabel  lipgloss.Style
	SentimentValue  lipgloss.Style
	SpinnerStyle    lipgloss.Style
	StatusBarStyle  lipgloss.Style
	StatusItemStyle lipgloss.Style

	// Modal.
	ModalStyle               lipgloss.Style
	ModalTitleStyle          lipgloss.Style
	ModalHelpStyle           lipgloss.Style
	ModalButtonStyle         lipgloss.Style
	ModalButtonSelectedStyle lipgloss.Style
	ModalButtonDisabledStyle lipgloss.Style

	// Form.
	FormTitleStyle        lipgloss.Style
	FormTitleBlurredStyle lipgloss.Style
	FormFieldStyle        lipgloss.Style
	FormFieldFocusedStyle lipgloss.Style
	FormErrorStyle        lipgloss.Style
	FormHelpStyle         lipgloss.Style
)

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	ColorPrimary = p.Primary
	ColorSecondary = p.Secondary
	ColorForeground = p.Foreground
	ColorMuted = p.Muted
	ColorBackground = p.Background
	ColorSurface = p.Surface
	ColorSuccess = p.Success
	ColorWarning = p.Warning
	ColorError = p.Error

	CommandHeaderStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	CommandStyle = lipgloss.NewStyle().
		Foreground(ColorForeground)
	DividerStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	SuccessStyle = lipgloss.NewStyle().
		Foreground(ColorSuccess).
		Bold(true)
	ErrorStyle = lipgloss.NewStyle().
		Foreground(ColorError).
		Bold(true)

	CardStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorSurface).
		Padding(1, 2)
	ProductName = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	ProductImage = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Italic(true)
	HintStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	ThankYouStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorSuccess).
		Padding(1, 2)
	ThankYouTitle = lipgloss.NewStyle().
		Foreground(ColorSuccess).
		Bold(true)
	SentimentLabel = lipgloss.NewStyle().
		Foreground(ColorMuted)
	SentimentValue = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Bold(true)
	SpinnerStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary)
	StatusBarStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Padding(0, 1)
	StatusItemStyle = lipgloss.NewStyle().
		Foreground(ColorForeground)

	ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2)
	ModalTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorForeground)
	ModalHelpStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		MarginTop(1)
	ModalButtonStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(ColorSurface).
		Foreground(ColorMuted)
	ModalButtonSelectedStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(ColorPrimary).
		Foreground(ColorBackground).
		Bold(true)
	ModalButtonDisabledStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(ColorSurface).
		Foreground(ColorMuted).
		Faint(true)

	FormTitleStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	FormTitleBlurredStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	FormFieldStyle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(ColorMuted).
		PaddingLeft(1)
	FormFieldFocusedStyle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(ColorPrimary).
		PaddingLeft(1)
	FormErrorStyle = lipgloss.NewStyle().
		Foreground(ColorError)
	FormHelpStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
}

// SentimentColor returns the color used to render a sentiment label. Labels
// the bundled classifiers do not produce get the secondary color.
func SentimentColor(label string) lipgloss.Color {
	switch label {
	case "positive":
		return ColorSuccess
	case "negative":
		return ColorError
	case "neutral":
		return ColorWarning
	default:
		return ColorSecondary
	}
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}
