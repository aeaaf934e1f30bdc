package form

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/sentiview/internal/core/styles"
)

// TextField is a single-line text input form field.
type TextField struct {
	fieldError
	input   textinput.Model
	label   string
	focused bool
}

// NewTextField creates a new single-line text input field. An optional
// FieldValidation is checked when the dialog submits.
func NewTextField(label, placeholder, defaultVal string, validation ...FieldValidation) *TextField {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	ti.Width = 40
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(styles.ColorMuted)
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(styles.ColorPrimary)

	if defaultVal != "" {
		ti.SetValue(defaultVal)
	}

	return &TextField{
		fieldError: newFieldError(validation),
		input:      ti,
		label:      label,
	}
}

func (f *TextField) Update(msg tea.Msg) (Field, tea.Cmd) {
	if !f.focused {
		return f, nil
	}

	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return f, cmd
}

func (f *TextField) View() string {
	return renderField(f.label, f.errMsg, f.input.View(), f.focused)
}

func (f *TextField) Focus() tea.Cmd {
	f.focused = true
	return f.input.Focus()
}

func (f *TextField) Blur() {
	f.focused = false
	f.input.Blur()
}

func (f *TextField) Focused() bool    { return f.focused }
func (f *TextField) Value() string    { return f.input.Value() }
func (f *TextField) Label() string    { return f.label }
func (f *TextField) Validate() string { return f.validate(f.input.Value()) }

// renderField draws the label, an optional validation message, and the input
// inside the left-bordered field frame.
func renderField(label, errMsg, input string, focused bool) string {
	titleStyle := styles.FormTitleBlurredStyle
	if focused {
		titleStyle = styles.FormTitleStyle
	}
	title := titleStyle.Render(label)
	if errMsg != "" {
		title += " " + styles.FormErrorStyle.Render(errMsg)
	}

	content := lipgloss.JoinVertical(lipgloss.Left, title, input)

	borderStyle := styles.FormFieldStyle
	if focused {
		borderStyle = styles.FormFieldFocusedStyle
	}

	return borderStyle.Render(content)
}
