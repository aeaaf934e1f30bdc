package form

import (
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

// TextAreaField is a multi-line text input form field.
type TextAreaField struct {
	fieldError
	input   textarea.Model
	label   string
	focused bool
}

// NewTextAreaField creates a new multi-line text input field.
func NewTextAreaField(label, placeholder, defaultVal string, validation ...FieldValidation) *TextAreaField {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.SetHeight(4)
	ta.SetWidth(40)

	if defaultVal != "" {
		ta.SetValue(defaultVal)
	}

	return &TextAreaField{
		fieldError: newFieldError(validation),
		input:      ta,
		label:      label,
	}
}

func (f *TextAreaField) Update(msg tea.Msg) (Field, tea.Cmd) {
	if !f.focused {
		return f, nil
	}

	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return f, cmd
}

func (f *TextAreaField) View() string {
	return renderField(f.label, f.errMsg, f.input.View(), f.focused)
}

func (f *TextAreaField) Focus() tea.Cmd {
	f.focused = true
	return f.input.Focus()
}

func (f *TextAreaField) Blur() {
	f.focused = false
	f.input.Blur()
}

func (f *TextAreaField) Focused() bool    { return f.focused }
func (f *TextAreaField) Value() string    { return f.input.Value() }
func (f *TextAreaField) Label() string    { return f.label }
func (f *TextAreaField) Validate() string { return f.validate(f.input.Value()) }
