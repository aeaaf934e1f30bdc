package form

import tea "github.com/charmbracelet/bubbletea"

// Field is the interface implemented by all form field types.
type Field interface {
	Update(msg tea.Msg) (Field, tea.Cmd)
	View() string
	Focus() tea.Cmd
	Blur()
	Focused() bool
	Value() string
	Label() string // Display label for the field
	// Validate checks the current value and stores the message shown under
	// the label. It returns "" when the value is valid.
	Validate() string
	ClearError()
}

// fieldError is embedded by fields to carry validation state.
type fieldError struct {
	validation FieldValidation
	errMsg     string
}

func newFieldError(validation []FieldValidation) fieldError {
	var v FieldValidation
	if len(validation) > 0 {
		v = validation[0]
	}
	return fieldError{validation: v}
}

func (e *fieldError) validate(value string) string {
	e.errMsg = e.validation.ValidateText(value)
	return e.errMsg
}

func (e *fieldError) ClearError() { e.errMsg = "" }
