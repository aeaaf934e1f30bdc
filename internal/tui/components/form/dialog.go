package form

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/sentiview/internal/core/styles"
)

// DefaultHelp is the key summary rendered under the fields.
const DefaultHelp = "tab: next  shift+tab: prev  ctrl+s: submit  esc: cancel"

// Dialog is a form container that manages focus cycling, submission, and
// cancellation across a set of form fields.
type Dialog struct {
	fields       []Field
	variables    []string // parallel slice: variable name for each field
	focusedField int
	submitted    bool
	cancelled    bool
	disabled     bool
	Title        string
	Help         string
}

// NewDialog creates a form dialog with the given fields and variable names.
// The first field is focused automatically.
func NewDialog(title string, fields []Field, variables []string) *Dialog {
	d := &Dialog{
		fields:    fields,
		variables: variables,
		Title:     title,
		Help:      DefaultHelp,
	}
	if len(fields) > 0 {
		fields[0].Focus()
	}
	return d
}

// Init returns the focus command of the focused field, starting its cursor
// blink.
func (d *Dialog) Init() tea.Cmd {
	if len(d.fields) == 0 {
		return nil
	}
	return d.fields[d.focusedField].Focus()
}

// Update handles key input for the dialog, managing focus cycling and submit/cancel.
// While disabled only esc is handled.
func (d *Dialog) Update(msg tea.Msg) (*Dialog, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return d.updateFocusedField(msg)
	}

	key := keyMsg.String()

	if d.disabled {
		if key == "esc" {
			d.cancelled = true
		}
		return d, nil
	}

	switch key {
	case "tab":
		return d.advanceFocus()
	case "shift+tab":
		return d.retreatFocus()
	case "enter":
		if d.isTextAreaFocused() {
			// Let textarea handle enter for newline insertion
			return d.updateFocusedField(msg)
		}
		return d.advanceFocus()
	case "ctrl+s":
		return d.trySubmit()
	case "esc":
		d.cancelled = true
		return d, nil
	}

	return d.updateFocusedField(msg)
}

// View renders all fields vertically with spacing and help text.
func (d *Dialog) View() string {
	var parts []string
	for i, field := range d.fields {
		if i > 0 {
			parts = append(parts, "")
		}
		parts = append(parts, field.View())
	}

	if d.Help != "" {
		parts = append(parts, "", styles.FormHelpStyle.Render(d.Help))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// FormValues returns a map of variable names to field values.
func (d *Dialog) FormValues() map[string]string {
	result := make(map[string]string, len(d.fields))
	for i, field := range d.fields {
		result[d.variables[i]] = field.Value()
	}
	return result
}

// Value returns the value of the field bound to variable, or "" when no
// field is.
func (d *Dialog) Value(variable string) string {
	for i, v := range d.variables {
		if v == variable {
			return d.fields[i].Value()
		}
	}
	return ""
}

// Submitted returns whether the form was submitted.
func (d *Dialog) Submitted() bool { return d.submitted }

// Cancelled returns whether the form was cancelled.
func (d *Dialog) Cancelled() bool { return d.cancelled }

// Disabled reports whether input is being ignored.
func (d *Dialog) Disabled() bool { return d.disabled }

// SetDisabled blocks or restores input. Escape still cancels while disabled.
func (d *Dialog) SetDisabled(disabled bool) { d.disabled = disabled }

// Rearm clears the submitted and cancelled flags so the same dialog can be
// submitted again, for example after a failed attempt.
func (d *Dialog) Rearm() {
	d.submitted = false
	d.cancelled = false
}

func (d *Dialog) advanceFocus() (*Dialog, tea.Cmd) {
	if len(d.fields) == 0 {
		return d, nil
	}

	next := d.focusedField + 1
	if next >= len(d.fields) {
		// Past the last field, submit
		return d.trySubmit()
	}

	return d.focus(next)
}

func (d *Dialog) retreatFocus() (*Dialog, tea.Cmd) {
	if len(d.fields) == 0 || d.focusedField == 0 {
		return d, nil
	}

	return d.focus(d.focusedField - 1)
}

func (d *Dialog) focus(idx int) (*Dialog, tea.Cmd) {
	d.fields[d.focusedField].Blur()
	d.focusedField = idx
	cmd := d.fields[d.focusedField].Focus()
	return d, cmd
}

// trySubmit validates every field and submits when all pass. Otherwise the
// first invalid field is focused.
func (d *Dialog) trySubmit() (*Dialog, tea.Cmd) {
	firstInvalid := -1
	for i, field := range d.fields {
		if msg := field.Validate(); msg != "" && firstInvalid < 0 {
			firstInvalid = i
		}
	}

	if firstInvalid >= 0 {
		if firstInvalid != d.focusedField {
			return d.focus(firstInvalid)
		}
		return d, nil
	}

	d.submitted = true
	return d, nil
}

func (d *Dialog) updateFocusedField(msg tea.Msg) (*Dialog, tea.Cmd) {
	if len(d.fields) == 0 {
		return d, nil
	}

	var cmd tea.Cmd
	d.fields[d.focusedField], cmd = d.fields[d.focusedField].Update(msg)
	if _, ok := msg.(tea.KeyMsg); ok {
		d.fields[d.focusedField].ClearError()
	}
	return d, cmd
}

func (d *Dialog) isTextAreaFocused() bool {
	if len(d.fields) == 0 {
		return false
	}
	_, ok := d.fields[d.focusedField].(*TextAreaField)
	return ok
}
