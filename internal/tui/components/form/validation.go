package form

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

// FieldValidation holds runtime validation rules for a form field.
type FieldValidation struct {
	Required  bool
	MinLength int
	MaxLength int
	Pattern   *regexp.Regexp
}

// ValidateText checks a text value against the validation rules. Required
// only rejects the empty string; whitespace counts as a value.
func (v FieldValidation) ValidateText(value string) string {
	if v.Required && value == "" {
		return "required"
	}
	if value == "" {
		return ""
	}
	n := utf8.RuneCountInString(value)
	if v.MinLength > 0 && n < v.MinLength {
		return fmt.Sprintf("minimum %d characters", v.MinLength)
	}
	if v.MaxLength > 0 && n > v.MaxLength {
		return fmt.Sprintf("maximum %d characters", v.MaxLength)
	}
	if v.Pattern != nil && !v.Pattern.MatchString(value) {
		return fmt.Sprintf("must match pattern: %s", v.Pattern.String())
	}
	return ""
}
