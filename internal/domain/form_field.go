package domain

import (
	"regexp"
	"strings"
)

type FieldType string

const (
	FieldText     FieldType = "text"
	FieldTextarea FieldType = "textarea"
	FieldRadio    FieldType = "radio"
	FieldSelect   FieldType = "select"
)

// FormField is one question on the booking form. Ordering is significant
// and user-controlled, so the active schema is stored as an ordered slice,
// never a set.
type FormField struct {
	ID          string    `json:"id"`
	Label       string    `json:"label"`
	Type        FieldType `json:"type"`
	Placeholder string    `json:"placeholder,omitempty"`
	Options     []string  `json:"options,omitempty"`
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// DeriveFieldID maps a human-readable label to a field identifier:
// lowercased, runs of whitespace collapsed to a single underscore.
// "Budget Range" -> "budget_range".
func DeriveFieldID(label string) string {
	return whitespaceRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(label)), "_")
}

// ValidFieldType reports whether t is one of the supported field types.
func ValidFieldType(t FieldType) bool {
	switch t {
	case FieldText, FieldTextarea, FieldRadio, FieldSelect:
		return true
	}
	return false
}

// RequiresOptions reports whether the field type needs a non-empty options
// list to be renderable.
func RequiresOptions(t FieldType) bool {
	return t == FieldRadio || t == FieldSelect
}

// DefaultFormFields is the built-in schema a fresh install starts from.
func DefaultFormFields() []FormField {
	return []FormField{
		{ID: "placement", Label: "Placement", Type: FieldText, Placeholder: "e.g. Forearm"},
		{ID: "size", Label: "Size (cm)", Type: FieldText, Placeholder: "e.g. 15x8"},
		{ID: "description", Label: "Concept Description", Type: FieldTextarea,
			Placeholder: "Describe your idea, placement, and any specific elements you want included."},
	}
}
