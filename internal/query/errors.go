package query

import (
	"encoding/json"
	"fmt"
)

// UnknownResourceError is returned when a resource identifier has no
// registered schema.
type UnknownResourceError struct {
	Resource string
}

func (e *UnknownResourceError) Error() string {
	return fmt.Sprintf("unknown resource %q", e.Resource)
}

// UnknownOperatorError is returned when a field token carries an explicit
// lookup suffix that is not in the supported set. Operator typos must be
// reported rather than silently treated as part of the field name.
type UnknownOperatorError struct {
	Token  string
	Suffix string
}

func (e *UnknownOperatorError) Error() string {
	return fmt.Sprintf("unknown lookup expression %q in field %q (supported: %s)",
		e.Suffix, e.Token, SupportedSuffixes())
}

// InvalidFieldError is returned when a field token resolves to neither a
// canonical field, an alias, nor a custom field. Suggestion is empty when no
// candidate scored above the confidence threshold.
type InvalidFieldError struct {
	Resource    string
	Given       string
	Suggestion  string
	ValidFields []string // sorted
}

func (e *InvalidFieldError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("invalid field %q for %s. Did you mean %q? Valid fields: %v. For custom fields, use the cf_<name> format",
			e.Given, e.Resource, e.Suggestion, e.ValidFields)
	}
	return fmt.Sprintf("invalid field %q for %s. Valid fields: %v. For custom fields, use the cf_<name> format",
		e.Given, e.Resource, e.ValidFields)
}

// MarshalJSON renders the caller-visible payload shape.
func (e *InvalidFieldError) MarshalJSON() ([]byte, error) {
	var suggestion *string
	if e.Suggestion != "" {
		suggestion = &e.Suggestion
	}
	return json.Marshal(struct {
		Kind        string   `json:"kind"`
		Given       string   `json:"given"`
		Suggestion  *string  `json:"suggestion"`
		ValidFields []string `json:"valid_fields"`
	}{
		Kind:        "invalid_field",
		Given:       e.Given,
		Suggestion:  suggestion,
		ValidFields: e.ValidFields,
	})
}

// EmptyFilterSetError is returned when a query would be built with no filter
// clauses and the resource declares no default filter. A query must always
// be scoped.
type EmptyFilterSetError struct {
	Resource string
}

func (e *EmptyFilterSetError) Error() string {
	return fmt.Sprintf("no filters supplied for %s: provide a prompt or at least one field/value pair", e.Resource)
}

// UnparsablePromptError is returned when no prompt template for the resource
// matches the supplied free text. Ambiguity surfaces; the parser never
// guesses.
type UnparsablePromptError struct {
	Resource string
	Prompt   string
}

func (e *UnparsablePromptError) Error() string {
	return fmt.Sprintf("could not parse prompt %q for %s", e.Prompt, e.Resource)
}

// UnknownToolError is returned by Dispatch for an unregistered tool name.
type UnknownToolError struct {
	Tool string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool %q", e.Tool)
}

// DuplicateToolNameError is returned by Register when a tool name is already
// taken. This is a startup configuration defect, not a runtime condition.
type DuplicateToolNameError struct {
	Tool string
}

func (e *DuplicateToolNameError) Error() string {
	return fmt.Sprintf("duplicate tool name %q", e.Tool)
}

// UnsafeValueError is returned when a filter value trips the input
// sanitizer.
type UnsafeValueError struct {
	Value  string
	Reason string
}

func (e *UnsafeValueError) Error() string {
	return fmt.Sprintf("rejected filter value %q: %s", e.Value, e.Reason)
}
