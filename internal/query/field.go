package query

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// suggestionCutoff is the minimum similarity ratio for a fuzzy suggestion.
// Below it the resolver reports no suggestion rather than a misleading one.
const suggestionCutoff = 0.4

// ResolvedField is the outcome of resolving a raw field token: the
// canonical field, the lookup operator, and the value shape. Custom fields
// bind as a single String scalar, boolean fields as a Boolean scalar.
type ResolvedField struct {
	Field    string
	Operator Operator
	Custom   bool
	Boolean  bool
}

// ResolveField normalises a raw field token against a resource schema.
// Resolution happens in a fixed order: split off the lookup suffix, pass
// custom fields through unvalidated, map aliases to canonical fields, and
// only then fall back to fuzzy suggestion inside InvalidFieldError.
func ResolveField(schema *ResourceSchema, token string) (ResolvedField, error) {
	lower := strings.ToLower(strings.TrimSpace(token))
	if lower == "" {
		return ResolvedField{}, invalidField(schema, token)
	}

	bare, op, err := SplitToken(lower)
	if err != nil {
		// Canonical fields such as device_type__manufacturer contain the
		// separator. If the whole token resolves, it was never an
		// operator; otherwise the typo'd suffix is the real problem.
		var opErr *UnknownOperatorError
		if errors.As(err, &opErr) {
			if _, ok := schema.Canonical(lower); ok || IsCustomField(lower) {
				bare, op = lower, OpExact
			} else if _, ok := schema.Canonical(bare2(lower)); ok {
				return ResolvedField{}, err
			} else {
				return ResolvedField{}, invalidField(schema, lower)
			}
		} else {
			return ResolvedField{}, err
		}
	}

	if IsCustomField(bare) {
		return ResolvedField{Field: bare, Operator: op, Custom: true}, nil
	}

	canonical, ok := schema.Canonical(bare)
	if !ok {
		return ResolvedField{}, invalidField(schema, bare)
	}
	return ResolvedField{Field: canonical, Operator: op, Boolean: schema.IsBooleanField(canonical)}, nil
}

// bare2 strips everything from the last separator, used to decide whether
// an unrecognised suffix sits on an otherwise valid field.
func bare2(token string) string {
	if idx := strings.LastIndex(token, "__"); idx >= 0 {
		return token[:idx]
	}
	return token
}

func invalidField(schema *ResourceSchema, given string) *InvalidFieldError {
	return &InvalidFieldError{
		Resource:    schema.Resource,
		Given:       given,
		Suggestion:  suggestField(schema, given),
		ValidFields: schema.ValidTokens(),
	}
}

// suggestField returns the closest accepted token by normalised edit
// distance, or empty when nothing clears the cutoff. Ties break toward
// the lexicographically smaller token so suggestions are deterministic.
func suggestField(schema *ResourceSchema, given string) string {
	best := ""
	bestScore := 0.0
	for _, candidate := range schema.ValidTokens() {
		score := similarity(given, candidate)
		if score > bestScore || (score == bestScore && best != "" && candidate < best) {
			best = candidate
			bestScore = score
		}
	}
	if bestScore < suggestionCutoff {
		return ""
	}
	return best
}

// similarity is a normalised edit distance ratio. The distance counts
// runes, so the normalising length must too.
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longest {
		longest = n
	}
	if longest == 0 {
		return 0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}
