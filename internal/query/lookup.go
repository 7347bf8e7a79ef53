package query

import (
	"sort"
	"strings"
)

// Operator is a lookup comparison applied to a filter value.
type Operator int

const (
	OpExact Operator = iota
	OpContains
	OpStartsWith
	OpEndsWith
	OpRegex
	OpNotEqual
	OpIsNull
)

// lookupSuffixes maps the suffix code after the "__" separator to its
// operator. The set is closed; anything else after a separator is an
// operator typo unless the whole token names a real field.
var lookupSuffixes = map[string]Operator{
	"ic":     OpContains,
	"isw":    OpStartsWith,
	"iew":    OpEndsWith,
	"re":     OpRegex,
	"n":      OpNotEqual,
	"isnull": OpIsNull,
}

var operatorSuffixes = map[Operator]string{
	OpExact:      "",
	OpContains:   "__ic",
	OpStartsWith: "__isw",
	OpEndsWith:   "__iew",
	OpRegex:      "__re",
	OpNotEqual:   "__n",
	OpIsNull:     "__isnull",
}

var operatorNames = map[Operator]string{
	OpExact:      "exact",
	OpContains:   "contains",
	OpStartsWith: "starts-with",
	OpEndsWith:   "ends-with",
	OpRegex:      "regex",
	OpNotEqual:   "not-equal",
	OpIsNull:     "is-null",
}

// Suffix returns the wire suffix for the operator, empty for exact match.
func (op Operator) Suffix() string {
	return operatorSuffixes[op]
}

func (op Operator) String() string {
	return operatorNames[op]
}

// SupportedSuffixes lists the recognised suffix codes in sorted order, for
// error messages.
func SupportedSuffixes() string {
	codes := make([]string, 0, len(lookupSuffixes))
	for code := range lookupSuffixes {
		codes = append(codes, "__"+code)
	}
	sort.Strings(codes)
	return strings.Join(codes, ", ")
}

// SplitToken splits a field token such as "name__ic" into its bare field
// and operator. A token without a recognised suffix is an exact match on
// the whole token. When the token contains a separator but the trailing
// code is not a recognised operator, an UnknownOperatorError is returned;
// callers that know the full token is itself a valid field (canonical names
// such as "device_type__manufacturer" contain the separator) recover from
// that before reporting it.
func SplitToken(token string) (string, Operator, error) {
	idx := strings.LastIndex(token, "__")
	if idx < 0 {
		return token, OpExact, nil
	}
	code := token[idx+2:]
	if op, ok := lookupSuffixes[code]; ok {
		return token[:idx], op, nil
	}
	return token, OpExact, &UnknownOperatorError{Token: token, Suffix: "__" + code}
}

// EncodeToken is the inverse of SplitToken.
func EncodeToken(field string, op Operator) string {
	return field + op.Suffix()
}
