package query

import "regexp"

// maxValueLength bounds filter values; anything longer is not a plausible
// CMDB lookup.
const maxValueLength = 1000

type unsafePattern struct {
	re     *regexp.Regexp
	reason string
}

var unsafePatterns = []unsafePattern{
	{regexp.MustCompile(`(?i)\b(union|select|insert|update|delete|drop|create|alter|exec|execute)\b`), "sql keyword"},
	{regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`), "script tag"},
	{regexp.MustCompile(`javascript:`), "script scheme"},
	{regexp.MustCompile(`vbscript:`), "script scheme"},
	{regexp.MustCompile("[;&|`$()]"), "shell metacharacter"},
	{regexp.MustCompile(`\.\./|\.\.\\`), "path traversal"},
	{regexp.MustCompile(`(?i)\b(mutation|subscription|fragment)\b`), "graphql keyword"},
	{regexp.MustCompile("[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]"), "control character"},
}

// SanitizeValue rejects filter values that carry injection payloads. Values
// reach the backend as GraphQL variables, never spliced into query text,
// but a CMDB lookup has no business containing any of these.
func SanitizeValue(value string) error {
	if len(value) > maxValueLength {
		return &UnsafeValueError{Value: value[:50], Reason: "value too long"}
	}
	for _, p := range unsafePatterns {
		if p.re.MatchString(value) {
			return &UnsafeValueError{Value: value, Reason: p.reason}
		}
	}
	return nil
}

// SanitizeValues applies SanitizeValue to each value, failing on the first
// rejection.
func SanitizeValues(values []string) error {
	for _, v := range values {
		if err := SanitizeValue(v); err != nil {
			return err
		}
	}
	return nil
}
