package query

import (
	"regexp"
	"strings"
)

// RawFilter is a field token and its values before field resolution.
type RawFilter struct {
	Token  string
	Values []string
}

// ParsedPrompt is the structured reading of a free-text prompt: the
// extracted filters and the output blocks the prompt asked for. AllBlocks
// set means the prompt asked for every property.
type ParsedPrompt struct {
	Filters   []RawFilter
	Outputs   []string
	AllBlocks bool
}

// promptBinding describes how one regex capture pair becomes a filter. A
// fixed Field consumes a single value capture; an empty Field takes the
// field token from FieldGroup instead. Suffix appends a lookup expression
// to whichever token was chosen. A non-empty Value is used literally in
// place of a capture, for phrasings that imply the value ("active
// interfaces" means enabled true).
type promptBinding struct {
	Field      string
	FieldGroup int
	ValueGroup int
	Suffix     string
	Value      string
}

type promptTemplate struct {
	pattern  *regexp.Regexp
	bindings []promptBinding
	outputs  []string
	all      bool
}

// Per-resource template tables. Order matters: the first matching template
// wins, so specific phrasings sit above the generic field/value fallback.
var promptTemplates = map[string][]promptTemplate{
	"devices": {
		{
			pattern:  regexp.MustCompile(`^show\s+all\s+properties\s+of\s+(?:device\s+)?([\w.-]+)$`),
			bindings: []promptBinding{{Field: "name", ValueGroup: 1}},
			all:      true,
		},
		{
			pattern:  regexp.MustCompile(`^(?:show|get|find)\s+device\s+([\w.-]+)$`),
			bindings: []promptBinding{{Field: "name", ValueGroup: 1}},
		},
		{
			pattern:  regexp.MustCompile(`^devices?\s+(?:with|having)\s+(\w+)\s+contain(?:s|ing)?\s+([\w.-]+)$`),
			bindings: []promptBinding{{FieldGroup: 1, ValueGroup: 2, Suffix: "__ic"}},
		},
		{
			pattern:  regexp.MustCompile(`^devices?\s+(?:with|having)\s+(\w+)\s+start(?:s|ing)?\s+with\s+([\w.-]+)$`),
			bindings: []promptBinding{{FieldGroup: 1, ValueGroup: 2, Suffix: "__isw"}},
		},
		{
			pattern:  regexp.MustCompile(`^devices?\s+(?:with|having)\s+(\w+)\s+end(?:s|ing)?\s+with\s+([\w.-]+)$`),
			bindings: []promptBinding{{FieldGroup: 1, ValueGroup: 2, Suffix: "__iew"}},
		},
		{
			pattern:  regexp.MustCompile(`^(?:show\s+all\s+)?devices?\s+(?:in|at)\s+location\s+([\w.-]+)$`),
			bindings: []promptBinding{{Field: "location", ValueGroup: 1}},
			outputs:  []string{"identity", "location"},
		},
		{
			pattern:  regexp.MustCompile(`^devices?\s+(?:with|having)\s+role\s+([\w.-]+)$`),
			bindings: []promptBinding{{Field: "role", ValueGroup: 1}},
			outputs:  []string{"identity", "role"},
		},
		{
			pattern:  regexp.MustCompile(`^devices?\s+(?:with|in|at|by|having)\s+(\w+)\s+([\w.-]+)$`),
			bindings: []promptBinding{{FieldGroup: 1, ValueGroup: 2}},
		},
		{
			pattern:  regexp.MustCompile(`^show\s+(\w+)\s+([\w.-]+)$`),
			bindings: []promptBinding{{FieldGroup: 1, ValueGroup: 2}},
		},
	},
	"locations": {
		{
			pattern:  regexp.MustCompile(`^show\s+all\s+properties\s+of\s+(?:location\s+)?([\w.-]+)$`),
			bindings: []promptBinding{{Field: "name", ValueGroup: 1}},
			all:      true,
		},
		{
			pattern:  regexp.MustCompile(`^(?:show|get|find)\s+location\s+([\w.-]+)$`),
			bindings: []promptBinding{{Field: "name", ValueGroup: 1}},
		},
		{
			pattern:  regexp.MustCompile(`^locations?\s+(?:with|having|where)\s+(\w+)\s+contain(?:s|ing)?\s+([\w.-]+)$`),
			bindings: []promptBinding{{FieldGroup: 1, ValueGroup: 2, Suffix: "__ic"}},
		},
		{
			pattern:  regexp.MustCompile(`^locations?\s+(?:with|having|where|in)\s+(\w+)\s+([\w.-]+)$`),
			bindings: []promptBinding{{FieldGroup: 1, ValueGroup: 2}},
		},
	},
	"ip_addresses": {
		{
			pattern:  regexp.MustCompile(`^show\s+all\s+properties\s+of\s+(?:ip\s+(?:address\s+)?)?([\d.:a-f/]+)$`),
			bindings: []promptBinding{{Field: "address", ValueGroup: 1}},
			all:      true,
		},
		{
			pattern:  regexp.MustCompile(`^(?:show|get|find)\s+(?:ip\s+address|ip|address)\s+([\d.:a-f/]+)$`),
			bindings: []promptBinding{{Field: "address", ValueGroup: 1}},
		},
		{
			pattern:  regexp.MustCompile(`^ip\s+addresse?s?\s+(?:with|having)\s+(\w+)\s+contain(?:s|ing)?\s+([\w.-]+)$`),
			bindings: []promptBinding{{FieldGroup: 1, ValueGroup: 2, Suffix: "__ic"}},
		},
		{
			pattern:  regexp.MustCompile(`^ip\s+addresse?s?\s+(?:with|having)\s+(\w+)\s+start(?:s|ing)?\s+with\s+([\w.-]+)$`),
			bindings: []promptBinding{{FieldGroup: 1, ValueGroup: 2, Suffix: "__isw"}},
		},
		{
			pattern:  regexp.MustCompile(`^ip\s+addresse?s?\s+(?:with|having|in)\s+(\w+)\s+([\w.:/-]+)$`),
			bindings: []promptBinding{{FieldGroup: 1, ValueGroup: 2}},
		},
	},
	"prefixes": {
		{
			pattern:  regexp.MustCompile(`^show\s+all\s+properties\s+of\s+(?:prefix\s+)?([\d.:a-f/]+)$`),
			bindings: []promptBinding{{Field: "prefix", ValueGroup: 1}},
			all:      true,
		},
		{
			pattern:  regexp.MustCompile(`^(?:show|get|find)\s+prefix\s+([\d.:a-f/]+)$`),
			bindings: []promptBinding{{Field: "prefix", ValueGroup: 1}},
		},
		{
			pattern:  regexp.MustCompile(`^prefixes?\s+(?:within|inside)\s+([\d.:a-f/]+)$`),
			bindings: []promptBinding{{Field: "within_include", ValueGroup: 1}},
			outputs:  []string{"identity", "attributes", "hierarchy"},
		},
		{
			pattern:  regexp.MustCompile(`^prefixes?\s+(?:in|at)\s+location\s+([\w.-]+)$`),
			bindings: []promptBinding{{Field: "location", ValueGroup: 1}},
			outputs:  []string{"identity", "attributes", "location"},
		},
		{
			pattern:  regexp.MustCompile(`^prefixes?\s+(?:with|having)\s+(\w+)\s+([\w.:/-]+)$`),
			bindings: []promptBinding{{FieldGroup: 1, ValueGroup: 2}},
		},
	},
	"interfaces": {
		{
			pattern:  regexp.MustCompile(`^show\s+all\s+properties\s+of\s+(?:interface\s+)?([\w./-]+)$`),
			bindings: []promptBinding{{Field: "name", ValueGroup: 1}},
			all:      true,
		},
		{
			pattern:  regexp.MustCompile(`^(?:show|get|find)\s+interface\s+([\w./-]+)$`),
			bindings: []promptBinding{{Field: "name", ValueGroup: 1}},
		},
		{
			pattern:  regexp.MustCompile(`^(?:show\s+)?(?:active|enabled)\s+interfaces?(?:\s+(?:on|for|of)\s+(?:device\s+)?([\w.-]+))?$`),
			bindings: []promptBinding{
				{Field: "enabled", Value: "true"},
				{Field: "device", ValueGroup: 1},
			},
			outputs: []string{"identity", "attributes", "device"},
		},
		{
			pattern:  regexp.MustCompile(`^(?:show\s+)?(?:disabled|inactive)\s+interfaces?(?:\s+(?:on|for|of)\s+(?:device\s+)?([\w.-]+))?$`),
			bindings: []promptBinding{
				{Field: "enabled", Value: "false"},
				{Field: "device", ValueGroup: 1},
			},
			outputs: []string{"identity", "attributes", "device"},
		},
		{
			pattern:  regexp.MustCompile(`^(?:show\s+)?interfaces?\s+(?:on|for|of)\s+(?:device\s+)?([\w.-]+)$`),
			bindings: []promptBinding{{Field: "device", ValueGroup: 1}},
			outputs:  []string{"identity", "attributes", "device"},
		},
		{
			pattern:  regexp.MustCompile(`^interfaces?\s+(?:with|having)\s+(\w+)\s+contain(?:s|ing)?\s+([\w./-]+)$`),
			bindings: []promptBinding{{FieldGroup: 1, ValueGroup: 2, Suffix: "__ic"}},
		},
		{
			pattern:  regexp.MustCompile(`^interfaces?\s+(?:with|having)\s+(\w+)\s+start(?:s|ing)?\s+with\s+([\w./-]+)$`),
			bindings: []promptBinding{{FieldGroup: 1, ValueGroup: 2, Suffix: "__isw"}},
		},
		{
			pattern:  regexp.MustCompile(`^interfaces?\s+(?:with|having)\s+(\w+)\s+end(?:s|ing)?\s+with\s+([\w./-]+)$`),
			bindings: []promptBinding{{FieldGroup: 1, ValueGroup: 2, Suffix: "__iew"}},
		},
		{
			pattern:  regexp.MustCompile(`^interfaces?\s+(?:with|having|by)\s+(\w+)\s+([\w./-]+)$`),
			bindings: []promptBinding{{FieldGroup: 1, ValueGroup: 2}},
		},
	},
	"device_types": {
		{
			pattern:  regexp.MustCompile(`^show\s+all\s+properties\s+of\s+(?:device\s+type\s+)?([\w.-]+)$`),
			bindings: []promptBinding{{Field: "model", ValueGroup: 1}},
			all:      true,
		},
		{
			pattern:  regexp.MustCompile(`^(?:show|get|find)\s+device\s+types?\s+([\w.-]+)$`),
			bindings: []promptBinding{{Field: "model", ValueGroup: 1}},
		},
		{
			pattern:  regexp.MustCompile(`^device\s+types?\s+(?:with|having|by)\s+(\w+)\s+contain(?:s|ing)?\s+([\w.-]+)$`),
			bindings: []promptBinding{{FieldGroup: 1, ValueGroup: 2, Suffix: "__ic"}},
		},
		{
			pattern:  regexp.MustCompile(`^device\s+types?\s+(?:with|having|by|from)\s+(\w+)\s+([\w.-]+)$`),
			bindings: []promptBinding{{FieldGroup: 1, ValueGroup: 2}},
		},
	},
}

// ParsePrompt matches a free-text prompt against the resource's templates
// in order and returns the first match's reading. A prompt that matches
// nothing is an UnparsablePromptError; the parser never guesses a default
// scope.
func ParsePrompt(resource, prompt string) (*ParsedPrompt, error) {
	templates, ok := promptTemplates[resource]
	if !ok {
		return nil, &UnknownResourceError{Resource: resource}
	}

	normalised := strings.ToLower(strings.TrimSpace(prompt))
	normalised = strings.Join(strings.Fields(normalised), " ")
	if normalised == "" {
		return nil, &UnparsablePromptError{Resource: resource, Prompt: prompt}
	}

	for _, tpl := range templates {
		m := tpl.pattern.FindStringSubmatch(normalised)
		if m == nil {
			continue
		}
		parsed := &ParsedPrompt{AllBlocks: tpl.all, Outputs: tpl.outputs}
		matched := true
		for _, b := range tpl.bindings {
			token := b.Field
			if token == "" {
				token = m[b.FieldGroup]
				// "all" is a quantifier, never a field. Phrases like
				// "show all devices" carry no scope and fall through.
				if token == "all" {
					matched = false
					break
				}
			}
			value := b.Value
			if value == "" {
				value = m[b.ValueGroup]
			}
			// Optional capture groups leave empty values behind; the
			// binding simply contributes no filter then.
			if value == "" {
				continue
			}
			parsed.Filters = append(parsed.Filters, RawFilter{
				Token:  token + b.Suffix,
				Values: []string{value},
			})
		}
		if !matched {
			continue
		}
		return parsed, nil
	}
	return nil, &UnparsablePromptError{Resource: resource, Prompt: prompt}
}
