package query

import (
	"strings"
)

// Filter is one resolved filter clause: a canonical field, an operator,
// and the values to bind. Custom and boolean fields bind Values[0] as a
// single scalar.
type Filter struct {
	Field    string
	Operator Operator
	Values   []string
	Custom   bool
	Boolean  bool
}

// BuiltQuery is a rendered GraphQL document plus its variable bindings.
// Building is pure: the same schema, filters and outputs always produce
// the same text and variables.
type BuiltQuery struct {
	Query     string
	Variables map[string]any
}

// Build renders the query for a resource. Filters bind in the order given;
// output selection is resolved to a concrete block list before any text is
// produced. An empty filter list is rejected: every query must be scoped.
func Build(schema *ResourceSchema, filters []Filter, outputs []string) (*BuiltQuery, error) {
	if len(filters) == 0 {
		return nil, &EmptyFilterSetError{Resource: schema.Resource}
	}
	for _, f := range filters {
		if len(f.Values) == 0 {
			return nil, &EmptyFilterSetError{Resource: schema.Resource}
		}
	}

	blocks := selectBlocks(schema, outputs)
	vars := bindVariables(mergeFilters(filters))

	var b strings.Builder
	b.WriteString("query ")
	b.WriteString(schema.QueryName)
	b.WriteString("(")
	for i, v := range vars {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("$")
		b.WriteString(v.name)
		b.WriteString(": ")
		b.WriteString(v.gqlType)
	}
	b.WriteString(") {\n  ")
	b.WriteString(schema.RootField)
	b.WriteString("(")
	for i, v := range vars {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(v.argument)
		b.WriteString(": $")
		b.WriteString(v.name)
	}
	b.WriteString(") {\n")
	for _, block := range blocks {
		for _, line := range block.Lines {
			b.WriteString("    ")
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	b.WriteString("  }\n}")

	variables := make(map[string]any, len(vars))
	for _, v := range vars {
		variables[v.name] = v.value
	}
	return &BuiltQuery{Query: b.String(), Variables: variables}, nil
}

type boundVariable struct {
	name     string
	argument string
	gqlType  string
	value    any
}

// mergeFilters combines clauses sharing a field and operator into one
// clause. An argument name may appear only once in a field call, so two
// clauses on the same token fold their values into the one list-typed
// variable instead of rendering a duplicate argument.
func mergeFilters(filters []Filter) []Filter {
	index := make(map[string]int, len(filters))
	merged := make([]Filter, 0, len(filters))
	for _, f := range filters {
		key := EncodeToken(f.Field, f.Operator)
		i, ok := index[key]
		if !ok {
			index[key] = len(merged)
			merged = append(merged, f)
			continue
		}
		merged[i].Values = append(append([]string(nil), merged[i].Values...), f.Values...)
	}
	return merged
}

// bindVariables derives variable names from the encoded field token.
// Filters arrive merged, so names are unique by construction.
func bindVariables(filters []Filter) []boundVariable {
	vars := make([]boundVariable, 0, len(filters))
	for _, f := range filters {
		argument := EncodeToken(f.Field, f.Operator)
		v := boundVariable{name: argument, argument: argument}
		switch {
		case f.Custom:
			v.gqlType = "String"
			v.value = f.Values[0]
		case f.Boolean:
			v.gqlType = "Boolean"
			v.value = strings.EqualFold(f.Values[0], "true")
		default:
			v.gqlType = "[String]"
			v.value = f.Values
		}
		vars = append(vars, v)
	}
	return vars
}

// selectBlocks resolves the requested output identifiers to the schema's
// blocks, preserving schema declaration order. No identifiers means the
// default set; "all" means every block; unknown identifiers are ignored.
func selectBlocks(schema *ResourceSchema, outputs []string) []OutputBlock {
	if len(outputs) == 0 {
		outputs = schema.DefaultBlocks
	}
	wanted := make(map[string]struct{}, len(outputs))
	all := false
	for _, id := range outputs {
		id = strings.ToLower(strings.TrimSpace(id))
		if id == "all" {
			all = true
			continue
		}
		wanted[id] = struct{}{}
	}
	selected := make([]OutputBlock, 0, len(schema.Blocks))
	for _, block := range schema.Blocks {
		if all {
			selected = append(selected, block)
			continue
		}
		if _, ok := wanted[block.ID]; ok {
			selected = append(selected, block)
		}
	}
	if len(selected) == 0 {
		// Nothing matched; fall back to the defaults so the query still
		// selects something.
		for _, block := range schema.Blocks {
			for _, id := range schema.DefaultBlocks {
				if block.ID == id {
					selected = append(selected, block)
				}
			}
		}
	}
	return selected
}
