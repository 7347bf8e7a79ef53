package query

import (
	"fmt"
	"sort"
	"strings"
)

// QueryKind tags how a registered tool's request reaches the backend.
type QueryKind int

const (
	// KindGraphQL builds and runs a GraphQL document.
	KindGraphQL QueryKind = iota
	// KindREST passes through to a fixed REST endpoint.
	KindREST
)

// Param describes one declared tool argument for schema generation.
type Param struct {
	Name        string
	Type        string // "string", "array", "boolean"
	Description string
	Required    bool
}

// Descriptor is one registered tool: its MCP surface plus the routing
// information Dispatch needs. GraphQL descriptors name a resource in the
// schema store; REST descriptors name a backend endpoint.
type Descriptor struct {
	Name        string
	Description string
	Kind        QueryKind
	Resource    string
	Endpoint    string
	Params      []Param
}

// Plan is the executable outcome of a dispatch: either a GraphQL document
// with bound variables or a REST endpoint to fetch. The caller owns the
// actual network round trip.
type Plan struct {
	Kind      QueryKind
	Resource  string
	Query     string
	Variables map[string]any
	Endpoint  string
}

// Registry maps tool names to descriptors. It is populated once at startup
// and read-only afterwards.
type Registry struct {
	store  *Store
	byName map[string]*Descriptor
	order  []string
}

// NewRegistry returns an empty registry backed by the given schema store.
func NewRegistry(store *Store) *Registry {
	return &Registry{
		store:  store,
		byName: make(map[string]*Descriptor),
	}
}

// Register adds a descriptor. A duplicate name is a configuration defect
// and the caller is expected to treat the error as fatal.
func (r *Registry) Register(d Descriptor) error {
	if d.Name == "" {
		return fmt.Errorf("descriptor has no tool name")
	}
	if _, exists := r.byName[d.Name]; exists {
		return &DuplicateToolNameError{Tool: d.Name}
	}
	if d.Kind == KindGraphQL {
		if _, err := r.store.Get(d.Resource); err != nil {
			return fmt.Errorf("tool %q: %w", d.Name, err)
		}
	}
	r.byName[d.Name] = &d
	r.order = append(r.order, d.Name)
	return nil
}

// Get returns the descriptor for a tool name.
func (r *Registry) Get(name string) (*Descriptor, error) {
	d, ok := r.byName[name]
	if !ok {
		return nil, &UnknownToolError{Tool: name}
	}
	return d, nil
}

// Descriptors returns the registered descriptors in registration order.
func (r *Registry) Descriptors() []*Descriptor {
	out := make([]*Descriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// Store exposes the backing schema store.
func (r *Registry) Store() *Store {
	return r.store
}

// Reserved argument keys. Everything else in a tool call is read as a
// field token.
const (
	argPrompt  = "prompt"
	argOutputs = "outputs"
)

// Dispatch turns a tool call into an executable plan. GraphQL tools accept
// a free-text prompt, structured field/value arguments, or both; filters
// from both sources combine, with explicit output selection taking
// precedence over prompt-derived selection.
func (r *Registry) Dispatch(name string, args map[string]any) (*Plan, error) {
	d, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	if d.Kind == KindREST {
		return &Plan{Kind: KindREST, Endpoint: d.Endpoint}, nil
	}

	schema, err := r.store.Get(d.Resource)
	if err != nil {
		return nil, err
	}

	var raw []RawFilter
	var outputs []string
	allBlocks := false

	if prompt, ok := stringArg(args[argPrompt]); ok && prompt != "" {
		parsed, err := ParsePrompt(d.Resource, prompt)
		if err != nil {
			return nil, err
		}
		raw = append(raw, parsed.Filters...)
		outputs = parsed.Outputs
		allBlocks = parsed.AllBlocks
	}

	raw = append(raw, structuredFilters(args)...)

	if requested := stringSliceArg(args[argOutputs]); len(requested) > 0 {
		outputs = requested
		allBlocks = false
	}
	if allBlocks {
		outputs = []string{"all"}
	}

	if len(raw) == 0 {
		return nil, &EmptyFilterSetError{Resource: d.Resource}
	}

	filters := make([]Filter, 0, len(raw))
	for _, rf := range raw {
		resolved, err := ResolveField(schema, rf.Token)
		if err != nil {
			return nil, err
		}
		values := rf.Values
		// Scalar-bound fields take the string verbatim; a comma there is
		// part of the value. Callers needing a literal comma in a list
		// field pass an array instead of a comma-joined string.
		if len(values) == 1 && !resolved.Custom && !resolved.Boolean {
			values = splitValues(values[0])
		}
		if err := SanitizeValues(values); err != nil {
			return nil, err
		}
		filters = append(filters, Filter{
			Field:    resolved.Field,
			Operator: resolved.Operator,
			Values:   values,
			Custom:   resolved.Custom,
			Boolean:  resolved.Boolean,
		})
	}

	built, err := Build(schema, filters, outputs)
	if err != nil {
		return nil, err
	}
	return &Plan{
		Kind:      KindGraphQL,
		Resource:  d.Resource,
		Query:     built.Query,
		Variables: built.Variables,
	}, nil
}

// structuredFilters reads every non-reserved argument as a field token
// bound to one or more values. Iteration order over a map is not stable,
// so tokens sort before binding to keep built queries deterministic.
func structuredFilters(args map[string]any) []RawFilter {
	tokens := make([]string, 0, len(args))
	for key := range args {
		if key == argPrompt || key == argOutputs {
			continue
		}
		tokens = append(tokens, key)
	}
	sort.Strings(tokens)

	var filters []RawFilter
	for _, token := range tokens {
		values := argValues(args[token])
		if len(values) == 0 {
			continue
		}
		filters = append(filters, RawFilter{Token: token, Values: values})
	}
	return filters
}

func stringArg(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func stringSliceArg(v any) []string {
	switch vv := v.(type) {
	case []string:
		return vv
	case []any:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		if vv == "" {
			return nil
		}
		return splitValues(vv)
	}
	return nil
}

// argValues coerces a tool argument into filter values. Arrays become one
// value per element; scalars become a single value.
func argValues(v any) []string {
	switch vv := v.(type) {
	case string:
		return []string{vv}
	case []string:
		return vv
	case []any:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			out = append(out, fmt.Sprint(item))
		}
		return out
	case nil:
		return nil
	default:
		return []string{fmt.Sprint(vv)}
	}
}

// splitValues turns a comma separated string into individual values.
func splitValues(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
