package query

import (
	"fmt"
	"sort"
	"strings"
)

// CustomFieldPrefix marks caller-supplied custom field tokens. Custom
// fields bypass validation and are scoped per installation.
const CustomFieldPrefix = "cf_"

// IsCustomField reports whether a bare field token names a custom field.
func IsCustomField(field string) bool {
	return strings.HasPrefix(field, CustomFieldPrefix) && len(field) > len(CustomFieldPrefix)
}

// OutputBlock is a named group of selection lines in a resource query.
// Blocks are enabled as a whole; callers select them by identifier.
type OutputBlock struct {
	ID    string
	Lines []string
}

// ResourceSchema describes one queryable resource kind: its filterable
// fields, the vocabulary of accepted aliases, and the shape of the query
// it renders.
type ResourceSchema struct {
	Resource  string
	QueryName string
	RootField string

	// fields is the canonical filterable field set.
	fields map[string]struct{}
	// aliases maps user-facing synonyms to canonical fields.
	aliases map[string]string
	// booleans marks canonical fields that bind as a Boolean scalar
	// instead of a [String] list.
	booleans map[string]struct{}

	// Blocks are the orderable output groups; DefaultBlocks names the ones
	// rendered when the caller requests nothing in particular.
	Blocks        []OutputBlock
	DefaultBlocks []string
}

// IsField reports whether name is a canonical field of the resource.
func (s *ResourceSchema) IsField(name string) bool {
	_, ok := s.fields[name]
	return ok
}

// IsBooleanField reports whether a canonical field binds as a Boolean.
func (s *ResourceSchema) IsBooleanField(name string) bool {
	_, ok := s.booleans[name]
	return ok
}

// Canonical maps a token through the alias table, then the canonical set.
// The second return is false when the token is neither.
func (s *ResourceSchema) Canonical(name string) (string, bool) {
	if target, ok := s.aliases[name]; ok {
		return target, true
	}
	if s.IsField(name) {
		return name, true
	}
	return "", false
}

// ValidTokens returns the full accepted vocabulary (canonical fields plus
// aliases) in sorted order.
func (s *ResourceSchema) ValidTokens() []string {
	tokens := make([]string, 0, len(s.fields)+len(s.aliases))
	for f := range s.fields {
		tokens = append(tokens, f)
	}
	for a := range s.aliases {
		tokens = append(tokens, a)
	}
	sort.Strings(tokens)
	return tokens
}

// Fields returns the canonical field set in sorted order.
func (s *ResourceSchema) Fields() []string {
	fields := make([]string, 0, len(s.fields))
	for f := range s.fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// BlockIDs returns the output block identifiers in declaration order.
func (s *ResourceSchema) BlockIDs() []string {
	ids := make([]string, len(s.Blocks))
	for i, b := range s.Blocks {
		ids[i] = b.ID
	}
	return ids
}

func (s *ResourceSchema) hasBlock(id string) bool {
	for _, b := range s.Blocks {
		if b.ID == id {
			return true
		}
	}
	return false
}

// validate enforces the table invariants. Aliases must target canonical
// fields, never shadow them, and default blocks must exist.
func (s *ResourceSchema) validate() error {
	if s.Resource == "" || s.QueryName == "" || s.RootField == "" {
		return fmt.Errorf("schema %q: missing resource, query name or root field", s.Resource)
	}
	if len(s.fields) == 0 {
		return fmt.Errorf("schema %q: no filterable fields", s.Resource)
	}
	if len(s.Blocks) == 0 {
		return fmt.Errorf("schema %q: no output blocks", s.Resource)
	}
	for f := range s.fields {
		if IsCustomField(f) {
			return fmt.Errorf("schema %q: field %q collides with the custom field prefix", s.Resource, f)
		}
	}
	for f := range s.booleans {
		if _, ok := s.fields[f]; !ok {
			return fmt.Errorf("schema %q: boolean field %q is not a canonical field", s.Resource, f)
		}
	}
	for alias, target := range s.aliases {
		if IsCustomField(alias) {
			return fmt.Errorf("schema %q: alias %q collides with the custom field prefix", s.Resource, alias)
		}
		if _, ok := s.fields[alias]; ok {
			return fmt.Errorf("schema %q: alias %q shadows a canonical field", s.Resource, alias)
		}
		if _, ok := s.fields[target]; !ok {
			return fmt.Errorf("schema %q: alias %q targets unknown field %q", s.Resource, alias, target)
		}
	}
	seen := make(map[string]struct{}, len(s.Blocks))
	for _, b := range s.Blocks {
		if _, dup := seen[b.ID]; dup {
			return fmt.Errorf("schema %q: duplicate output block %q", s.Resource, b.ID)
		}
		seen[b.ID] = struct{}{}
		if len(b.Lines) == 0 {
			return fmt.Errorf("schema %q: output block %q is empty", s.Resource, b.ID)
		}
	}
	for _, id := range s.DefaultBlocks {
		if !s.hasBlock(id) {
			return fmt.Errorf("schema %q: default block %q not declared", s.Resource, id)
		}
	}
	return nil
}

// Store holds the immutable resource schema table. It is built once at
// startup and read concurrently afterwards.
type Store struct {
	schemas map[string]*ResourceSchema
	order   []string
}

// NewStore validates and indexes the supplied schemas. An invalid table is
// a programming defect so the error is fatal to the caller.
func NewStore(schemas ...*ResourceSchema) (*Store, error) {
	st := &Store{schemas: make(map[string]*ResourceSchema, len(schemas))}
	for _, s := range schemas {
		if err := s.validate(); err != nil {
			return nil, err
		}
		if _, dup := st.schemas[s.Resource]; dup {
			return nil, fmt.Errorf("duplicate schema for resource %q", s.Resource)
		}
		st.schemas[s.Resource] = s
		st.order = append(st.order, s.Resource)
	}
	return st, nil
}

// Get returns the schema for a resource identifier.
func (st *Store) Get(resource string) (*ResourceSchema, error) {
	s, ok := st.schemas[resource]
	if !ok {
		return nil, &UnknownResourceError{Resource: resource}
	}
	return s, nil
}

// Resources lists the registered resource identifiers in declaration order.
func (st *Store) Resources() []string {
	out := make([]string, len(st.order))
	copy(out, st.order)
	return out
}
