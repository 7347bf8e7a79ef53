package resolver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/netfabric/nautobot-mcp/internal/cache"
	"github.com/netfabric/nautobot-mcp/internal/common"
)

// GraphQLClient is the slice of the backend client the resolver needs.
type GraphQLClient interface {
	GraphQL(ctx context.Context, query string, variables map[string]any) ([]byte, error)
}

// objectKind maps a resolvable kind to the GraphQL root field that lists
// it. Every kind resolves by exact name match and returns the first hit.
var objectKinds = map[string]string{
	"location":      "locations",
	"role":          "roles",
	"status":        "statuses",
	"platform":      "platforms",
	"namespace":     "namespaces",
	"secrets_group": "secrets_groups",
	"manufacturer":  "manufacturers",
	"device_type":   "device_types",
	"tenant":        "tenants",
}

// Resolver converts object names into backend UUIDs, consulting the ID
// cache before the network. Onboarding payloads reference objects by ID,
// operators reference them by name.
type Resolver struct {
	client GraphQLClient
	cache  *cache.IDCache
	logger *common.Logger
}

// New creates a resolver backed by the given client and cache.
func New(client GraphQLClient, idCache *cache.IDCache, logger *common.Logger) *Resolver {
	return &Resolver{client: client, cache: idCache, logger: logger}
}

// Resolve returns the UUID of the named object, or an error when the kind
// is unknown, the lookup fails, or no object has that name.
func (r *Resolver) Resolve(ctx context.Context, kind, name string) (string, error) {
	rootField, ok := objectKinds[kind]
	if !ok {
		return "", fmt.Errorf("unknown object kind %q", kind)
	}
	if name == "" {
		return "", fmt.Errorf("empty %s name", kind)
	}

	if id, hit := r.cache.Get(kind, name); hit {
		r.logger.Debug().Str("kind", kind).Str("name", name).Msg("ID cache hit")
		return id, nil
	}

	nameField := "name"
	if kind == "device_type" {
		nameField = "model"
	}
	query := fmt.Sprintf("query Resolve($name: [String]) {\n  %s(%s: $name) {\n    id\n  }\n}", rootField, nameField)

	body, err := r.client.GraphQL(ctx, query, map[string]any{"name": []string{name}})
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s %q: %w", kind, name, err)
	}

	var envelope struct {
		Data map[string][]struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", fmt.Errorf("failed to decode %s lookup: %w", kind, err)
	}

	results := envelope.Data[rootField]
	if len(results) == 0 {
		return "", fmt.Errorf("no %s named %q", kind, name)
	}

	id := results[0].ID
	r.cache.Set(kind, name, id)
	r.logger.Debug().Str("kind", kind).Str("name", name).Str("id", id).Msg("Resolved object ID")
	return id, nil
}

// Kinds lists the resolvable object kinds.
func Kinds() []string {
	kinds := make([]string, 0, len(objectKinds))
	for k := range objectKinds {
		kinds = append(kinds, k)
	}
	return kinds
}
