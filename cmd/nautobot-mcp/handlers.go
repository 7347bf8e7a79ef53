package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/netfabric/nautobot-mcp/internal/common"
	"github.com/netfabric/nautobot-mcp/internal/query"
)

// --- Helpers ---

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}

// engineErrorResult renders engine errors for the caller. Invalid field
// errors carry a structured payload so the caller can self-correct; other
// kinds surface their message.
func engineErrorResult(err error) *mcp.CallToolResult {
	var fieldErr *query.InvalidFieldError
	if errors.As(err, &fieldErr) {
		payload, marshalErr := json.MarshalIndent(fieldErr, "", "  ")
		if marshalErr == nil {
			return errorResult(fmt.Sprintf("%s\n\n```json\n%s\n```", fieldErr.Error(), payload))
		}
	}
	return errorResult(fmt.Sprintf("Error: %v", err))
}

// requestLogger tags a logger with a fresh correlation ID for one tool call.
func requestLogger(deps *toolDeps) *common.Logger {
	return deps.logger.WithCorrelationId(uuid.New().String())
}

// --- Handlers ---

// handleRegisteredTool wires one registry descriptor to the backend: the
// registry turns the call into a plan, the client executes it, and the raw
// response body goes back unmodified.
func handleRegisteredTool(deps *toolDeps, name string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		logger := requestLogger(deps)

		plan, err := deps.registry.Dispatch(name, request.GetArguments())
		if err != nil {
			logger.Warn().Err(err).Str("tool", name).Msg("Dispatch failed")
			return engineErrorResult(err), nil
		}

		var body []byte
		switch plan.Kind {
		case query.KindGraphQL:
			logger.Debug().Str("tool", name).Str("resource", plan.Resource).Msg("Executing GraphQL plan")
			body, err = deps.client.GraphQL(ctx, plan.Query, plan.Variables)
		case query.KindREST:
			logger.Debug().Str("tool", name).Str("endpoint", plan.Endpoint).Msg("Executing REST plan")
			body, err = deps.client.Get(ctx, plan.Endpoint)
		default:
			return errorResult(fmt.Sprintf("Error: tool %q has no executable plan", name)), nil
		}
		if err != nil {
			logger.Error().Err(err).Str("tool", name).Msg("Backend request failed")
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}

		return textResult(string(body)), nil
	}
}

func handleGetVersion(deps *toolDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		status := "OK"
		if err := deps.client.TestConnection(ctx); err != nil {
			status = fmt.Sprintf("Nautobot unreachable: %v", err)
		}
		result := fmt.Sprintf("Nautobot MCP Server\nVersion: %s\nNautobot: %s\nStatus: %s",
			common.GetFullVersion(), deps.client.BaseURL(), status)
		return textResult(result), nil
	}
}

// helpTopics maps search intent keywords to the tool to reach for.
var helpTopics = []struct {
	keywords []string
	tool     string
	hint     string
}{
	{[]string{"device type", "device types", "model", "hardware"}, "query_device_types_dynamic", "Query device type models and manufacturers"},
	{[]string{"device", "devices", "router", "switch", "firewall", "hostname"}, "query_devices_dynamic", "Query devices by name, location, role, platform and more"},
	{[]string{"location", "locations", "site", "sites", "datacenter", "region"}, "query_locations_dynamic", "Query locations by name, parent, status, tenant and more"},
	{[]string{"interface", "interfaces", "port", "ethernet"}, "query_interfaces_dynamic", "Query interfaces by name, device, type, enabled state and more"},
	{[]string{"ip address", "ip addresses", "ip", "address", "dns"}, "query_ip_addresses_dynamic", "Query IP addresses by address, dns_name, type and more"},
	{[]string{"prefix", "prefixes", "subnet", "cidr", "network"}, "query_prefixes_dynamic", "Query prefixes by prefix, location, namespace and more"},
	{[]string{"custom field", "custom fields", "cf_"}, "list_custom_fields", "List the custom field definitions configured on the backend"},
	{[]string{"onboard", "onboarding", "add device", "new device"}, "onboard_device", "Onboard a new network device"},
}

func handleHelpFindQuery(deps *toolDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		intent, err := request.RequireString("search_intent")
		if err != nil {
			return errorResult("Error: search_intent is required"), nil
		}
		lower := strings.ToLower(intent)

		var b strings.Builder
		matched := false
		for _, topic := range helpTopics {
			for _, kw := range topic.keywords {
				if strings.Contains(lower, kw) {
					if !matched {
						b.WriteString(fmt.Sprintf("For %q, try:\n\n", intent))
						matched = true
					}
					b.WriteString(fmt.Sprintf("- **%s**: %s\n", topic.tool, topic.hint))
					break
				}
			}
		}
		if !matched {
			b.WriteString(fmt.Sprintf("No specific query tool matches %q.\n\n", intent))
			b.WriteString("Available tools:\n")
			for _, d := range deps.registry.Descriptors() {
				b.WriteString(fmt.Sprintf("- **%s**: %s\n", d.Name, d.Description))
			}
			b.WriteString("\nFor anything else, use `query_rest_api_fallback` with a description of what you need.\n")
		} else {
			b.WriteString("\nAll query tools accept a natural language `prompt` or structured field/value arguments with lookup expressions (`name__ic`, `name__isw`, `name__iew`, `name__re`, `name__n`, `name__isnull`). Custom fields use the `cf_<name>` format. A comma in a single string value splits it into multiple values; pass an array to keep a value with commas intact.\n")
		}
		return textResult(b.String()), nil
	}
}

// restEndpoints maps search keywords to REST API endpoints for resources
// the query tools do not cover.
var restEndpoints = []struct {
	keywords []string
	endpoint string
}{
	{[]string{"circuit type", "circuit types"}, "circuits/circuit-types/"},
	{[]string{"circuit", "circuits"}, "circuits/circuits/"},
	{[]string{"provider", "providers"}, "circuits/providers/"},
	{[]string{"cable", "cables"}, "dcim/cables/"},
	{[]string{"interface", "interfaces"}, "dcim/interfaces/"},
	{[]string{"console", "console port", "console connection"}, "dcim/console-ports/"},
	{[]string{"power panel", "power panels"}, "dcim/power-panels/"},
	{[]string{"power feed", "power feeds"}, "dcim/power-feeds/"},
	{[]string{"power port", "power connection"}, "dcim/power-ports/"},
	{[]string{"rack", "racks"}, "dcim/racks/"},
	{[]string{"vlan", "vlans"}, "ipam/vlans/"},
	{[]string{"vrf", "vrfs"}, "ipam/vrfs/"},
	{[]string{"aggregate", "aggregates"}, "ipam/aggregates/"},
	{[]string{"tenant group", "tenant groups"}, "tenancy/tenant-groups/"},
	{[]string{"tenant", "tenants"}, "tenancy/tenants/"},
	{[]string{"user", "users"}, "users/users/"},
	{[]string{"group", "groups"}, "users/groups/"},
	{[]string{"virtual machine", "vm", "vms"}, "virtualization/virtual-machines/"},
	{[]string{"cluster", "clusters"}, "virtualization/clusters/"},
	{[]string{"webhook", "webhooks"}, "extras/webhooks/"},
	{[]string{"custom field", "custom fields"}, "extras/custom-fields/"},
	{[]string{"export template", "export templates"}, "extras/export-templates/"},
	{[]string{"config context", "config contexts"}, "extras/config-contexts/"},
	{[]string{"role", "roles"}, "extras/roles/"},
	{[]string{"status", "statuses"}, "extras/statuses/"},
	{[]string{"secrets group", "secret group", "secrets groups"}, "extras/secrets-groups/"},
}

func handleRestFallback(deps *toolDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		logger := requestLogger(deps)

		description, err := request.RequireString("search_description")
		if err != nil {
			return errorResult("Error: search_description is required"), nil
		}
		lower := strings.ToLower(description)
		hint := request.GetString("resource_hint", "")

		endpoint := ""
		if hint != "" {
			endpoint = strings.Trim(hint, "/")
			if !strings.HasPrefix(endpoint, "api/") {
				endpoint = "api/" + endpoint
			}
			endpoint += "/"
		} else {
			for _, mapping := range restEndpoints {
				for _, kw := range mapping.keywords {
					if strings.Contains(lower, kw) {
						endpoint = "api/" + mapping.endpoint
						break
					}
				}
				if endpoint != "" {
					break
				}
			}
		}

		if endpoint == "" {
			var b strings.Builder
			b.WriteString(fmt.Sprintf("I couldn't find a specific API endpoint for %q.\n\n", description))
			b.WriteString("Available REST API categories include:\n")
			b.WriteString("- **Circuits**: circuit-types, circuits, providers\n")
			b.WriteString("- **DCIM**: cables, racks, power-panels, console-ports\n")
			b.WriteString("- **IPAM**: vlans, vrfs, aggregates\n")
			b.WriteString("- **Tenancy**: tenants, tenant-groups\n")
			b.WriteString("- **Virtualization**: virtual-machines, clusters\n")
			b.WriteString("- **Users**: users, groups\n")
			b.WriteString("- **Extras**: webhooks, custom-fields, config-contexts\n\n")
			b.WriteString("You can:\n")
			b.WriteString("1. Be more specific about what you're looking for\n")
			b.WriteString("2. Provide a `resource_hint` like 'circuits/circuit-types'\n")
			b.WriteString("3. Check the Nautobot API docs at /api/docs/\n")
			return textResult(b.String()), nil
		}

		logger.Info().Str("endpoint", endpoint).Msg("Executing REST API fallback")
		body, err := deps.client.Get(ctx, "/"+endpoint)
		if err != nil {
			logger.Error().Err(err).Str("endpoint", endpoint).Msg("REST fallback failed")
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}

		return textResult(formatRESTList(endpoint, body)), nil
	}
}

func handleOnboardDevice(deps *toolDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		logger := requestLogger(deps)

		ipAddress, err := request.RequireString("ip_address")
		if err != nil {
			return errorResult("Error: ip_address is required for device onboarding"), nil
		}
		locationName, err := request.RequireString("location")
		if err != nil {
			return errorResult("Error: location is required for device onboarding"), nil
		}
		secretsGroupName, err := request.RequireString("secret_groups")
		if err != nil {
			return errorResult("Error: secret_groups is required for device authentication"), nil
		}

		roleName := request.GetString("role", deps.onboard.Role)
		namespaceName := request.GetString("namespace", deps.onboard.Namespace)
		statusName := request.GetString("status", deps.onboard.Status)
		platformName := request.GetString("platform", "")

		logger.Info().Str("ip_address", ipAddress).Msg("Starting device onboarding")

		type resolution struct {
			kind string
			name string
		}
		required := []resolution{
			{"location", locationName},
			{"secrets_group", secretsGroupName},
			{"role", roleName},
			{"namespace", namespaceName},
			{"status", statusName},
		}

		resolved := make(map[string]string, len(required)+1)
		var failures []string
		for _, r := range required {
			id, err := deps.resolver.Resolve(ctx, r.kind, r.name)
			if err != nil {
				failures = append(failures, fmt.Sprintf("  - %s: %v", r.kind, err))
				continue
			}
			resolved[r.kind] = id
		}

		// Platform is optional: an unresolvable platform falls back to
		// backend autodetection instead of failing the onboarding.
		platformID := ""
		if platformName != "" {
			if id, err := deps.resolver.Resolve(ctx, "platform", platformName); err == nil {
				platformID = id
			} else {
				logger.Warn().Err(err).Str("platform", platformName).Msg("Platform not resolved; using autodetection")
			}
		}

		if len(failures) > 0 {
			var b strings.Builder
			b.WriteString("Failed to resolve the following parameters to IDs:\n\n")
			b.WriteString(strings.Join(failures, "\n"))
			b.WriteString("\n\n**Troubleshooting:**\n")
			b.WriteString("- Use `query_locations_dynamic` to see available locations\n")
			b.WriteString("- Use `query_rest_api_fallback` with 'roles' to see available roles\n")
			b.WriteString("- Use `query_rest_api_fallback` with 'statuses' to see available statuses\n")
			b.WriteString("- Check that the secrets group exists in your Nautobot instance\n")
			return errorResult(b.String()), nil
		}

		deviceData := map[string]any{
			"location":          resolved["location"],
			"ip_addresses":      ipAddress,
			"secrets_group":     resolved["secrets_group"],
			"device_role":       resolved["role"],
			"namespace":         resolved["namespace"],
			"device_status":     resolved["status"],
			"interface_status":  resolved["status"],
			"ip_address_status": resolved["status"],
			"port":              request.GetInt("port", deps.onboard.Port),
			"timeout":           request.GetInt("timeout", deps.onboard.Timeout),
			"update_devices_without_primary_ip": request.GetBool("update_devices_without_primary_ip", false),
		}
		if platformID != "" {
			deviceData["platform"] = platformID
		}

		body, err := deps.client.Post(ctx, "/api/extras/jobs/Sync%20Devices%20From%20Network/run/", map[string]any{"data": deviceData})
		if err != nil {
			logger.Error().Err(err).Str("ip_address", ipAddress).Msg("Onboarding job submission failed")
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}

		var jobResp struct {
			JobID string `json:"job_id"`
		}
		if json.Unmarshal(body, &jobResp) != nil || jobResp.JobID == "" {
			return textResult(fmt.Sprintf("Onboarding request submitted for %s:\n\n%s", ipAddress, string(body))), nil
		}

		logger.Info().Str("ip_address", ipAddress).Str("job_id", jobResp.JobID).Msg("Device queued for onboarding")
		return textResult(formatOnboardResult(ipAddress, jobResp.JobID, []onboardDetail{
			{"Location", fmt.Sprintf("%s -> %s", locationName, resolved["location"])},
			{"Secrets Group", fmt.Sprintf("%s -> %s", secretsGroupName, resolved["secrets_group"])},
			{"Role", fmt.Sprintf("%s -> %s", roleName, resolved["role"])},
			{"Namespace", fmt.Sprintf("%s -> %s", namespaceName, resolved["namespace"])},
			{"Status", fmt.Sprintf("%s -> %s", statusName, resolved["status"])},
			{"Platform", platformDisplay(platformName, platformID)},
		})), nil
	}
}

func platformDisplay(name, id string) string {
	if id == "" {
		if name == "" {
			return "autodetect"
		}
		return fmt.Sprintf("%s -> autodetect", name)
	}
	return fmt.Sprintf("%s -> %s", name, id)
}

func handleCacheStats(deps *toolDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		stats := deps.idCache.Stats()
		cleared := request.GetBool("clear", false)
		if cleared {
			deps.idCache.Clear()
		}
		result := fmt.Sprintf("ID Cache\nEntries: %d\nHits: %d\nMisses: %d\nCleared: %t",
			stats.Entries, stats.Hits, stats.Misses, cleared)
		return textResult(result), nil
	}
}
