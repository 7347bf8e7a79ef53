package main

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/netfabric/nautobot-mcp/internal/cache"
	"github.com/netfabric/nautobot-mcp/internal/common"
	"github.com/netfabric/nautobot-mcp/internal/nautobot"
	"github.com/netfabric/nautobot-mcp/internal/query"
	"github.com/netfabric/nautobot-mcp/internal/resolver"
)

// toolDeps carries everything a tool handler needs.
type toolDeps struct {
	client   *nautobot.Client
	registry *query.Registry
	resolver *resolver.Resolver
	idCache  *cache.IDCache
	onboard  OnboardConfig
	logger   *common.Logger
}

// registerTools registers all MCP tools on the server: the dynamic query
// tools from the registry plus the standalone helper tools.
func registerTools(s *server.MCPServer, deps *toolDeps) error {
	for _, d := range deps.registry.Descriptors() {
		tool, err := buildTool(d)
		if err != nil {
			return err
		}
		s.AddTool(tool, handleRegisteredTool(deps, d.Name))
	}

	s.AddTool(createGetVersionTool(), handleGetVersion(deps))
	s.AddTool(createHelpTool(), handleHelpFindQuery(deps))
	s.AddTool(createRestFallbackTool(), handleRestFallback(deps))
	s.AddTool(createOnboardDeviceTool(), handleOnboardDevice(deps))
	s.AddTool(createCacheStatsTool(), handleCacheStats(deps))
	return nil
}

// buildTool converts a registry descriptor into an MCP tool definition.
// Field token arguments are open-ended so they are described rather than
// enumerated in the schema.
func buildTool(d *query.Descriptor) (mcp.Tool, error) {
	opts := []mcp.ToolOption{mcp.WithDescription(d.Description)}
	for _, p := range d.Params {
		var paramOpts []mcp.PropertyOption
		if p.Description != "" {
			paramOpts = append(paramOpts, mcp.Description(p.Description))
		}
		if p.Required {
			paramOpts = append(paramOpts, mcp.Required())
		}
		switch p.Type {
		case "string":
			opts = append(opts, mcp.WithString(p.Name, paramOpts...))
		case "array":
			paramOpts = append(paramOpts, mcp.WithStringItems())
			opts = append(opts, mcp.WithArray(p.Name, paramOpts...))
		case "boolean":
			opts = append(opts, mcp.WithBoolean(p.Name, paramOpts...))
		case "number":
			opts = append(opts, mcp.WithNumber(p.Name, paramOpts...))
		default:
			return mcp.Tool{}, fmt.Errorf("tool %q: unsupported param type %q", d.Name, p.Type)
		}
	}
	return mcp.NewTool(d.Name, opts...), nil
}

// --- Tool definitions ---

func createGetVersionTool() mcp.Tool {
	return mcp.NewTool("get_version",
		mcp.WithDescription("Get the Nautobot MCP server version and backend status. Use this to verify connectivity."),
	)
}

func createHelpTool() mcp.Tool {
	return mcp.NewTool("help_find_query",
		mcp.WithDescription("Help find the right query tool based on what you want to search for. Use this when you're not sure which specific query tool to use."),
		mcp.WithString("search_intent", mcp.Required(), mcp.Description("Describe what you want to find (e.g., 'find devices', 'show IP addresses', 'list prefixes')")),
	)
}

func createRestFallbackTool() mcp.Tool {
	return mcp.NewTool("query_rest_api_fallback",
		mcp.WithDescription("Fallback mechanism using the Nautobot REST API for resources not covered by the query tools. Use this when no specific query tool exists for what you need."),
		mcp.WithString("search_description", mcp.Required(), mcp.Description("Describe what you want to find (e.g., 'circuit types', 'cable connections', 'power panels')")),
		mcp.WithString("resource_hint", mcp.Description("Optional: specific API endpoint if you know it (e.g., 'circuits/circuit-types', 'dcim/cables')")),
	)
}

func createOnboardDeviceTool() mcp.Tool {
	return mcp.NewTool("onboard_device",
		mcp.WithDescription("Onboard a new network device to Nautobot. Requires ip_address, location, and secret_groups. Optional fields have defaults; platform autodetection is used when platform is not specified."),
		mcp.WithString("ip_address", mcp.Required(), mcp.Description("IP address of the device to onboard")),
		mcp.WithString("location", mcp.Required(), mcp.Description("Location name where the device is located")),
		mcp.WithString("secret_groups", mcp.Required(), mcp.Description("Secrets group for device authentication")),
		mcp.WithString("role", mcp.Description("Device role (defaults to 'network')")),
		mcp.WithString("namespace", mcp.Description("Namespace for the device (defaults to 'Global')")),
		mcp.WithString("status", mcp.Description("Device status (defaults to 'Active')")),
		mcp.WithString("platform", mcp.Description("Platform type (defaults to autodetection)")),
		mcp.WithNumber("port", mcp.Description("SSH port for device connection (defaults to 22)")),
		mcp.WithNumber("timeout", mcp.Description("Connection timeout in seconds (defaults to 30)")),
		mcp.WithBoolean("update_devices_without_primary_ip", mcp.Description("Update devices without primary IP (defaults to false)")),
	)
}

func createCacheStatsTool() mcp.Tool {
	return mcp.NewTool("get_cache_stats",
		mcp.WithDescription("Show ID cache statistics (entries, hits, misses) and optionally clear the cache."),
		mcp.WithBoolean("clear", mcp.Description("Clear the cache after reporting stats (default: false)")),
	)
}
