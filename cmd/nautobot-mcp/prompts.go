package main

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// registerPrompts registers the canned prompt templates. Each template
// renders to a phrase the dynamic query tools can parse, so a client can
// go from template to query without composing its own prompt.
func registerPrompts(s *server.MCPServer) {
	s.AddPrompt(mcp.NewPrompt("show-device-details",
		mcp.WithPromptDescription("Show all properties of a specific device"),
		mcp.WithArgument("device_name",
			mcp.ArgumentDescription("Name of the device to query"),
			mcp.RequiredArgument(),
		),
	), promptText(func(args map[string]string) string {
		return fmt.Sprintf("show all properties of device %s", argOr(args, "device_name", "{device_name}"))
	}))

	s.AddPrompt(mcp.NewPrompt("show-devices-in-location",
		mcp.WithPromptDescription("Show all devices in a specific location"),
		mcp.WithArgument("location_name",
			mcp.ArgumentDescription("Name of the location to query"),
			mcp.RequiredArgument(),
		),
	), promptText(func(args map[string]string) string {
		return fmt.Sprintf("show all devices in location %s", argOr(args, "location_name", "{location_name}"))
	}))

	s.AddPrompt(mcp.NewPrompt("find-ip-address",
		mcp.WithPromptDescription("Find where a specific IP address is used"),
		mcp.WithArgument("ip_address",
			mcp.ArgumentDescription("IP address to search for"),
			mcp.RequiredArgument(),
		),
	), promptText(func(args map[string]string) string {
		return fmt.Sprintf("show ip address %s", argOr(args, "ip_address", "{ip_address}"))
	}))

	s.AddPrompt(mcp.NewPrompt("list-prefixes-within",
		mcp.WithPromptDescription("List prefixes contained within a specific CIDR block"),
		mcp.WithArgument("prefix_cidr",
			mcp.ArgumentDescription("CIDR block to search within (e.g., 10.0.0.0/8)"),
			mcp.RequiredArgument(),
		),
	), promptText(func(args map[string]string) string {
		return fmt.Sprintf("prefixes within %s", argOr(args, "prefix_cidr", "{prefix_cidr}"))
	}))
}

func argOr(args map[string]string, key, fallback string) string {
	if v, ok := args[key]; ok && v != "" {
		return v
	}
	return fallback
}

// promptText wraps a text renderer into a prompt handler returning a
// single user message.
func promptText(render func(args map[string]string) string) server.PromptHandlerFunc {
	return func(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		text := render(request.Params.Arguments)
		return mcp.NewGetPromptResult("", []mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
		}), nil
	}
}
