package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/server"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/netfabric/nautobot-mcp/internal/cache"
	"github.com/netfabric/nautobot-mcp/internal/common"
	"github.com/netfabric/nautobot-mcp/internal/nautobot"
	"github.com/netfabric/nautobot-mcp/internal/query"
	"github.com/netfabric/nautobot-mcp/internal/resolver"
)

// NautobotConfig holds backend connection settings.
type NautobotConfig struct {
	URL            string `toml:"url"`
	Token          string `toml:"token"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// OnboardConfig holds defaults applied to device onboarding requests.
type OnboardConfig struct {
	Role      string `toml:"role"`
	Namespace string `toml:"namespace"`
	Status    string `toml:"status"`
	Port      int    `toml:"port"`
	Timeout   int    `toml:"timeout"`
}

// CacheConfig holds ID cache tuning.
type CacheConfig struct {
	TTLSeconds int `toml:"ttl_seconds"`
	MaxEntries int `toml:"max_entries"`
}

// ServerConfig holds MCP server settings.
type ServerConfig struct {
	Name string `toml:"name"`
	Port string `toml:"port"`
}

// Config holds all nautobot-mcp configuration.
type Config struct {
	Server   ServerConfig         `toml:"server"`
	Nautobot NautobotConfig       `toml:"nautobot"`
	Onboard  OnboardConfig        `toml:"onboard"`
	Cache    CacheConfig          `toml:"cache"`
	Logging  common.LoggingConfig `toml:"logging"`
}

// newDefaultConfig returns a Config with sensible defaults.
func newDefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Name: "Nautobot-MCP",
			Port: "4280",
		},
		Nautobot: NautobotConfig{
			URL:            "http://nautobot:8080",
			TimeoutSeconds: 30,
		},
		Onboard: OnboardConfig{
			Role:      "network",
			Namespace: "Global",
			Status:    "Active",
			Port:      22,
			Timeout:   30,
		},
		Cache: CacheConfig{
			TTLSeconds: 3600,
			MaxEntries: 1000,
		},
		Logging: common.LoggingConfig{
			Level:      "info",
			Outputs:    []string{"console", "file"},
			FilePath:   "logs/nautobot-mcp.log",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
	}
}

// loadConfig loads configuration from a TOML file with defaults and env overrides.
func loadConfig(path string) Config {
	cfg := newDefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				log.Fatalf("Failed to read config file %s: %v", path, err)
			}
			// File not found — use defaults
		} else {
			if err := toml.Unmarshal(data, &cfg); err != nil {
				log.Fatalf("Failed to parse config file %s: %v", path, err)
			}
		}
	}

	// Apply environment overrides
	if url := os.Getenv("NAUTOBOT_URL"); url != "" {
		cfg.Nautobot.URL = url
	}
	if token := os.Getenv("NAUTOBOT_TOKEN"); token != "" {
		cfg.Nautobot.Token = token
	}
	if port := os.Getenv("NAUTOBOT_MCP_PORT"); port != "" {
		cfg.Server.Port = port
	}

	return cfg
}

func main() {
	stdio := flag.Bool("stdio", false, "Use stdio transport (for Claude Desktop)")
	configFile := flag.String("config", "nautobot-mcp.toml", "Path to config file")
	flag.Parse()

	cfg := loadConfig(*configFile)

	// Load version
	common.LoadVersionFromFile()

	// Setup logging
	logger := common.NewLoggerFromConfig(cfg.Logging)

	if cfg.Nautobot.Token == "" {
		logger.Warn().Msg("No Nautobot token configured; set NAUTOBOT_TOKEN or [nautobot] token")
	}

	client := nautobot.NewClient(
		cfg.Nautobot.URL,
		cfg.Nautobot.Token,
		time.Duration(cfg.Nautobot.TimeoutSeconds)*time.Second,
		logger,
	)

	if err := client.TestConnection(context.Background()); err != nil {
		logger.Warn().Err(err).Str("url", cfg.Nautobot.URL).Msg("Nautobot connection check failed; continuing anyway")
	} else {
		logger.Info().Str("url", cfg.Nautobot.URL).Msg("Connected to Nautobot")
	}

	store, err := query.DefaultStore()
	if err != nil {
		log.Fatalf("Invalid resource schema table: %v", err)
	}
	registry, err := query.DefaultRegistry(store)
	if err != nil {
		log.Fatalf("Failed to build tool registry: %v", err)
	}

	idCache := cache.New(
		time.Duration(cfg.Cache.TTLSeconds)*time.Second,
		cfg.Cache.MaxEntries,
	)
	ids := resolver.New(client, idCache, logger)

	// Create MCP server with tool definitions
	mcpServer := server.NewMCPServer(
		cfg.Server.Name,
		common.GetVersion(),
		server.WithToolCapabilities(true),
		server.WithPromptCapabilities(true),
	)

	deps := &toolDeps{
		client:   client,
		registry: registry,
		resolver: ids,
		idCache:  idCache,
		onboard:  cfg.Onboard,
		logger:   logger,
	}

	// Register all MCP tools and prompt templates
	if err := registerTools(mcpServer, deps); err != nil {
		log.Fatalf("Failed to register tools: %v", err)
	}
	registerPrompts(mcpServer)

	if *stdio {
		// Stdio transport — reads stdin, writes stdout
		if err := server.ServeStdio(mcpServer); err != nil {
			fmt.Fprintf(os.Stderr, "stdio server error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	port := cfg.Server.Port

	// Streamable HTTP transport — listens on configured port
	httpServer := server.NewStreamableHTTPServer(mcpServer,
		server.WithStateLess(true),
	)

	logger.Info().Str("port", port).Msg("Starting MCP Streamable HTTP")
	fmt.Fprintf(os.Stderr, "Starting MCP Streamable HTTP on :%s\n", port)

	if err := httpServer.Start(":" + port); err != nil {
		fmt.Fprintf(os.Stderr, "http server error: %v\n", err)
		os.Exit(1)
	}
}
