package nautobot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/netfabric/nautobot-mcp/internal/common"
)

// Client talks to a Nautobot instance over its GraphQL and REST APIs.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *common.Logger
}

// NewClient creates a client for the given Nautobot base URL. The token is
// sent on every request as a Token authorization header.
func NewClient(baseURL, token string, timeout time.Duration, logger *common.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// BaseURL returns the configured Nautobot base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) applyHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Token "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
}

// graphQLRequest is the wire shape of a GraphQL POST.
type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// GraphQL runs a query against /api/graphql/ and returns the raw response
// body. GraphQL-level errors arrive in a 200 response, so the body is
// checked for an errors array as well as the HTTP status.
func (c *Client) GraphQL(ctx context.Context, query string, variables map[string]any) ([]byte, error) {
	payload, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}

	c.logger.Debug().
		Str("method", "POST").
		Str("path", "/api/graphql/").
		Str("query", query).
		Msg("Nautobot GraphQL Request")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/graphql/", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	c.applyHeaders(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.logger.Error().Err(err).Dur("duration", duration).Msg("Nautobot GraphQL Request Failed")
		return nil, fmt.Errorf("nautobot request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug().
		Int("status_code", resp.StatusCode).
		Dur("duration", duration).
		Msg("Nautobot GraphQL Response")

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("nautobot returned %d: %s", resp.StatusCode, string(body))
	}

	var envelope struct {
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if json.Unmarshal(body, &envelope) == nil && len(envelope.Errors) > 0 {
		messages := make([]string, len(envelope.Errors))
		for i, e := range envelope.Errors {
			messages[i] = e.Message
		}
		return nil, fmt.Errorf("graphql errors: %s", strings.Join(messages, "; "))
	}

	return body, nil
}

// Get performs a GET against a REST API path and returns the response body.
func (c *Client) Get(ctx context.Context, path string) ([]byte, error) {
	return c.doJSON(ctx, http.MethodGet, path, nil)
}

// Post performs a POST with a JSON body against a REST API path.
func (c *Client) Post(ctx context.Context, path string, data any) ([]byte, error) {
	return c.doJSON(ctx, http.MethodPost, path, data)
}

func (c *Client) doJSON(ctx context.Context, method, path string, data any) ([]byte, error) {
	var reqBody io.Reader
	if data != nil {
		payload, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Msg("Nautobot REST Request")

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	c.applyHeaders(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.logger.Error().Err(err).Str("path", path).Dur("duration", duration).Msg("Nautobot REST Request Failed")
		return nil, fmt.Errorf("nautobot request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug().
		Int("status_code", resp.StatusCode).
		Dur("duration", duration).
		Msg("Nautobot REST Response")

	if resp.StatusCode >= 400 {
		var errResp struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(body, &errResp) == nil && errResp.Detail != "" {
			return nil, fmt.Errorf("nautobot returned %d: %s", resp.StatusCode, errResp.Detail)
		}
		return nil, fmt.Errorf("nautobot returned %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// TestConnection probes the REST API root to confirm the URL and token are
// usable. Used at startup for a fail-fast signal in the logs.
func (c *Client) TestConnection(ctx context.Context) error {
	_, err := c.Get(ctx, "/api/")
	return err
}
