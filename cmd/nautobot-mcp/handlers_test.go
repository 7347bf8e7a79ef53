package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/netfabric/nautobot-mcp/internal/cache"
	"github.com/netfabric/nautobot-mcp/internal/common"
	"github.com/netfabric/nautobot-mcp/internal/nautobot"
	"github.com/netfabric/nautobot-mcp/internal/query"
	"github.com/netfabric/nautobot-mcp/internal/resolver"
)

func testLogger() *common.Logger {
	return common.NewSilentLogger()
}

func newTestDeps(t *testing.T, backendURL string) *toolDeps {
	t.Helper()
	store, err := query.DefaultStore()
	if err != nil {
		t.Fatalf("DefaultStore: %v", err)
	}
	registry, err := query.DefaultRegistry(store)
	if err != nil {
		t.Fatalf("DefaultRegistry: %v", err)
	}
	client := nautobot.NewClient(backendURL, "test-token", 5*time.Second, testLogger())
	idCache := cache.New(time.Minute, 100)
	return &toolDeps{
		client:   client,
		registry: registry,
		resolver: resolver.New(client, idCache, testLogger()),
		idCache:  idCache,
		onboard: OnboardConfig{
			Role:      "network",
			Namespace: "Global",
			Status:    "Active",
			Port:      22,
			Timeout:   30,
		},
		logger: testLogger(),
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("Result has no content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("Expected text content, got %T", result.Content[0])
	}
	return text.Text
}

func callTool(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	request := mcp.CallToolRequest{}
	request.Params.Arguments = args
	result, err := handler(context.Background(), request)
	if err != nil {
		t.Fatalf("Unexpected handler error: %v", err)
	}
	return result
}

func TestHandleRegisteredTool_GraphQLSuccess(t *testing.T) {
	backendBody := `{"data":{"devices":[{"id":"dev-1","name":"router1"}]}}`

	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/api/graphql/" {
			t.Errorf("Expected /api/graphql/, got %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Token test-token" {
			t.Errorf("Expected token auth header, got %q", got)
		}

		var req struct {
			Query     string                 `json:"query"`
			Variables map[string]interface{} `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode GraphQL request: %v", err)
		}
		if !strings.Contains(req.Query, "devices(name__ic: $name__ic)") {
			t.Errorf("Query missing filter argument: %s", req.Query)
		}
		if _, ok := req.Variables["name__ic"]; !ok {
			t.Error("Variables missing name__ic binding")
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(backendBody))
	}))
	defer mockServer.Close()

	deps := newTestDeps(t, mockServer.URL)
	handler := handleRegisteredTool(deps, "query_devices_dynamic")

	result := callTool(t, handler, map[string]interface{}{
		"hostname__ic": "router",
	})
	if result.IsError {
		t.Fatalf("Expected success, got error: %v", result.Content)
	}
	// The backend response passes through untouched.
	if resultText(t, result) != backendBody {
		t.Errorf("Expected raw backend body, got %s", resultText(t, result))
	}
}

func TestHandleRegisteredTool_PromptQuery(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Query     string                 `json:"query"`
			Variables map[string]interface{} `json:"variables"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if !strings.Contains(req.Query, "devices(name: $name)") {
			t.Errorf("Prompt should bind an exact name filter, got: %s", req.Query)
		}
		w.Write([]byte(`{"data":{"devices":[]}}`))
	}))
	defer mockServer.Close()

	deps := newTestDeps(t, mockServer.URL)
	handler := handleRegisteredTool(deps, "query_devices_dynamic")

	result := callTool(t, handler, map[string]interface{}{
		"prompt": "show device router1",
	})
	if result.IsError {
		t.Fatalf("Expected success, got error: %v", result.Content)
	}
}

func TestHandleRegisteredTool_InvalidFieldPayload(t *testing.T) {
	deps := newTestDeps(t, "http://localhost:1")
	handler := handleRegisteredTool(deps, "query_devices_dynamic")

	result := callTool(t, handler, map[string]interface{}{
		"locaton": "dc1",
	})
	if !result.IsError {
		t.Fatal("Expected error result for invalid field")
	}

	text := resultText(t, result)
	if !strings.Contains(text, `"kind": "invalid_field"`) {
		t.Errorf("Expected structured payload, got: %s", text)
	}
	if !strings.Contains(text, `"suggestion": "location"`) {
		t.Errorf("Expected suggestion in payload, got: %s", text)
	}
	if !strings.Contains(text, `"valid_fields"`) {
		t.Errorf("Expected valid_fields in payload, got: %s", text)
	}
}

func TestHandleRegisteredTool_NoFilters(t *testing.T) {
	deps := newTestDeps(t, "http://localhost:1")
	handler := handleRegisteredTool(deps, "query_devices_dynamic")

	result := callTool(t, handler, map[string]interface{}{})
	if !result.IsError {
		t.Fatal("Expected error result for empty filter set")
	}
}

func TestHandleRegisteredTool_RESTKind(t *testing.T) {
	backendBody := `{"count":1,"results":[{"name":"environment","type":"text"}]}`

	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/api/extras/custom-fields/" {
			t.Errorf("Expected custom fields endpoint, got %s", r.URL.Path)
		}
		w.Write([]byte(backendBody))
	}))
	defer mockServer.Close()

	deps := newTestDeps(t, mockServer.URL)
	handler := handleRegisteredTool(deps, "list_custom_fields")

	result := callTool(t, handler, map[string]interface{}{})
	if result.IsError {
		t.Fatalf("Expected success, got error: %v", result.Content)
	}
	if resultText(t, result) != backendBody {
		t.Error("REST tool should return the raw backend body")
	}
}

func TestHandleRegisteredTool_BackendFailure(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail":"something broke"}`))
	}))
	defer mockServer.Close()

	deps := newTestDeps(t, mockServer.URL)
	handler := handleRegisteredTool(deps, "query_devices_dynamic")

	result := callTool(t, handler, map[string]interface{}{"name": "router1"})
	if !result.IsError {
		t.Fatal("Expected error result for backend failure")
	}
}

func TestHandleGetVersion(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"dcim":"/api/dcim/"}`))
	}))
	defer mockServer.Close()

	deps := newTestDeps(t, mockServer.URL)
	handler := handleGetVersion(deps)

	result := callTool(t, handler, map[string]interface{}{})
	text := resultText(t, result)
	if !strings.Contains(text, "Version:") {
		t.Error("Result should contain version")
	}
	if !strings.Contains(text, "Status: OK") {
		t.Errorf("Result should report OK status, got: %s", text)
	}
	if !strings.Contains(text, mockServer.URL) {
		t.Error("Result should contain the backend URL")
	}
}

func TestHandleGetVersion_BackendDown(t *testing.T) {
	deps := newTestDeps(t, "http://localhost:1")
	handler := handleGetVersion(deps)

	result := callTool(t, handler, map[string]interface{}{})
	if !strings.Contains(resultText(t, result), "unreachable") {
		t.Error("Result should report the backend as unreachable")
	}
}

func TestHandleHelpFindQuery_Match(t *testing.T) {
	deps := newTestDeps(t, "http://localhost:1")
	handler := handleHelpFindQuery(deps)

	result := callTool(t, handler, map[string]interface{}{
		"search_intent": "find devices in a datacenter",
	})
	text := resultText(t, result)
	if !strings.Contains(text, "query_devices_dynamic") {
		t.Errorf("Expected device tool suggestion, got: %s", text)
	}
	if !strings.Contains(text, "query_locations_dynamic") {
		t.Errorf("Expected location tool suggestion, got: %s", text)
	}
	if !strings.Contains(text, "name__ic") {
		t.Error("Expected lookup expression documentation in footer")
	}
}

func TestHandleHelpFindQuery_Interfaces(t *testing.T) {
	deps := newTestDeps(t, "http://localhost:1")
	handler := handleHelpFindQuery(deps)

	result := callTool(t, handler, map[string]interface{}{
		"search_intent": "interfaces on a switch",
	})
	text := resultText(t, result)
	if !strings.Contains(text, "query_interfaces_dynamic") {
		t.Errorf("Expected interface tool suggestion, got: %s", text)
	}
}

func TestHandleHelpFindQuery_NoMatch(t *testing.T) {
	deps := newTestDeps(t, "http://localhost:1")
	handler := handleHelpFindQuery(deps)

	result := callTool(t, handler, map[string]interface{}{
		"search_intent": "quantum flux capacitors",
	})
	text := resultText(t, result)
	if !strings.Contains(text, "Available tools:") {
		t.Errorf("Expected tool listing fallback, got: %s", text)
	}
	if !strings.Contains(text, "query_rest_api_fallback") {
		t.Error("Fallback should mention the REST fallback tool")
	}
}

func TestHandleHelpFindQuery_MissingIntent(t *testing.T) {
	deps := newTestDeps(t, "http://localhost:1")
	handler := handleHelpFindQuery(deps)

	result := callTool(t, handler, map[string]interface{}{})
	if !result.IsError {
		t.Error("Expected error result for missing search_intent")
	}
}

func TestHandleRestFallback_KeywordMatch(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/circuits/circuit-types/" {
			t.Errorf("Expected circuit types endpoint, got %s", r.URL.Path)
		}
		w.Write([]byte(`{"count":2,"results":[{"display":"MPLS","description":"MPLS circuit"},{"display":"Internet"}]}`))
	}))
	defer mockServer.Close()

	deps := newTestDeps(t, mockServer.URL)
	handler := handleRestFallback(deps)

	result := callTool(t, handler, map[string]interface{}{
		"search_description": "show me circuit types",
	})
	text := resultText(t, result)
	if !strings.Contains(text, "Found 2 items") {
		t.Errorf("Expected item count, got: %s", text)
	}
	if !strings.Contains(text, "MPLS") {
		t.Error("Expected item names in output")
	}
}

func TestHandleRestFallback_InterfacesKeyword(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/dcim/interfaces/" {
			t.Errorf("Expected interfaces endpoint, got %s", r.URL.Path)
		}
		w.Write([]byte(`{"count":1,"results":[{"display":"GigabitEthernet1/0/1"}]}`))
	}))
	defer mockServer.Close()

	deps := newTestDeps(t, mockServer.URL)
	handler := handleRestFallback(deps)

	result := callTool(t, handler, map[string]interface{}{
		"search_description": "list interfaces",
	})
	text := resultText(t, result)
	if !strings.Contains(text, "GigabitEthernet1/0/1") {
		t.Errorf("Expected interface names in output, got: %s", text)
	}
}

func TestHandleRestFallback_ResourceHint(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/dcim/cables/" {
			t.Errorf("Expected hinted endpoint, got %s", r.URL.Path)
		}
		w.Write([]byte(`{"count":0,"results":[]}`))
	}))
	defer mockServer.Close()

	deps := newTestDeps(t, mockServer.URL)
	handler := handleRestFallback(deps)

	result := callTool(t, handler, map[string]interface{}{
		"search_description": "anything",
		"resource_hint":      "dcim/cables",
	})
	if result.IsError {
		t.Fatalf("Expected success, got error: %v", result.Content)
	}
}

func TestHandleRestFallback_NoMatch(t *testing.T) {
	deps := newTestDeps(t, "http://localhost:1")
	handler := handleRestFallback(deps)

	result := callTool(t, handler, map[string]interface{}{
		"search_description": "flux capacitors",
	})
	if result.IsError {
		t.Fatal("No-match should return category help, not an error")
	}
	text := resultText(t, result)
	if !strings.Contains(text, "resource_hint") {
		t.Errorf("Expected hint guidance, got: %s", text)
	}
}

// onboardBackend fakes the GraphQL name lookups and the job submission
// endpoint that onboarding drives.
func onboardBackend(t *testing.T, ids map[string]string, jobID string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/graphql/" {
			var req struct {
				Query string `json:"query"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			for root, id := range ids {
				if strings.Contains(req.Query, root+"(") {
					w.Write([]byte(`{"data":{"` + root + `":[{"id":"` + id + `"}]}}`))
					return
				}
			}
			// Unlisted kinds resolve to nothing.
			w.Write([]byte(`{"data":{}}`))
			return
		}
		if strings.HasPrefix(r.URL.Path, "/api/extras/jobs/") {
			if r.Method != http.MethodPost {
				t.Errorf("Expected POST to job endpoint, got %s", r.Method)
			}
			var req struct {
				Data map[string]interface{} `json:"data"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			if req.Data["ip_addresses"] != "10.1.1.1" {
				t.Errorf("Job payload missing ip_addresses, got: %v", req.Data)
			}
			if req.Data["location"] != ids["locations"] {
				t.Errorf("Job payload should carry the resolved location ID, got: %v", req.Data["location"])
			}
			w.Write([]byte(`{"job_id":"` + jobID + `"}`))
			return
		}
		t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
	}))
}

func TestHandleOnboardDevice_Success(t *testing.T) {
	ids := map[string]string{
		"locations":      "loc-1",
		"secrets_groups": "sg-1",
		"roles":          "role-1",
		"namespaces":     "ns-1",
		"statuses":       "status-1",
	}
	mockServer := onboardBackend(t, ids, "job-42")
	defer mockServer.Close()

	deps := newTestDeps(t, mockServer.URL)
	handler := handleOnboardDevice(deps)

	result := callTool(t, handler, map[string]interface{}{
		"ip_address":    "10.1.1.1",
		"location":      "datacenter1",
		"secret_groups": "lab-creds",
	})
	if result.IsError {
		t.Fatalf("Expected success, got error: %v", result.Content)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "job-42") {
		t.Error("Result should contain the job ID")
	}
	if !strings.Contains(text, "datacenter1 -> loc-1") {
		t.Errorf("Result should show the location resolution, got: %s", text)
	}
	if !strings.Contains(text, "Platform: autodetect") {
		t.Errorf("Unspecified platform should report autodetect, got: %s", text)
	}
}

func TestHandleOnboardDevice_MissingRequired(t *testing.T) {
	deps := newTestDeps(t, "http://localhost:1")
	handler := handleOnboardDevice(deps)

	result := callTool(t, handler, map[string]interface{}{
		"ip_address": "10.1.1.1",
	})
	if !result.IsError {
		t.Fatal("Expected error result for missing location")
	}
	if !strings.Contains(resultText(t, result), "location is required") {
		t.Error("Error should name the missing argument")
	}
}

func TestHandleOnboardDevice_ResolutionFailure(t *testing.T) {
	// Location resolves but nothing else does.
	mockServer := onboardBackend(t, map[string]string{"locations": "loc-1"}, "never")
	defer mockServer.Close()

	deps := newTestDeps(t, mockServer.URL)
	handler := handleOnboardDevice(deps)

	result := callTool(t, handler, map[string]interface{}{
		"ip_address":    "10.1.1.1",
		"location":      "datacenter1",
		"secret_groups": "missing-creds",
	})
	if !result.IsError {
		t.Fatal("Expected error result when resolution fails")
	}
	text := resultText(t, result)
	if !strings.Contains(text, "secrets_group") {
		t.Errorf("Error should name the failed resolution, got: %s", text)
	}
	if !strings.Contains(text, "Troubleshooting") {
		t.Error("Error should include troubleshooting guidance")
	}
}

func TestHandleCacheStats(t *testing.T) {
	deps := newTestDeps(t, "http://localhost:1")
	deps.idCache.Set("location", "dc1", "loc-1")
	deps.idCache.Get("location", "dc1")
	deps.idCache.Get("location", "nowhere")

	handler := handleCacheStats(deps)
	result := callTool(t, handler, map[string]interface{}{})
	text := resultText(t, result)
	if !strings.Contains(text, "Entries: 1") {
		t.Errorf("Expected entry count, got: %s", text)
	}
	if !strings.Contains(text, "Hits: 1") {
		t.Errorf("Expected hit count, got: %s", text)
	}
	if !strings.Contains(text, "Misses: 1") {
		t.Errorf("Expected miss count, got: %s", text)
	}
}

func TestHandleCacheStats_Clear(t *testing.T) {
	deps := newTestDeps(t, "http://localhost:1")
	deps.idCache.Set("location", "dc1", "loc-1")

	handler := handleCacheStats(deps)
	result := callTool(t, handler, map[string]interface{}{"clear": true})
	if !strings.Contains(resultText(t, result), "Cleared: true") {
		t.Error("Result should confirm the clear")
	}
	if deps.idCache.Stats().Entries != 0 {
		t.Error("Cache should be empty after clear")
	}
}
