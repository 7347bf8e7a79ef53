package main

import (
	"encoding/json"
	"fmt"
	"strings"
)

// restItem is the loosely typed shape of one REST list entry. Nautobot
// objects carry display/name plus a handful of common attributes.
type restItem map[string]any

// formatRESTList renders a REST list response as a readable summary. Only
// the first ten items are expanded; the caller can narrow with a better
// search or a resource hint.
func formatRESTList(endpoint string, body []byte) string {
	var listResp struct {
		Count   int        `json:"count"`
		Results []restItem `json:"results"`
	}
	if err := json.Unmarshal(body, &listResp); err != nil || listResp.Results == nil {
		// Not a paginated list; return the raw payload.
		return fmt.Sprintf("Result from REST API endpoint `%s`:\n\n%s", endpoint, string(body))
	}

	total := listResp.Count
	if total == 0 {
		total = len(listResp.Results)
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Found %d items from REST API endpoint `%s`:\n\n", total, endpoint))

	shown := listResp.Results
	if len(shown) > 10 {
		shown = shown[:10]
	}
	for i, item := range shown {
		b.WriteString(fmt.Sprintf("**%d. %s**\n", i+1, itemDisplayName(item)))
		if details := itemDetails(item); details != "" {
			b.WriteString("   " + details + "\n")
		}
		b.WriteString("\n")
	}
	if remaining := len(listResp.Results) - len(shown); remaining > 0 {
		b.WriteString(fmt.Sprintf("... and %d more items.\n\n", remaining))
	}

	b.WriteString(fmt.Sprintf("**API Endpoint**: `%s`\n", endpoint))
	b.WriteString(fmt.Sprintf("**Total Count**: %d\n", total))
	return b.String()
}

func itemDisplayName(item restItem) string {
	for _, key := range []string{"display", "name", "label", "model", "address", "prefix", "id"} {
		if v, ok := item[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return "(unnamed)"
}

// itemDetails pulls a few common descriptive fields out of a REST item.
func itemDetails(item restItem) string {
	var details []string
	for _, field := range []string{"description", "status", "type", "role", "url"} {
		v, ok := item[field]
		if !ok || v == nil {
			continue
		}
		switch vv := v.(type) {
		case string:
			if vv != "" {
				details = append(details, fmt.Sprintf("%s: %s", field, vv))
			}
		case map[string]any:
			// Nested objects render by display or name.
			if s := itemDisplayName(vv); s != "(unnamed)" {
				details = append(details, fmt.Sprintf("%s: %s", field, s))
			}
		}
	}
	return strings.Join(details, " | ")
}

// onboardDetail is one resolved name-to-ID line in the onboarding summary.
type onboardDetail struct {
	Label string
	Value string
}

// formatOnboardResult renders the onboarding confirmation with the
// name-to-ID resolution trail.
func formatOnboardResult(ipAddress, jobID string, details []onboardDetail) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Device %s successfully queued for onboarding\n\n", ipAddress))
	b.WriteString(fmt.Sprintf("**Job ID**: %s\n\n", jobID))
	b.WriteString("**Device Details** (names resolved to IDs):\n")
	b.WriteString(fmt.Sprintf("  - IP Address: %s\n", ipAddress))
	for _, d := range details {
		b.WriteString(fmt.Sprintf("  - %s: %s\n", d.Label, d.Value))
	}
	b.WriteString("\nUse `query_rest_api_fallback` with resource_hint 'extras/job-results' to check job progress.\n")
	return b.String()
}
