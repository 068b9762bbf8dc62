package pipeline

import (
	"fmt"
	"strings"

	"github.com/sells-group/leadscout/internal/model"
)

// systemPrompt pins the upstream to structured output. The extractor
// still tolerates prose; this just raises the odds of a clean array.
const systemPrompt = "You are a local business research assistant. " +
	"You find real, currently operating businesses using grounded web data. " +
	"Respond with a JSON array only. Do not invent contact details; " +
	"use null for anything you cannot verify."

const promptTemplate = `Find up to %d real businesses in the following categories: %s, located in or near %s, within a %.0f km radius.

Return a JSON array where each element has exactly these fields:
"name", "address", "phone", "email", "website", "lat", "lng", "rating", "reviewCount", "mapsUrl", "owner".

Use null for any field you cannot verify. Return an empty array if no businesses match.`

// BuildPrompt constructs the upstream request text deterministically
// from the query: category order is preserved (duplicates removed), and
// the count cap is explicit. The same query always produces the same
// prompt even though the upstream itself is non-deterministic.
func BuildPrompt(query model.SearchQuery, maxLeads int) string {
	cats := dedupe(query.Categories)
	return fmt.Sprintf(promptTemplate, maxLeads, strings.Join(cats, ", "), query.City, query.RadiusKm)
}

// SystemPrompt returns the system instruction paired with every search
// prompt.
func SystemPrompt() string {
	return systemPrompt
}

// dedupe removes duplicate categories while preserving first-seen order.
func dedupe(categories []string) []string {
	seen := make(map[string]struct{}, len(categories))
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		key := strings.ToLower(c)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}
